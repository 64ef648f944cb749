package main

import (
	"fmt"
	"os"

	"github.com/nao1215/citemap/internal/config"
	"github.com/nao1215/citemap/internal/report"
	"github.com/spf13/cobra"
)

// NewRenderCmd creates the render command.
func NewRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render <csv-file>",
		Short: "Render the world map from a previously exported CSV dataset",
		Long: `Render rebuilds the interactive world map from a CSV dataset written
by a previous generate run, without crawling anything.

This is useful for restyling the map (pin colors, output path) or for
sharing a map built from a dataset someone else produced.

Examples:
  # Rebuild citation_map.html from the default dataset
  citemap render citation_info.csv

  # Uniform pin color, custom output path
  citemap render --pin-color=false -o map.html citation_info.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runRenderCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultOutputHTML,
		"Destination for the world-map page")
	cmd.Flags().Bool("pin-color", true,
		"Color map pins per institution instead of uniform blue")

	return cmd
}

// runRenderCmd executes the render command.
func runRenderCmd(cmd *cobra.Command, args []string) error {
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	colorful, err := cmd.Flags().GetBool("pin-color")
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	records, err := report.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("dataset %s holds no records", args[0])
	}

	if err := writeToFile(output, func(out *os.File) error {
		_, err := report.NewMapWriter(out, colorful).WriteRecords(records)
		return err
	}); err != nil {
		return fmt.Errorf("failed to write map: %w", err)
	}

	fmt.Printf("Map written to %s (%d records)\n", output, len(records))
	return nil
}
