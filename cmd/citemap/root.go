package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for citemap.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "citemap",
		Short: "Map the institutions citing a Google Scholar author",
		Long: `citemap crawls the citation graph of a Google Scholar author, extracts
the affiliations of every citing author, geocodes them, and renders an
interactive world map of where the citations come from.

The crawl is checkpointed: an interrupted run resumes from the last
completed stage instead of starting over.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewGenerateCmd())
	cmd.AddCommand(NewRenderCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
