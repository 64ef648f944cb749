package report

import (
	"io"
	"strconv"

	"github.com/nao1215/citemap/internal/model"
	"github.com/nao1215/markdown"
)

// MarkdownWriter outputs a run summary in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(report *model.CitationReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeInstitutions(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the summary header with crawl information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CitationReport) {
	md.H1("Citation Map Summary")
	md.PlainText("")

	author := report.AuthorName
	if author == "" {
		author = "-"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Scholar ID", "`" + report.ScholarID + "`"},
			{"Author", author},
			{"Affiliation Mode", string(report.Mode)},
			{"Date Generated", report.DateGenerated.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.CitationReport) string {
	switch {
	case report.Error != nil:
		return "❌ Error - " + report.ErrorMessage
	case report.EdgesFromCheckpoint || report.AffiliationsFromCheckpoint:
		return "✅ Complete (resumed from checkpoint)"
	default:
		return "✅ Complete"
	}
}

// writeSummary writes the crawl statistics section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.CitationReport) {
	md.H2("Crawl Statistics")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Stage", "Count"},
		Rows: [][]string{
			{"Publications", strconv.Itoa(len(report.Publications))},
			{"Citing Edges", strconv.Itoa(len(report.Edges))},
			{"Raw Affiliations", strconv.Itoa(len(report.RawAffiliations))},
			{"Cleaned Affiliations", strconv.Itoa(len(report.CleanedAffiliations))},
			{"Unique Institutions", strconv.Itoa(report.UniqueInstitutions)},
			{"Resolved Institutions", strconv.Itoa(report.ResolvedInstitutions)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, report)
}

// writeAlert writes an appropriate alert based on resolution results.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.CitationReport) {
	unresolved := report.UniqueInstitutions - report.ResolvedInstitutions
	switch {
	case report.Error != nil:
		md.Cautionf("The run ended with an error: %s", report.ErrorMessage)
	case report.UniqueInstitutions == 0:
		md.Note("No affiliations were extracted from the citing authors.")
	case unresolved > 0:
		md.Warningf(
			"%d institution(s) could not be geocoded and are missing from the map.",
			unresolved,
		)
	default:
		md.Tip("All institutions were geocoded successfully.")
	}
	md.PlainText("")
}

// writeInstitutions writes the resolved institutions grouped with their
// citing authors.
func (w *MarkdownWriter) writeInstitutions(md *markdown.Markdown, report *model.CitationReport) {
	md.H2("Institutions")
	md.PlainText("")

	pins := buildPins(report.Geocoded, false)
	if len(pins) == 0 {
		md.PlainText("No institutions were resolved.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(pins))
	for i, p := range pins {
		rows[i] = []string{
			p.Institution,
			truncateString(joinAuthors(p.Authors), 80),
			strconv.FormatFloat(p.Lat, 'f', 4, 64),
			strconv.FormatFloat(p.Lon, 'f', 4, 64),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Institution", "Citing Authors", "Latitude", "Longitude"},
		Rows:   rows,
	})
	md.PlainText("")
}

// joinAuthors renders an author list for a table cell.
func joinAuthors(authors []string) string {
	if len(authors) == 0 {
		return "-"
	}
	out := authors[0]
	for _, a := range authors[1:] {
		out += " & " + a
	}
	return out
}

// writeFooter writes the summary footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [citemap](https://github.com/nao1215/citemap)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
