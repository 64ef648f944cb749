// Package report exports the final dataset in the supported formats:
//   - CSV holding the full tuple schema
//   - an interactive world-map HTML page with one pin per institution
//   - a markdown run summary with per-stage counts
//
// Writers receive a completed CitationReport and are independent of how
// the pipeline produced it; the map writer can also re-export from a CSV
// written by an earlier run.
package report
