// Package pipeline provides a framework for executing the citation-map
// stages in sequence.
//
// A run moves one CitationReport through three steps: crawl (checkpoint
// aware), normalize (mode aware), and geocode. Each step receives the
// accumulated report and appends its output collections.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls because:
//  1. It allows easy addition/removal of steps without modifying core logic
//  2. It provides consistent error handling and logging across steps
//  3. It supports cancellation via context for long-running crawls
//
// The pipeline always tries to surface the best-effort dataset it can:
// with continue-on-error enabled, a failed step records its error in the
// report and later steps still run over whatever was collected.
package pipeline
