// Package main provides the entry point for the citemap CLI.
//
// citemap builds an interactive world map of the institutions citing a
// Google Scholar author. It crawls the author's citation graph, extracts
// and cleans the citing authors' affiliations, geocodes them, and exports
// the result as an HTML map and a CSV dataset.
//
// Usage:
//
//	citemap generate <scholar-id>
//	citemap render citation_info.csv
//
// See --help for all available options.
package main

// main is the entry point for citemap.
func main() {
	Execute()
}
