// Package scholar models the Google Scholar pages the pipeline traverses:
// author profiles, publication detail pages, citation-search result pages,
// and verified-organization pages.
//
// The package contains three layers:
//   - URL builders for each page type
//   - goquery-based extractors that turn raw pages into typed rows
//   - a Client that combines the two over a gateway, plus the Walker that
//     paginates citation-search result sets
//
// Design decision: We use goquery for extraction rather than walking the
// node tree by hand because Scholar's markup is deeply nested and selector
// expressions keep the extraction rules close to the page structure they
// target. Parse failures are classified as malformed and skip the affected
// unit; they never abort a walk.
package scholar
