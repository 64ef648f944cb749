// Package crawler orchestrates the citation-provenance traversal for one
// author: profile, publications, citing papers, citing authors, and their
// affiliations.
//
// The crawl advances through a fixed sequence of states:
//
//	Init -> ProfileFetched -> PublicationsFilled -> CitingEdgesCollected ->
//	AffiliationsResolved -> Done
//
// with Failed reachable from any state on a non-retryable error. Individual
// unit failures (one publication, one citation page, one author profile)
// degrade to partial results and never abort the run; only failures that
// make the whole traversal meaningless do.
//
// Two worker pools bound the external calls: a small pool for the
// citation-page walks, which hit the source's tightest abuse detection, and
// a larger pool for publication fills and author-profile fetches. A pool
// size of one (or less) selects a sequential path with identical semantics.
// A failed worker never cancels its siblings.
package crawler
