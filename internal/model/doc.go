// Package model defines the core data structures used throughout citemap.
//
// This package contains the following main types:
//   - PublicationRef: One publication by the root author
//   - CitationEdge: One (citing author, citing paper) edge under a publication
//   - AffiliationRecord: One citing author with an affiliation string
//   - GeocodedRecord: An AffiliationRecord resolved to coordinates
//   - CitationReport: The accumulated result of one pipeline run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, normalizer, geocode, report) need
// to use these types, so centralizing them prevents import cycles.
//
// All record types are comparable structs of scalar fields. The pipeline
// deduplicates collections with set semantics at every stage boundary, and
// comparable records let the aggregator use them directly as map keys.
package model
