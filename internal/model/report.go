package model

import "time"

// AffiliationMode selects how citing-author affiliations are identified.
type AffiliationMode string

const (
	// ModeAggressive uses the self-reported affiliation string from the
	// author's profile panel. Higher recall, lower precision; the
	// normalizer cleans the noise afterwards.
	ModeAggressive AffiliationMode = "aggressive"

	// ModeConservative only trusts Scholar-verified organizations and
	// resolves the organization ID to its official name. Higher precision,
	// lower recall; cleaned output skips normalization entirely.
	ModeConservative AffiliationMode = "conservative"
)

// Valid reports whether the mode is one of the recognized values.
func (m AffiliationMode) Valid() bool {
	return m == ModeAggressive || m == ModeConservative
}

// CitationReport is the accumulated result of one pipeline run for a single
// Google Scholar author. Steps append their output collections; no step
// mutates a collection produced by an earlier step.
//
// Design decision: We use a single report struct threaded through all
// pipeline steps rather than per-step return values because it simplifies
// serialization, keeps partial results available after a failed step, and
// gives the exporters one place to read from.
type CitationReport struct {
	// ScholarID is the root author's Google Scholar ID.
	ScholarID string `json:"scholar_id"`

	// AuthorName is the root author's display name, filled once the
	// profile has been fetched.
	AuthorName string `json:"author_name,omitempty"`

	// Mode is the affiliation identification mode used for this run.
	Mode AffiliationMode `json:"mode"`

	// DateGenerated is when the pipeline run started.
	DateGenerated time.Time `json:"date_generated"`

	// Publications are the root author's publications from the profile.
	Publications []PublicationRef `json:"publications,omitempty"`

	// Edges are the discovered citation edges, deduplicated.
	Edges []CitationEdge `json:"edges,omitempty"`

	// RawAffiliations are the pre-normalization affiliation records.
	RawAffiliations []AffiliationRecord `json:"raw_affiliations,omitempty"`

	// CleanedAffiliations is the set fed to the geocoder: in aggressive
	// mode the union of raw and normalizer output, in conservative mode
	// the raw set unchanged.
	CleanedAffiliations []AffiliationRecord `json:"cleaned_affiliations,omitempty"`

	// Geocoded is the final dataset handed to the exporters.
	Geocoded []GeocodedRecord `json:"geocoded,omitempty"`

	// EdgesFromCheckpoint is true when the edge set was loaded from the
	// checkpoint store instead of being crawled.
	EdgesFromCheckpoint bool `json:"edges_from_checkpoint"`

	// AffiliationsFromCheckpoint is true when the raw affiliation set was
	// loaded from the checkpoint store.
	AffiliationsFromCheckpoint bool `json:"affiliations_from_checkpoint"`

	// UniqueInstitutions is the number of distinct institution names that
	// entered geocoding; ResolvedInstitutions counts how many resolved.
	// Resolved < Unique is expected under partial failure, not an error.
	UniqueInstitutions   int `json:"unique_institutions"`
	ResolvedInstitutions int `json:"resolved_institutions"`

	// PerformedSteps lists pipeline steps in execution order.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Error holds the first step error when a step failed.
	// ErrorMessage mirrors it for serialization.
	Error        error  `json:"-"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewCitationReport creates a report for the given Scholar ID.
func NewCitationReport(scholarID string, mode AffiliationMode) *CitationReport {
	return &CitationReport{
		ScholarID:     scholarID,
		Mode:          mode,
		DateGenerated: time.Now(),
	}
}
