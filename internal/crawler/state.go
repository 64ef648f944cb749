package crawler

// State identifies how far the crawl for one author has advanced.
type State int

const (
	// StateInit is the state before any network call.
	StateInit State = iota

	// StateProfileFetched means the author profile and publication list
	// are loaded.
	StateProfileFetched

	// StatePublicationsFilled means per-publication metadata, including
	// citation-cluster IDs, is loaded.
	StatePublicationsFilled

	// StateCitingEdgesCollected means every citation cluster has been
	// walked and the edge set is built.
	StateCitingEdgesCollected

	// StateAffiliationsResolved means citing-author affiliations have
	// been fetched.
	StateAffiliationsResolved

	// StateDone means the crawl finished.
	StateDone

	// StateFailed means a non-retryable error stopped the crawl.
	StateFailed
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateProfileFetched:
		return "profile_fetched"
	case StatePublicationsFilled:
		return "publications_filled"
	case StateCitingEdgesCollected:
		return "citing_edges_collected"
	case StateAffiliationsResolved:
		return "affiliations_resolved"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
