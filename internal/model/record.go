package model

// PublicationRef identifies one publication by the root author.
// It is created when the author profile is fetched and is immutable afterward.
type PublicationRef struct {
	// ID is the Google Scholar per-profile publication identifier
	// (the citation_for_view value).
	ID string `json:"id"`

	// Title is the publication title as shown on the profile.
	Title string `json:"title"`

	// CitesID is the citation-cluster identifier used to enumerate citing
	// papers (the cites= query parameter). A publication may carry several
	// cluster IDs when Scholar has split its citation record; each one is
	// walked independently.
	CitesID []string `json:"cites_id,omitempty"`

	// NumCitations is the citation count reported on the profile page.
	// Informational only; the crawl discovers the actual citing papers.
	NumCitations int `json:"num_citations"`
}

// CitationEdge is one edge in the citation graph: a citing author and the
// paper through which they cite one of the root author's publications.
//
// Edges are never mutated after creation. The same (author, paper) pair may
// appear under multiple publications; deduplication is the aggregator's job,
// not the crawler's.
type CitationEdge struct {
	// CitedPaperTitle is the title of the root author's publication.
	CitedPaperTitle string `json:"cited_paper_title"`

	// CitingAuthorID is the Google Scholar ID of the citing author.
	// Empty when the citing paper's byline carries no profile link; such
	// edges are dropped before affiliation resolution.
	CitingAuthorID string `json:"citing_author_id"`

	// CitingPaperTitle is the title of the citing paper.
	CitingPaperTitle string `json:"citing_paper_title"`
}

// AffiliationRecord ties a citing author to one affiliation string.
//
// The same type carries both raw and cleaned records: raw records hold the
// free-form text from the author's profile (possibly multi-institution,
// possibly with job-title noise), cleaned records hold one normalized
// institution name each. One raw record fans out into zero or more cleaned
// records, and the two sets are merged before geocoding so a string that
// resists cleaning is still geocoded in its raw form.
type AffiliationRecord struct {
	// CitingAuthorName is the display name from the citing author's profile.
	CitingAuthorName string `json:"citing_author_name"`

	// CitingPaperTitle is the title of the citing paper.
	CitingPaperTitle string `json:"citing_paper_title"`

	// CitedPaperTitle is the title of the root author's cited publication.
	CitedPaperTitle string `json:"cited_paper_title"`

	// Affiliation is the affiliation text: free-form for raw records,
	// a single institution name for cleaned records.
	Affiliation string `json:"affiliation"`
}

// GeocodedRecord is an AffiliationRecord resolved to geographic coordinates
// and administrative address components.
//
// One institution name is resolved at most once; every record referencing
// the same name shares identical coordinates.
type GeocodedRecord struct {
	AffiliationRecord

	// Latitude and Longitude are the forward-geocoded coordinates.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Administrative address components from the reverse-geocode round
	// trip. Any of these may be empty when the geocoder does not report
	// the component.
	County  string `json:"county,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
}
