package scholar

import (
	"fmt"
	"net/url"
)

// DefaultBaseURL is the public Google Scholar endpoint. Tests point the
// client at a local server instead.
const DefaultBaseURL = "https://scholar.google.com"

// publicationPageSize is how many publications one profile page lists.
// 100 is the maximum Scholar accepts.
const publicationPageSize = 100

// ProfileURL returns the author profile page, listing publications starting
// at the given offset.
func ProfileURL(base, authorID string, start int) string {
	return fmt.Sprintf("%s/citations?hl=en&user=%s&cstart=%d&pagesize=%d",
		base, url.QueryEscape(authorID), start, publicationPageSize)
}

// PublicationURL returns the detail page for one publication on an author's
// profile.
func PublicationURL(base, authorID, publicationID string) string {
	return fmt.Sprintf("%s/citations?view_op=view_citation&hl=en&user=%s&citation_for_view=%s",
		base, url.QueryEscape(authorID), url.QueryEscape(publicationID))
}

// CitationsURL returns the first citation-search result page for a citation
// cluster: every paper citing the publication behind citesID.
func CitationsURL(base, citesID string) string {
	return fmt.Sprintf("%s/scholar?hl=en&cites=%s", base, url.QueryEscape(citesID))
}

// OrganizationURL returns the verified-organization page carrying the
// organization's official name.
func OrganizationURL(base, organizationID string) string {
	return fmt.Sprintf("%s/citations?view_op=view_org&hl=en&org=%s",
		base, url.QueryEscape(organizationID))
}
