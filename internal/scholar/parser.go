package scholar

import (
	"bytes"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/citemap/internal/gateway"
	"github.com/nao1215/citemap/internal/model"
)

// Profile is the parsed form of an author profile page.
type Profile struct {
	// Name is the author's display name.
	Name string

	// Affiliation is the free-text affiliation line under the name.
	// Empty when the author left the panel blank.
	Affiliation string

	// OrganizationID is the verified-organization identifier linked from
	// the affiliation line. Empty for unverified authors.
	OrganizationID string

	// Publications lists the works on this profile page (one page only;
	// the client paginates).
	Publications []model.PublicationRef
}

// CitingRow is one result row on a citation-search page: a citing paper and
// the profile IDs of those of its authors who have one.
type CitingRow struct {
	// PaperTitle is the citing paper's title, with format markers such as
	// [HTML] and [PDF] removed.
	PaperTitle string

	// AuthorIDs are the Scholar IDs of the linked authors on the byline.
	// Empty when no author on the byline has a profile.
	AuthorIDs []string
}

// Document parses a fetched page into a goquery document. Parse failures
// are classified as malformed.
func Document(page *gateway.Page) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, &gateway.FetchError{Kind: gateway.KindMalformed, URL: page.URL, Err: err}
	}
	return doc, nil
}

// ParseProfile extracts the author identity and the publications listed on
// one profile page.
func ParseProfile(doc *goquery.Document, pageURL string) (*Profile, error) {
	name := strings.TrimSpace(doc.Find("#gsc_prf_in").First().Text())
	if name == "" {
		return nil, &gateway.FetchError{Kind: gateway.KindMalformed, URL: pageURL}
	}

	p := &Profile{
		Name:        name,
		Affiliation: strings.TrimSpace(doc.Find(".gsc_prf_il").First().Text()),
	}

	// The affiliation line links to the verified organization when there
	// is one. The link is absent for unverified authors.
	doc.Find(`a[href*="view_op=view_org"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		if id := queryParam(href, "org"); id != "" {
			p.OrganizationID = id
			return false
		}
		return true
	})

	doc.Find("tr.gsc_a_tr").Each(func(_ int, row *goquery.Selection) {
		titleLink := row.Find("a.gsc_a_at").First()
		title := strings.TrimSpace(titleLink.Text())
		if title == "" {
			return
		}

		ref := model.PublicationRef{Title: title}
		if href, ok := titleLink.Attr("href"); ok {
			ref.ID = queryParam(href, "citation_for_view")
		}

		citedBy := row.Find("a.gsc_a_ac").First()
		if n, err := strconv.Atoi(strings.TrimSpace(citedBy.Text())); err == nil {
			ref.NumCitations = n
		}
		if href, ok := citedBy.Attr("href"); ok {
			ref.CitesID = splitCitesParam(queryParam(href, "cites"))
		}

		p.Publications = append(p.Publications, ref)
	})

	return p, nil
}

// ParsePublicationCites extracts the citation-cluster IDs from a
// publication detail page. A publication with no citations yields none.
func ParsePublicationCites(doc *goquery.Document) []string {
	var ids []string
	seen := make(map[string]bool)

	doc.Find(`a[href*="cites="]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		for _, id := range splitCitesParam(queryParam(href, "cites")) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	})

	return ids
}

// ParseCitingPage extracts the result rows of one citation-search page.
// Rows whose title cannot be found are skipped; rows without author links
// are kept with an empty AuthorIDs slice so callers can count them.
func ParseCitingPage(doc *goquery.Document) []CitingRow {
	var rows []CitingRow

	doc.Find("div.gs_ri").Each(func(_ int, result *goquery.Selection) {
		titleTag := result.Find("h3.gs_rt").First()
		if titleTag.Length() == 0 {
			return
		}
		title := strings.TrimSpace(stripFormatMarkers(titleTag.Text()))
		if title == "" {
			return
		}

		row := CitingRow{PaperTitle: title}
		result.Find(`a[href*="user="]`).Each(func(_ int, link *goquery.Selection) {
			href, ok := link.Attr("href")
			if !ok {
				return
			}
			if id := queryParam(href, "user"); id != "" {
				row.AuthorIDs = append(row.AuthorIDs, id)
			}
		})

		rows = append(rows, row)
	})

	return rows
}

// NextPageURL finds the navigation anchor for the page after current and
// returns its absolute URL. The anchor's numeric label must equal exactly
// current+1; any other navigation link is skipped. When several anchors
// qualify the first one wins. Empty means the walk is done.
func NextPageURL(doc *goquery.Document, base string, current int) string {
	var next string

	doc.Find("a.gs_nma").EachWithBreak(func(_ int, nav *goquery.Selection) bool {
		label := strings.TrimSpace(nav.Text())
		n, err := strconv.Atoi(label)
		if err != nil || n != current+1 {
			return true
		}
		href, ok := nav.Attr("href")
		if !ok {
			return true
		}
		next = base + href
		return false
	})

	return next
}

// ParseOrganization extracts the official organization name from a
// verified-organization page.
func ParseOrganization(doc *goquery.Document, pageURL string) (string, error) {
	header := doc.Find("h2.gsc_authors_header").First()
	if header.Length() == 0 {
		return "", &gateway.FetchError{Kind: gateway.KindMalformed, URL: pageURL}
	}
	name := strings.ReplaceAll(header.Text(), "Learn more", "")
	return strings.TrimSpace(name), nil
}

// queryParam pulls one query parameter out of an href, which may be
// relative. Malformed hrefs yield the empty string.
func queryParam(href, key string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return u.Query().Get(key)
}

// splitCitesParam splits a cites= value, which may list several cluster IDs
// separated by commas.
func splitCitesParam(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// stripFormatMarkers removes the availability markers Scholar prefixes to
// result titles.
func stripFormatMarkers(title string) string {
	title = strings.ReplaceAll(title, "[HTML]", "")
	title = strings.ReplaceAll(title, "[PDF]", "")
	return title
}
