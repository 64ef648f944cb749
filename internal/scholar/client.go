package scholar

import (
	"context"
	"log/slog"

	"github.com/nao1215/citemap/internal/gateway"
	"github.com/nao1215/citemap/internal/model"
)

// Fetcher is the narrow gateway contract the client depends on.
// *gateway.Gateway satisfies it; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*gateway.Page, error)
}

// Client issues the typed Scholar operations the crawler needs. It never
// paces or retries itself; the gateway underneath owns that.
type Client struct {
	fetcher Fetcher
	baseURL string
	logger  *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different Scholar endpoint (tests).
func WithBaseURL(base string) ClientOption {
	return func(c *Client) {
		c.baseURL = base
	}
}

// WithClientLogger sets a custom logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client over the given fetcher.
func NewClient(fetcher Fetcher, opts ...ClientOption) *Client {
	c := &Client{
		fetcher: fetcher,
		baseURL: DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// BaseURL returns the Scholar endpoint this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthorProfile fetches an author's profile and full publication list,
// following the profile's own pagination until a page comes back short.
func (c *Client) AuthorProfile(ctx context.Context, authorID string) (*Profile, error) {
	var profile *Profile

	for start := 0; ; start += publicationPageSize {
		page, err := c.fetcher.Fetch(ctx, ProfileURL(c.baseURL, authorID, start))
		if err != nil {
			if profile != nil {
				// Later pages failing leaves the publications
				// gathered so far usable.
				c.logger.Warn("profile pagination stopped early",
					"author_id", authorID, "start", start, "error", err)
				return profile, nil
			}
			return nil, err
		}

		doc, err := Document(page)
		if err != nil {
			return profile, err
		}
		parsed, err := ParseProfile(doc, page.URL)
		if err != nil {
			if profile != nil {
				return profile, nil
			}
			return nil, err
		}

		if profile == nil {
			profile = parsed
		} else {
			profile.Publications = append(profile.Publications, parsed.Publications...)
		}

		if len(parsed.Publications) < publicationPageSize {
			return profile, nil
		}
	}
}

// FillPublication fetches a publication's detail page and returns a copy of
// the reference with its citation-cluster IDs filled in. The input is not
// mutated.
func (c *Client) FillPublication(ctx context.Context, authorID string, ref model.PublicationRef) (model.PublicationRef, error) {
	if ref.ID == "" || len(ref.CitesID) > 0 {
		// Nothing to fill: either the profile row already carried the
		// cluster IDs, or the row has no detail page.
		return ref, nil
	}

	page, err := c.fetcher.Fetch(ctx, PublicationURL(c.baseURL, authorID, ref.ID))
	if err != nil {
		return ref, err
	}
	doc, err := Document(page)
	if err != nil {
		return ref, err
	}

	filled := ref
	filled.CitesID = ParsePublicationCites(doc)
	return filled, nil
}

// CitingAuthorProfile fetches a citing author's profile page. Only the
// identity fields matter to callers; the publication list is parsed but
// unused.
func (c *Client) CitingAuthorProfile(ctx context.Context, authorID string) (*Profile, error) {
	page, err := c.fetcher.Fetch(ctx, ProfileURL(c.baseURL, authorID, 0))
	if err != nil {
		return nil, err
	}
	doc, err := Document(page)
	if err != nil {
		return nil, err
	}
	return ParseProfile(doc, page.URL)
}

// OrganizationName resolves a verified-organization ID to the official
// organization name.
func (c *Client) OrganizationName(ctx context.Context, organizationID string) (string, error) {
	page, err := c.fetcher.Fetch(ctx, OrganizationURL(c.baseURL, organizationID))
	if err != nil {
		return "", err
	}
	doc, err := Document(page)
	if err != nil {
		return "", err
	}
	return ParseOrganization(doc, page.URL)
}
