package geocode

import (
	"context"
	"log/slog"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"

	"github.com/nao1215/citemap/internal/model"
)

// DefaultMaxAttempts is how many forward+reverse round trips one name gets
// before it is dropped.
const DefaultMaxAttempts = 3

// Location is a resolved position with whatever administrative components
// the reverse geocode reported.
type Location struct {
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
	County  string  `yaml:"county,omitempty"`
	City    string  `yaml:"city,omitempty"`
	State   string  `yaml:"state,omitempty"`
	Country string  `yaml:"country,omitempty"`
}

// Stats counts resolution outcomes for one run. Resolved below Unique is
// the expected shape under partial failure, not an error.
type Stats struct {
	// Unique is the number of distinct institution names seen.
	Unique int

	// Resolved is how many of them produced coordinates.
	Resolved int
}

// Resolver maps institution names to Locations through a forward-geocode
// plus reverse-geocode round trip, with overrides and bounded attempts.
//
// Resolver methods must not be called concurrently; see the package
// comment for why this stage is single-threaded.
type Resolver struct {
	geocoder    geo.Geocoder
	maxAttempts int
	overrides   []Override
	logger      *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithGeocoder substitutes the geocoding service (tests use fakes).
func WithGeocoder(g geo.Geocoder) ResolverOption {
	return func(r *Resolver) {
		r.geocoder = g
	}
}

// WithMaxAttempts bounds the round trips per name.
func WithMaxAttempts(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithExtraOverrides appends user-supplied override entries. They are
// consulted after the built-in table.
func WithExtraOverrides(overrides []Override) ResolverOption {
	return func(r *Resolver) {
		r.overrides = append(r.overrides, overrides...)
	}
}

// WithResolverLogger sets a custom logger.
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// NewResolver creates a Resolver backed by Nominatim unless WithGeocoder
// overrides it.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		maxAttempts: DefaultMaxAttempts,
		overrides:   defaultOverrides,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.geocoder == nil {
		r.geocoder = openstreetmap.Geocoder()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// ResolveAll geocodes the institution names of the given records and fans
// the coordinates back out to every record. Records whose name never
// resolves are absent from the output.
//
// Names are resolved sequentially and each distinct name exactly once.
func (r *Resolver) ResolveAll(ctx context.Context, records []model.AffiliationRecord) ([]model.GeocodedRecord, Stats) {
	// Group record indices per distinct name, keeping first-seen order.
	order := make([]string, 0, len(records))
	byName := make(map[string][]int)
	for i, rec := range records {
		if rec.Affiliation == "" {
			continue
		}
		if _, seen := byName[rec.Affiliation]; !seen {
			order = append(order, rec.Affiliation)
		}
		byName[rec.Affiliation] = append(byName[rec.Affiliation], i)
	}

	stats := Stats{Unique: len(order)}
	out := make([]model.GeocodedRecord, 0, len(records))

	for _, name := range order {
		if ctx.Err() != nil {
			break
		}

		loc, ok := r.resolve(ctx, name)
		if !ok {
			r.logger.Warn("institution not resolved, dropping", "institution", name)
			continue
		}
		stats.Resolved++

		for _, idx := range byName[name] {
			out = append(out, model.GeocodedRecord{
				AffiliationRecord: records[idx],
				Latitude:          loc.Lat,
				Longitude:         loc.Lon,
				County:            loc.County,
				City:              loc.City,
				State:             loc.State,
				Country:           loc.Country,
			})
		}
	}

	r.logger.Info("geocoding complete",
		"unique_institutions", stats.Unique,
		"resolved", stats.Resolved,
	)
	return out, stats
}

// resolve maps one name to a Location: override table first, then up to
// maxAttempts round trips against the geocoding service.
func (r *Resolver) resolve(ctx context.Context, name string) (Location, bool) {
	if loc, ok := lookupOverride(r.overrides, name); ok {
		return loc, true
	}

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return Location{}, false
		}

		pos, err := r.geocoder.Geocode(name)
		if err != nil || pos == nil {
			continue
		}

		loc := Location{Lat: pos.Lat, Lon: pos.Lng}

		// The reverse trip recovers the administrative address; its
		// failure costs the attempt, not just the components, so a
		// later attempt can still fill them.
		addr, err := r.geocoder.ReverseGeocode(pos.Lat, pos.Lng)
		if err != nil || addr == nil {
			continue
		}
		loc.County = addr.County
		loc.City = addr.City
		loc.State = addr.State
		loc.Country = addr.Country

		return loc, true
	}

	return Location{}, false
}
