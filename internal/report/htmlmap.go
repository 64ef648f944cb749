package report

import (
	"fmt"
	"hash/fnv"
	"html/template"
	"io"
	"strings"

	"github.com/nao1215/citemap/internal/model"
)

// pinColors is the palette for colorful pins. A pin's color is chosen by
// hashing the institution name, so re-renders of the same dataset are
// stable.
var pinColors = []string{
	"red", "blue", "green", "purple", "orange", "darkred",
	"cadetblue", "darkblue", "darkgreen", "darkviolet", "deeppink",
	"teal", "indigo", "maroon", "olive", "gray", "black", "chocolate",
}

// mapPin is one marker on the rendered map: an institution and every
// citing author resolved to it.
type mapPin struct {
	Lat         float64
	Lon         float64
	Institution string
	Authors     []string
	Color       string
}

// mapTemplate renders a self-contained Leaflet page. Tiles come from the
// public OpenStreetMap tile servers.
var mapTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Citation World Map</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
const map = L.map('map').setView([20, 0], 2);
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
	attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
{{range .Pins}}
L.circleMarker([{{.Lat}}, {{.Lon}}], {radius: 7, color: {{.Color}}, fillOpacity: 0.8})
	.bindPopup({{.Popup}})
	.addTo(map);
{{end}}
</script>
</body>
</html>
`))

// templatePin is the template-facing form of a pin.
type templatePin struct {
	Lat   float64
	Lon   float64
	Color string
	Popup string
}

// MapWriter renders the dataset as an interactive world map. Authors under
// the same institution share one pin.
type MapWriter struct {
	baseWriter

	// colorful assigns per-institution colors; false renders every pin
	// in the default blue.
	colorful bool
}

// NewMapWriter creates a MapWriter that outputs to the given writer.
func NewMapWriter(output io.Writer, colorful bool) *MapWriter {
	return &MapWriter{
		baseWriter: newBaseWriter(output),
		colorful:   colorful,
	}
}

// Write renders the map page for the report's geocoded records.
func (w *MapWriter) Write(report *model.CitationReport) (int, error) {
	return w.WriteRecords(report.Geocoded)
}

// WriteRecords renders the map page for an arbitrary record set, which is
// what the render command uses after loading a CSV.
func (w *MapWriter) WriteRecords(records []model.GeocodedRecord) (int, error) {
	pins := buildPins(records, w.colorful)

	data := struct{ Pins []templatePin }{Pins: make([]templatePin, 0, len(pins))}
	for _, p := range pins {
		data.Pins = append(data.Pins, templatePin{
			Lat:   p.Lat,
			Lon:   p.Lon,
			Color: p.Color,
			Popup: fmt.Sprintf("%s (%s)", p.Institution, strings.Join(p.Authors, " & ")),
		})
	}

	var buf strings.Builder
	if err := mapTemplate.Execute(&buf, data); err != nil {
		return 0, fmt.Errorf("render map: %w", err)
	}
	return w.output.Write([]byte(buf.String()))
}

// buildPins groups records by institution, preserving first-seen order.
func buildPins(records []model.GeocodedRecord, colorful bool) []mapPin {
	var order []string
	grouped := make(map[string]*mapPin)

	for _, rec := range records {
		if rec.Affiliation == "" {
			continue
		}
		pin, ok := grouped[rec.Affiliation]
		if !ok {
			pin = &mapPin{
				Lat:         rec.Latitude,
				Lon:         rec.Longitude,
				Institution: rec.Affiliation,
				Color:       "blue",
			}
			if colorful {
				pin.Color = colorFor(rec.Affiliation)
			}
			grouped[rec.Affiliation] = pin
			order = append(order, rec.Affiliation)
		}
		if rec.CitingAuthorName != "" && !contains(pin.Authors, rec.CitingAuthorName) {
			pin.Authors = append(pin.Authors, rec.CitingAuthorName)
		}
	}

	pins := make([]mapPin, 0, len(order))
	for _, name := range order {
		pins = append(pins, *grouped[name])
	}
	return pins
}

// colorFor picks a palette color by hashing the institution name.
func colorFor(institution string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(institution)) //nolint:errcheck // fnv never fails
	return pinColors[h.Sum32()%uint32(len(pinColors))]
}

// contains reports whether list already holds s.
func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
