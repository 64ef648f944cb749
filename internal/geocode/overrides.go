package geocode

import "strings"

// Override maps a commercial entity to fixed coordinates. Match is a
// case-insensitive substring: "Meta AI" and "Meta Platforms" both hit the
// "meta" entry.
type Override struct {
	// Match is the substring to look for in the institution name.
	Match string `yaml:"match"`

	// Location is returned verbatim for matching names.
	Location Location `yaml:"location"`
}

// defaultOverrides covers companies that appear frequently in machine
// learning citation graphs. Coordinates point at the main campus.
var defaultOverrides = []Override{
	{Match: "meta", Location: Location{Lat: 37.4848, Lon: -122.1484, City: "Menlo Park", State: "California", Country: "United States"}},
	{Match: "facebook", Location: Location{Lat: 37.4848, Lon: -122.1484, City: "Menlo Park", State: "California", Country: "United States"}},
	{Match: "google", Location: Location{Lat: 37.4220, Lon: -122.0841, City: "Mountain View", State: "California", Country: "United States"}},
	{Match: "deepmind", Location: Location{Lat: 51.5332, Lon: -0.1260, City: "London", Country: "United Kingdom"}},
	{Match: "microsoft", Location: Location{Lat: 47.6423, Lon: -122.1392, City: "Redmond", State: "Washington", Country: "United States"}},
	{Match: "apple", Location: Location{Lat: 37.3349, Lon: -122.0090, City: "Cupertino", State: "California", Country: "United States"}},
	{Match: "amazon", Location: Location{Lat: 47.6150, Lon: -122.3394, City: "Seattle", State: "Washington", Country: "United States"}},
	{Match: "nvidia", Location: Location{Lat: 37.3708, Lon: -121.9671, City: "Santa Clara", State: "California", Country: "United States"}},
	{Match: "openai", Location: Location{Lat: 37.7621, Lon: -122.4146, City: "San Francisco", State: "California", Country: "United States"}},
	{Match: "ibm", Location: Location{Lat: 41.1081, Lon: -73.7204, City: "Armonk", State: "New York", Country: "United States"}},
	{Match: "intel", Location: Location{Lat: 37.3875, Lon: -121.9636, City: "Santa Clara", State: "California", Country: "United States"}},
	{Match: "huawei", Location: Location{Lat: 22.6520, Lon: 113.8832, City: "Shenzhen", Country: "China"}},
	{Match: "tencent", Location: Location{Lat: 22.5431, Lon: 113.9342, City: "Shenzhen", Country: "China"}},
	{Match: "samsung", Location: Location{Lat: 37.2636, Lon: 127.0286, City: "Suwon", Country: "South Korea"}},
}

// lookupOverride returns the override location for the institution name, if
// any entry's substring matches. The first matching entry wins.
func lookupOverride(overrides []Override, name string) (Location, bool) {
	lower := strings.ToLower(name)
	for _, o := range overrides {
		if o.Match != "" && strings.Contains(lower, strings.ToLower(o.Match)) {
			return o.Location, true
		}
	}
	return Location{}, false
}
