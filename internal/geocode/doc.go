// Package geocode resolves institution names to geographic coordinates and
// administrative address components.
//
// Resolution runs strictly sequentially: the Nominatim usage policy forbids
// bulk parallel queries, so this stage never issues concurrent requests no
// matter how the rest of the pipeline is configured. To keep the request
// count down, each distinct institution name is resolved at most once and
// the result is broadcast to every record referencing it.
//
// A fixed override table short-circuits well-known commercial entities:
// generic geocoders place university campuses well but corporate campuses
// poorly, so those resolve to hard-coded headquarters coordinates without
// touching the geocoding service.
package geocode
