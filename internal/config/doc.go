// Package config holds the runtime configuration for citemap.
//
// The Config struct is populated from CLI flags, optionally overlaid with a
// .citemap YAML file, and passed through the application via dependency
// injection rather than global state. Validate runs once after CLI parsing
// so misconfiguration fails fast, before any network call.
package config
