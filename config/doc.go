// Package config loads the service configuration from a TOML file.
//
// A missing key keeps its default, so a file only needs the settings it
// changes:
//
//	[storage]
//	backend = "sqlite"
//	path = "data/skillmatch.db"
//
//	[ai]
//	host = "http://gpu-box:11434"
//	timeout = "1m"
//
//	[search]
//	threshold = 0.55
package config
