// Package config loads hkt.json, the console service configuration.
//
// Values come from three layers, later ones winning: built-in defaults,
// the JSON file, and HKT_* environment variables (optionally seeded from a
// .env file).
package config
