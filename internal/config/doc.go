// Package config loads, normalizes, and validates divegraph configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the DIVEGRAPH_LOG_LEVEL
// environment override. Commands obtain every setting through this package so
// they receive absolute paths and canonical format names.
package config
