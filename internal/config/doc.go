// Package config loads, normalizes, and validates scrivener configuration.
//
// It supplies repository defaults, expands user paths (tilde shortcuts and
// environment variables), reads TOML files, and validates naming and batch
// settings. Always obtain settings through this package so downstream code
// receives absolute paths and canonical log formats.
package config
