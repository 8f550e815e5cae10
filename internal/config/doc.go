// Package config loads, normalizes, and validates Cadenza configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENROUTER_API_KEY. The Config type centralizes every knob the CLI and the
// generation pipeline need: the completion service, the Wikipedia lookup, the
// quality gate, and where entries and logs live on disk.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
