// Package config loads, normalizes, and validates catalog configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// CATALOG_RESEGMENT_API_KEY. The Config type centralizes every knob the CLI
// needs: the library document path, the datastore directory, the embeddings
// sidecar path, and external service credentials.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
