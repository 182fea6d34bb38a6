// Package config loads, defaults, and validates the ollamux configuration.
//
// Configuration is read from a single YAML file, merged with defaults and
// OLLAMUX_* environment variable overrides, and validated in full before the
// listener starts. An invalid or empty provider table is fatal at startup;
// configuration errors are never discovered mid-flight because the resulting
// provider table is immutable.
//
// The loading sequence is:
//  1. Parse YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
//
// When watch mode is enabled the file is re-run through the same sequence on
// change and the provider table is swapped atomically; a reload that fails
// validation keeps the previous table.
package config
