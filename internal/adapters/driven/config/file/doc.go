// Package file provides the TOML-backed ConfigStore that holds erpdoc
// settings in ~/.erpdoc/config.toml.
package file
