// Package sqlite provides the SQLite implementation of driven.ResultStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Each record is stored as one row in documents (header
// fields, summary figures and the full result as JSON) plus one row per
// line item in line_items.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Data Location
//
// By default, the database is stored at ~/.erpdoc/data/results.db
package sqlite
