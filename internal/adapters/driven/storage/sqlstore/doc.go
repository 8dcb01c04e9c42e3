// Package sqlstore provides a database/sql implementation of the driven store ports.
//
// Two drivers are supported behind the same queries:
//
//   - SQLite through modernc.org/sqlite, a pure Go implementation that needs
//     no CGO. This is the default and stores data under ~/.contestcal/data.
//   - PostgreSQL through github.com/jackc/pgx/v5/stdlib, selected when the
//     DSN starts with postgres:// or postgresql://.
//
// Queries are written with ? placeholders and rebound to $n for PostgreSQL.
// Times are stored as RFC 3339 text in UTC in both dialects.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory, one subdirectory per dialect. Applied versions are
// recorded in schema_migrations.
//
// # Thread Safety
//
// All operations are safe for concurrent use. Every user mutation is a single
// statement keyed by user ID.
package sqlstore
