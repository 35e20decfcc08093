// Package database provides the SQLite run history for cikparser.
//
// When history is enabled every conversion, successful or not, is recorded
// with its URLs, schema and outcome. The history is a ledger only: nothing in
// it is read back into a conversion, so it never acts as a response cache.
//
// The database is a single file (via modernc.org/sqlite, CGO-free) under the
// XDG data directory.
package database
