// Package database stores the history of report runs in SQLite.
//
// Each run records where the report came from, where it went, whether it
// succeeded, the status message shown to the user and row counts. Patron
// names and other report contents are never stored.
//
// SQLite is used through modernc.org/sqlite, a CGO-free driver, so the
// history is a single file under the XDG data directory.
package database
