// Package catalog keeps a SQLite history of imported dive sessions.
//
// Each import stores the session header and one row per dive summary. An
// import is identified by a random UUID and keyed by the SHA-256 of its
// telemetry file: importing the same activity again replaces the earlier
// rows instead of duplicating them. Writers serialize on an advisory file lock
// next to the database so concurrent CLI runs cannot interleave a replace.
package catalog
