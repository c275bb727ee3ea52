// Package database provides the SQLite run history of csvinspect.
//
// HistoryDB stores one record per recorded run: the absolute source path,
// a fingerprint of the file contents, the shape before and after cleaning
// and the final profile as JSON. Listing the runs of a file shows whether
// its contents changed between runs.
//
// The database is a single file (csvinspect.db) opened with the CGO-free
// modernc.org/sqlite driver in WAL mode.
package database
