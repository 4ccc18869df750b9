// Package sqlite implements the document store on SQLite via modernc.org/sqlite.
//
// One database file holds the document rows, their page images, and an FTS5
// full-text index. Every mutating operation reindexes the affected document
// inside its own transaction, so the index never observes a row whose indexed
// fields differ from what was just written. Mutations also feed an in-process
// change notifier that backs the Observe* streams.
package sqlite
