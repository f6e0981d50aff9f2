// Package sqlite provides the SQLite-backed implementation of the
// DocumentStore port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The database file is the
// shared surface with the ingestion collaborator: documents arrive here
// without embeddings, and doclens fills in the vector columns.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files. Embeddings are stored as little-endian float32 BLOBs tagged with
// the model that produced them; a blob whose length does not match the
// configured dimension is treated as absent everywhere.
//
// # Data Location
//
// By default, the database is stored at ~/.doclens/data/documents.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
