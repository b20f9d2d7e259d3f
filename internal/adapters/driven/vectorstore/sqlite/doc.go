// Package sqlite provides a per-session vector index store backed by SQLite.
//
// Each session's index lives in its own directory under the store root,
// named by the session id:
//
//	<root>/<session-id>/index.db
//
// The database holds the chunk texts, their embeddings as little-endian
// float32 BLOBs, and a meta table stamping the embedding model and
// dimensions used to build it. Indices are read fully into memory on Load
// and searched by exact cosine similarity, which suits the few hundred
// chunks a session's uploads produce.
//
// Builds write into a temporary directory under the root and are renamed
// into place, so an interrupted build never leaves a readable partial index.
package sqlite
