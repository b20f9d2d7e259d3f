// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded file, consumed once during ingest
//   - Chunk: A retrieved slice of a session's text
//   - Session: The isolation unit owning one index and one conversation
//   - ChatRecord: The persisted form of a session's conversation
//   - Frame: A still image sampled from a short video
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
