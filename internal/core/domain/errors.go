package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a file type no extractor handles.
	ErrUnsupportedType = errors.New("unsupported type")

	// Input Errors.

	// ErrInvalidSessionID indicates a session identifier is not a UUID.
	// Session ids derive storage locations, so they are never used unvalidated.
	ErrInvalidSessionID = errors.New("invalid session id")

	// ErrNoDocuments indicates ingest was called without any files.
	ErrNoDocuments = errors.New("no documents supplied")

	// ErrNoText indicates none of the supplied files produced any text.
	ErrNoText = errors.New("no text could be extracted from the documents")

	// Index Errors.

	// ErrIndexUnavailable indicates a persisted index could not be read.
	// Callers degrade to the no-context response.
	ErrIndexUnavailable = errors.New("index unavailable")

	// ErrEmbeddingModelMismatch indicates an index was built with a different
	// embedding model than the one configured for querying it.
	ErrEmbeddingModelMismatch = errors.New("embedding model mismatch")

	// Upstream Errors.

	// ErrLLMUnavailable indicates the hosted language model is not configured
	// or could not be reached.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured
	// or could not be reached. Index builds fail without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrExtractorUnavailable indicates an external extraction tool is missing.
	ErrExtractorUnavailable = errors.New("extractor unavailable")

	// Video Errors.

	// ErrVideoTooLong indicates a video exceeds the configured duration ceiling.
	ErrVideoTooLong = errors.New("video too long")
)
