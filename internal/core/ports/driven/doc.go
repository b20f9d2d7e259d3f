// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TextExtractor / ExtractorRegistry: Turns uploaded files into raw text
//   - TextSplitter: Splits raw text into overlapping chunks
//   - VectorIndexStore: Builds, persists and loads per-session indices
//   - HistoryRepository: Read-modify-write persistence for chat records
//   - PromptStore: Prompt templates for the answer and summary calls
//
// # Optional Interfaces
//
// These can be nil - the application degrades to descriptive error strings:
//
//   - EmbeddingService: Generates vector embeddings. Without it, ingest is declined.
//   - LLMService: Hosted language model. Without it, answers are error messages.
//   - FrameExtractor: Samples frames from video. Without it, video summary is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
