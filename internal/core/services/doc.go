// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// ChatService runs ingest and ask over explicit session values.
// HistoryService owns persisted conversations and their retention.
// VideoService summarises short clips with a vision model.
//
// Services are pure Go with no CGO or external dependencies.
package services
