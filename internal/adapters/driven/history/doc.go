// Package history holds helpers shared by the chat history backends.
//
// Two backends implement driven.HistoryRepository:
//
//   - jsonfile: a single JSON document, {"sessions": [...]}
//   - sqlite: a chat_sessions table managed by embedded migrations
//
// Both re-read the full store on every update and serialise writers within
// the process, so concurrent sessions never overwrite each other's records.
package history
