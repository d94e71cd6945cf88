// Package silt is the Composition Root for the silt document store.
//
// It connects the core domain (documents, repository contract, service)
// with the infrastructure adapters (filesystem persistence) using the
// Hexagonal Architecture pattern.
//
// Philosophy:
//
// Silt is a small embedded document store. Callers save, fetch, update,
// delete, and search text/JSON/markdown documents identified by a unique
// key, each carrying tags, a type label, free-form metadata, and
// timestamps. Every document persists as an individual record file; a
// separate index file summarizes all documents so metadata queries never
// touch document bodies.
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Crash Safe**: Atomic index replacement plus a strict record-before-index
//     write ordering keep index and records consistent without a transaction log.
//   - **Metadata First**: Tag, type, date-range, and stats queries are answered
//     from the index alone.
//   - **Observable**: Filesystem watching surfaces external edits as events.
//   - **Extensible**: Other backends can plug in via `core.Repository`.
//
// Usage:
//
//	// Initialize service with functional options
//	svc, err := silt.New("./documents",
//		silt.WithAutoInit(true),
//		silt.WithLogger(logger),
//	)
//
//	// Save a document
//	doc, _ := core.NewDocument("meeting-notes", "Agenda...", "text", nil, "meeting")
//	err = svc.SaveDocument(ctx, doc)
package silt
