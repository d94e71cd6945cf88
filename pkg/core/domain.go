// Shared value types of the document store domain.
package core

import "fmt"

// EventType represents the type of change observed in the store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a document in the store.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer (and lifecycle.Event).
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}

// Stats summarizes the store from a single pass over the index;
// no document bodies are loaded to compute it.
type Stats struct {
	TotalDocuments int            `json:"total_documents"`
	DocumentTypes  map[string]int `json:"document_types"`
	UniqueTags     int            `json:"unique_tags"`
	AllTags        []string       `json:"all_tags"`
	StoragePath    string         `json:"storage_path"`
}

// ResyncReport describes what a maintenance resync changed.
type ResyncReport struct {
	Scanned int `json:"scanned"` // document records found on disk
	Adopted int `json:"adopted"` // orphan records that gained an index entry
	Dropped int `json:"dropped"` // index entries with no backing record
}
