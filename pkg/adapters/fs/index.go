package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/silt/pkg/core"
)

// indexEntry is the persisted metadata summary for one document: enough to
// answer tag/type/date/stat queries without opening the document record.
type indexEntry struct {
	Type      string        `json:"type"`
	Tags      []string      `json:"tags"`
	Metadata  core.Metadata `json:"metadata,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	// Path is the record location relative to the store root. Derivable from
	// the key by the naming rule, kept explicit to tolerate relocation.
	Path string `json:"path"`
}

// indexFile is the persistent index state.
type indexFile struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // key is the document key
}

// index manages the loading, updating, and saving of the index file.
// Unlike a cache it is authoritative: an entry asserts the document exists.
type index struct {
	Path string // Path to .silt/index.json

	mu    sync.RWMutex
	data  *indexFile
	dirty bool
}

func newIndex(rootPath, systemDir string) *index {
	return &index{
		Path: filepath.Join(rootPath, systemDir, "index.json"),
		data: &indexFile{
			Version: 1,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the index from disk. An absent file means an empty store, not
// an error. A corrupt index is an error: silently starting empty would
// orphan every document on the next persist.
func (ix *index) Load() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	data, err := os.ReadFile(ix.Path)
	if os.IsNotExist(err) {
		return nil // Start fresh
	}
	if err != nil {
		return fmt.Errorf("failed to read index: %w", err)
	}

	loaded := &indexFile{}
	if err := json.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("%w: index file %s: %v", core.ErrMalformedRecord, ix.Path, err)
	}
	if loaded.Entries == nil {
		loaded.Entries = make(map[string]*indexEntry)
	}

	ix.data = loaded
	ix.dirty = false
	return nil
}

// Persist serializes the full current mapping to the index file if dirty.
// The write is a temp file + atomic rename, so readers never see a
// half-written index.
func (ix *index) Persist() error {
	ix.mu.RLock()
	if !ix.dirty {
		ix.mu.RUnlock()
		return nil
	}
	data, err := json.MarshalIndent(ix.data, "", "  ")
	ix.mu.RUnlock()

	if err != nil {
		return err
	}

	dir := filepath.Dir(ix.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if err := writeFileAtomic(ix.Path, data, 0644); err != nil {
		return err
	}

	ix.mu.Lock()
	ix.dirty = false
	ix.mu.Unlock()

	return nil
}

// EnsureFile writes the index file if it does not exist yet, so an
// initialized store is recognizable on disk before the first save.
func (ix *index) EnsureFile() error {
	if _, err := os.Stat(ix.Path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	ix.mu.Lock()
	ix.dirty = true
	ix.mu.Unlock()
	return ix.Persist()
}

// Get retrieves the entry for a key, or nil and false.
func (ix *index) Get(key string) (*indexEntry, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	entry, ok := ix.data.Entries[key]
	return entry, ok
}

// Put inserts or replaces an entry.
func (ix *index) Put(key string, entry *indexEntry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.data.Entries[key] = entry
	ix.dirty = true
}

// Remove deletes an entry if present; removing an absent key is a no-op.
func (ix *index) Remove(key string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if _, ok := ix.data.Entries[key]; ok {
		delete(ix.data.Entries, key)
		ix.dirty = true
	}
}

// Replace swaps the whole mapping (used by maintenance resync).
func (ix *index) Replace(entries map[string]*indexEntry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.data.Entries = entries
	ix.dirty = true
}

// Keys returns all keys in the index.
func (ix *index) Keys() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	keys := make([]string, 0, len(ix.data.Entries))
	for k := range ix.data.Entries {
		keys = append(keys, k)
	}
	return keys
}

// Range iterates over all entries. The callback returns true to continue.
func (ix *index) Range(callback func(key string, entry *indexEntry) bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	for k, v := range ix.data.Entries {
		if !callback(k, v) {
			break
		}
	}
}

// Len returns the number of entries in the index.
func (ix *index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.data.Entries)
}
