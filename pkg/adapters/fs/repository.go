package fs

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/silt/pkg/core"
)

// DefaultSystemDir is the hidden directory holding the index file.
const DefaultSystemDir = ".silt"

// recordExt is the extension of document record files, per the naming rule
// <key>.json.
const recordExt = ".json"

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path        string
	AutoInit    bool   // create the store directory if missing
	MustExist   bool   // fail Initialize if the directory is missing
	ReadOnly    bool   // mutations return core.ErrReadOnly
	SystemDir   string // e.g. ".silt"
	FileMode    os.FileMode
	EventBuffer int // watch channel buffer, 0 means default
	Logger      *slog.Logger
}

// Repository implements core.Repository on top of a directory of document
// records plus an index file. It is the sole writer of both: every mutation
// runs under a single exclusive scope so the record-then-index ordering is
// never interleaved, and reads share a view consistent with some completed
// mutation.
type Repository struct {
	Path   string
	config Config
	idx    *index

	mu            sync.RWMutex
	watcherActive bool
	lastResync    *time.Time
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.FileMode == 0 {
		config.FileMode = 0644
	}
	return &Repository{
		Path:   config.Path,
		config: config,
		idx:    newIndex(config.Path, config.SystemDir),
	}
}

// Initialize prepares the store directory and loads the index once.
// An absent index file means an empty store.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("store path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("store path is not a directory: %s", r.Path)
		}
	} else if !r.config.ReadOnly {
		if err := os.MkdirAll(r.Path, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	if err := r.idx.Load(); err != nil {
		return err
	}

	if r.config.AutoInit && !r.config.ReadOnly {
		if err := r.idx.EnsureFile(); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// recordPath returns the absolute location of a document record.
func (r *Repository) recordPath(key string) string {
	return filepath.Join(r.Path, key+recordExt)
}

// Save persists a document record and its index entry.
//
// Ordering rule: the record is durably written before the index is touched.
// A crash mid-operation can at worst leave an orphan record with no index
// entry (recoverable via Resync); an index entry with no backing record
// would report false existence, which this ordering avoids.
func (r *Repository) Save(ctx context.Context, doc core.Document) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := core.ValidateKey(doc.Key); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	prev, existed := r.idx.Get(doc.Key)
	if existed {
		// Update = same key, new content; identity and creation time survive.
		doc.CreatedAt = prev.CreatedAt
	} else if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	data, err := doc.MarshalRecord()
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	if err := writeFileAtomic(r.recordPath(doc.Key), data, r.config.FileMode); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	r.idx.Put(doc.Key, entryFromDocument(doc))
	if err := r.idx.Persist(); err != nil {
		// Keep the in-memory index mirroring the on-disk one; the freshly
		// written record stays behind as a harmless orphan.
		if existed {
			r.idx.Put(doc.Key, prev)
		} else {
			r.idx.Remove(doc.Key)
		}
		return fmt.Errorf("failed to persist index: %w", err)
	}

	if r.config.Logger != nil {
		r.config.Logger.Debug("document saved", "key", doc.Key, "type", doc.Type)
	}
	return nil
}

// Get retrieves a document. The index is authoritative for existence: a key
// it does not know is ErrNotFound, while a known key whose record is missing
// or unparsable is an ErrConsistency fault, never silently absent.
func (r *Repository) Get(ctx context.Context, key string) (core.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.idx.Get(key)
	if !ok {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, key)
	}
	return r.loadRecord(key, entry)
}

// loadRecord reads and parses an indexed record. Callers hold at least a
// read lock.
func (r *Repository) loadRecord(key string, entry *indexEntry) (core.Document, error) {
	path := filepath.Join(r.Path, entry.Path)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return core.Document{}, fmt.Errorf("%w: record for %q missing at %s", core.ErrConsistency, key, entry.Path)
	}
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to read record %s: %w", entry.Path, err)
	}

	doc, err := core.ParseRecord(data)
	if err != nil {
		return core.Document{}, fmt.Errorf("%w: record for %q: %v", core.ErrConsistency, key, err)
	}
	return doc, nil
}

// Delete removes the index entry first, persists, then removes the record.
// Once the index entry is gone the document is logically absent even if the
// file removal fails; a leftover orphan is harmless and reclaimable by
// Resync, whereas the reverse order could leave a false-positive lookup.
func (r *Repository) Delete(ctx context.Context, key string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.idx.Get(key)
	if !ok {
		return nil // Absent -> Absent, not an error
	}

	r.idx.Remove(key)
	if err := r.idx.Persist(); err != nil {
		r.idx.Put(key, entry)
		return fmt.Errorf("failed to persist index: %w", err)
	}

	if err := os.Remove(filepath.Join(r.Path, entry.Path)); err != nil && !os.IsNotExist(err) {
		if r.config.Logger != nil {
			r.config.Logger.Warn("record removal left an orphan", "key", key, "error", err)
		}
	}

	if r.config.Logger != nil {
		r.config.Logger.Debug("document deleted", "key", key)
	}
	return nil
}

// Keys returns all indexed keys, sorted for deterministic output.
func (r *Repository) Keys(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := r.idx.Keys()
	sort.Strings(keys)
	return keys, nil
}

// SearchByTag returns the documents whose index entry carries the tag.
func (r *Repository) SearchByTag(ctx context.Context, tag string) ([]core.Document, error) {
	return r.searchIndex(func(entry *indexEntry) bool {
		for _, t := range entry.Tags {
			if t == tag {
				return true
			}
		}
		return false
	})
}

// SearchByType returns the documents with the exact type label.
func (r *Repository) SearchByType(ctx context.Context, docType string) ([]core.Document, error) {
	return r.searchIndex(func(entry *indexEntry) bool {
		return entry.Type == docType
	})
}

// searchIndex selects keys from the index and loads the matching records.
func (r *Repository) searchIndex(match func(*indexEntry) bool) ([]core.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []string
	r.idx.Range(func(key string, entry *indexEntry) bool {
		if match(entry) {
			keys = append(keys, key)
		}
		return true
	})
	sort.Strings(keys)

	docs := make([]core.Document, 0, len(keys))
	for _, key := range keys {
		entry, _ := r.idx.Get(key)
		doc, err := r.loadRecord(key, entry)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// SearchContent scans every document body for the query, case-insensitively.
// No content index is maintained, so cost is linear in total content size.
func (r *Repository) SearchContent(ctx context.Context, query string) ([]core.Document, error) {
	needle := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := r.idx.Keys()
	sort.Strings(keys)

	var docs []core.Document
	for _, key := range keys {
		entry, _ := r.idx.Get(key)
		doc, err := r.loadRecord(key, entry)
		if err != nil {
			return nil, err
		}
		if strings.Contains(strings.ToLower(doc.Content), needle) {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// KeysByDateRange returns keys of documents created within [start, end],
// inclusive on both ends, answered from the index alone.
func (r *Repository) KeysByDateRange(ctx context.Context, start, end time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var keys []string
	r.idx.Range(func(key string, entry *indexEntry) bool {
		if !entry.CreatedAt.Before(start) && !entry.CreatedAt.After(end) {
			keys = append(keys, key)
		}
		return true
	})
	sort.Strings(keys)
	return keys, nil
}

// Stats computes repository statistics in a single pass over the index.
func (r *Repository) Stats(ctx context.Context) (core.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := core.Stats{
		TotalDocuments: r.idx.Len(),
		DocumentTypes:  make(map[string]int),
		StoragePath:    r.Path,
	}

	tagSet := make(map[string]bool)
	r.idx.Range(func(key string, entry *indexEntry) bool {
		stats.DocumentTypes[entry.Type]++
		for _, t := range entry.Tags {
			tagSet[t] = true
		}
		return true
	})

	stats.AllTags = make([]string, 0, len(tagSet))
	for t := range tagSet {
		stats.AllTags = append(stats.AllTags, t)
	}
	sort.Strings(stats.AllTags)
	stats.UniqueTags = len(stats.AllTags)

	return stats, nil
}

// Resync rebuilds the index from the records actually on disk. Orphan
// records (present on disk, unknown to the index) are adopted; dangling
// entries (indexed but no readable record) are dropped. This is the explicit
// maintenance counterpart to the read path's refusal to auto-repair.
func (r *Repository) Resync(ctx context.Context) (core.ResyncReport, error) {
	if r.config.ReadOnly {
		return core.ResyncReport{}, core.ErrReadOnly
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dirEntries, err := os.ReadDir(r.Path)
	if err != nil {
		return core.ResyncReport{}, fmt.Errorf("failed to scan store directory: %w", err)
	}

	report := core.ResyncReport{}
	entries := make(map[string]*indexEntry)

	for _, de := range dirEntries {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, recordExt) || strings.HasPrefix(name, TempFilePrefix) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(r.Path, name))
		if err != nil {
			return core.ResyncReport{}, fmt.Errorf("failed to read record %s: %w", name, err)
		}
		doc, err := core.ParseRecord(data)
		if err != nil {
			// Not a document record; leave it alone.
			if r.config.Logger != nil {
				r.config.Logger.Warn("skipping unparsable record during resync", "file", name, "error", err)
			}
			continue
		}

		report.Scanned++
		if _, known := r.idx.Get(doc.Key); !known {
			report.Adopted++
		}
		entry := entryFromDocument(doc)
		entry.Path = name // tolerate records whose filename diverged from the key
		entries[doc.Key] = entry
	}

	for _, key := range r.idx.Keys() {
		if _, found := entries[key]; !found {
			report.Dropped++
		}
	}

	r.idx.Replace(entries)
	if err := r.idx.Persist(); err != nil {
		return core.ResyncReport{}, fmt.Errorf("failed to persist index: %w", err)
	}

	r.recordResync()
	if r.config.Logger != nil {
		r.config.Logger.Info("resync completed",
			"scanned", report.Scanned, "adopted", report.Adopted, "dropped", report.Dropped)
	}
	return report, nil
}

// entryFromDocument projects a document onto its index entry. Tags and
// metadata are copied: the entry must reflect the persisted record, not a
// document value the caller may keep mutating.
func entryFromDocument(doc core.Document) *indexEntry {
	return &indexEntry{
		Type:      doc.Type,
		Tags:      append([]string(nil), doc.Tags...),
		Metadata:  maps.Clone(doc.Metadata),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		Path:      doc.Key + recordExt,
	}
}

// keyFromRecordName reverses the naming rule, returning "" for files that
// are not document records.
func keyFromRecordName(name string) string {
	if !strings.HasSuffix(name, recordExt) {
		return ""
	}
	key := strings.TrimSuffix(name, recordExt)
	if err := core.ValidateKey(key); err != nil {
		return ""
	}
	return key
}

var _ core.Repository = (*Repository)(nil)
var _ core.Maintainer = (*Repository)(nil)
