package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Metadata represents the flexible key-value pairs associated with a document.
type Metadata map[string]any

// Document is the central entity of the domain.
// It represents a piece of content identified by a Key, carrying a free-form
// type label, tags, metadata, and creation/update timestamps. It is agnostic
// to the underlying storage mechanism.
type Document struct {
	Key       string
	Content   string
	Type      string
	Tags      []string
	Metadata  Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultType is used when a document is constructed without a type label.
const DefaultType = "text"

// NewDocument constructs a Document with the current time as both creation
// and update timestamp. Duplicate tags collapse, insertion order is kept.
// The key must be valid per ValidateKey.
func NewDocument(key, content, docType string, metadata Metadata, tags ...string) (Document, error) {
	if err := ValidateKey(key); err != nil {
		return Document{}, err
	}

	if docType == "" {
		docType = DefaultType
	}
	if metadata == nil {
		metadata = make(Metadata)
	}

	now := time.Now().UTC()
	return Document{
		Key:       key,
		Content:   content,
		Type:      docType,
		Tags:      dedupeTags(tags),
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ValidateKey reports whether a key is usable as a document identifier.
// Keys map to filenames, so path separators and relative path elements
// are rejected.
func ValidateKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	case key == "." || key == "..":
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	case strings.HasPrefix(key, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidKey, key)
	case strings.ContainsAny(key, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidKey, key)
	}
	return nil
}

// UpdateContent replaces the content and refreshes the update timestamp.
func (d *Document) UpdateContent(content string) {
	d.Content = content
	d.touch()
}

// AddTag adds a tag if not already present. Returns true if the tag set
// changed; the update timestamp is only refreshed on actual change.
func (d *Document) AddTag(tag string) bool {
	if d.HasTag(tag) {
		return false
	}
	d.Tags = append(d.Tags, tag)
	d.touch()
	return true
}

// RemoveTag removes a tag if present. Removing an absent tag is a no-op.
func (d *Document) RemoveTag(tag string) bool {
	for i, t := range d.Tags {
		if t == tag {
			d.Tags = append(d.Tags[:i], d.Tags[i+1:]...)
			d.touch()
			return true
		}
	}
	return false
}

// HasTag reports whether the document carries the given tag (case-sensitive).
func (d *Document) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SetMetadata upserts a metadata field and refreshes the update timestamp.
func (d *Document) SetMetadata(key string, value any) {
	if d.Metadata == nil {
		d.Metadata = make(Metadata)
	}
	d.Metadata[key] = value
	d.touch()
}

func (d *Document) touch() {
	d.UpdatedAt = time.Now().UTC()
}

func (d Document) String() string {
	return fmt.Sprintf("Document(key=%s, type=%s, tags=%v)", d.Key, d.Type, d.Tags)
}

func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// record is the serialized form of a Document. Field-named so that future
// fields can be added without breaking older readers; unknown fields are
// ignored on parse. Pointers distinguish "absent" from "zero" for the
// required-field check.
type record struct {
	Key       *string    `json:"key"`
	Content   *string    `json:"content"`
	Type      *string    `json:"type"`
	Tags      *[]string  `json:"tags"`
	Metadata  Metadata   `json:"metadata,omitempty"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// MarshalRecord serializes the document to its canonical textual record.
func (d Document) MarshalRecord() ([]byte, error) {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	rec := record{
		Key:       &d.Key,
		Content:   &d.Content,
		Type:      &d.Type,
		Tags:      &tags,
		Metadata:  d.Metadata,
		CreatedAt: &d.CreatedAt,
		UpdatedAt: &d.UpdatedAt,
	}
	return json.MarshalIndent(rec, "", "  ")
}

// ParseRecord deserializes a canonical record into a Document.
// A record missing any required field, or one that is not valid JSON,
// fails with ErrMalformedRecord.
func ParseRecord(data []byte) (Document, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	missing := func(field string) (Document, error) {
		return Document{}, fmt.Errorf("%w: missing required field %q", ErrMalformedRecord, field)
	}
	switch {
	case rec.Key == nil:
		return missing("key")
	case rec.Content == nil:
		return missing("content")
	case rec.Type == nil:
		return missing("type")
	case rec.Tags == nil:
		return missing("tags")
	case rec.CreatedAt == nil:
		return missing("created_at")
	case rec.UpdatedAt == nil:
		return missing("updated_at")
	}

	doc := Document{
		Key:       *rec.Key,
		Content:   *rec.Content,
		Type:      *rec.Type,
		Tags:      dedupeTags(*rec.Tags),
		Metadata:  rec.Metadata,
		CreatedAt: rec.CreatedAt.UTC(),
		UpdatedAt: rec.UpdatedAt.UTC(),
	}
	if doc.Metadata == nil {
		doc.Metadata = make(Metadata)
	}
	return doc, nil
}
