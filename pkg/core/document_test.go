package core_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/aretw0/silt/pkg/core"
)

func TestNewDocument(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		doc, err := core.NewDocument("note-1", "hello", "", nil)
		if err != nil {
			t.Fatalf("NewDocument failed: %v", err)
		}
		if doc.Type != "text" {
			t.Errorf("expected default type 'text', got %q", doc.Type)
		}
		if doc.Metadata == nil {
			t.Error("expected non-nil metadata")
		}
		if !doc.CreatedAt.Equal(doc.UpdatedAt) {
			t.Error("expected created_at == updated_at on construction")
		}
		if doc.CreatedAt.After(doc.UpdatedAt) {
			t.Error("invariant violated: created_at > updated_at")
		}
	})

	t.Run("Collapses Duplicate Tags", func(t *testing.T) {
		doc, err := core.NewDocument("note-2", "x", "text", nil, "a", "b", "a", "c", "b")
		if err != nil {
			t.Fatalf("NewDocument failed: %v", err)
		}
		want := []string{"a", "b", "c"}
		if !reflect.DeepEqual(doc.Tags, want) {
			t.Errorf("expected tags %v, got %v", want, doc.Tags)
		}
	})

	t.Run("Rejects Invalid Keys", func(t *testing.T) {
		bad := []string{"", ".", "..", ".hidden", "a/b", `a\b`, "a\x00b"}
		for _, key := range bad {
			if _, err := core.NewDocument(key, "x", "text", nil); !errors.Is(err, core.ErrInvalidKey) {
				t.Errorf("key %q: expected ErrInvalidKey, got %v", key, err)
			}
		}
	})
}

func TestDocument_Tags(t *testing.T) {
	doc, _ := core.NewDocument("tagged", "x", "text", nil, "one")
	before := doc.UpdatedAt

	t.Run("AddTag Is Idempotent", func(t *testing.T) {
		if !doc.AddTag("two") {
			t.Error("adding a new tag should report a change")
		}
		firstUpdate := doc.UpdatedAt

		if doc.AddTag("two") {
			t.Error("adding an existing tag should be a no-op")
		}
		if !doc.UpdatedAt.Equal(firstUpdate) {
			t.Error("no-op add must not refresh updated_at")
		}
		if doc.UpdatedAt.Before(before) {
			t.Error("actual add must refresh updated_at")
		}
	})

	t.Run("RemoveTag Is Idempotent", func(t *testing.T) {
		if !doc.RemoveTag("one") {
			t.Error("removing a present tag should report a change")
		}
		afterRemove := doc.UpdatedAt

		if doc.RemoveTag("one") {
			t.Error("removing an absent tag should be a no-op")
		}
		if !doc.UpdatedAt.Equal(afterRemove) {
			t.Error("no-op remove must not refresh updated_at")
		}
		if doc.HasTag("one") {
			t.Error("tag should be gone")
		}
	})
}

func TestDocument_Mutators(t *testing.T) {
	doc, _ := core.NewDocument("mut", "old", "text", nil)
	created := doc.CreatedAt

	doc.UpdateContent("new")
	if doc.Content != "new" {
		t.Errorf("expected content 'new', got %q", doc.Content)
	}
	if !doc.CreatedAt.Equal(created) {
		t.Error("created_at must never change")
	}

	doc.SetMetadata("author", "gopher")
	if doc.Metadata["author"] != "gopher" {
		t.Error("expected metadata upsert")
	}
	if doc.UpdatedAt.Before(created) {
		t.Error("invariant violated: updated_at < created_at")
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	doc, err := core.NewDocument("rt", `{"k":1}`, "json",
		core.Metadata{"source": "api", "rev": "3"}, "config", "client")
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	data, err := doc.MarshalRecord()
	if err != nil {
		t.Fatalf("MarshalRecord failed: %v", err)
	}

	got, err := core.ParseRecord(data)
	if err != nil {
		t.Fatalf("ParseRecord failed: %v", err)
	}

	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round-trip mismatch:\n got: %#v\nwant: %#v", got, doc)
	}
	if !got.CreatedAt.Equal(doc.CreatedAt) || !got.UpdatedAt.Equal(doc.UpdatedAt) {
		t.Error("timestamp precision lost in round-trip")
	}
}

func TestParseRecord_Malformed(t *testing.T) {
	t.Run("Invalid JSON", func(t *testing.T) {
		if _, err := core.ParseRecord([]byte("{ nope")); !errors.Is(err, core.ErrMalformedRecord) {
			t.Errorf("expected ErrMalformedRecord, got %v", err)
		}
	})

	t.Run("Missing Required Fields", func(t *testing.T) {
		records := map[string]string{
			"key":        `{"content":"x","type":"text","tags":[],"created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}`,
			"content":    `{"key":"k","type":"text","tags":[],"created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}`,
			"type":       `{"key":"k","content":"x","tags":[],"created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}`,
			"tags":       `{"key":"k","content":"x","type":"text","created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-01T00:00:00Z"}`,
			"created_at": `{"key":"k","content":"x","type":"text","tags":[],"updated_at":"2024-01-01T00:00:00Z"}`,
			"updated_at": `{"key":"k","content":"x","type":"text","tags":[],"created_at":"2024-01-01T00:00:00Z"}`,
		}
		for field, rec := range records {
			if _, err := core.ParseRecord([]byte(rec)); !errors.Is(err, core.ErrMalformedRecord) {
				t.Errorf("record without %q: expected ErrMalformedRecord, got %v", field, err)
			}
		}
	})

	t.Run("Ignores Unknown Fields", func(t *testing.T) {
		rec := `{"key":"k","content":"x","type":"text","tags":["a"],
			"created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-02T00:00:00Z",
			"future_field":42}`
		doc, err := core.ParseRecord([]byte(rec))
		if err != nil {
			t.Fatalf("ParseRecord failed: %v", err)
		}
		if doc.Key != "k" || !doc.HasTag("a") {
			t.Errorf("unexpected document: %v", doc)
		}
		want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		if !doc.CreatedAt.Equal(want) {
			t.Errorf("expected created_at %v, got %v", want, doc.CreatedAt)
		}
	})
}
