package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/silt/pkg/core"
)

func TestSource_ForwardsEvents(t *testing.T) {
	in := make(chan core.Event, 1)
	src := NewSource(in)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	in <- core.Event{Type: core.EventCreate, Key: "note-1", Timestamp: time.Now().Unix()}

	select {
	case got := <-src.Events():
		want := core.Event{Type: core.EventCreate, Key: "note-1"}
		if ev, ok := got.(core.Event); !ok || ev.Key != want.Key || ev.Type != want.Type {
			t.Errorf("unexpected event: %#v", got)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for forwarded event")
	}
}

func TestSource_ClosesWhenUpstreamCloses(t *testing.T) {
	in := make(chan core.Event)
	src := NewSource(in)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := src.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	close(in)

	select {
	case _, open := <-src.Events():
		if open {
			t.Error("expected closed channel after upstream close")
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for channel close")
	}
}
