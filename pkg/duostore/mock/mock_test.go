package mock_test

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"github.com/duostore/duostore_sdk_go/internal/devseed"
	"github.com/duostore/duostore_sdk_go/pkg/duostore/mock"
)

func TestStoreBasics(t *testing.T) {
	s := mock.New()
	ctx := context.Background()

	_, ok, err := s.GetItem(ctx, "missing")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if ok {
		t.Fatalf("expected absent entry")
	}

	if err := s.SetItem(ctx, "a", `{"x":1}`); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	text, ok, err := s.GetItem(ctx, "a")
	if err != nil || !ok || text != `{"x":1}` {
		t.Fatalf("GetItem = %q ok=%v err=%v", text, ok, err)
	}

	if err := s.SetItem(ctx, "", "{}"); err == nil {
		t.Fatalf("expected error for empty name")
	}

	// Removing an absent name is a no-op.
	if err := s.RemoveItem(ctx, "nope"); err != nil {
		t.Fatalf("RemoveItem absent: %v", err)
	}
	if err := s.RemoveItem(ctx, "a"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("store should be empty, names=%v", s.Names())
	}
}

func TestStoreClear(t *testing.T) {
	s := mock.New()
	ctx := context.Background()

	for _, name := range []string{"b", "a", "c"} {
		if err := s.SetItem(ctx, name, "{}"); err != nil {
			t.Fatalf("SetItem %s: %v", name, err)
		}
	}
	if got, want := s.Names(), []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Names = %v, want %v", got, want)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Clear left entries: %v", s.Names())
	}
}

func TestStoreSeed(t *testing.T) {
	s := mock.New()

	entries := []devseed.Entry{
		{Name: "userData", Value: json.RawMessage(`{"userId":123}`)},
		{Name: "empty"},
	}
	if err := s.Seed(entries); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	text, ok, err := s.GetItem(context.Background(), "userData")
	if err != nil || !ok || text != `{"userId":123}` {
		t.Fatalf("seeded text = %q ok=%v err=%v", text, ok, err)
	}
	text, ok, _ = s.GetItem(context.Background(), "empty")
	if !ok || text != "null" {
		t.Fatalf("empty seed value should normalize to null, got %q ok=%v", text, ok)
	}

	if err := s.Seed([]devseed.Entry{{Name: " "}}); err == nil {
		t.Fatalf("expected error for blank seed name")
	}
}

func TestStoreHonoursContext(t *testing.T) {
	s := mock.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := s.GetItem(ctx, "a"); err == nil {
		t.Fatalf("expected context error from GetItem")
	}
	if err := s.SetItem(ctx, "a", "{}"); err == nil {
		t.Fatalf("expected context error from SetItem")
	}
	if err := s.RemoveItem(ctx, "a"); err == nil {
		t.Fatalf("expected context error from RemoveItem")
	}
	if err := s.Clear(ctx); err == nil {
		t.Fatalf("expected context error from Clear")
	}
}
