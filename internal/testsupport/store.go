package testsupport

import (
	"context"
	"testing"
	"time"

	"shotsort/internal/category"
	"shotsort/internal/config"
	"shotsort/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}

// NewItem inserts a minimal indexed item and returns it.
func NewItem(t testing.TB, s *store.Store, filename string, cat category.Category) *store.IndexedItem {
	t.Helper()

	now := time.Now().UnixMilli()
	item := &store.IndexedItem{
		Filename:    filename,
		Path:        "/tmp/" + filename,
		Category:    cat,
		CreatedAt:   now,
		ProcessedAt: now,
	}
	if err := s.Insert(context.Background(), item); err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return item
}
