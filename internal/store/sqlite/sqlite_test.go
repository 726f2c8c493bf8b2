package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/reliefgrid/reliefgrid/internal/model"
	"github.com/reliefgrid/reliefgrid/internal/store"
	"github.com/reliefgrid/reliefgrid/internal/store/storetest"
)

func disasterFixture(title string) model.CreateDisasterRequest {
	return model.CreateDisasterRequest{
		Title:        title,
		LocationName: "Springfield",
		Tags:         []string{"flood"},
		OwnerID:      "alice",
	}
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relief.db")
	s, err := New(path)
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Conformance(t *testing.T) {
	storetest.Run(t, newTestStore)
}

func TestSQLiteStore_ReopenKeepsRecordsAndIDs(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "relief.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	d, err := s.Disasters().Create(ctx, disasterFixture("before restart"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ok, err := s.Disasters().Delete(ctx, d.ID); err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close() }()

	// an id is never reused, even across restarts after a delete
	d2, err := s2.Disasters().Create(ctx, disasterFixture("after restart"))
	if err != nil {
		t.Fatalf("create after reopen: %v", err)
	}
	if d2.ID <= d.ID {
		t.Fatalf("id reused after delete+restart: old=%d new=%d", d.ID, d2.ID)
	}
	got, err := s2.Disasters().Get(ctx, d2.ID)
	if err != nil || got == nil || len(got.AuditTrail) != 1 {
		t.Fatalf("durable read-back: got=%+v err=%v", got, err)
	}
}
