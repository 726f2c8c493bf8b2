package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/reliefgrid/reliefgrid/internal/model"
	"github.com/reliefgrid/reliefgrid/internal/store"
	"github.com/reliefgrid/reliefgrid/internal/store/storetest"
)

func TestMemoryStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	d, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{
		Title: "orig", LocationName: "x", Tags: []string{"flood"}, OwnerID: "alice",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// mutating the returned record must not leak into the store
	d.Title = "mutated"
	d.Tags[0] = "mutated"
	d.AuditTrail[0].ActorID = "mallory"

	got, err := s.Disasters().Get(ctx, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "orig" || got.Tags[0] != "flood" || got.AuditTrail[0].ActorID != "alice" {
		t.Fatalf("store state aliased by caller: %+v", got)
	}
}

func TestMemoryStore_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s := New()

	d1, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{Title: "a", LocationName: "x", OwnerID: "o"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ok, err := s.Disasters().Delete(ctx, d1.ID); err != nil || !ok {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
	d2, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{Title: "b", LocationName: "x", OwnerID: "o"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d2.ID == d1.ID {
		t.Fatalf("id %d reused after delete", d1.ID)
	}
}

func TestMemoryStore_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	s := New()

	const n = 50
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{Title: "c", LocationName: "x", OwnerID: "o"}); err != nil {
				t.Errorf("create: %v", err)
			}
		}()
	}
	wg.Wait()

	all, err := s.Disasters().List(ctx, model.DisasterFilter{})
	if err != nil || len(all) != n {
		t.Fatalf("list after concurrent creates: n=%d err=%v", len(all), err)
	}
	seen := make(map[int64]bool, n)
	for _, d := range all {
		if seen[d.ID] {
			t.Fatalf("duplicate id %d under concurrency", d.ID)
		}
		seen[d.ID] = true
	}
}
