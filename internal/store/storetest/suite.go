package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reliefgrid/reliefgrid/internal/model"
	"github.com/reliefgrid/reliefgrid/internal/store"
)

// Run exercises the full contract compliance suite against a store.Store
// implementation. makeStore must return a clean, isolated store per call.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("Users", func(t *testing.T) { testUsers(t, makeStore(t)) })
	t.Run("DisasterAuditTrail", func(t *testing.T) { testDisasterAuditTrail(t, makeStore(t)) })
	t.Run("DisasterFiltersAndOrdering", func(t *testing.T) { testDisasterFiltersAndOrdering(t, makeStore(t)) })
	t.Run("DisasterUpdateMerge", func(t *testing.T) { testDisasterUpdateMerge(t, makeStore(t)) })
	t.Run("DisasterDelete", func(t *testing.T) { testDisasterDelete(t, makeStore(t)) })
	t.Run("Reports", func(t *testing.T) { testReports(t, makeStore(t)) })
	t.Run("Resources", func(t *testing.T) { testResources(t, makeStore(t)) })
	t.Run("ResourcesNear", func(t *testing.T) { testResourcesNear(t, makeStore(t)) })
}

func testUsers(t *testing.T, s store.Store) {
	ctx := context.Background()
	name := "u-" + uuid.New().String()

	u, err := s.Users().Create(ctx, model.CreateUserRequest{Username: name, Password: "pw", Role: model.RoleContributor})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("CreateUser: id not assigned")
	}

	u2, err := s.Users().Create(ctx, model.CreateUserRequest{Username: "other", Password: "pw", Role: model.RoleAdmin})
	if err != nil {
		t.Fatalf("CreateUser second: %v", err)
	}
	if u2.ID <= u.ID {
		t.Fatalf("ids must be sequential: first=%d second=%d", u.ID, u2.ID)
	}

	if got, err := s.Users().Get(ctx, u.ID); err != nil || got == nil || got.Username != name {
		t.Fatalf("GetUser: got=%+v err=%v", got, err)
	}
	if got, err := s.Users().GetByUsername(ctx, name); err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetUserByUsername: got=%+v err=%v", got, err)
	}

	// absence is a value, not an error
	if got, err := s.Users().Get(ctx, 999999); err != nil || got != nil {
		t.Fatalf("GetUser missing: got=%+v err=%v", got, err)
	}
	if got, err := s.Users().GetByUsername(ctx, "nobody-"+name); err != nil || got != nil {
		t.Fatalf("GetUserByUsername missing: got=%+v err=%v", got, err)
	}

	// username uniqueness is not enforced at the contract level
	if _, err := s.Users().Create(ctx, model.CreateUserRequest{Username: name, Password: "pw2", Role: model.RoleContributor}); err != nil {
		t.Fatalf("CreateUser duplicate username: %v", err)
	}
}

func testDisasterAuditTrail(t *testing.T, s store.Store) {
	ctx := context.Background()

	d, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{
		Title: "flooding downtown", LocationName: "Springfield", Tags: []string{"flood"}, OwnerID: "alice",
	})
	if err != nil {
		t.Fatalf("CreateDisaster: %v", err)
	}
	if d.Latitude != nil || d.Longitude != nil {
		t.Fatalf("coordinates must start absent: %+v", d)
	}
	if len(d.AuditTrail) != 1 {
		t.Fatalf("audit trail after create: len=%d want 1", len(d.AuditTrail))
	}
	if e := d.AuditTrail[0]; e.Action != model.AuditCreate || e.ActorID != "alice" {
		t.Fatalf("create audit entry: %+v", e)
	}

	// every update appends exactly one entry, even with no fields supplied
	for i := 0; i < 3; i++ {
		time.Sleep(2 * time.Millisecond)
		upd, err := s.Disasters().Update(ctx, d.ID, model.DisasterUpdate{})
		if err != nil {
			t.Fatalf("UpdateDisaster #%d: %v", i, err)
		}
		if len(upd.AuditTrail) != 2+i {
			t.Fatalf("audit trail after update #%d: len=%d want %d", i, len(upd.AuditTrail), 2+i)
		}
		if e := upd.AuditTrail[len(upd.AuditTrail)-1]; e.Action != model.AuditUpdate || e.ActorID != "alice" {
			t.Fatalf("update audit entry: %+v", e)
		}
	}

	// actor follows the supplied owner when present
	owner := "bob"
	upd, err := s.Disasters().Update(ctx, d.ID, model.DisasterUpdate{OwnerID: &owner})
	if err != nil {
		t.Fatalf("UpdateDisaster owner: %v", err)
	}
	if e := upd.AuditTrail[len(upd.AuditTrail)-1]; e.ActorID != "bob" {
		t.Fatalf("audit actor should be the supplied owner: %+v", e)
	}

	// timestamps are nondecreasing in append order
	got, err := s.Disasters().Get(ctx, d.ID)
	if err != nil || got == nil {
		t.Fatalf("GetDisaster: got=%+v err=%v", got, err)
	}
	for i := 1; i < len(got.AuditTrail); i++ {
		if got.AuditTrail[i].Timestamp.Before(got.AuditTrail[i-1].Timestamp) {
			t.Fatalf("audit timestamps regressed at %d: %v", i, got.AuditTrail)
		}
	}

	// update on a missing id is a no-op with no side effects anywhere
	missing, err := s.Disasters().Update(ctx, 424242, model.DisasterUpdate{OwnerID: &owner})
	if err != nil || missing != nil {
		t.Fatalf("Update missing disaster: got=%+v err=%v", missing, err)
	}
	after, err := s.Disasters().Get(ctx, d.ID)
	if err != nil || len(after.AuditTrail) != len(got.AuditTrail) {
		t.Fatalf("missing-id update must not touch other trails: %d -> %d err=%v",
			len(got.AuditTrail), len(after.AuditTrail), err)
	}
}

func testDisasterFiltersAndOrdering(t *testing.T, s store.Store) {
	ctx := context.Background()

	mk := func(title, owner string, tags ...string) *model.Disaster {
		t.Helper()
		d, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{
			Title: title, LocationName: "x", Tags: tags, OwnerID: owner,
		})
		if err != nil {
			t.Fatalf("CreateDisaster %s: %v", title, err)
		}
		time.Sleep(2 * time.Millisecond)
		return d
	}

	d1 := mk("first", "alice", "flood")
	d2 := mk("second", "bob", "fire")
	d3 := mk("third", "alice", "flood", "fire")

	all, err := s.Disasters().List(ctx, model.DisasterFilter{})
	if err != nil || len(all) != 3 {
		t.Fatalf("List all: n=%d err=%v", len(all), err)
	}
	if all[0].ID != d3.ID || all[1].ID != d2.ID || all[2].ID != d1.ID {
		t.Fatalf("newest-first ordering violated: %d,%d,%d", all[0].ID, all[1].ID, all[2].ID)
	}

	floods, err := s.Disasters().List(ctx, model.DisasterFilter{Tag: "flood"})
	if err != nil || len(floods) != 2 {
		t.Fatalf("List tag=flood: n=%d err=%v", len(floods), err)
	}
	if floods[0].ID != d3.ID || floods[1].ID != d1.ID {
		t.Fatalf("tag filter ordering: %d,%d", floods[0].ID, floods[1].ID)
	}
	for _, d := range floods {
		if !d.HasTag("flood") {
			t.Fatalf("tag filter returned %+v", d)
		}
	}

	byOwner, err := s.Disasters().List(ctx, model.DisasterFilter{OwnerID: "bob"})
	if err != nil || len(byOwner) != 1 || byOwner[0].ID != d2.ID {
		t.Fatalf("List owner=bob: %+v err=%v", byOwner, err)
	}

	both, err := s.Disasters().List(ctx, model.DisasterFilter{Tag: "fire", OwnerID: "alice"})
	if err != nil || len(both) != 1 || both[0].ID != d3.ID {
		t.Fatalf("List tag+owner: %+v err=%v", both, err)
	}
}

func testDisasterUpdateMerge(t *testing.T, s store.Store) {
	ctx := context.Background()

	d, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{
		Title: "quake", Description: "desc", LocationName: "Valley", Tags: []string{"earthquake"}, OwnerID: "alice",
	})
	if err != nil {
		t.Fatalf("CreateDisaster: %v", err)
	}

	time.Sleep(2 * time.Millisecond)
	title := "quake, aftershocks"
	lat, lon := 34.05, -118.24
	got, err := s.Disasters().Update(ctx, d.ID, model.DisasterUpdate{Title: &title, Latitude: &lat, Longitude: &lon})
	if err != nil {
		t.Fatalf("UpdateDisaster: %v", err)
	}
	if got.Title != title || got.Latitude == nil || *got.Latitude != lat || got.Longitude == nil || *got.Longitude != lon {
		t.Fatalf("merged fields: %+v", got)
	}
	// untouched fields survive the merge
	if got.Description != "desc" || got.LocationName != "Valley" || got.OwnerID != "alice" || len(got.Tags) != 1 {
		t.Fatalf("unsupplied fields must be preserved: %+v", got)
	}
	if !got.UpdatedAt.After(d.UpdatedAt) {
		t.Fatalf("UpdatedAt not refreshed: %v -> %v", d.UpdatedAt, got.UpdatedAt)
	}
	if !got.CreatedAt.Equal(d.CreatedAt) {
		t.Fatalf("CreatedAt must not change: %v -> %v", d.CreatedAt, got.CreatedAt)
	}

	tags := []string{"earthquake", "aftershock"}
	got, err = s.Disasters().Update(ctx, d.ID, model.DisasterUpdate{Tags: &tags})
	if err != nil || len(got.Tags) != 2 {
		t.Fatalf("tag replacement: %+v err=%v", got, err)
	}
}

func testDisasterDelete(t *testing.T, s store.Store) {
	ctx := context.Background()

	d, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{Title: "gone", LocationName: "x", OwnerID: "alice"})
	if err != nil {
		t.Fatalf("CreateDisaster: %v", err)
	}
	rep, err := s.Reports().Create(ctx, model.CreateReportRequest{DisasterID: d.ID, UserID: "bob", Content: "c"})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}

	ok, err := s.Disasters().Delete(ctx, d.ID)
	if err != nil || !ok {
		t.Fatalf("Delete existing: ok=%v err=%v", ok, err)
	}
	if got, err := s.Disasters().Get(ctx, d.ID); err != nil || got != nil {
		t.Fatalf("Get after delete: got=%+v err=%v", got, err)
	}
	ok, err = s.Disasters().Delete(ctx, d.ID)
	if err != nil || ok {
		t.Fatalf("Delete twice: ok=%v err=%v", ok, err)
	}

	// no cascade: the orphaned report stays queryable by the dead id
	orphans, err := s.Reports().List(ctx, &d.ID)
	if err != nil || len(orphans) != 1 || orphans[0].ID != rep.ID {
		t.Fatalf("orphaned report: %+v err=%v", orphans, err)
	}
}

func testReports(t *testing.T, s store.Store) {
	ctx := context.Background()

	d, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{Title: "storm", LocationName: "coast", OwnerID: "alice"})
	if err != nil {
		t.Fatalf("CreateDisaster: %v", err)
	}

	img := "https://example.test/p.jpg"
	r1, err := s.Reports().Create(ctx, model.CreateReportRequest{DisasterID: d.ID, UserID: "bob", Content: "water rising", ImageURL: &img})
	if err != nil {
		t.Fatalf("CreateReport: %v", err)
	}
	if r1.VerificationStatus != model.StatusPending {
		t.Fatalf("reports must start pending: %+v", r1)
	}
	time.Sleep(2 * time.Millisecond)
	r2, err := s.Reports().Create(ctx, model.CreateReportRequest{DisasterID: d.ID, UserID: "carol", Content: "road closed"})
	if err != nil {
		t.Fatalf("CreateReport second: %v", err)
	}

	lst, err := s.Reports().List(ctx, &d.ID)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListReports: n=%d err=%v", len(lst), err)
	}
	if lst[0].ID != r2.ID || lst[1].ID != r1.ID {
		t.Fatalf("reports newest-first: %d,%d", lst[0].ID, lst[1].ID)
	}

	status := model.StatusVerified
	got, err := s.Reports().Update(ctx, r1.ID, model.ReportUpdate{VerificationStatus: &status})
	if err != nil || got == nil || got.VerificationStatus != model.StatusVerified {
		t.Fatalf("UpdateReport: got=%+v err=%v", got, err)
	}
	if got.Content != "water rising" || got.ImageURL == nil || *got.ImageURL != img {
		t.Fatalf("report merge must preserve fields: %+v", got)
	}

	if got, err := s.Reports().Update(ctx, 999999, model.ReportUpdate{VerificationStatus: &status}); err != nil || got != nil {
		t.Fatalf("UpdateReport missing: got=%+v err=%v", got, err)
	}
	if got, err := s.Reports().Get(ctx, 999999); err != nil || got != nil {
		t.Fatalf("GetReport missing: got=%+v err=%v", got, err)
	}
}

func testResources(t *testing.T, s store.Store) {
	ctx := context.Background()

	d, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{Title: "wildfire", LocationName: "hills", OwnerID: "alice"})
	if err != nil {
		t.Fatalf("CreateDisaster: %v", err)
	}

	r1, err := s.Resources().Create(ctx, model.CreateResourceRequest{DisasterID: d.ID, Name: "north shelter", LocationName: "school", Type: "shelter"})
	if err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	if r1.Latitude != nil || r1.Longitude != nil {
		t.Fatalf("resource coordinates must start absent: %+v", r1)
	}
	time.Sleep(2 * time.Millisecond)
	r2, err := s.Resources().Create(ctx, model.CreateResourceRequest{DisasterID: d.ID, Name: "med tent", LocationName: "park", Type: "medical"})
	if err != nil {
		t.Fatalf("CreateResource second: %v", err)
	}

	lst, err := s.Resources().List(ctx, &d.ID)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListResources: n=%d err=%v", len(lst), err)
	}
	if lst[0].ID != r2.ID || lst[1].ID != r1.ID {
		t.Fatalf("resources newest-first: %d,%d", lst[0].ID, lst[1].ID)
	}

	lat, lon := 34.05, -118.24
	got, err := s.Resources().Update(ctx, r1.ID, model.ResourceUpdate{Latitude: &lat, Longitude: &lon})
	if err != nil || got == nil || got.Latitude == nil || *got.Latitude != lat {
		t.Fatalf("UpdateResource coords: got=%+v err=%v", got, err)
	}
	if got.Name != "north shelter" || got.Type != "shelter" {
		t.Fatalf("resource merge must preserve fields: %+v", got)
	}

	if got, err := s.Resources().Get(ctx, 999999); err != nil || got != nil {
		t.Fatalf("GetResource missing: got=%+v err=%v", got, err)
	}
	if got, err := s.Resources().Update(ctx, 999999, model.ResourceUpdate{Latitude: &lat}); err != nil || got != nil {
		t.Fatalf("UpdateResource missing: got=%+v err=%v", got, err)
	}
}

func testResourcesNear(t *testing.T, s store.Store) {
	ctx := context.Background()

	d, err := s.Disasters().Create(ctx, model.CreateDisasterRequest{Title: "fire", LocationName: "LA", Tags: []string{"fire"}, OwnerID: "A"})
	if err != nil {
		t.Fatalf("CreateDisaster: %v", err)
	}

	placed, err := s.Resources().Create(ctx, model.CreateResourceRequest{DisasterID: d.ID, Name: "shelter", LocationName: "LA", Type: "shelter"})
	if err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	lat, lon := 34.05, -118.24
	if _, err := s.Resources().Update(ctx, placed.ID, model.ResourceUpdate{Latitude: &lat, Longitude: &lon}); err != nil {
		t.Fatalf("UpdateResource: %v", err)
	}
	// this one never gets geocoded
	unplaced, err := s.Resources().Create(ctx, model.CreateResourceRequest{DisasterID: d.ID, Name: "supplies", LocationName: "unknown", Type: "supply"})
	if err != nil {
		t.Fatalf("CreateResource unplaced: %v", err)
	}

	near, err := s.Resources().ListNear(ctx, 34.05, -118.24, 1)
	if err != nil || len(near) != 1 || near[0].ID != placed.ID {
		t.Fatalf("ListNear at site: %+v err=%v", near, err)
	}

	far, err := s.Resources().ListNear(ctx, 0, 0, 1)
	if err != nil || len(far) != 0 {
		t.Fatalf("ListNear far away: %+v err=%v", far, err)
	}

	// a coordinate-less resource is never near anything, any radius
	huge, err := s.Resources().ListNear(ctx, 0, 0, 1e9)
	if err != nil {
		t.Fatalf("ListNear huge radius: %v", err)
	}
	for _, r := range huge {
		if r.ID == unplaced.ID {
			t.Fatalf("resource without coordinates returned by ListNear")
		}
	}
}
