// Package memory is the in-memory Store backend. It keeps every collection
// in an id-keyed table guarded by one mutex, with monotonic counters so an
// id is never reused after deletion. It exists for tests and for running
// the service without a database file; it must stay behaviorally identical
// to the sqlite backend (internal/store/storetest enforces this).
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/reliefgrid/reliefgrid/internal/geo"
	"github.com/reliefgrid/reliefgrid/internal/model"
	"github.com/reliefgrid/reliefgrid/internal/store"
)

// New returns an empty in-memory store.
func New() store.Store {
	return &memStore{
		users:     make(map[int64]*model.User),
		disasters: make(map[int64]*model.Disaster),
		reports:   make(map[int64]*model.Report),
		resources: make(map[int64]*model.Resource),
	}
}

type memStore struct {
	mu sync.Mutex

	users     map[int64]*model.User
	disasters map[int64]*model.Disaster
	reports   map[int64]*model.Report
	resources map[int64]*model.Resource

	nextUserID     int64
	nextDisasterID int64
	nextReportID   int64
	nextResourceID int64
}

func (s *memStore) Users() store.Users         { return &users{s} }
func (s *memStore) Disasters() store.Disasters { return &disasters{s} }
func (s *memStore) Reports() store.Reports     { return &reports{s} }
func (s *memStore) Resources() store.Resources { return &resources{s} }
func (s *memStore) Close() error               { return nil }

// HealthPing implements health.Pinger; an in-memory store is always up.
func (s *memStore) HealthPing(ctx context.Context) error { return nil }

// --- Users ---

type users struct{ s *memStore }

func (u *users) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	u.s.nextUserID++
	rec := &model.User{
		ID:        u.s.nextUserID,
		Username:  req.Username,
		Password:  req.Password,
		Role:      req.Role,
		CreatedAt: time.Now().UTC(),
	}
	u.s.users[rec.ID] = rec
	return copyUser(rec), nil
}

func (u *users) Get(ctx context.Context, id int64) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	return copyUser(u.s.users[id]), nil
}

func (u *users) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, rec := range u.s.users {
		if rec.Username == username {
			return copyUser(rec), nil
		}
	}
	return nil, nil
}

// --- Disasters ---

type disasters struct{ s *memStore }

func (d *disasters) Create(ctx context.Context, req model.CreateDisasterRequest) (*model.Disaster, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	now := time.Now().UTC()
	tags := append([]string{}, req.Tags...)
	d.s.nextDisasterID++
	rec := &model.Disaster{
		ID:           d.s.nextDisasterID,
		Title:        req.Title,
		Description:  req.Description,
		LocationName: req.LocationName,
		Tags:         tags,
		OwnerID:      req.OwnerID,
		CreatedAt:    now,
		UpdatedAt:    now,
		AuditTrail:   []model.AuditEntry{{Action: model.AuditCreate, ActorID: req.OwnerID, Timestamp: now}},
	}
	d.s.disasters[rec.ID] = rec
	return copyDisaster(rec), nil
}

func (d *disasters) Get(ctx context.Context, id int64) (*model.Disaster, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return copyDisaster(d.s.disasters[id]), nil
}

func (d *disasters) List(ctx context.Context, f model.DisasterFilter) ([]*model.Disaster, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	var out []*model.Disaster
	for _, rec := range d.s.disasters {
		if f.OwnerID != "" && rec.OwnerID != f.OwnerID {
			continue
		}
		if f.Tag != "" && !rec.HasTag(f.Tag) {
			continue
		}
		out = append(out, copyDisaster(rec))
	}
	// Newest-created first; id breaks ties so same-instant creations still
	// list in reverse creation order.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (d *disasters) Update(ctx context.Context, id int64, upd model.DisasterUpdate) (*model.Disaster, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	rec, ok := d.s.disasters[id]
	if !ok {
		return nil, nil
	}

	actor := rec.OwnerID
	if upd.OwnerID != nil {
		actor = *upd.OwnerID
	}
	if upd.Title != nil {
		rec.Title = *upd.Title
	}
	if upd.Description != nil {
		rec.Description = *upd.Description
	}
	if upd.LocationName != nil {
		rec.LocationName = *upd.LocationName
	}
	if upd.Latitude != nil {
		v := *upd.Latitude
		rec.Latitude = &v
	}
	if upd.Longitude != nil {
		v := *upd.Longitude
		rec.Longitude = &v
	}
	if upd.Tags != nil {
		rec.Tags = append([]string{}, (*upd.Tags)...)
	}
	if upd.OwnerID != nil {
		rec.OwnerID = *upd.OwnerID
	}
	now := time.Now().UTC()
	rec.UpdatedAt = now
	rec.AuditTrail = append(rec.AuditTrail, model.AuditEntry{Action: model.AuditUpdate, ActorID: actor, Timestamp: now})
	return copyDisaster(rec), nil
}

func (d *disasters) Delete(ctx context.Context, id int64) (bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()

	if _, ok := d.s.disasters[id]; !ok {
		return false, nil
	}
	delete(d.s.disasters, id)
	return true, nil
}

// --- Reports ---

type reports struct{ s *memStore }

func (r *reports) Create(ctx context.Context, req model.CreateReportRequest) (*model.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.nextReportID++
	rec := &model.Report{
		ID:                 r.s.nextReportID,
		DisasterID:         req.DisasterID,
		UserID:             req.UserID,
		Content:            req.Content,
		ImageURL:           copyStr(req.ImageURL),
		VerificationStatus: model.StatusPending,
		CreatedAt:          time.Now().UTC(),
	}
	r.s.reports[rec.ID] = rec
	return copyReport(rec), nil
}

func (r *reports) Get(ctx context.Context, id int64) (*model.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return copyReport(r.s.reports[id]), nil
}

func (r *reports) List(ctx context.Context, disasterID *int64) ([]*model.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []*model.Report
	for _, rec := range r.s.reports {
		if disasterID != nil && rec.DisasterID != *disasterID {
			continue
		}
		out = append(out, copyReport(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *reports) Update(ctx context.Context, id int64, upd model.ReportUpdate) (*model.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.reports[id]
	if !ok {
		return nil, nil
	}
	if upd.Content != nil {
		rec.Content = *upd.Content
	}
	if upd.ImageURL != nil {
		rec.ImageURL = copyStr(upd.ImageURL)
	}
	if upd.VerificationStatus != nil {
		rec.VerificationStatus = *upd.VerificationStatus
	}
	return copyReport(rec), nil
}

// --- Resources ---

type resources struct{ s *memStore }

func (rs *resources) Create(ctx context.Context, req model.CreateResourceRequest) (*model.Resource, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	rs.s.nextResourceID++
	rec := &model.Resource{
		ID:           rs.s.nextResourceID,
		DisasterID:   req.DisasterID,
		Name:         req.Name,
		LocationName: req.LocationName,
		Type:         req.Type,
		CreatedAt:    time.Now().UTC(),
	}
	rs.s.resources[rec.ID] = rec
	return copyResource(rec), nil
}

func (rs *resources) Get(ctx context.Context, id int64) (*model.Resource, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()
	return copyResource(rs.s.resources[id]), nil
}

func (rs *resources) List(ctx context.Context, disasterID *int64) ([]*model.Resource, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	var out []*model.Resource
	for _, rec := range rs.s.resources {
		if disasterID != nil && rec.DisasterID != *disasterID {
			continue
		}
		out = append(out, copyResource(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (rs *resources) ListNear(ctx context.Context, lat, lon, radiusKm float64) ([]*model.Resource, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	center := geo.Point{Lat: lat, Lon: lon}
	var out []*model.Resource
	for _, rec := range rs.s.resources {
		if rec.Latitude == nil || rec.Longitude == nil {
			continue
		}
		if geo.WithinRadius(center, geo.Point{Lat: *rec.Latitude, Lon: *rec.Longitude}, radiusKm) {
			out = append(out, copyResource(rec))
		}
	}
	return out, nil
}

func (rs *resources) Update(ctx context.Context, id int64, upd model.ResourceUpdate) (*model.Resource, error) {
	rs.s.mu.Lock()
	defer rs.s.mu.Unlock()

	rec, ok := rs.s.resources[id]
	if !ok {
		return nil, nil
	}
	if upd.Name != nil {
		rec.Name = *upd.Name
	}
	if upd.LocationName != nil {
		rec.LocationName = *upd.LocationName
	}
	if upd.Type != nil {
		rec.Type = *upd.Type
	}
	if upd.Latitude != nil {
		v := *upd.Latitude
		rec.Latitude = &v
	}
	if upd.Longitude != nil {
		v := *upd.Longitude
		rec.Longitude = &v
	}
	return copyResource(rec), nil
}

// Records are copied on every boundary crossing so callers can never alias
// the store's internal state.

func copyUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	out := *u
	return &out
}

func copyDisaster(d *model.Disaster) *model.Disaster {
	if d == nil {
		return nil
	}
	out := *d
	out.Tags = append([]string{}, d.Tags...)
	out.AuditTrail = append([]model.AuditEntry{}, d.AuditTrail...)
	out.Latitude = copyFloat(d.Latitude)
	out.Longitude = copyFloat(d.Longitude)
	return &out
}

func copyReport(r *model.Report) *model.Report {
	if r == nil {
		return nil
	}
	out := *r
	out.ImageURL = copyStr(r.ImageURL)
	return &out
}

func copyResource(r *model.Resource) *model.Resource {
	if r == nil {
		return nil
	}
	out := *r
	out.Latitude = copyFloat(r.Latitude)
	out.Longitude = copyFloat(r.Longitude)
	return &out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copyStr(v *string) *string {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
