package store

import (
	"context"

	"github.com/reliefgrid/reliefgrid/internal/model"
)

// Store exposes the persistence operations required by services.
// Implementations live under internal/store/<driver>/ (sqlite, memory) and
// must behave identically; internal/store/storetest holds the shared
// conformance suite both run.
//
// Absence is a value across the whole contract: lookups and partial updates
// targeting a missing id return (nil, nil), and Delete returns (false, nil).
// A non-nil error always means the backing medium failed, never "not found".
type Store interface {
	Users() Users
	Disasters() Disasters
	Reports() Reports
	Resources() Resources
	Close() error
}

type Users interface {
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type Disasters interface {
	Create(ctx context.Context, req model.CreateDisasterRequest) (*model.Disaster, error)
	Get(ctx context.Context, id int64) (*model.Disaster, error)
	// List returns disasters matching the filter, newest-created first.
	// The ordering is contractual; consumers render chronological feeds.
	List(ctx context.Context, f model.DisasterFilter) ([]*model.Disaster, error)
	// Update merges non-nil fields over the existing record, refreshes the
	// updated timestamp and appends one "update" audit entry whose actor is
	// the supplied owner, or the existing owner when none is supplied.
	Update(ctx context.Context, id int64, upd model.DisasterUpdate) (*model.Disaster, error)
	// Delete reports whether a record existed. Child reports and resources
	// are not cascaded.
	Delete(ctx context.Context, id int64) (bool, error)
}

type Reports interface {
	Create(ctx context.Context, req model.CreateReportRequest) (*model.Report, error)
	Get(ctx context.Context, id int64) (*model.Report, error)
	// List returns reports newest-created first, optionally scoped to one
	// disaster.
	List(ctx context.Context, disasterID *int64) ([]*model.Report, error)
	Update(ctx context.Context, id int64, upd model.ReportUpdate) (*model.Report, error)
}

type Resources interface {
	Create(ctx context.Context, req model.CreateResourceRequest) (*model.Resource, error)
	Get(ctx context.Context, id int64) (*model.Resource, error)
	// List returns resources newest-created first, optionally scoped to one
	// disaster.
	List(ctx context.Context, disasterID *int64) ([]*model.Resource, error)
	// ListNear returns resources within radiusKm of (lat, lon). Resources
	// without resolved coordinates are never returned. Result order is not
	// part of the contract.
	ListNear(ctx context.Context, lat, lon, radiusKm float64) ([]*model.Resource, error)
	Update(ctx context.Context, id int64, upd model.ResourceUpdate) (*model.Resource, error)
}
