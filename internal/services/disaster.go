package services

import (
	"context"

	"github.com/reliefgrid/reliefgrid/internal/model"
	"github.com/reliefgrid/reliefgrid/internal/store"
)

// DisasterService handles disaster records and their audit trails. The
// store appends audit entries as part of each mutation; the service adds
// nothing on top so every caller gets identical trail semantics.
type DisasterService struct {
	store store.Store
}

func NewDisasterService(s store.Store) *DisasterService { return &DisasterService{store: s} }

func (s *DisasterService) CreateDisaster(ctx context.Context, req model.CreateDisasterRequest) (*model.Disaster, error) {
	return s.store.Disasters().Create(ctx, req)
}

func (s *DisasterService) GetDisaster(ctx context.Context, id int64) (*model.Disaster, error) {
	return s.store.Disasters().Get(ctx, id)
}

func (s *DisasterService) ListDisasters(ctx context.Context, f model.DisasterFilter) ([]*model.Disaster, error) {
	return s.store.Disasters().List(ctx, f)
}

func (s *DisasterService) UpdateDisaster(ctx context.Context, id int64, upd model.DisasterUpdate) (*model.Disaster, error) {
	return s.store.Disasters().Update(ctx, id, upd)
}

func (s *DisasterService) DeleteDisaster(ctx context.Context, id int64) (bool, error) {
	return s.store.Disasters().Delete(ctx, id)
}
