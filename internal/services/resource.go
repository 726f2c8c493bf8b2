package services

import (
	"context"

	"github.com/reliefgrid/reliefgrid/internal/model"
	"github.com/reliefgrid/reliefgrid/internal/store"
)

// ResourceService handles deployable resources, including the proximity
// query backing "what is near this point".
type ResourceService struct {
	store store.Store
}

func NewResourceService(s store.Store) *ResourceService { return &ResourceService{store: s} }

func (s *ResourceService) CreateResource(ctx context.Context, req model.CreateResourceRequest) (*model.Resource, error) {
	return s.store.Resources().Create(ctx, req)
}

func (s *ResourceService) GetResource(ctx context.Context, id int64) (*model.Resource, error) {
	return s.store.Resources().Get(ctx, id)
}

func (s *ResourceService) ListResources(ctx context.Context, disasterID *int64) ([]*model.Resource, error) {
	return s.store.Resources().List(ctx, disasterID)
}

func (s *ResourceService) ListResourcesNear(ctx context.Context, lat, lon, radiusKm float64) ([]*model.Resource, error) {
	return s.store.Resources().ListNear(ctx, lat, lon, radiusKm)
}

func (s *ResourceService) UpdateResource(ctx context.Context, id int64, upd model.ResourceUpdate) (*model.Resource, error) {
	return s.store.Resources().Update(ctx, id, upd)
}
