package services

import (
	"context"
	"testing"

	"github.com/reliefgrid/reliefgrid/internal/model"
	"github.com/reliefgrid/reliefgrid/internal/store/memory"
)

func TestDisasterService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	disasters := NewDisasterService(st)
	resources := NewResourceService(st)

	d, err := disasters.CreateDisaster(ctx, model.CreateDisasterRequest{
		Title: "wildfire", LocationName: "LA", Tags: []string{"fire"}, OwnerID: "A",
	})
	if err != nil {
		t.Fatalf("create disaster: %v", err)
	}

	r, err := resources.CreateResource(ctx, model.CreateResourceRequest{
		DisasterID: d.ID, Name: "shelter", LocationName: "LA", Type: "shelter",
	})
	if err != nil {
		t.Fatalf("create resource: %v", err)
	}
	lat, lon := 34.05, -118.24
	if _, err := resources.UpdateResource(ctx, r.ID, model.ResourceUpdate{Latitude: &lat, Longitude: &lon}); err != nil {
		t.Fatalf("geocode resource: %v", err)
	}

	near, err := resources.ListResourcesNear(ctx, 34.05, -118.24, 1)
	if err != nil || len(near) != 1 || near[0].ID != r.ID {
		t.Fatalf("near query at site: %+v err=%v", near, err)
	}
	none, err := resources.ListResourcesNear(ctx, 0, 0, 1)
	if err != nil || len(none) != 0 {
		t.Fatalf("near query far away: %+v err=%v", none, err)
	}

	fires, err := disasters.ListDisasters(ctx, model.DisasterFilter{Tag: "fire"})
	if err != nil || len(fires) != 1 {
		t.Fatalf("list by tag: %+v err=%v", fires, err)
	}
}
