package services

import (
	"context"

	"github.com/reliefgrid/reliefgrid/internal/model"
	"github.com/reliefgrid/reliefgrid/internal/store"
)

// ReportService handles field reports.
type ReportService struct {
	store store.Store
}

func NewReportService(s store.Store) *ReportService { return &ReportService{store: s} }

func (s *ReportService) CreateReport(ctx context.Context, req model.CreateReportRequest) (*model.Report, error) {
	return s.store.Reports().Create(ctx, req)
}

func (s *ReportService) GetReport(ctx context.Context, id int64) (*model.Report, error) {
	return s.store.Reports().Get(ctx, id)
}

func (s *ReportService) ListReports(ctx context.Context, disasterID *int64) ([]*model.Report, error) {
	return s.store.Reports().List(ctx, disasterID)
}

func (s *ReportService) UpdateReport(ctx context.Context, id int64, upd model.ReportUpdate) (*model.Report, error) {
	return s.store.Reports().Update(ctx, id, upd)
}
