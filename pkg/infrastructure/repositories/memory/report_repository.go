package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/domain/repositories"
)

// ReportRepository provides in-memory report storage
type ReportRepository struct {
	mu         sync.RWMutex
	reports    []entities.InspectionReport
	reportsMap map[string]int
}

// NewReportRepository creates a new in-memory report repository
func NewReportRepository(expectedReports int) *ReportRepository {
	return &ReportRepository{
		reports:    make([]entities.InspectionReport, 0, expectedReports),
		reportsMap: make(map[string]int, expectedReports),
	}
}

// Verify interface compliance
var _ repositories.ReportRepository = (*ReportRepository)(nil)

// SaveReport stores a report, replacing any earlier report with the same ID
func (r *ReportRepository) SaveReport(_ context.Context, report *entities.InspectionReport) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	if report.ID == "" {
		return fmt.Errorf("report ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.reportsMap[report.ID]; exists {
		r.reports[index] = *report
		return nil
	}
	r.reportsMap[report.ID] = len(r.reports)
	r.reports = append(r.reports, *report)
	return nil
}

// GetReport returns a copy of the report with the given ID
func (r *ReportRepository) GetReport(_ context.Context, id string) (*entities.InspectionReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.reportsMap[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrReportNotFound, id)
	}
	report := r.reports[index]
	return &report, nil
}

// ListReports returns listings of all stored reports, newest first
func (r *ReportRepository) ListReports(_ context.Context) ([]repositories.ReportListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	listings := make([]repositories.ReportListing, 0, len(r.reports))
	for i := range r.reports {
		listings = append(listings, repositories.ListingOf(&r.reports[i]))
	}
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].GeneratedAt.After(listings[j].GeneratedAt)
	})
	return listings, nil
}
