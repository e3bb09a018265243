package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

// ErrReportNotFound is returned when no archived report has the requested ID
var ErrReportNotFound = errors.New("report not found")

// ReportListing is the index view of an archived report
type ReportListing struct {
	ID                string    `json:"id"`
	PartNumber        string    `json:"part_number"`
	GeneratedAt       time.Time `json:"generated_at"`
	HasOutstandingNok bool      `json:"has_outstanding_nok"`
}

// ReportRepository archives evaluated inspection reports
type ReportRepository interface {
	SaveReport(ctx context.Context, report *entities.InspectionReport) error
	GetReport(ctx context.Context, id string) (*entities.InspectionReport, error)
	// ListReports returns listings newest first
	ListReports(ctx context.Context) ([]ReportListing, error)
}

// ListingOf builds the index view of a report
func ListingOf(report *entities.InspectionReport) ReportListing {
	return ReportListing{
		ID:                report.ID,
		PartNumber:        report.Header.PartNumber,
		GeneratedAt:       report.GeneratedAt,
		HasOutstandingNok: report.HasOutstandingNok,
	}
}
