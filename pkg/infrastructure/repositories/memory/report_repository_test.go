package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vsinha/fsminspect/pkg/domain/repositories"
	testhelpers "github.com/vsinha/fsminspect/pkg/infrastructure/testing"
)

func TestReportRepository_SaveReport(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(4)

	report := testhelpers.BuildSampleReport("r-1", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC))
	if err := repo.SaveReport(ctx, report); err != nil {
		t.Fatalf("Failed to save report: %v", err)
	}

	retrieved, err := repo.GetReport(ctx, "r-1")
	if err != nil {
		t.Fatalf("Failed to get report: %v", err)
	}
	if retrieved.Header.PartNumber != testhelpers.SamplePartNumber {
		t.Errorf("Expected part number %s, got %s", testhelpers.SamplePartNumber, retrieved.Header.PartNumber)
	}
	if retrieved.Summary.NOK != testhelpers.SampleRowsNOK {
		t.Errorf("Expected %d NOK rows, got %d", testhelpers.SampleRowsNOK, retrieved.Summary.NOK)
	}
	if !retrieved.HasOutstandingNok {
		t.Error("Expected archived report to carry the outstanding NOK flag")
	}
}

func TestReportRepository_SaveReport_Replace(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(4)

	first := testhelpers.BuildSampleReport("r-1", time.Now())
	second := testhelpers.BuildSampleReport("r-1", time.Now())
	second.Header.PartNumber = "REVISED"

	if err := repo.SaveReport(ctx, first); err != nil {
		t.Fatalf("Failed to save first report: %v", err)
	}
	if err := repo.SaveReport(ctx, second); err != nil {
		t.Fatalf("Failed to save second report: %v", err)
	}

	listings, _ := repo.ListReports(ctx)
	if len(listings) != 1 {
		t.Fatalf("Expected 1 report after replacement, got %d", len(listings))
	}
	if listings[0].PartNumber != "REVISED" {
		t.Errorf("Expected replaced report, got part number %s", listings[0].PartNumber)
	}
}

func TestReportRepository_Validation(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(1)

	if err := repo.SaveReport(ctx, nil); err == nil {
		t.Error("Expected error for nil report")
	}
	if err := repo.SaveReport(ctx, testhelpers.BuildSampleReport("", time.Now())); err == nil {
		t.Error("Expected error for report without ID")
	}
	if _, err := repo.GetReport(ctx, "missing"); !errors.Is(err, repositories.ErrReportNotFound) {
		t.Errorf("Expected ErrReportNotFound, got %v", err)
	}
}

func TestReportRepository_ListReports_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewReportRepository(3)
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "newest", "middle"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		if err := repo.SaveReport(ctx, testhelpers.BuildSampleReport(id, base.Add(offsets[i]))); err != nil {
			t.Fatalf("Failed to save report %s: %v", id, err)
		}
	}

	listings, err := repo.ListReports(ctx)
	if err != nil {
		t.Fatalf("Failed to list reports: %v", err)
	}
	got := make([]string, 0, len(listings))
	for _, l := range listings {
		got = append(got, l.ID)
	}
	want := []string{"newest", "middle", "old"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v, got %v", want, got)
		}
	}
}
