package inspection

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/infrastructure/events"
	"github.com/vsinha/fsminspect/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/fsminspect/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/fsminspect/pkg/infrastructure/testing"
)

// writeSampleScenario writes the sample document as a scenario directory
func writeSampleScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	create := func(name string) *os.File {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { f.Close() })
		return f
	}

	if err := csv.WriteSpecRows(create(csv.SpecRowsFile), testhelpers.BuildSampleRows()); err != nil {
		t.Fatal(err)
	}
	if err := csv.WriteHeader(create(csv.HeaderFile), testhelpers.BuildSampleHeader(), testhelpers.BuildSampleHeaderActuals()); err != nil {
		t.Fatal(err)
	}
	actuals := "seq,value_from_edge,actual_dia,actual_axis\n" +
		"1,150,10.2,55.1\n" +
		"2,1000,9.2x12.3,44.4\n" +
		"3,150,13.7,66.5\n"
	if err := os.WriteFile(filepath.Join(dir, csv.ActualsFile), []byte(actuals), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestEvaluationService_EvaluateDir(t *testing.T) {
	dir := writeSampleScenario(t)
	archive := memory.NewReportRepository(1)
	service := NewEvaluationService(entities.DefaultTolerancePolicy(), archive, nil)

	result, err := service.EvaluateDir(context.Background(), dir, EvaluateOptions{Archive: true})
	if err != nil {
		t.Fatalf("EvaluateDir: %v", err)
	}

	summary := result.Report.Summary
	if summary.OK != testhelpers.SampleRowsOK || summary.NOK != testhelpers.SampleRowsNOK || summary.Undetermined != testhelpers.SampleRowsUndetermined {
		t.Errorf("Unexpected summary %+v", summary)
	}
	if summary.Blank != entities.MaxRows-4 {
		t.Errorf("Expected %d blank rows, got %d", entities.MaxRows-4, summary.Blank)
	}
	if !result.Report.HasOutstandingNok || result.NokCount() != 1 {
		t.Errorf("Expected exactly one outstanding NOK, got %d", result.NokCount())
	}
	if len(result.InputFiles) != 3 {
		t.Errorf("Expected 3 input files, got %v", result.InputFiles)
	}
	if !result.Archived {
		t.Error("Expected report to be archived")
	}
	if listings, _ := archive.ListReports(context.Background()); len(listings) != 1 {
		t.Errorf("Expected 1 archived report, got %d", len(listings))
	}
	if len(result.Events) == 0 || result.Events[0].Type() != events.DocumentLoadedEvent {
		t.Error("Expected event trail starting with document.loaded")
	}
}

func TestEvaluationService_FsmLengthOverride(t *testing.T) {
	dir := writeSampleScenario(t)
	service := NewEvaluationService(entities.DefaultTolerancePolicy(), nil, nil)

	result, err := service.EvaluateDir(context.Background(), dir, EvaluateOptions{
		FsmLengthActual: testhelpers.MM("1990"),
		Archive:         true,
	})
	if err != nil {
		t.Fatalf("EvaluateDir: %v", err)
	}
	if !result.Report.EffectiveSpan.Decimal.Equal(testhelpers.MM("1990").Decimal) {
		t.Errorf("Expected effective span 1990, got %s", result.Report.EffectiveSpan.Decimal)
	}
	if result.Archived {
		t.Error("Expected no archiving without an archive")
	}

	var fsm *entities.HeaderComparison
	for i := range result.Report.HeaderChecks {
		if result.Report.HeaderChecks[i].Field == "fsm_length" {
			fsm = &result.Report.HeaderChecks[i]
		}
	}
	if fsm == nil || !fsm.Informational || !fsm.Deviation.Decimal.Equal(testhelpers.MM("-10").Decimal) {
		t.Errorf("Expected informational fsm_length deviation -10, got %+v", fsm)
	}
}

func TestEvaluationService_MissingInput(t *testing.T) {
	service := NewEvaluationService(entities.DefaultTolerancePolicy(), nil, nil)

	if _, err := service.EvaluateDir(context.Background(), filepath.Join(t.TempDir(), "absent"), EvaluateOptions{}); err == nil {
		t.Error("Expected error for missing directory")
	}
	if _, err := service.EvaluateDir(context.Background(), t.TempDir(), EvaluateOptions{}); err == nil {
		t.Error("Expected error for directory without spec rows")
	}
}

func TestEvaluationService_Cancelled(t *testing.T) {
	dir := writeSampleScenario(t)
	service := NewEvaluationService(entities.DefaultTolerancePolicy(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := service.EvaluateDir(ctx, dir, EvaluateOptions{}); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
