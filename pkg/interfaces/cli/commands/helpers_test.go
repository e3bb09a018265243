package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vsinha/fsminspect/pkg/infrastructure/repositories/csv"
	testhelpers "github.com/vsinha/fsminspect/pkg/infrastructure/testing"
)

const sampleActualsCSV = "seq,value_from_edge,actual_dia,actual_axis\n" +
	"1,150,10.2,55.1\n" +
	"2,1000,9.2x12.3,44.4\n" +
	"3,150,13.7,66.5\n"

// writeScenario writes the sample document with the given actuals sheet
func writeScenario(t *testing.T, actuals string) string {
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
	if err := os.WriteFile(filepath.Join(dir, csv.ActualsFile), []byte(actuals), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}
