package csv

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	testhelpers "github.com/vsinha/fsminspect/pkg/infrastructure/testing"
)

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoader_LoadSpecRows(t *testing.T) {
	path := writeFile(t, t.TempDir(), SpecRowsFile, `seq,press,selector_id,ref,x,spec_yz,spec_dia
1,PW,1,B,150,50,10

2,PW,2,B,1000,40,9 x 12
3,,,,,,
`)

	rows, err := NewLoader(entities.SlotFirstTokenHeight).LoadSpecRows(path)
	if err != nil {
		t.Fatalf("LoadSpecRows: %v", err)
	}

	want := []entities.SpecRow{
		{Seq: 1, Press: "PW", SelectorID: "1", Ref: "B", X: testhelpers.MM("150"), SpecYZ: testhelpers.MM("50"), SpecDiaRaw: "10"},
		{Seq: 2, Press: "PW", SelectorID: "2", Ref: "B", X: testhelpers.MM("1000"), SpecYZ: testhelpers.MM("40"), SpecDiaRaw: "9 x 12"},
		{Seq: 3},
	}
	if diff := cmp.Diff(want, rows, decimalEqual); diff != "" {
		t.Errorf("LoadSpecRows mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_LoadSpecRows_Errors(t *testing.T) {
	var tooMany strings.Builder
	tooMany.WriteString("seq,press,selector_id,ref,x,spec_yz,spec_dia\n")
	for i := 1; i <= entities.MaxRows+1; i++ {
		fmt.Fprintf(&tooMany, "%d,PW,%d,B,%d,50,10\n", i, i, i*10)
	}

	testCases := []struct {
		name        string
		content     string
		expectError string
	}{
		{
			name:        "header mismatch",
			content:     "seq,press,x\n1,PW,10\n",
			expectError: "spec rows CSV header mismatch",
		},
		{
			name:        "header only",
			content:     "seq,press,selector_id,ref,x,spec_yz,spec_dia\n",
			expectError: "at least one data row",
		},
		{
			name:        "bad x reports file line",
			content:     "seq,press,selector_id,ref,x,spec_yz,spec_dia\n1,PW,1,B,150,50,10\n\n2,PW,2,B,abc,50,10\n",
			expectError: "spec rows CSV row 4: invalid x: abc",
		},
		{
			name:        "column count",
			content:     "seq,press,selector_id,ref,x,spec_yz,spec_dia\n1,PW,1\n",
			expectError: "spec rows CSV row 2: expected 7 columns, got 3",
		},
		{
			name:        "too many rows",
			content:     tooMany.String(),
			expectError: entities.ErrTooManyRows.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), SpecRowsFile, tc.content)
			_, err := NewLoader(entities.SlotFirstTokenHeight).LoadSpecRows(path)
			if err == nil {
				t.Fatalf("Expected error containing %q, got none", tc.expectError)
			}
			if !strings.Contains(err.Error(), tc.expectError) {
				t.Errorf("Expected error containing %q, got %q", tc.expectError, err.Error())
			}
		})
	}
}

func TestLoader_LoadActuals(t *testing.T) {
	path := writeFile(t, t.TempDir(), ActualsFile, `seq,value_from_edge,actual_dia,actual_axis
1,150,10.2,55.1
2,,12x9,44.4
4,,,
`)

	testCases := []struct {
		convention entities.SlotHeightConvention
		wantHeight string
		wantWidth  string
	}{
		{entities.SlotFirstTokenHeight, "12", "9"},
		{entities.SlotMinMaxHeight, "9", "12"},
	}

	for _, tc := range testCases {
		t.Run(string(tc.convention), func(t *testing.T) {
			actuals, err := NewLoader(tc.convention).LoadActuals(path)
			if err != nil {
				t.Fatalf("LoadActuals: %v", err)
			}

			want := map[int]entities.ActualMeasurement{
				1: {ValueFromEdge: testhelpers.MM("150"), Diameter: testhelpers.MM("10.2"), Axis: testhelpers.MM("55.1")},
				2: {Height: testhelpers.MM(tc.wantHeight), Width: testhelpers.MM(tc.wantWidth), Axis: testhelpers.MM("44.4")},
				4: {},
			}
			if diff := cmp.Diff(want, actuals, decimalEqual); diff != "" {
				t.Errorf("LoadActuals mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoader_LoadActuals_Errors(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(entities.SlotFirstTokenHeight)

	dup := writeFile(t, dir, "dup.csv", "seq,value_from_edge,actual_dia,actual_axis\n1,,10,\n1,,11,\n")
	if _, err := loader.LoadActuals(dup); err == nil || !strings.Contains(err.Error(), "duplicate seq 1") {
		t.Errorf("Expected duplicate seq error, got %v", err)
	}

	bad := writeFile(t, dir, "bad.csv", "seq,value_from_edge,actual_dia,actual_axis\n1,,big,\n")
	if _, err := loader.LoadActuals(bad); err == nil || !strings.Contains(err.Error(), "invalid actual size: big") {
		t.Errorf("Expected invalid size error, got %v", err)
	}

	if _, err := loader.LoadActuals(filepath.Join(dir, "missing.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected not-exist error, got %v", err)
	}
}

func TestLoader_LoadHeader(t *testing.T) {
	path := writeFile(t, t.TempDir(), HeaderFile, `field,spec,actual
part_number,5801A123,
hand,l,
fsm_length,2000,1995.5
root_width,85.5,85.6
total_holes,24,23
kb_code,12,12
pc_code,34,35
fsm_serial,,S-0001
inspectors,,R. Iyer; M. Shah
`)

	header, actuals, err := NewLoader(entities.SlotFirstTokenHeight).LoadHeader(path)
	if err != nil {
		t.Fatalf("LoadHeader: %v", err)
	}

	wantHeader := entities.HeaderInfo{
		PartNumber: "5801A123",
		Hand:       "L",
		FsmLength:  testhelpers.MM("2000"),
		RootWidth:  testhelpers.MM("85.5"),
		TotalHoles: entities.NewCount(24),
		KBCode:     "12",
		PCCode:     "34",
	}
	wantActuals := entities.HeaderActuals{
		FsmSerial:  "S-0001",
		Inspectors: []string{"R. Iyer", "M. Shah"},
		TotalHoles: entities.NewCount(23),
		KBCode:     "12",
		PCCode:     "35",
		RootWidth:  testhelpers.MM("85.6"),
		FsmLength:  testhelpers.MM("1995.5"),
	}
	if diff := cmp.Diff(wantHeader, header, decimalEqual); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantActuals, actuals, decimalEqual); diff != "" {
		t.Errorf("header actuals mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_LoadHeader_UnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), HeaderFile, "field,spec,actual\ncolour,red,\n")
	_, _, err := NewLoader(entities.SlotFirstTokenHeight).LoadHeader(path)
	if err == nil || err.Error() != "header CSV row 2: unknown header field: colour" {
		t.Errorf("Expected unknown field error, got %v", err)
	}
}

func TestLoader_LoadAuxiliaryChecks(t *testing.T) {
	path := writeFile(t, t.TempDir(), AuxiliaryFile, `kind,name,spec_dia,actual
visual,paint finish,,ok
visual,burrs,,
hole,H1,13,13.2
hole,H2,,
`)

	checks, err := NewLoader(entities.SlotFirstTokenHeight).LoadAuxiliaryChecks(path)
	if err != nil {
		t.Fatalf("LoadAuxiliaryChecks: %v", err)
	}

	want := []entities.AuxiliaryCheck{
		{Kind: entities.AuxiliaryVisual, Name: "paint finish", Observed: entities.CheckPass},
		{Kind: entities.AuxiliaryVisual, Name: "burrs", Observed: entities.CheckUnknown},
		{Kind: entities.AuxiliaryHole, Name: "H1", SpecDiaRaw: "13", Actual: entities.ActualMeasurement{Diameter: testhelpers.MM("13.2")}},
	}
	if diff := cmp.Diff(want, checks, decimalEqual); diff != "" {
		t.Errorf("LoadAuxiliaryChecks mismatch (-want +got):\n%s", diff)
	}
}

func TestLoader_LoadAuxiliaryChecks_TooManyHoles(t *testing.T) {
	var b strings.Builder
	b.WriteString("kind,name,spec_dia,actual\n")
	for i := 1; i <= entities.MaxHoleChecks+1; i++ {
		fmt.Fprintf(&b, "hole,H%d,13,\n", i)
	}
	path := writeFile(t, t.TempDir(), AuxiliaryFile, b.String())

	_, err := NewLoader(entities.SlotFirstTokenHeight).LoadAuxiliaryChecks(path)
	if !errors.Is(err, entities.ErrTooManyHoleChecks) {
		t.Errorf("Expected ErrTooManyHoleChecks, got %v", err)
	}
}

func TestWriters_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	loader := NewLoader(entities.SlotFirstTokenHeight)

	var rowsBuf bytes.Buffer
	if err := WriteSpecRows(&rowsBuf, testhelpers.BuildSampleRows()); err != nil {
		t.Fatalf("WriteSpecRows: %v", err)
	}
	rows, err := loader.LoadSpecRows(writeFile(t, dir, SpecRowsFile, rowsBuf.String()))
	if err != nil {
		t.Fatalf("LoadSpecRows: %v", err)
	}
	if diff := cmp.Diff(testhelpers.BuildSampleRows(), rows, decimalEqual); diff != "" {
		t.Errorf("spec rows mismatch (-want +got):\n%s", diff)
	}

	var headerBuf bytes.Buffer
	if err := WriteHeader(&headerBuf, testhelpers.BuildSampleHeader(), testhelpers.BuildSampleHeaderActuals()); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	header, actuals, err := loader.LoadHeader(writeFile(t, dir, HeaderFile, headerBuf.String()))
	if err != nil {
		t.Fatalf("LoadHeader: %v", err)
	}
	if diff := cmp.Diff(testhelpers.BuildSampleHeader(), header, decimalEqual); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(testhelpers.BuildSampleHeaderActuals(), actuals, decimalEqual); diff != "" {
		t.Errorf("header actuals mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteAuxiliaryTemplate_LoadsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteAuxiliaryTemplate(&buf, []string{"paint finish"}, 10); err != nil {
		t.Fatalf("WriteAuxiliaryTemplate: %v", err)
	}
	if got := strings.Count(buf.String(), "\nhole,"); got != entities.MaxHoleChecks {
		t.Errorf("Expected %d hole slots, got %d", entities.MaxHoleChecks, got)
	}

	checks, err := NewLoader(entities.SlotFirstTokenHeight).LoadAuxiliaryChecks(writeFile(t, t.TempDir(), AuxiliaryFile, buf.String()))
	if err != nil {
		t.Fatalf("LoadAuxiliaryChecks: %v", err)
	}
	if len(checks) != 1 || checks[0].Observed != entities.CheckUnknown {
		t.Errorf("Expected one unanswered visual check, got %+v", checks)
	}
}
