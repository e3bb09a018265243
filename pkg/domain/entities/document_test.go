package entities

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func mm(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestInspectionDocument_Padding(t *testing.T) {
	doc, err := NewInspectionDocument(HeaderInfo{}, []SpecRow{
		{Seq: 1, SpecDiaRaw: "10"},
		{Seq: 2, SpecDiaRaw: "9x12"},
	})
	if err != nil {
		t.Fatalf("Expected document creation to succeed: %v", err)
	}

	rows := doc.Rows()
	if len(rows) != MaxRows {
		t.Fatalf("Expected %d rows, got %d", MaxRows, len(rows))
	}
	if doc.PopulatedRows() != 2 {
		t.Errorf("Expected 2 populated rows, got %d", doc.PopulatedRows())
	}
	for i := 2; i < MaxRows; i++ {
		if !rows[i].IsBlank() {
			t.Errorf("Expected row %d to be blank padding", i)
		}
		if rows[i].Seq != i+1 {
			t.Errorf("Expected padded row %d to have seq %d, got %d", i, i+1, rows[i].Seq)
		}
	}
}

func TestInspectionDocument_PaddingContinuesAfterHighestSeq(t *testing.T) {
	doc, err := NewInspectionDocument(HeaderInfo{}, []SpecRow{
		{Seq: 10, SpecDiaRaw: "10"},
		{Seq: 3, SpecDiaRaw: "10"},
	})
	if err != nil {
		t.Fatalf("Expected document creation to succeed: %v", err)
	}
	if idx, ok := doc.IndexOfSeq(11); !ok || idx != 2 {
		t.Errorf("Expected seq 11 in slot 2, got slot %d (found=%v)", idx, ok)
	}
	if idx, ok := doc.IndexOfSeq(3); !ok || idx != 1 {
		t.Errorf("Expected seq 3 in slot 1, got slot %d (found=%v)", idx, ok)
	}
}

func TestInspectionDocument_MissingSeqSkipsExplicitOnes(t *testing.T) {
	tests := []struct {
		name string
		seqs []int
		want []int
	}{
		{"blank after explicit", []int{2, 0}, []int{2, 3}},
		{"blank before explicit", []int{0, 1}, []int{2, 1}},
		{"all blank", []int{0, 0, 0}, []int{1, 2, 3}},
		{"gap filled by position", []int{5, 0, 0}, []int{5, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make([]SpecRow, len(tt.seqs))
			for i, seq := range tt.seqs {
				rows[i] = SpecRow{Seq: seq, SpecDiaRaw: "10"}
			}
			doc, err := NewInspectionDocument(HeaderInfo{}, rows)
			if err != nil {
				t.Fatalf("Expected document creation to succeed: %v", err)
			}
			got := make([]int, len(tt.seqs))
			for i := range got {
				row, _ := doc.Row(i)
				got[i] = row.Seq
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Seq mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInspectionDocument_Validation(t *testing.T) {
	tooMany := make([]SpecRow, MaxRows+1)
	if _, err := NewInspectionDocument(HeaderInfo{}, tooMany); !errors.Is(err, ErrTooManyRows) {
		t.Errorf("Expected ErrTooManyRows, got %v", err)
	}

	dup := []SpecRow{{Seq: 4}, {Seq: 4}}
	if _, err := NewInspectionDocument(HeaderInfo{}, dup); !errors.Is(err, ErrDuplicateRowSeq) {
		t.Errorf("Expected ErrDuplicateRowSeq, got %v", err)
	}
}

func TestInspectionDocument_Immutability(t *testing.T) {
	original, err := NewInspectionDocument(HeaderInfo{FsmLength: mm("2000")}, []SpecRow{{Seq: 1, SpecDiaRaw: "10"}})
	if err != nil {
		t.Fatalf("Expected document creation to succeed: %v", err)
	}

	edited, err := original.WithActual(0, ActualMeasurement{Diameter: mm("10.2")})
	if err != nil {
		t.Fatalf("WithActual failed: %v", err)
	}

	before, _ := original.Actual(0)
	after, _ := edited.Actual(0)
	if !before.IsEmpty() {
		t.Error("Original document was modified by WithActual")
	}
	if !after.Diameter.Valid {
		t.Error("Edited document is missing the new actual")
	}

	// slices handed out are copies
	actuals := edited.Actuals()
	actuals[0] = ActualMeasurement{}
	if again, _ := edited.Actual(0); again.IsEmpty() {
		t.Error("Mutating the Actuals() slice changed the document")
	}

	withInspectors := original.WithHeaderActuals(HeaderActuals{Inspectors: []string{"A"}})
	ha := withInspectors.HeaderActuals()
	ha.Inspectors[0] = "Z"
	if withInspectors.HeaderActuals().Inspectors[0] != "A" {
		t.Error("Mutating HeaderActuals() inspectors changed the document")
	}

	cleared, err := edited.WithoutActual(0)
	if err != nil {
		t.Fatalf("WithoutActual failed: %v", err)
	}
	if got, _ := cleared.Actual(0); !got.IsEmpty() {
		t.Error("WithoutActual left data behind")
	}
}

func TestInspectionDocument_IndexBounds(t *testing.T) {
	doc, _ := NewInspectionDocument(HeaderInfo{}, nil)

	for _, i := range []int{-1, MaxRows} {
		if _, err := doc.WithActual(i, ActualMeasurement{}); !errors.Is(err, ErrRowIndexOutOfRange) {
			t.Errorf("WithActual(%d): expected ErrRowIndexOutOfRange, got %v", i, err)
		}
		if _, err := doc.Row(i); !errors.Is(err, ErrRowIndexOutOfRange) {
			t.Errorf("Row(%d): expected ErrRowIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestInspectionDocument_AuxiliaryLimit(t *testing.T) {
	doc, _ := NewInspectionDocument(HeaderInfo{}, nil)

	checks := make([]AuxiliaryCheck, 0, MaxHoleChecks+1)
	for i := 0; i < MaxHoleChecks+1; i++ {
		checks = append(checks, AuxiliaryCheck{Kind: AuxiliaryHole, Name: "H", SpecDiaRaw: "13"})
	}
	if _, err := doc.WithAuxiliaryChecks(checks); !errors.Is(err, ErrTooManyHoleChecks) {
		t.Errorf("Expected ErrTooManyHoleChecks, got %v", err)
	}

	// visual checks do not count against the hole limit
	checks = append(checks[:MaxHoleChecks], AuxiliaryCheck{Kind: AuxiliaryVisual, Name: "paint"})
	next, err := doc.WithAuxiliaryChecks(checks)
	if err != nil {
		t.Fatalf("Expected %d hole checks plus a visual check to be accepted: %v", MaxHoleChecks, err)
	}
	if len(next.AuxiliaryChecks()) != MaxHoleChecks+1 {
		t.Errorf("Expected %d auxiliary checks, got %d", MaxHoleChecks+1, len(next.AuxiliaryChecks()))
	}
}

func TestInspectionDocument_EffectiveSpan(t *testing.T) {
	doc, _ := NewInspectionDocument(HeaderInfo{FsmLength: mm("2000")}, nil)

	if !doc.EffectiveSpan().Decimal.Equal(decimal.NewFromInt(2000)) || doc.SpanIsMeasured() {
		t.Errorf("Expected spec span 2000, got %v", doc.EffectiveSpan())
	}

	measured := doc.WithHeaderActuals(HeaderActuals{FsmLength: mm("1990")})
	if !measured.EffectiveSpan().Decimal.Equal(decimal.NewFromInt(1990)) || !measured.SpanIsMeasured() {
		t.Errorf("Expected measured span 1990, got %v", measured.EffectiveSpan())
	}

	bogus := doc.WithHeaderActuals(HeaderActuals{FsmLength: mm("0")})
	if !bogus.EffectiveSpan().Decimal.Equal(decimal.NewFromInt(2000)) {
		t.Errorf("Expected non-positive measured span to fall back to spec, got %v", bogus.EffectiveSpan())
	}
}
