package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
)

// WriteSpecRows writes spec rows in the layout LoadSpecRows reads
func WriteSpecRows(w io.Writer, rows []entities.SpecRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SpecRowsHeader); err != nil {
		return fmt.Errorf("failed to write spec rows header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.Itoa(row.Seq),
			row.Press,
			row.SelectorID,
			row.Ref,
			formatMM(row.X),
			formatMM(row.SpecYZ),
			row.SpecDiaRaw,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write spec row %d: %w", row.Seq, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteActualsTemplate writes an actuals sheet with one empty line per row
func WriteActualsTemplate(w io.Writer, rows []entities.SpecRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ActualsHeader); err != nil {
		return fmt.Errorf("failed to write actuals header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write([]string{strconv.Itoa(row.Seq), "", "", ""}); err != nil {
			return fmt.Errorf("failed to write actuals row %d: %w", row.Seq, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteHeader writes header spec values and actuals in the layout LoadHeader reads
func WriteHeader(w io.Writer, header entities.HeaderInfo, actuals entities.HeaderActuals) error {
	lines := [][]string{
		{"part_number", header.PartNumber, ""},
		{"level", header.Level, ""},
		{"hand", header.Hand, ""},
		{"format_no", header.FormatNo, ""},
		{"fsm_length", formatMM(header.FsmLength), formatMM(actuals.FsmLength)},
		{"root_width", formatMM(header.RootWidth), formatMM(actuals.RootWidth)},
		{"total_holes", formatCount(header.TotalHoles), formatCount(actuals.TotalHoles)},
		{"kb_code", header.KBCode, actuals.KBCode},
		{"pc_code", header.PCCode, actuals.PCCode},
		{"fsm_serial", "", actuals.FsmSerial},
		{"matrix_used", "", actuals.MatrixUsed},
		{"inspectors", "", strings.Join(actuals.Inspectors, ";")},
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(HeaderHeader); err != nil {
		return fmt.Errorf("failed to write header sheet header: %w", err)
	}
	if err := cw.WriteAll(lines); err != nil {
		return fmt.Errorf("failed to write header sheet: %w", err)
	}
	return nil
}

// WriteAuxiliaryTemplate writes an auxiliary sheet with the visual check
// names and empty hole check slots
func WriteAuxiliaryTemplate(w io.Writer, visualChecks []string, holeSlots int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(AuxiliaryHeader); err != nil {
		return fmt.Errorf("failed to write auxiliary header: %w", err)
	}
	for _, name := range visualChecks {
		if err := cw.Write([]string{"visual", name, "", ""}); err != nil {
			return fmt.Errorf("failed to write visual check %s: %w", name, err)
		}
	}
	for i := 1; i <= min(holeSlots, entities.MaxHoleChecks); i++ {
		if err := cw.Write([]string{"hole", fmt.Sprintf("H%d", i), "", ""}); err != nil {
			return fmt.Errorf("failed to write hole check H%d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMM(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

func formatCount(c entities.Count) string {
	if !c.Valid {
		return ""
	}
	return strconv.Itoa(c.Value)
}
