package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/domain/services"
)

// Column layouts of the inspection CSV files
var (
	SpecRowsHeader  = []string{"seq", "press", "selector_id", "ref", "x", "spec_yz", "spec_dia"}
	ActualsHeader   = []string{"seq", "value_from_edge", "actual_dia", "actual_axis"}
	HeaderHeader    = []string{"field", "spec", "actual"}
	AuxiliaryHeader = []string{"kind", "name", "spec_dia", "actual"}
)

// Loader handles loading inspection data from CSV files
type Loader struct {
	convention entities.SlotHeightConvention
}

// NewLoader creates a new CSV loader. The convention decides how "H×W"
// actual sizes are split into height and width.
func NewLoader(convention entities.SlotHeightConvention) *Loader {
	if !convention.Valid() {
		convention = entities.SlotFirstTokenHeight
	}
	return &Loader{convention: convention}
}

// LoadSpecRows loads the specification table from a CSV file
func (l *Loader) LoadSpecRows(filename string) ([]entities.SpecRow, error) {
	records, err := readRecords(filename, "spec rows", SpecRowsHeader)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("spec rows CSV must have header and at least one data row")
	}
	if len(records) > entities.MaxRows {
		return nil, fmt.Errorf("spec rows CSV: %w: got %d, maximum is %d", entities.ErrTooManyRows, len(records), entities.MaxRows)
	}

	var rows []entities.SpecRow
	for _, rec := range records {
		row, err := parseSpecRow(rec.fields)
		if err != nil {
			return nil, fmt.Errorf("spec rows CSV row %d: %w", rec.line, err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// LoadActuals loads operator measurements keyed by row sequence number
func (l *Loader) LoadActuals(filename string) (map[int]entities.ActualMeasurement, error) {
	records, err := readRecords(filename, "actuals", ActualsHeader)
	if err != nil {
		return nil, err
	}

	actuals := make(map[int]entities.ActualMeasurement, len(records))
	for _, rec := range records {
		seq, err := strconv.Atoi(strings.TrimSpace(rec.fields[0]))
		if err != nil {
			return nil, fmt.Errorf("actuals CSV row %d: invalid seq: %s", rec.line, rec.fields[0])
		}
		if _, exists := actuals[seq]; exists {
			return nil, fmt.Errorf("actuals CSV row %d: duplicate seq %d", rec.line, seq)
		}

		m, err := l.parseActual(rec.fields[1:])
		if err != nil {
			return nil, fmt.Errorf("actuals CSV row %d: %w", rec.line, err)
		}
		actuals[seq] = m
	}

	return actuals, nil
}

// LoadHeader loads header spec values and operator header actuals.
// Each line names a field and carries its spec and actual side.
func (l *Loader) LoadHeader(filename string) (entities.HeaderInfo, entities.HeaderActuals, error) {
	var (
		header  entities.HeaderInfo
		actuals entities.HeaderActuals
	)

	records, err := readRecords(filename, "header", HeaderHeader)
	if err != nil {
		return header, actuals, err
	}

	for _, rec := range records {
		field := strings.ToLower(strings.TrimSpace(rec.fields[0]))
		spec := strings.TrimSpace(rec.fields[1])
		actual := strings.TrimSpace(rec.fields[2])

		if err := applyHeaderField(&header, &actuals, field, spec, actual); err != nil {
			return header, actuals, fmt.Errorf("header CSV row %d: %w", rec.line, err)
		}
	}

	return header, actuals, nil
}

// LoadAuxiliaryChecks loads visual and stand-alone hole checks
func (l *Loader) LoadAuxiliaryChecks(filename string) ([]entities.AuxiliaryCheck, error) {
	records, err := readRecords(filename, "auxiliary checks", AuxiliaryHeader)
	if err != nil {
		return nil, err
	}

	var checks []entities.AuxiliaryCheck
	holes := 0
	for _, rec := range records {
		kind := strings.ToLower(strings.TrimSpace(rec.fields[0]))
		name := strings.TrimSpace(rec.fields[1])

		var check *entities.AuxiliaryCheck
		switch kind {
		case "visual":
			observed, err := parseObserved(rec.fields[3])
			if err != nil {
				return nil, fmt.Errorf("auxiliary checks CSV row %d: %w", rec.line, err)
			}
			check, err = entities.NewVisualCheck(name, observed)
			if err != nil {
				return nil, fmt.Errorf("auxiliary checks CSV row %d: %w", rec.line, err)
			}
		case "hole":
			// unused template slot
			if services.IsBlankCell(rec.fields[2]) && services.IsBlankCell(rec.fields[3]) {
				continue
			}
			holes++
			if holes > entities.MaxHoleChecks {
				return nil, fmt.Errorf("auxiliary checks CSV row %d: %w: maximum is %d", rec.line, entities.ErrTooManyHoleChecks, entities.MaxHoleChecks)
			}
			actual, err := l.parseSize(rec.fields[3])
			if err != nil {
				return nil, fmt.Errorf("auxiliary checks CSV row %d: %w", rec.line, err)
			}
			check, err = entities.NewHoleCheck(name, strings.TrimSpace(rec.fields[2]), actual)
			if err != nil {
				return nil, fmt.Errorf("auxiliary checks CSV row %d: %w", rec.line, err)
			}
		default:
			return nil, fmt.Errorf("auxiliary checks CSV row %d: invalid kind: %s (expected visual or hole)", rec.line, rec.fields[0])
		}

		checks = append(checks, *check)
	}

	return checks, nil
}

// Helper functions for parsing CSV records

// record is a data row and its line number in the file
type record struct {
	line   int
	fields []string
}

// readRecords reads a CSV file, validates its header and column counts,
// and returns the non-empty data rows.
func readRecords(filename, kind string, expectedHeader []string) ([]record, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s CSV must have a header row", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	var data []record
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
		}
		line, _ := reader.FieldPos(0)
		if isEmptyRecord(fields) {
			continue
		}
		if len(fields) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, line, len(expectedHeader), len(fields))
		}
		data = append(data, record{line: line, fields: fields})
	}

	return data, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		// spreadsheet exports may prefix the first cell with a UTF-8 BOM
		if strings.ToLower(strings.TrimSpace(strings.TrimPrefix(actual[i], "\ufeff"))) != col {
			return false
		}
	}

	return true
}

func isEmptyRecord(fields []string) bool {
	for _, cell := range fields {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseSpecRow(fields []string) (entities.SpecRow, error) {
	var row entities.SpecRow

	if s := strings.TrimSpace(fields[0]); s != "" {
		seq, err := strconv.Atoi(s)
		if err != nil || seq <= 0 {
			return row, fmt.Errorf("invalid seq: %s", fields[0])
		}
		row.Seq = seq
	}

	row.Press = strings.TrimSpace(fields[1])
	row.SelectorID = strings.TrimSpace(fields[2])
	row.Ref = strings.TrimSpace(fields[3])

	var err error
	if row.X, err = parseOptionalMM("x", fields[4]); err != nil {
		return row, err
	}
	if row.SpecYZ, err = parseOptionalMM("spec_yz", fields[5]); err != nil {
		return row, err
	}

	// kept raw; the evaluator parses it
	row.SpecDiaRaw = strings.TrimSpace(fields[6])

	return row, nil
}

// parseActual reads value_from_edge, actual_dia and actual_axis
func (l *Loader) parseActual(fields []string) (entities.ActualMeasurement, error) {
	m, err := l.parseSize(fields[1])
	if err != nil {
		return m, err
	}
	if m.ValueFromEdge, err = parseOptionalMM("value_from_edge", fields[0]); err != nil {
		return m, err
	}
	if m.Axis, err = parseOptionalMM("actual_axis", fields[2]); err != nil {
		return m, err
	}
	return m, nil
}

// parseSize reads a measured diameter or "H×W" slot size
func (l *Loader) parseSize(raw string) (entities.ActualMeasurement, error) {
	if services.IsBlankCell(raw) {
		return entities.ActualMeasurement{}, nil
	}
	m := services.ParseActualSize(raw, l.convention)
	if m.IsEmpty() {
		return m, fmt.Errorf("invalid actual size: %s", raw)
	}
	return m, nil
}

func parseOptionalMM(column, raw string) (decimal.NullDecimal, error) {
	if services.IsBlankCell(raw) {
		return decimal.NullDecimal{}, nil
	}
	v := services.ParseMeasurement(raw)
	if !v.Valid {
		return v, fmt.Errorf("invalid %s: %s", column, raw)
	}
	return v, nil
}

func parseOptionalCount(column, raw string) (entities.Count, error) {
	if raw == "" {
		return entities.Count{}, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return entities.Count{}, fmt.Errorf("invalid %s: %s", column, raw)
	}
	return entities.NewCount(n), nil
}

func parseObserved(raw string) (entities.Check, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return entities.CheckUnknown, nil
	case "pass", "ok", "yes", "y":
		return entities.CheckPass, nil
	case "fail", "nok", "no", "n":
		return entities.CheckFail, nil
	default:
		return entities.CheckUnknown, fmt.Errorf("invalid visual result: %s (expected pass/fail)", raw)
	}
}

func applyHeaderField(header *entities.HeaderInfo, actuals *entities.HeaderActuals, field, spec, actual string) error {
	var err error
	switch field {
	case "part_number":
		header.PartNumber = spec
	case "level":
		header.Level = spec
	case "hand":
		header.Hand = strings.ToUpper(spec)
	case "format_no":
		header.FormatNo = spec
	case "fsm_length":
		if header.FsmLength, err = parseOptionalMM("fsm_length spec", spec); err != nil {
			return err
		}
		if actuals.FsmLength, err = parseOptionalMM("fsm_length actual", actual); err != nil {
			return err
		}
	case "root_width":
		if header.RootWidth, err = parseOptionalMM("root_width spec", spec); err != nil {
			return err
		}
		if actuals.RootWidth, err = parseOptionalMM("root_width actual", actual); err != nil {
			return err
		}
	case "total_holes":
		if header.TotalHoles, err = parseOptionalCount("total_holes spec", spec); err != nil {
			return err
		}
		if actuals.TotalHoles, err = parseOptionalCount("total_holes actual", actual); err != nil {
			return err
		}
	case "kb_code":
		header.KBCode, actuals.KBCode = spec, actual
	case "pc_code":
		header.PCCode, actuals.PCCode = spec, actual
	case "fsm_serial":
		actuals.FsmSerial = actual
	case "matrix_used":
		actuals.MatrixUsed = actual
	case "inspectors":
		actuals.Inspectors = splitList(actual)
	default:
		return fmt.Errorf("unknown header field: %s", field)
	}
	return nil
}

// splitList splits a ";" separated cell, dropping empty entries
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
