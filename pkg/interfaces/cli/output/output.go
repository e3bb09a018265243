package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/fsminspect/pkg/application/dto"
	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/infrastructure/events"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// ShowBlank includes blank padding rows in the text table
	ShowBlank bool
	// ShowEvents adds the session event trail to text and json output
	ShowEvents bool
}

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv"}

// Generate writes the evaluation result in the configured format to w, or
// to files under OutputDir when one is set
func Generate(result *dto.EvaluationResult, config Config, w io.Writer) error {
	if result == nil || result.Report == nil {
		return fmt.Errorf("no report to output")
	}
	switch config.Format {
	case "text", "":
		return generateTextOutput(result, config, w)
	case "json":
		return generateJSONOutput(result, config, w)
	case "csv":
		return generateCSVOutput(result, config, w)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.EvaluationResult, config Config, w io.Writer) error {
	if config.OutputDir != "" {
		filename, err := outputFile(config.OutputDir, "inspection_report.txt")
		if err != nil {
			return err
		}
		f, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create text report: %w", err)
		}
		defer f.Close()

		writeText(f, result, config)
		if config.Verbose {
			fmt.Fprintf(w, "💾 Report saved to: %s\n", filename)
		}
		return nil
	}

	writeText(w, result, config)
	return nil
}

func writeText(w io.Writer, result *dto.EvaluationResult, config Config) {
	report := result.Report
	h := report.Header

	fmt.Fprintf(w, "📊 FSM Inspection Report\n")
	fmt.Fprintf(w, "========================\n\n")

	fmt.Fprintf(w, "Report ID: %s\n", report.ID)
	fmt.Fprintf(w, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Part: %s  Level: %s  Hand: %s  Format: %s\n",
		orDash(h.PartNumber), orDash(h.Level), orDash(h.Hand), orDash(h.FormatNo))
	fmt.Fprintf(w, "FSM Serial: %s  Inspectors: %s\n",
		orDash(report.HeaderActuals.FsmSerial), orDash(strings.Join(report.HeaderActuals.Inspectors, ", ")))
	fmt.Fprintf(w, "Effective Span: %s mm\n", formatNull(report.EffectiveSpan))
	if config.Verbose {
		fmt.Fprintf(w, "Evaluation Time: %v\n", result.EvaluationTime)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "📋 Header Checks:\n")
	fmt.Fprintf(w, "%-12s %-10s %-10s %-10s %-10s\n", "Field", "Spec", "Actual", "Deviation", "Check")
	fmt.Fprintf(w, "%-12s %-10s %-10s %-10s %-10s\n", "------------", "----------", "----------", "----------", "----------")
	for _, hc := range report.HeaderChecks {
		check := hc.Check.String()
		if hc.Informational {
			check = "info"
		}
		fmt.Fprintf(w, "%-12s %-10s %-10s %-10s %-10s\n",
			hc.Field, orDash(hc.Spec), orDash(hc.Actual), formatNull(hc.Deviation), check)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "📐 Rows:\n")
	fmt.Fprintf(w, "%-4s %-6s %-8s %-8s %-8s %-10s %-12s %-8s %-8s %-6s %-8s %-8s %-13s\n",
		"Seq", "Press", "X", "Spec YZ", "Spec Dia", "Dimension", "Actual", "Axis", "Center", "Dev", "Tol", "Size/Off", "Result")
	fmt.Fprintf(w, "%-4s %-6s %-8s %-8s %-8s %-10s %-12s %-8s %-8s %-6s %-8s %-8s %-13s\n",
		"----", "------", "--------", "--------", "--------", "----------", "------------", "--------", "--------", "------", "--------", "--------", "-------------")
	for _, rr := range report.Rows {
		if rr.Blank && !config.ShowBlank {
			continue
		}
		v := rr.Verdict
		tol := v.Tolerance.String()
		if v.EdgeZone {
			tol += "e"
		}
		fmt.Fprintf(w, "%-4d %-6s %-8s %-8s %-8s %-10s %-12s %-8s %-8s %-6s %-8s %-8s %-13s\n",
			rr.Row.Seq,
			orDash(rr.Row.Press),
			formatNull(rr.Row.X),
			formatNull(rr.Row.SpecYZ),
			orDash(rr.Row.SpecDiaRaw),
			v.Dimension.String(),
			formatActualSize(rr.Actual),
			formatNull(rr.Actual.Axis),
			formatNull(v.PredictedCenter),
			formatNull(v.Deviation),
			tol,
			checkMark(v.SizeCheck)+"/"+checkMark(v.OffsetCheck),
			ResultLabel(v.Result))
	}
	fmt.Fprintln(w)

	if len(report.Auxiliary) > 0 {
		fmt.Fprintf(w, "🔍 Auxiliary Checks:\n")
		fmt.Fprintf(w, "%-8s %-16s %-10s %-12s %-13s\n", "Kind", "Name", "Spec", "Actual", "Result")
		fmt.Fprintf(w, "%-8s %-16s %-10s %-12s %-13s\n", "--------", "----------------", "----------", "------------", "-------------")
		for _, aux := range report.Auxiliary {
			actual := formatActualSize(aux.Check.Actual)
			if aux.Check.Kind == entities.AuxiliaryVisual {
				actual = aux.Check.Observed.String()
			}
			fmt.Fprintf(w, "%-8s %-16s %-10s %-12s %-13s\n",
				aux.Check.Kind, aux.Check.Name, orDash(aux.Check.SpecDiaRaw), actual, ResultLabel(aux.Result))
		}
		fmt.Fprintln(w)
	}

	if config.ShowEvents {
		writeEventTrail(w, result.Events)
	}

	s := report.Summary
	fmt.Fprintf(w, "Rows: %d  OK: %d  NOK: %d  Undetermined: %d  Blank: %d\n",
		s.Rows, s.OK, s.NOK, s.Undetermined, s.Blank)
	fmt.Fprintf(w, "Auxiliary NOK: %d  Header NOK: %d\n", s.AuxiliaryNOK, s.HeaderNOK)
	if report.HasOutstandingNok {
		fmt.Fprintf(w, "⚠️  Outstanding NOK: %d item(s) need attention\n", result.NokCount())
	} else {
		fmt.Fprintf(w, "✅ No outstanding NOK\n")
	}
}

func writeEventTrail(w io.Writer, trail []events.Event) {
	fmt.Fprintf(w, "🧾 Event Trail (%d):\n", len(trail))
	for _, e := range trail {
		data, err := json.Marshal(e.Data())
		if err != nil {
			data = []byte("?")
		}
		fmt.Fprintf(w, "%4d %-22s %s\n", e.Version(), e.Type(), data)
	}
	fmt.Fprintln(w)
}

// reportWithEvents is the json document written when the event trail is requested
type reportWithEvents struct {
	Report *entities.InspectionReport `json:"report"`
	Events []events.Event             `json:"events"`
}

// generateJSONOutput creates JSON output of the report
func generateJSONOutput(result *dto.EvaluationResult, config Config, w io.Writer) error {
	var payload any = result.Report
	if config.ShowEvents {
		payload = reportWithEvents{Report: result.Report, Events: result.Events}
	}
	jsonData, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(w, string(jsonData))
		return nil
	}

	filename, err := outputFile(config.OutputDir, "inspection_report.json")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 JSON report saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes the row verdicts to w, or the row, header and
// auxiliary sheets to OutputDir
func generateCSVOutput(result *dto.EvaluationResult, config Config, w io.Writer) error {
	report := result.Report
	if config.OutputDir == "" {
		return writeRowsCSV(w, report.Rows)
	}

	sheets := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"row_verdicts.csv", func(f io.Writer) error { return writeRowsCSV(f, report.Rows) }},
		{"header_checks.csv", func(f io.Writer) error { return writeHeaderChecksCSV(f, report.HeaderChecks) }},
		{"auxiliary_results.csv", func(f io.Writer) error { return writeAuxiliaryCSV(f, report.Auxiliary) }},
	}

	var written []string
	for _, sheet := range sheets {
		filename, err := outputFile(config.OutputDir, sheet.name)
		if err != nil {
			return err
		}
		if err := writeFile(filename, sheet.write); err != nil {
			return fmt.Errorf("failed to write %s: %w", sheet.name, err)
		}
		written = append(written, filename)
	}

	if config.Verbose {
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		for _, f := range written {
			fmt.Fprintf(w, "  %s\n", f)
		}
	}
	return nil
}

func writeRowsCSV(w io.Writer, rows []entities.RowReport) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{
		"seq", "press", "selector_id", "ref", "x", "spec_yz", "spec_dia", "dimension",
		"actual_dia", "actual_height", "actual_width", "actual_axis",
		"predicted_center", "offset", "deviation", "tolerance", "edge_zone",
		"size_check", "offset_check", "result",
	})
	for _, rr := range rows {
		if rr.Blank {
			continue
		}
		v := rr.Verdict
		cw.Write([]string{
			strconv.Itoa(rr.Row.Seq),
			rr.Row.Press,
			rr.Row.SelectorID,
			rr.Row.Ref,
			csvNull(rr.Row.X),
			csvNull(rr.Row.SpecYZ),
			rr.Row.SpecDiaRaw,
			v.Dimension.Kind.String(),
			csvNull(rr.Actual.Diameter),
			csvNull(rr.Actual.Height),
			csvNull(rr.Actual.Width),
			csvNull(rr.Actual.Axis),
			csvNull(v.PredictedCenter),
			csvNull(v.Offset),
			csvNull(v.Deviation),
			v.Tolerance.String(),
			strconv.FormatBool(v.EdgeZone),
			v.SizeCheck.String(),
			v.OffsetCheck.String(),
			ResultLabel(v.Result),
		})
	}
	cw.Flush()
	return cw.Error()
}

func writeHeaderChecksCSV(w io.Writer, checks []entities.HeaderComparison) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"field", "spec", "actual", "deviation", "check", "informational"})
	for _, hc := range checks {
		cw.Write([]string{
			hc.Field,
			hc.Spec,
			hc.Actual,
			csvNull(hc.Deviation),
			hc.Check.String(),
			strconv.FormatBool(hc.Informational),
		})
	}
	cw.Flush()
	return cw.Error()
}

func writeAuxiliaryCSV(w io.Writer, results []entities.AuxiliaryResult) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"kind", "name", "spec_dia", "observed", "actual_dia", "actual_height", "actual_width", "result"})
	for _, r := range results {
		observed := ""
		if r.Check.Kind == entities.AuxiliaryVisual {
			observed = r.Check.Observed.String()
		}
		cw.Write([]string{
			r.Check.Kind.String(),
			r.Check.Name,
			r.Check.SpecDiaRaw,
			observed,
			csvNull(r.Check.Actual.Diameter),
			csvNull(r.Check.Actual.Height),
			csvNull(r.Check.Actual.Width),
			ResultLabel(r.Result),
		})
	}
	cw.Flush()
	return cw.Error()
}

// ResultLabel renders a row result for people; undetermined shows as "UNDETERMINED"
func ResultLabel(r entities.RowResult) string {
	if r == entities.ResultUndetermined {
		return "UNDETERMINED"
	}
	return r.String()
}

func outputFile(dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return filepath.Join(dir, name), nil
}

func writeFile(filename string, write func(io.Writer) error) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func checkMark(c entities.Check) string {
	switch c {
	case entities.CheckPass:
		return "✓"
	case entities.CheckFail:
		return "✗"
	default:
		return "?"
	}
}

func formatActualSize(m entities.ActualMeasurement) string {
	switch {
	case m.Diameter.Valid:
		return "Ø" + m.Diameter.Decimal.String()
	case m.Height.Valid || m.Width.Valid:
		return formatNull(m.Height) + "×" + formatNull(m.Width)
	default:
		return "-"
	}
}

func formatNull(v decimal.NullDecimal) string {
	if !v.Valid {
		return "-"
	}
	return v.Decimal.String()
}

func csvNull(v decimal.NullDecimal) string {
	if !v.Valid {
		return ""
	}
	return v.Decimal.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
