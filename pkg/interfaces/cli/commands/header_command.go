package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/domain/services"
	"github.com/vsinha/fsminspect/pkg/infrastructure/repositories/csv"
)

// HeaderConfig holds configuration for the header command
type HeaderConfig struct {
	TextFile  string
	OutputDir string // when set, header.csv and spec_rows.csv are written here
	Verbose   bool
	// Convention decides how slot cells are read when counting unparseable cells
	Convention entities.SlotHeightConvention
	Out        io.Writer
}

// HeaderCommand extracts the header and table rows from a document text layer
type HeaderCommand struct {
	config HeaderConfig
	out    io.Writer
}

// NewHeaderCommand creates a new header command
func NewHeaderCommand(config HeaderConfig) *HeaderCommand {
	if config.Convention == "" {
		config.Convention = entities.SlotFirstTokenHeight
	}
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	return &HeaderCommand{config: config, out: out}
}

// Execute runs the header command
func (cmd *HeaderCommand) Execute(ctx context.Context) error {
	data, err := os.ReadFile(cmd.config.TextFile)
	if err != nil {
		return fmt.Errorf("failed to read document text: %w", err)
	}
	text := string(data)

	header := services.NewHeaderExtractor().ExtractHeader(text)
	rows, err := services.NewTableDetector().DetectTableRows(text)
	if err != nil {
		return fmt.Errorf("failed to detect table rows: %w", err)
	}

	cmd.printHeader(header)
	cmd.printRows(rows)

	if cmd.config.OutputDir == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	headerPath := filepath.Join(cmd.config.OutputDir, csv.HeaderFile)
	if err := writeCSVFile(headerPath, func(w io.Writer) error {
		return csv.WriteHeader(w, header, entities.HeaderActuals{})
	}); err != nil {
		return err
	}
	written := []string{headerPath}

	if len(rows) > 0 {
		rowsPath := filepath.Join(cmd.config.OutputDir, csv.SpecRowsFile)
		if err := writeCSVFile(rowsPath, func(w io.Writer) error {
			return csv.WriteSpecRows(w, rows)
		}); err != nil {
			return err
		}
		written = append(written, rowsPath)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "💾 Extracted data saved to:\n")
		for _, p := range written {
			fmt.Fprintf(cmd.out, "  %s\n", p)
		}
	}
	return nil
}

func (cmd *HeaderCommand) printHeader(h entities.HeaderInfo) {
	fmt.Fprintf(cmd.out, "📄 Document Header\n")
	fmt.Fprintf(cmd.out, "=================\n")
	fields := []struct{ name, value string }{
		{"Part Number", h.PartNumber},
		{"Level", h.Level},
		{"Hand", h.Hand},
		{"Format No", h.FormatNo},
		{"FSM Length", nullMM(h.FsmLength.Valid, h.FsmLength.Decimal.String())},
		{"Root Width", nullMM(h.RootWidth.Valid, h.RootWidth.Decimal.String())},
		{"Total Holes", countString(h.TotalHoles)},
		{"KB Code", h.KBCode},
		{"PC Code", h.PCCode},
	}
	for _, f := range fields {
		value := f.value
		if value == "" {
			value = "(not found)"
		}
		fmt.Fprintf(cmd.out, "%-12s %s\n", f.name+":", value)
	}
	fmt.Fprintln(cmd.out)
}

func (cmd *HeaderCommand) printRows(rows []entities.SpecRow) {
	if len(rows) == 0 {
		fmt.Fprintln(cmd.out, "No table rows detected")
		return
	}
	fmt.Fprintf(cmd.out, "📐 Detected Rows: %d\n", len(rows))
	fmt.Fprintf(cmd.out, "%-4s %-6s %-8s %-4s %-8s %-8s %-10s\n", "Seq", "Press", "Selector", "Ref", "X", "YZ", "Spec Dia")
	fmt.Fprintf(cmd.out, "%-4s %-6s %-8s %-4s %-8s %-8s %-10s\n", "----", "------", "--------", "----", "--------", "--------", "----------")
	for _, r := range rows {
		fmt.Fprintf(cmd.out, "%-4d %-6s %-8s %-4s %-8s %-8s %-10s\n",
			r.Seq, r.Press, r.SelectorID, r.Ref,
			nullMM(r.X.Valid, r.X.Decimal.String()),
			nullMM(r.SpecYZ.Valid, r.SpecYZ.Decimal.String()),
			r.SpecDiaRaw)
	}
	if n := countUnparseable(rows, cmd.config.Convention); n > 0 {
		fmt.Fprintf(cmd.out, "⚠️  %d spec cell(s) could not be parsed as a hole or slot\n", n)
	}
}

func countUnparseable(rows []entities.SpecRow, convention entities.SlotHeightConvention) int {
	n := 0
	for _, r := range rows {
		if !services.ParseDimension(r.SpecDiaRaw, convention).IsKnown() {
			n++
		}
	}
	return n
}

func nullMM(valid bool, s string) string {
	if !valid {
		return ""
	}
	return s
}

func countString(c entities.Count) string {
	if !c.Valid {
		return ""
	}
	return fmt.Sprint(c.Value)
}

func writeCSVFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
