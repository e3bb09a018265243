package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/infrastructure/repositories/csv"
)

// TemplateConfig holds configuration for blank input sheet generation
type TemplateConfig struct {
	OutputDir    string   // Output directory for generated files
	Rows         int      // Number of table rows, at most entities.MaxRows
	HoleChecks   int      // Number of auxiliary hole check lines
	VisualChecks []string // Names of the visual checks to list
	Force        bool     // Overwrite existing files
	Verbose      bool
	Out          io.Writer
}

// TemplateCommand writes empty input sheets for a new inspection
type TemplateCommand struct {
	config TemplateConfig
	out    io.Writer
}

// NewTemplateCommand creates a new template command
func NewTemplateCommand(config TemplateConfig) *TemplateCommand {
	if config.Rows == 0 {
		config.Rows = entities.MaxRows
	}
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	return &TemplateCommand{config: config, out: out}
}

// Execute runs the template command
func (cmd *TemplateCommand) Execute(ctx context.Context) error {
	if cmd.config.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if cmd.config.Rows < 1 || cmd.config.Rows > entities.MaxRows {
		return fmt.Errorf("rows must be between 1 and %d, got %d", entities.MaxRows, cmd.config.Rows)
	}
	if cmd.config.HoleChecks < 0 || cmd.config.HoleChecks > entities.MaxHoleChecks {
		return fmt.Errorf("hole checks must be between 0 and %d, got %d", entities.MaxHoleChecks, cmd.config.HoleChecks)
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "🔧 Generating inspection templates with %d rows\n", cmd.config.Rows)
		fmt.Fprintf(cmd.out, "📁 Output directory: %s\n", cmd.config.OutputDir)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	rows := make([]entities.SpecRow, cmd.config.Rows)
	for i := range rows {
		rows[i] = entities.BlankSpecRow(i + 1)
	}

	sheets := []struct {
		name  string
		write func(io.Writer) error
	}{
		{csv.SpecRowsFile, func(w io.Writer) error { return csv.WriteSpecRows(w, rows) }},
		{csv.ActualsFile, func(w io.Writer) error { return csv.WriteActualsTemplate(w, rows) }},
		{csv.HeaderFile, func(w io.Writer) error {
			return csv.WriteHeader(w, entities.HeaderInfo{}, entities.HeaderActuals{})
		}},
		{csv.AuxiliaryFile, func(w io.Writer) error {
			return csv.WriteAuxiliaryTemplate(w, cmd.config.VisualChecks, cmd.config.HoleChecks)
		}},
	}

	for _, sheet := range sheets {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(cmd.config.OutputDir, sheet.name)
		if err := cmd.writeSheet(path, sheet.write); err != nil {
			return err
		}
		if cmd.config.Verbose {
			fmt.Fprintf(cmd.out, "  ✅ %s\n", path)
		}
	}

	if cmd.config.Verbose {
		fmt.Fprintln(cmd.out, "🎉 Templates generated successfully!")
	}
	return nil
}

func (cmd *TemplateCommand) writeSheet(path string, write func(io.Writer) error) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !cmd.config.Force {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
