package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/fsminspect/pkg/application/services/inspection"
	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/domain/repositories"
	"github.com/vsinha/fsminspect/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/fsminspect/pkg/interfaces/cli/output"
)

// ErrOutstandingNok is returned in strict mode when the report has a NOK item
var ErrOutstandingNok = errors.New("inspection has outstanding NOK items")

// EvaluateConfig holds configuration for the evaluate command
type EvaluateConfig struct {
	ScenarioDir  string
	TextFile     string
	SpecRowsFile string
	ActualsFile  string
	HeaderFile   string
	AuxFile      string
	FsmLengthAct string
	OutputDir    string
	Format       string
	ShowBlank    bool
	ShowEvents   bool
	Store        bool
	Strict       bool
	Verbose      bool

	Policy       entities.TolerancePolicy
	DatabasePath string
	Logger       *zap.Logger
	Out          io.Writer
}

// EvaluateCommand evaluates one inspection and prints its report
type EvaluateCommand struct {
	config EvaluateConfig
	out    io.Writer
	logger *zap.Logger
}

// NewEvaluateCommand creates a new evaluate command with the given configuration
func NewEvaluateCommand(config EvaluateConfig) *EvaluateCommand {
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluateCommand{
		config: config,
		out:    out,
		logger: logger,
	}
}

// Execute runs the evaluate command
func (c *EvaluateCommand) Execute(ctx context.Context) error {
	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	opts := inspection.EvaluateOptions{Archive: c.config.Store}
	if c.config.FsmLengthAct != "" {
		length, err := decimal.NewFromString(c.config.FsmLengthAct)
		if err != nil {
			return fmt.Errorf("validation error: invalid FSM length actual %q", c.config.FsmLengthAct)
		}
		opts.FsmLengthActual = decimal.NewNullDecimal(length)
	}

	if c.config.Verbose {
		c.printHeader(files)
	}

	var archive repositories.ReportRepository
	if c.config.Store {
		repo, closeArchive, err := openArchive(c.config.DatabasePath, 1)
		if err != nil {
			return err
		}
		defer closeArchive()
		archive = repo
	}

	if c.config.Verbose {
		fmt.Fprintln(c.out, "🔄 Evaluating inspection...")
	}

	service := inspection.NewEvaluationService(c.config.Policy, archive, c.logger)
	result, err := service.Evaluate(ctx, files, opts)
	if err != nil {
		return fmt.Errorf("error evaluating inspection: %w", err)
	}

	if c.config.Verbose {
		fmt.Fprintf(c.out, "✅ Evaluation completed in %v\n\n", result.EvaluationTime)
	}

	outputConfig := output.Config{
		Format:     c.config.Format,
		OutputDir:  c.config.OutputDir,
		Verbose:    c.config.Verbose,
		ShowBlank:  c.config.ShowBlank,
		ShowEvents: c.config.ShowEvents,
	}
	if err := output.Generate(result, outputConfig, c.out); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if result.Archived && c.config.Verbose {
		fmt.Fprintf(c.out, "🗄️  Report %s archived to %s\n", result.Report.ID, archiveName(c.config.DatabasePath))
	}

	if c.config.Strict && result.Report.HasOutstandingNok {
		return fmt.Errorf("%w: %d", ErrOutstandingNok, result.NokCount())
	}
	return nil
}

// resolveInputFiles determines the file paths to use. Individual files
// override the ones found in the scenario directory.
func (c *EvaluateCommand) resolveInputFiles() (csv.ScenarioFiles, error) {
	var files csv.ScenarioFiles
	if c.config.ScenarioDir != "" {
		var err error
		if files, err = csv.ScenarioFilesIn(c.config.ScenarioDir); err != nil {
			return files, err
		}
	}

	overrides := []struct {
		name string
		path string
		dst  *string
	}{
		{"text", c.config.TextFile, &files.Text},
		{"spec rows", c.config.SpecRowsFile, &files.SpecRows},
		{"actuals", c.config.ActualsFile, &files.Actuals},
		{"header", c.config.HeaderFile, &files.Header},
		{"auxiliary", c.config.AuxFile, &files.Auxiliary},
	}
	for _, o := range overrides {
		if o.path == "" {
			continue
		}
		if _, err := os.Stat(o.path); os.IsNotExist(err) {
			return files, fmt.Errorf("%s file not found: %s", o.name, o.path)
		}
		*o.dst = o.path
	}

	if files.Text == "" && files.SpecRows == "" {
		return files, fmt.Errorf("must specify a scenario directory, a document text file or a spec rows CSV")
	}
	return files, nil
}

// printHeader prints the command header information
func (c *EvaluateCommand) printHeader(files csv.ScenarioFiles) {
	fmt.Fprintf(c.out, "🚀 FSM Inspection CLI\n")
	fmt.Fprintf(c.out, "Input files:\n")
	for _, f := range []struct{ name, path string }{
		{"Text", files.Text},
		{"Spec rows", files.SpecRows},
		{"Actuals", files.Actuals},
		{"Header", files.Header},
		{"Auxiliary", files.Auxiliary},
	} {
		if f.path != "" {
			fmt.Fprintf(c.out, "  %s: %s\n", f.name, f.path)
		}
	}
	fmt.Fprintf(c.out, "Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Fprintf(c.out, "Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Fprintln(c.out)
}
