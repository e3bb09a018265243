package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/fsminspect/pkg/application/dto"
	"github.com/vsinha/fsminspect/pkg/application/services/inspection"
	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/domain/repositories"
)

// BatchConfig holds configuration for evaluating many scenario directories
type BatchConfig struct {
	ScenarioDirs []string
	Workers      int
	Store        bool
	Strict       bool
	Verbose      bool

	Policy       entities.TolerancePolicy
	DatabasePath string
	Logger       *zap.Logger
	Out          io.Writer
}

// BatchOutcome is the result of one scenario directory
type BatchOutcome struct {
	Dir    string
	Result *dto.EvaluationResult
	Err    error
}

// BatchCommand evaluates independent scenario directories concurrently.
// Every directory gets its own session.
type BatchCommand struct {
	config   BatchConfig
	out      io.Writer
	logger   *zap.Logger
	outcomes []BatchOutcome
}

// NewBatchCommand creates a new batch command
func NewBatchCommand(config BatchConfig) *BatchCommand {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchCommand{config: config, out: out, logger: logger}
}

// Outcomes returns the per-directory results of the last Execute, in input order
func (cmd *BatchCommand) Outcomes() []BatchOutcome {
	return cmd.outcomes
}

// Execute runs the batch command. A directory that fails to load is reported
// on its line and does not stop the others.
func (cmd *BatchCommand) Execute(ctx context.Context) error {
	if len(cmd.config.ScenarioDirs) == 0 {
		return fmt.Errorf("at least one scenario directory is required")
	}

	var archive repositories.ReportRepository
	if cmd.config.Store {
		repo, closeArchive, err := openArchive(cmd.config.DatabasePath, len(cmd.config.ScenarioDirs))
		if err != nil {
			return err
		}
		defer closeArchive()
		archive = repo
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "🔄 Evaluating %d scenarios with %d workers...\n",
			len(cmd.config.ScenarioDirs), cmd.config.Workers)
	}

	service := inspection.NewEvaluationService(cmd.config.Policy, archive, cmd.logger)
	opts := inspection.EvaluateOptions{Archive: cmd.config.Store}

	outcomes := make([]BatchOutcome, len(cmd.config.ScenarioDirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cmd.config.Workers)
	for i, dir := range cmd.config.ScenarioDirs {
		i, dir := i, dir
		g.Go(func() error {
			result, err := service.EvaluateDir(gctx, dir, opts)
			outcomes[i] = BatchOutcome{Dir: dir, Result: result, Err: err}
			if err != nil {
				cmd.logger.Warn("scenario evaluation failed", zap.String("dir", dir), zap.Error(err))
			}
			// only cancellation aborts the batch
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	cmd.outcomes = outcomes

	failed, nok := 0, 0
	for _, o := range outcomes {
		fmt.Fprintln(cmd.out, summaryLine(o))
		switch {
		case o.Err != nil:
			failed++
		case o.Result.Report.HasOutstandingNok:
			nok++
		}
	}

	if cmd.config.Verbose {
		fmt.Fprintf(cmd.out, "🏁 %d scenarios, %d with outstanding NOK, %d failed\n", len(outcomes), nok, failed)
		if archive != nil {
			listings, err := archive.ListReports(ctx)
			if err != nil {
				return fmt.Errorf("failed to list archived reports: %w", err)
			}
			fmt.Fprintf(cmd.out, "🗄️  %d reports in %s\n", len(listings), archiveName(cmd.config.DatabasePath))
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(outcomes))
	}
	if cmd.config.Strict && nok > 0 {
		return fmt.Errorf("%w: %d scenarios", ErrOutstandingNok, nok)
	}
	return nil
}

func summaryLine(o BatchOutcome) string {
	if o.Err != nil {
		return fmt.Sprintf("❌ %s: %v", o.Dir, o.Err)
	}
	s := o.Result.Report.Summary
	status := "✅"
	if o.Result.Report.HasOutstandingNok {
		status = "⚠️ "
	}
	return fmt.Sprintf("%s %s: rows=%d ok=%d nok=%d undetermined=%d aux_nok=%d header_nok=%d",
		status, o.Dir, s.Rows, s.OK, s.NOK, s.Undetermined, s.AuxiliaryNOK, s.HeaderNOK)
}
