package inspection

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/fsminspect/pkg/application/dto"
	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/domain/repositories"
	"github.com/vsinha/fsminspect/pkg/domain/services"
	"github.com/vsinha/fsminspect/pkg/infrastructure/events"
	"github.com/vsinha/fsminspect/pkg/infrastructure/repositories/csv"
)

// EvaluateOptions adjusts a single evaluation
type EvaluateOptions struct {
	// FsmLengthActual overrides the measured FSM length from the input files
	FsmLengthActual decimal.NullDecimal
	// Archive saves the report when an archive is configured
	Archive bool
}

// EvaluationService turns inspection input files into evaluated reports
type EvaluationService struct {
	policy  entities.TolerancePolicy
	loader  *csv.Loader
	archive repositories.ReportRepository
	logger  *zap.Logger
}

// NewEvaluationService creates a service for policy. archive may be nil when
// reports are never stored.
func NewEvaluationService(
	policy entities.TolerancePolicy,
	archive repositories.ReportRepository,
	logger *zap.Logger,
) *EvaluationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		policy:  policy,
		loader:  csv.NewLoader(policy.SlotHeightConvention),
		archive: archive,
		logger:  logger,
	}
}

// Evaluate loads files, runs a session over the resulting document and
// returns its report together with the session's event trail
func (es *EvaluationService) Evaluate(
	ctx context.Context,
	files csv.ScenarioFiles,
	opts EvaluateOptions,
) (*dto.EvaluationResult, error) {
	start := time.Now()

	scenario, err := es.loader.LoadScenario(files)
	if err != nil {
		return nil, fmt.Errorf("failed to load inspection input: %w", err)
	}

	doc, err := scenario.Document()
	if err != nil {
		return nil, fmt.Errorf("failed to build inspection document: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store := events.NewInMemoryEventStore(es.logger)
	session := NewSession(doc, services.NewRowEvaluator(es.policy), store, es.logger)

	if opts.FsmLengthActual.Valid {
		session.SetMeasuredFsmLength(opts.FsmLengthActual)
	}

	report := session.Report()
	result := &dto.EvaluationResult{
		Report:     report,
		InputFiles: files.Paths(),
	}

	if opts.Archive && es.archive != nil {
		if err := session.Archive(ctx, es.archive, report); err != nil {
			return nil, err
		}
		result.Archived = true
	}

	result.Events = session.Events()
	result.EvaluationTime = time.Since(start)
	return result, nil
}

// EvaluateDir evaluates the scenario files found in dir
func (es *EvaluationService) EvaluateDir(ctx context.Context, dir string, opts EvaluateOptions) (*dto.EvaluationResult, error) {
	files, err := csv.ScenarioFilesIn(dir)
	if err != nil {
		return nil, err
	}
	return es.Evaluate(ctx, files, opts)
}
