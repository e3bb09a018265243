package inspection

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/domain/repositories"
	"github.com/vsinha/fsminspect/pkg/domain/services"
	"github.com/vsinha/fsminspect/pkg/infrastructure/events"
)

// SessionConfig holds optional session settings
type SessionConfig struct {
	// ID names the event stream; a random UUID when empty
	ID string
	// Now stamps generated reports; time.Now when nil
	Now func() time.Time
}

// Session is one operator's editing session over an inspection document.
// Every edit rebuilds the immutable document and re-evaluates the affected
// rows. A Session is not safe for concurrent use.
type Session struct {
	id         string
	now        func() time.Time
	doc        entities.InspectionDocument
	evaluator  *services.RowEvaluator
	eventStore events.EventStore
	logger     *zap.Logger
	verdicts   [entities.MaxRows]entities.RowVerdict
}

// NewSession starts a session over doc and evaluates every row
func NewSession(
	doc entities.InspectionDocument,
	evaluator *services.RowEvaluator,
	eventStore events.EventStore,
	logger *zap.Logger,
) *Session {
	return NewSessionWithConfig(SessionConfig{}, doc, evaluator, eventStore, logger)
}

// NewSessionWithConfig starts a session with explicit settings
func NewSessionWithConfig(
	config SessionConfig,
	doc entities.InspectionDocument,
	evaluator *services.RowEvaluator,
	eventStore events.EventStore,
	logger *zap.Logger,
) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if eventStore == nil {
		eventStore = events.NewInMemoryEventStore(logger)
	}
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	s := &Session{
		id:         config.ID,
		now:        config.Now,
		doc:        doc,
		evaluator:  evaluator,
		eventStore: eventStore,
		logger:     logger.With(zap.String("session", config.ID)),
	}

	s.publish(events.DocumentLoadedEvent, events.DocumentLoaded{
		PartNumber:    doc.Header().PartNumber,
		PopulatedRows: doc.PopulatedRows(),
		EffectiveSpan: doc.EffectiveSpan(),
	})
	s.logger.Debug("document loaded",
		zap.String("part_number", doc.Header().PartNumber),
		zap.Int("rows", doc.PopulatedRows()),
		zap.Stringer("span", nullString(doc.EffectiveSpan())),
	)
	s.evaluateAll()

	return s
}

// ID returns the session's event stream ID
func (s *Session) ID() string {
	return s.id
}

// Document returns the current document
func (s *Session) Document() entities.InspectionDocument {
	return s.doc
}

// Verdict returns the current verdict for slot i
func (s *Session) Verdict(i int) (entities.RowVerdict, error) {
	if i < 0 || i >= entities.MaxRows {
		return entities.RowVerdict{}, fmt.Errorf("%w: %d", entities.ErrRowIndexOutOfRange, i)
	}
	return s.verdicts[i], nil
}

// Verdicts returns the current verdict of every slot
func (s *Session) Verdicts() []entities.RowVerdict {
	return append([]entities.RowVerdict(nil), s.verdicts[:]...)
}

// RecordActual stores the operator's measurement for slot i and re-evaluates that row
func (s *Session) RecordActual(i int, m entities.ActualMeasurement) error {
	doc, err := s.doc.WithActual(i, m)
	if err != nil {
		return err
	}
	s.doc = doc

	row, _ := doc.Row(i)
	s.publish(events.ActualRecordedEvent, events.ActualRecorded{Index: i, Seq: row.Seq, Actual: m})
	s.evaluateRow(i)
	return nil
}

// RecordActualBySeq stores a measurement for the row with the given sequence number
func (s *Session) RecordActualBySeq(seq int, m entities.ActualMeasurement) error {
	i, ok := s.doc.IndexOfSeq(seq)
	if !ok {
		return fmt.Errorf("no row with seq %d", seq)
	}
	return s.RecordActual(i, m)
}

// ClearActual removes the measurement for slot i
func (s *Session) ClearActual(i int) error {
	doc, err := s.doc.WithoutActual(i)
	if err != nil {
		return err
	}
	s.doc = doc

	row, _ := doc.Row(i)
	s.publish(events.ActualClearedEvent, events.ActualCleared{Index: i, Seq: row.Seq})
	s.evaluateRow(i)
	return nil
}

// UpdateHeaderActuals replaces the operator header values. When the
// effective FSM span changes every row is re-evaluated, since edge zones
// move with the span. Reports whether the span changed.
func (s *Session) UpdateHeaderActuals(a entities.HeaderActuals) bool {
	oldSpan := s.doc.EffectiveSpan()
	s.doc = s.doc.WithHeaderActuals(a)
	newSpan := s.doc.EffectiveSpan()

	s.publish(events.HeaderActualsUpdatedEvent, events.HeaderActualsUpdated{Actuals: s.doc.HeaderActuals()})

	if nullEqual(oldSpan, newSpan) {
		return false
	}

	s.publish(events.SpanChangedEvent, events.SpanChanged{
		OldSpan:  oldSpan,
		NewSpan:  newSpan,
		Measured: s.doc.SpanIsMeasured(),
	})
	s.logger.Info("effective span changed, re-evaluating all rows",
		zap.Stringer("old_span", nullString(oldSpan)),
		zap.Stringer("new_span", nullString(newSpan)),
	)
	s.evaluateAll()
	return true
}

// SetMeasuredFsmLength records the operator's FSM length measurement
func (s *Session) SetMeasuredFsmLength(length decimal.NullDecimal) bool {
	a := s.doc.HeaderActuals()
	a.FsmLength = length
	return s.UpdateHeaderActuals(a)
}

// SetAuxiliaryChecks replaces the auxiliary checks
func (s *Session) SetAuxiliaryChecks(checks []entities.AuxiliaryCheck) error {
	doc, err := s.doc.WithAuxiliaryChecks(checks)
	if err != nil {
		return err
	}
	s.doc = doc
	s.publish(events.AuxiliaryChecksUpdatedEvent, events.AuxiliaryChecksUpdated{Checks: len(checks)})
	return nil
}

// HasOutstandingNok reports whether any row, auxiliary check or exact-match
// header comparison currently fails
func (s *Session) HasOutstandingNok() bool {
	return s.evaluator.EvaluateDocument(s.doc).HasOutstandingNok
}

// Report evaluates the whole document and stamps the result with a new ID
func (s *Session) Report() *entities.InspectionReport {
	report := s.evaluator.EvaluateDocument(s.doc)
	report.ID = uuid.NewString()
	report.GeneratedAt = s.now().UTC()

	s.publish(events.ReportGeneratedEvent, events.ReportGenerated{
		ReportID:          report.ID,
		Summary:           report.Summary,
		HasOutstandingNok: report.HasOutstandingNok,
	})
	s.logger.Debug("report generated",
		zap.String("report", report.ID),
		zap.Int("ok", report.Summary.OK),
		zap.Int("nok", report.Summary.NOK),
		zap.Int("undetermined", report.Summary.Undetermined),
	)
	return &report
}

// Archive saves report to repo
func (s *Session) Archive(ctx context.Context, repo repositories.ReportRepository, report *entities.InspectionReport) error {
	if err := repo.SaveReport(ctx, report); err != nil {
		return fmt.Errorf("failed to archive report %s: %w", report.ID, err)
	}
	s.publish(events.ReportArchivedEvent, events.ReportArchived{ReportID: report.ID})
	s.logger.Info("report archived", zap.String("report", report.ID))
	return nil
}

// Events returns the session's event stream
func (s *Session) Events() []events.Event {
	evts, err := s.eventStore.ReadEvents(s.id, 1)
	if err != nil {
		s.logger.Warn("failed to read session events", zap.Error(err))
		return nil
	}
	return evts
}

func (s *Session) evaluateAll() {
	for i := 0; i < entities.MaxRows; i++ {
		s.evaluateRow(i)
	}
}

func (s *Session) evaluateRow(i int) {
	row, _ := s.doc.Row(i)
	actual, _ := s.doc.Actual(i)
	verdict := s.evaluator.EvaluateRow(row, actual, s.doc.EffectiveSpan())

	previous := s.verdicts[i].Result
	s.verdicts[i] = verdict

	if row.IsBlank() {
		return
	}

	s.publish(events.RowEvaluatedEvent, events.RowEvaluated{Index: i, Seq: row.Seq, Verdict: verdict})
	s.logger.Debug("row evaluated",
		zap.Int("seq", row.Seq),
		zap.Stringer("size", verdict.SizeCheck),
		zap.Stringer("offset", verdict.OffsetCheck),
		zap.String("result", verdictLabel(verdict.Result)),
	)

	switch {
	case verdict.Result == entities.ResultNOK && previous != entities.ResultNOK:
		s.publish(events.NokFlaggedEvent, events.NokFlagged{Index: i, Seq: row.Seq, Verdict: verdict})
		s.logger.Warn("row flagged NOK",
			zap.Int("seq", row.Seq),
			zap.String("spec_dia", row.SpecDiaRaw),
			zap.Stringer("size", verdict.SizeCheck),
			zap.Stringer("offset", verdict.OffsetCheck),
			zap.Stringer("deviation", nullString(verdict.Deviation)),
			zap.Stringer("tolerance", verdict.Tolerance),
		)
	case previous == entities.ResultNOK && verdict.Result != entities.ResultNOK:
		s.publish(events.NokClearedEvent, events.NokCleared{Index: i, Seq: row.Seq, Result: verdict.Result})
	}
}

func (s *Session) publish(eventType string, data interface{}) {
	if err := s.eventStore.AppendEvent(s.id, events.NewEvent(eventType, s.id, data)); err != nil {
		s.logger.Warn("failed to publish event", zap.String("event", eventType), zap.Error(err))
	}
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

func verdictLabel(r entities.RowResult) string {
	if r == entities.ResultUndetermined {
		return "undetermined"
	}
	return r.String()
}

// nullString renders an absent value as "-"
type nullString decimal.NullDecimal

func (n nullString) String() string {
	if !n.Valid {
		return "-"
	}
	return n.Decimal.String()
}
