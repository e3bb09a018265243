package dto

import (
	"time"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/infrastructure/events"
)

// EvaluationResult contains the complete output of one inspection evaluation
type EvaluationResult struct {
	Report         *entities.InspectionReport
	InputFiles     []string
	EvaluationTime time.Duration
	Events         []events.Event
	Archived       bool
}

// NokCount is the number of failing rows, auxiliary checks and header checks
func (r *EvaluationResult) NokCount() int {
	if r.Report == nil {
		return 0
	}
	s := r.Report.Summary
	return s.NOK + s.AuxiliaryNOK + s.HeaderNOK
}
