package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vsinha/fsminspect/pkg/application/dto"
	"github.com/vsinha/fsminspect/pkg/domain/repositories"
	"github.com/vsinha/fsminspect/pkg/interfaces/cli/output"
)

// ReportsConfig holds configuration for the archive commands
type ReportsConfig struct {
	ReportID string // empty lists the archive
	Format   string
	NokOnly  bool
	Limit    int
	Out      io.Writer
}

// ReportsCommand lists or shows archived inspection reports
type ReportsCommand struct {
	config ReportsConfig
	repo   repositories.ReportRepository
	out    io.Writer
}

// NewReportsCommand creates a reports command reading from repo
func NewReportsCommand(config ReportsConfig, repo repositories.ReportRepository) *ReportsCommand {
	out := config.Out
	if out == nil {
		out = os.Stdout
	}
	return &ReportsCommand{config: config, repo: repo, out: out}
}

// Execute runs the reports command
func (cmd *ReportsCommand) Execute(ctx context.Context) error {
	if cmd.config.ReportID != "" {
		return cmd.show(ctx)
	}
	return cmd.list(ctx)
}

func (cmd *ReportsCommand) list(ctx context.Context) error {
	listings, err := cmd.repo.ListReports(ctx)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	var shown []repositories.ReportListing
	for _, l := range listings {
		if cmd.config.NokOnly && !l.HasOutstandingNok {
			continue
		}
		shown = append(shown, l)
		if cmd.config.Limit > 0 && len(shown) == cmd.config.Limit {
			break
		}
	}

	if len(shown) == 0 {
		fmt.Fprintln(cmd.out, "No archived reports")
		return nil
	}

	fmt.Fprintf(cmd.out, "%-36s %-16s %-20s %-6s\n", "ID", "Part Number", "Generated", "NOK")
	fmt.Fprintf(cmd.out, "%-36s %-16s %-20s %-6s\n", "------------------------------------", "----------------", "--------------------", "------")
	for _, l := range shown {
		nok := "no"
		if l.HasOutstandingNok {
			nok = "yes"
		}
		fmt.Fprintf(cmd.out, "%-36s %-16s %-20s %-6s\n",
			l.ID, l.PartNumber, l.GeneratedAt.Local().Format("2006-01-02 15:04:05"), nok)
	}
	return nil
}

func (cmd *ReportsCommand) show(ctx context.Context) error {
	report, err := cmd.repo.GetReport(ctx, cmd.config.ReportID)
	if errors.Is(err, repositories.ErrReportNotFound) {
		return fmt.Errorf("report %s not found in archive", cmd.config.ReportID)
	}
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}

	result := &dto.EvaluationResult{Report: report, Archived: true}
	if err := output.Generate(result, output.Config{Format: cmd.config.Format}, cmd.out); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}
	return nil
}
