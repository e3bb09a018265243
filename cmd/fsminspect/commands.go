package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsinha/fsminspect/pkg/infrastructure/config"
	"github.com/vsinha/fsminspect/pkg/infrastructure/repositories/sqlite"
	"github.com/vsinha/fsminspect/pkg/interfaces/cli/commands"
)

func newEvaluateCmd() *cobra.Command {
	var c commands.EvaluateConfig
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate one inspection and print its report",
		Long: `Evaluate one inspection from a scenario directory or individual files.

A scenario directory may contain:
    document.txt     extracted text layer of the inspection document
    spec_rows.csv    seq,press,selector_id,ref,x,spec_yz,spec_dia
    actuals.csv      seq,value_from_edge,actual_dia,actual_axis
    header.csv       field,spec,actual
    aux_checks.csv   kind,name,spec_dia,actual

Individual file flags override files found in the directory.`,
		Example: `  fsminspect evaluate --scenario inspections/5801A123
  fsminspect evaluate --text doc.txt --actuals actuals.csv --fsm-length-act 2003.5
  fsminspect evaluate --scenario inspections/5801A123 --format json --output results/ --store`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Verbose = verbose
			c.Policy = policy
			c.DatabasePath = cfg.Storage.DatabasePath
			c.Store = c.Store || cfg.Storage.Archive
			c.Logger = logger
			c.Out = cmd.OutOrStdout()
			return commands.NewEvaluateCommand(c).Execute(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&c.ScenarioDir, "scenario", "s", "", "Scenario directory")
	f.StringVar(&c.TextFile, "text", "", "Extracted document text file")
	f.StringVar(&c.SpecRowsFile, "spec-rows", "", "Spec rows CSV file")
	f.StringVar(&c.ActualsFile, "actuals", "", "Actuals CSV file")
	f.StringVar(&c.HeaderFile, "header", "", "Header CSV file")
	f.StringVar(&c.AuxFile, "aux", "", "Auxiliary checks CSV file")
	f.StringVar(&c.FsmLengthAct, "fsm-length-act", "", "Measured FSM length in mm, overrides header.csv")
	f.StringVarP(&c.Format, "format", "f", "text", "Output format: text, json, csv")
	f.StringVarP(&c.OutputDir, "output", "o", "", "Output directory for results (optional)")
	f.BoolVar(&c.ShowBlank, "show-blank", false, "Include blank padding rows in text output")
	f.BoolVar(&c.ShowEvents, "events", false, "Include the session event trail in text and json output")
	f.BoolVar(&c.Store, "store", false, "Archive the report (in memory when storage.database_path is empty)")
	f.BoolVar(&c.Strict, "strict", false, "Exit non-zero when any item is NOK")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var c commands.BatchConfig
	cmd := &cobra.Command{
		Use:   "batch DIR...",
		Short: "Evaluate many scenario directories concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.ScenarioDirs = args
			c.Verbose = verbose
			c.Policy = policy
			c.DatabasePath = cfg.Storage.DatabasePath
			c.Store = c.Store || cfg.Storage.Archive
			c.Logger = logger
			c.Out = cmd.OutOrStdout()
			return commands.NewBatchCommand(c).Execute(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.IntVarP(&c.Workers, "workers", "j", 0, "Concurrent evaluations (default: GOMAXPROCS)")
	f.BoolVar(&c.Store, "store", false, "Archive every report in the SQLite database")
	f.BoolVar(&c.Strict, "strict", false, "Exit non-zero when any scenario has a NOK item")
	return cmd
}

func newHeaderCmd() *cobra.Command {
	var c commands.HeaderConfig
	cmd := &cobra.Command{
		Use:   "header FILE",
		Short: "Extract header fields and table rows from a document text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.TextFile = args[0]
			c.Verbose = verbose
			c.Convention = policy.SlotHeightConvention
			c.Out = cmd.OutOrStdout()
			return commands.NewHeaderCommand(c).Execute(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&c.OutputDir, "output", "o", "", "Write header.csv and spec_rows.csv to this directory")
	return cmd
}

func newTemplateCmd() *cobra.Command {
	var c commands.TemplateConfig
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write blank input sheets for a new inspection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Verbose = verbose
			c.Out = cmd.OutOrStdout()
			return commands.NewTemplateCommand(c).Execute(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVarP(&c.OutputDir, "output", "o", "", "Output directory (required)")
	f.IntVarP(&c.Rows, "rows", "n", 0, "Number of table rows (default: 45)")
	f.IntVar(&c.HoleChecks, "hole-checks", 0, "Number of auxiliary hole check lines (max 5)")
	f.StringSliceVar(&c.VisualChecks, "visual", nil, "Visual check names")
	f.BoolVar(&c.Force, "force", false, "Overwrite existing files")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Browse archived inspection reports",
	}

	var list commands.ReportsConfig
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List archived reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list.Out = cmd.OutOrStdout()
			return runReports(cmd, list)
		},
	}
	listCmd.Flags().BoolVar(&list.NokOnly, "nok", false, "Only reports with outstanding NOK items")
	listCmd.Flags().IntVar(&list.Limit, "limit", 0, "Maximum number of reports to list")

	var show commands.ReportsConfig
	showCmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print an archived report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			show.ReportID = args[0]
			show.Out = cmd.OutOrStdout()
			return runReports(cmd, show)
		},
	}
	showCmd.Flags().StringVarP(&show.Format, "format", "f", "text", "Output format: text, json, csv")

	cmd.AddCommand(listCmd, showCmd)
	return cmd
}

func runReports(cmd *cobra.Command, c commands.ReportsConfig) error {
	repo, err := sqlite.Open(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open report archive: %w", err)
	}
	defer repo.Close()
	return commands.NewReportsCommand(c, repo).Execute(cmd.Context())
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", configPath)
			}
			if err := config.DefaultConfig().Save(configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Wrote default configuration to %s\n", configPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
