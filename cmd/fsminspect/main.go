package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vsinha/fsminspect/pkg/domain/entities"
	"github.com/vsinha/fsminspect/pkg/infrastructure/config"
	"github.com/vsinha/fsminspect/pkg/infrastructure/logging"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	policy entities.TolerancePolicy
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fsminspect",
	Short: "FSM inspection reconciliation",
	Long: `fsminspect reconciles operator measurements of a frame side member
against the inspection document's specification.

Each table row pairs a hole diameter or slot HxW spec with the measured
size and axis position. A row is OK only when both the size and the
position offset are within tolerance. The offset band widens near the
ends of the member.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}
		if policy, err = cfg.Policy.ToPolicy(); err != nil {
			return err
		}

		logCfg := cfg.Logging
		if verbose {
			logCfg = logging.Verbose(logCfg)
		}
		if logger, err = logging.New(logCfg); err != nil {
			return err
		}
		logger.Debug("configuration loaded",
			zap.String("path", configPath),
			zap.String("slot_convention", string(policy.SlotHeightConvention)),
			zap.String("database", cfg.Storage.DatabasePath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", filepath.Join(".fsminspect", "config.yaml"), "Config file (missing file uses defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logging")

	rootCmd.AddCommand(newEvaluateCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newHeaderCmd())
	rootCmd.AddCommand(newTemplateCmd())
	rootCmd.AddCommand(newReportsCmd())
	rootCmd.AddCommand(newConfigCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
