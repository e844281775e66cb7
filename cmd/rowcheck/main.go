// Package main contains the rowcheck CLI. It uses the cobra package
// for CLI implementation, following the teacher's cmd/smf/main.go
// shape: a rootCmd with one subcommand per operation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rowcheck/rowcheck/internal/config"
	"github.com/rowcheck/rowcheck/internal/errs"
	"github.com/rowcheck/rowcheck/internal/exec"
	"github.com/rowcheck/rowcheck/internal/logging"
	"github.com/rowcheck/rowcheck/internal/plan"
	"github.com/rowcheck/rowcheck/internal/rdbms"
	"github.com/rowcheck/rowcheck/internal/report"
)

type runFlags struct {
	verbose bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "rowcheck",
		Short: "Row-level checksum comparison between SRC and TGT databases",
	}

	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [config path]",
		Short: "Execute a checksum comparison run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			configPath := "config.yml"
			if len(args) == 1 {
				configPath = args[0]
			}
			return runRowcheck(configPath, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

// runRowcheck wires up the interrupt-aware root context and delegates
// to runWithContext. Kept separate so tests can drive the latter with
// a context they control instead of a live SIGINT/SIGTERM listener.
func runRowcheck(configPath string, flags *runFlags) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return runWithContext(ctx, configPath, flags)
}

// runWithContext is the C3 → C4 → C5 control flow of spec.md §2. Only
// a ConfigError, a failure to start either connection pool, an
// unwritable report directory, or ctx being canceled (spec.md §7
// "Interrupt") is fatal; every per-task failure is captured and
// reflected in the reports instead.
func runWithContext(ctx context.Context, configPath string, flags *runFlags) error {
	log, err := logging.New(flags.verbose)
	if err != nil {
		return fmt.Errorf("rowcheck: build logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		log.Error("config error", zap.Error(err))
		return err
	}

	srcConn, err := rdbms.OpenSRC(cfg.SRC)
	if err != nil {
		log.Error("src pool failed to start", zap.Error(err))
		return errs.NewConfigError("databases.src", err)
	}
	defer srcConn.Close()

	tgtConn, err := rdbms.OpenTGT(cfg.TGT)
	if err != nil {
		log.Error("tgt pool failed to start", zap.Error(err))
		return errs.NewConfigError("databases.tgt", err)
	}
	defer tgtConn.Close()

	planResult, err := plan.Plan(ctx, srcConn, cfg.Scope, log)
	if err != nil {
		log.Error("planning failed", zap.Error(err))
		return err
	}

	execReport := exec.Run(ctx, srcConn, tgtConn, planResult.Tasks, cfg.ThreadCount, log)

	// An interrupt cancels both pools and must exit non-zero (spec.md
	// §7 "Interrupt"), even though exec.Run itself always returns a
	// (possibly partial) report rather than an error.
	if err := checkInterrupted(ctx); err != nil {
		log.Error("run interrupted", zap.Error(err))
		return err
	}

	reports := report.Classify(planResult.Tasks, planResult.Errors, execReport)
	detailPath, summaryPath, err := report.Write("reports", reports, time.Now(), log)
	if err != nil {
		log.Error("report write failed", zap.Error(err))
		return err
	}

	rate := report.ConsistencyRate(reports)
	log.Sugar().Infof("run complete: consistency=%.2f%% detail=%s summary=%s", rate*100, detailPath, summaryPath)

	return nil
}

// checkInterrupted reports ctx's cancellation cause, if any. It exists
// as its own function so the exit-non-zero-on-interrupt behavior
// (spec.md §7) can be unit-tested without standing up real database
// connections.
func checkInterrupted(ctx context.Context) error {
	return ctx.Err()
}
