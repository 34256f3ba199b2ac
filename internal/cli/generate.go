package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/ipcgen/internal/config"
	"github.com/mvp-joe/ipcgen/internal/pipeline"
	"github.com/mvp-joe/ipcgen/internal/project"
	"github.com/mvp-joe/ipcgen/internal/watcher"
)

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	out := cmd.OutOrStdout()
	logger := newLogger(cmd.ErrOrStderr(), verboseFlag, quietFlag)

	startDir := viper.GetString("root")
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		startDir = wd
	}

	cfg, err := resolveProject(startDir, logger)
	if err != nil {
		return err
	}
	logger.Debug("Project resolved", "root", cfg.RootDir, "dataDir", cfg.DataDir, "indent", cfg.CodeIndent)

	p := pipeline.New(newProgressReporter(out, logger, quietFlag, noProgressFlag), logger)

	if _, err := p.Run(ctx, cfg); err != nil {
		if !watchFlag {
			return err
		}
		logger.Error("Generation failed", "err", err)
	}

	if !watchFlag {
		return nil
	}
	return watchSchema(ctx, cfg, p, out, logger)
}

// newLogger creates the process logger. Quiet wins over verbose.
func newLogger(w io.Writer, verbose, quiet bool) *log.Logger {
	level := log.WarnLevel
	switch {
	case quiet:
		level = log.ErrorLevel
	case verbose:
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "ipcgen",
		Level:  level,
	})
}

func newProgressReporter(out io.Writer, logger *log.Logger, quiet, noProgress bool) pipeline.ProgressReporter {
	if quiet {
		return &pipeline.NoOpProgressReporter{}
	}
	return NewCLIProgressReporter(out, logger, !noProgress)
}

// resolveProject finds the project root above startDir and loads its
// settings. Without a root marker the start directory itself is the root.
func resolveProject(startDir string, logger *log.Logger) (*config.ResolvedConfig, error) {
	finder := project.NewFinder(project.NewMemo(project.DefaultMemoLimit))

	root, err := finder.FindRoot(startDir)
	if errors.Is(err, project.ErrRootNotFound) {
		logger.Debug("No project root marker found, using start directory", "dir", startDir)
		root, err = filepath.Abs(startDir)
	}
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadFromDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg.Resolve(root), nil
}

// watchSchema regenerates on every debounced schema change until ctx is done.
func watchSchema(ctx context.Context, cfg *config.ResolvedConfig, p *pipeline.Pipeline, out io.Writer, logger *log.Logger) error {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	sw, err := watcher.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer sw.Stop()

	err = sw.Start(ctx, func(files []string) {
		logger.Debug("Regenerating", "changed", files)
		if _, err := p.Run(ctx, cfg); err != nil && ctx.Err() == nil {
			logger.Error("Generation failed", "err", err)
		}
	})
	if err != nil {
		return err
	}

	if !quietFlag {
		fmt.Fprintln(out, SubtleStyle.Render(fmt.Sprintf("\nWatching %s for schema changes (Ctrl+C to stop)", cfg.DataDir)))
	}
	<-ctx.Done()
	return nil
}
