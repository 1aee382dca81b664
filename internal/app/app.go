// Package app wires the loaders, planner and output sinks into the
// one-shot planning run the CLI drives.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/emallson/waluigi/internal/archive"
	"github.com/emallson/waluigi/internal/broker"
	"github.com/emallson/waluigi/internal/ctxlog"
	"github.com/emallson/waluigi/internal/fsutil"
	"github.com/emallson/waluigi/internal/hcl"
	"github.com/emallson/waluigi/internal/model"
	"github.com/emallson/waluigi/internal/planner"
	yamlspec "github.com/emallson/waluigi/internal/yaml"
)

// specExtensions are the file extensions the loaders understand.
var specExtensions = []string{".hcl", ".yaml", ".yml"}

// App encapsulates one planning run's dependencies and configuration.
type App struct {
	outW   io.Writer
	logger *slog.Logger
}

// New constructs an App. Broker records go to outW (unless the config
// directs them to a file); logs go to logW.
func New(outW, logW io.Writer, cfg *Config) *App {
	return &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, logW),
	}
}

// Run loads every spec file under the configured paths, plans the
// experiment, and emits the broker records.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run started.", "spec_paths", cfg.SpecPaths)

	specModel, err := a.load(ctx, cfg)
	if err != nil {
		return err
	}
	if len(specModel.Experiment.Jobs) == 0 {
		return fmt.Errorf("no experiment jobs found under %v", cfg.SpecPaths)
	}
	a.logger.Debug("Spec model loaded.", "programs", len(specModel.Programs), "jobs", len(specModel.Experiment.Jobs))

	instances, err := planner.Plan(ctx, specModel.Experiment, cfg.Threads, specModel.Programs)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	runID := uuid.NewString()
	a.logger.Info("Experiment planned.", "run_id", runID, "instances", len(instances))

	out := a.outW
	if cfg.OutputPath != "" {
		f, err := os.Create(cfg.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := broker.Write(out, instances); err != nil {
		return err
	}

	if cfg.ArchivePath != "" {
		store, err := archive.Open(cfg.ArchivePath)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.SavePlan(ctx, runID, cfg.Threads, instances); err != nil {
			return err
		}
		a.logger.Info("Plan archived.", "run_id", runID, "path", cfg.ArchivePath)
	}

	a.logger.Debug("App.Run finished.")
	return nil
}

// load discovers spec files under the configured paths and routes each to
// the loader for its format, merging everything into one model.
func (a *App) load(ctx context.Context, cfg *Config) (*model.Model, error) {
	files, err := fsutil.FindSpecFiles(cfg.SpecPaths, specExtensions)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no spec files found under %v", cfg.SpecPaths)
	}
	a.logger.Debug("Discovered spec files.", "count", len(files))

	var hclFiles, yamlFiles []string
	for _, file := range files {
		if filepath.Ext(file) == ".hcl" {
			hclFiles = append(hclFiles, file)
		} else {
			yamlFiles = append(yamlFiles, file)
		}
	}

	out := model.NewModel()
	if len(hclFiles) > 0 {
		part, err := hcl.NewLoader().Load(ctx, hclFiles...)
		if err != nil {
			return nil, err
		}
		if err := out.Merge(part); err != nil {
			return nil, err
		}
	}
	if len(yamlFiles) > 0 {
		part, err := yamlspec.NewLoader().Load(ctx, yamlFiles...)
		if err != nil {
			return nil, err
		}
		if err := out.Merge(part); err != nil {
			return nil, err
		}
	}
	return out, nil
}
