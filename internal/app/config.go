package app

import "errors"

// Config holds everything an App instance needs to plan an experiment.
type Config struct {
	// SpecPaths are files or directories holding program and experiment
	// spec files (.hcl, .yaml, .yml).
	SpecPaths []string
	// OutputPath receives the broker records; empty means stdout.
	OutputPath string
	// ArchivePath, when set, persists the plan to a SQLite archive.
	ArchivePath string
	// Threads is the concurrency hint copied into every instance.
	Threads int

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.SpecPaths) == 0 {
		return nil, errors.New("at least one spec path is required")
	}
	if cfg.Threads < 1 {
		return nil, errors.New("threads must be at least 1")
	}
	return &cfg, nil
}
