// Package config parses and validates the docking engine's CLI surface:
// flags via github.com/spf13/cobra, an optional config file via
// github.com/spf13/viper, and the same validation rules
// original_source/src/main.cpp enforces by hand with boost::program_options.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config is the fully-resolved, validated set of run parameters.
type Config struct {
	ReceptorPath string
	LigandPaths  []string
	OutPath      string

	CenterX, CenterY, CenterZ float64
	SizeX, SizeY, SizeZ       float64

	Seed          int64
	Threads       int
	Trees         int
	Tasks         int
	Conformations int
	Granularity   float64

	ScoreOnly    bool
	ScoreDock    bool
	RFScore      bool
	PreciseMode  bool
	RemoveNonstd bool

	LogLevel string
	LogJSON  bool
}

// ValidationError reports a configuration problem, matching the kind of
// message original_source/src/main.cpp prints before exiting non-zero.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Validate checks the cross-field rules original_source/src/main.cpp
// enforces: receptor and ligand paths are always required; the box
// center/size is required unless running in score_only+precise_mode (a
// pure self-score needs no search box); score_only and score_dock are
// mutually exclusive; precise_mode requires one of them.
func (c *Config) Validate() error {
	if c.ReceptorPath == "" {
		return &ValidationError{"receptor", "required"}
	}
	if info, err := os.Stat(c.ReceptorPath); err != nil {
		return &ValidationError{"receptor", fmt.Sprintf("cannot access %q: %v", c.ReceptorPath, err)}
	} else if !info.Mode().IsRegular() {
		return &ValidationError{"receptor", fmt.Sprintf("%q is not a regular file", c.ReceptorPath)}
	}

	if len(c.LigandPaths) == 0 {
		return &ValidationError{"ligand", "at least one ligand path is required"}
	}
	for _, p := range c.LigandPaths {
		if _, err := os.Stat(p); err != nil {
			return &ValidationError{"ligand", fmt.Sprintf("cannot access %q: %v", p, err)}
		}
	}

	if c.ScoreOnly && c.ScoreDock {
		return &ValidationError{"score_only/score_dock", "mutually exclusive"}
	}
	if c.PreciseMode && !c.ScoreOnly && !c.ScoreDock {
		return &ValidationError{"precise_mode", "requires --score_only or --score_dock"}
	}

	boxRequired := !(c.ScoreOnly && c.PreciseMode)
	if boxRequired && (c.SizeX <= 0 || c.SizeY <= 0 || c.SizeZ <= 0) {
		return &ValidationError{"size", "search box size is required unless --score_only is combined with --precise_mode"}
	}

	if c.Granularity <= 0 {
		return &ValidationError{"granularity", "must be positive"}
	}
	if c.Tasks <= 0 {
		return &ValidationError{"tasks", "must be positive"}
	}
	if c.Conformations <= 0 {
		return &ValidationError{"conformations", "must be positive"}
	}

	if c.OutPath == "" {
		c.OutPath = "."
	}
	if err := os.MkdirAll(c.OutPath, 0o755); err != nil {
		return &ValidationError{"out", fmt.Sprintf("cannot create %q: %v", c.OutPath, err)}
	}
	abs, err := filepath.Abs(c.OutPath)
	if err == nil {
		c.OutPath = abs
	}

	return nil
}
