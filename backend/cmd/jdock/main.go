// Command jdock docks one or more flexible ligands into a rigid receptor
// and reports scored binding poses, a single-binary CLI matching
// original_source/src/main.cpp's option surface (receptor/ligand/out,
// search box, Monte Carlo/grid-map tuning, score_only/score_dock/
// rf_score/precise_mode/remove_nonstd) rebuilt on spf13/cobra and
// spf13/viper instead of boost::program_options.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sarat-asymmetrica/jdock/backend/internal/config"
	"github.com/sarat-asymmetrica/jdock/backend/internal/docking"
	"github.com/sarat-asymmetrica/jdock/backend/internal/logging"
)

// version is reported by --version; overridden at build time with
// -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "jdock",
		Short:         "Dock flexible ligands into a rigid receptor",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(v)
		},
	}

	cmd.Flags().SortFlags = false
	config.BindFlags(cmd, v, runtime.GOMAXPROCS(0))

	configPath := cmd.Flags().String("config", "", "YAML/TOML/JSON config file to load options from")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if *configPath == "" {
			return nil
		}
		v.SetConfigFile(*configPath)
		return v.ReadInConfig()
	}

	return cmd
}

func run(v *viper.Viper) error {
	cfg := config.FromViper(v)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		return fmt.Errorf("jdock: initializing logger: %w", err)
	}
	defer logger.Sync()

	engine, err := docking.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("jdock: initializing engine: %w", err)
	}

	return engine.Run()
}
