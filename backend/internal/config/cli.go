package config

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BindFlags registers every flag original_source/src/main.cpp's
// boost::program_options block defines, using spf13/pflag through cobra,
// and binds each to spf13/viper so a --config file can supply the same
// values. defaultThreads should be runtime.GOMAXPROCS(0) from the caller,
// kept out of this package to avoid an unconditional runtime import here.
func BindFlags(cmd *cobra.Command, v *viper.Viper, defaultThreads int) {
	flags := cmd.Flags()

	flags.String("receptor", "", "receptor PDBQT file")
	flags.StringSlice("ligand", nil, "ligand PDBQT file(s)")
	flags.String("out", ".", "output directory")

	flags.Float64("center_x", 0, "search box center, x (Angstrom)")
	flags.Float64("center_y", 0, "search box center, y (Angstrom)")
	flags.Float64("center_z", 0, "search box center, z (Angstrom)")
	flags.Float64("size_x", 20, "search box size, x (Angstrom)")
	flags.Float64("size_y", 20, "search box size, y (Angstrom)")
	flags.Float64("size_z", 20, "search box size, z (Angstrom)")

	flags.Int64("seed", time.Now().Unix(), "random seed")
	flags.Int("threads", defaultThreads, "number of worker threads")
	flags.Int("trees", 500, "number of random forest trees")
	flags.Int("tasks", 64, "number of independent Monte Carlo tasks per ligand")
	flags.Int("conformations", 9, "number of top conformations to keep per ligand")
	flags.Float64("granularity", 0.125, "grid map granularity (Angstrom)")

	flags.Bool("score_only", false, "score the input pose only, skip search")
	flags.Bool("score_dock", false, "score the input pose and also dock")
	flags.Bool("rf_score", false, "rescore top poses with the random forest")
	flags.Bool("precise_mode", false, "bypass grid maps, score by direct summation")
	flags.Bool("remove_nonstd", false, "drop non-standard receptor residues before docking")

	flags.String("log_level", "info", "debug, info, warn, error")
	flags.Bool("log_json", false, "emit structured JSON logs instead of console text")

	_ = v.BindPFlags(flags)
}

// FromViper resolves a Config from whatever combination of flags, config
// file and defaults viper has merged.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		ReceptorPath:  v.GetString("receptor"),
		LigandPaths:   v.GetStringSlice("ligand"),
		OutPath:       v.GetString("out"),
		CenterX:       v.GetFloat64("center_x"),
		CenterY:       v.GetFloat64("center_y"),
		CenterZ:       v.GetFloat64("center_z"),
		SizeX:         v.GetFloat64("size_x"),
		SizeY:         v.GetFloat64("size_y"),
		SizeZ:         v.GetFloat64("size_z"),
		Seed:          v.GetInt64("seed"),
		Threads:       v.GetInt("threads"),
		Trees:         v.GetInt("trees"),
		Tasks:         v.GetInt("tasks"),
		Conformations: v.GetInt("conformations"),
		Granularity:   v.GetFloat64("granularity"),
		ScoreOnly:     v.GetBool("score_only"),
		ScoreDock:     v.GetBool("score_dock"),
		RFScore:       v.GetBool("rf_score"),
		PreciseMode:   v.GetBool("precise_mode"),
		RemoveNonstd:  v.GetBool("remove_nonstd"),
		LogLevel:      v.GetString("log_level"),
		LogJSON:       v.GetBool("log_json"),
	}
}
