// rpg is a turn-based terminal RPG: walk between maps, open chests and
// fight the black cats of the forest.
//
// Usage:
//
//	rpg play               - Play in this terminal
//	rpg battle             - Jump straight into a fight
//	rpg serve              - Start SSH server for remote play
//	rpg saves              - Show the save database
//	rpg maps               - List the shipped maps
//
// Global flags:
//
//	--fps <rate>         - Set frame rate (default from config)
//	--seed <value>       - Set RNG seed for reproducible fights
//	--db <path>          - Set save database path
//	--config <path>      - Use a YAML or TOML config file
//	--log-level <level>  - debug, info, warn or error
//	--difficulty <name>  - easy, normal or hard
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-rpg/internal/config"
	"github.com/vovakirdan/tui-rpg/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagLogLevel   string
	flagDifficulty string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rpg",
	Short: "The Black Cat Quest - a turn-based RPG in your terminal",
	Long: `The Black Cat Quest is a small turn-based RPG played in the terminal,
locally or over SSH.

Available commands:
  play     - Play in this terminal
  battle   - Fight a pack of black cats right away
  serve    - Start SSH server for remote play
  saves    - Show or browse the save database
  maps     - List the shipped maps

Examples:
  rpg play
  rpg play --seed 42 --difficulty hard
  rpg battle --enemies 3
  rpg serve --port 2323
  rpg saves --browse`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Frame rate (0 = engine.fps from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to the save database (default save.path from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML or TOML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(battleCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(mapsCmd)
}

// fatal prints an error and exits.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the configuration and applies the global flags.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}

	if flagFPS > 0 {
		cfg.Engine.FPS = flagFPS
	}
	if flagSeed != 0 {
		cfg.Engine.Seed = flagSeed
	}
	if flagDBPath != "" {
		cfg.Save.Path = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	}
	switch preset := config.DifficultyPreset(flagDifficulty); preset {
	case "":
	case config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard:
		config.ApplyPreset(&cfg, preset)
	default:
		fatal("unknown difficulty %q", flagDifficulty)
	}

	if err := cfg.Validate(); err != nil {
		fatal("%v", err)
	}
	return cfg
}

// newLogger creates a logger writing to w at the configured level.
func newLogger(cfg config.Config, w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	return logger
}

// fileLogger logs to logging.file, since the game owns the terminal. The
// returned closer must be called on exit.
func fileLogger(cfg config.Config) (*log.Logger, func()) {
	if cfg.Logging.File == "" {
		return log.New(io.Discard), func() {}
	}
	path := config.ExpandHome(cfg.Logging.File)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: no log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: no log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	return newLogger(cfg, f, "rpg"), func() { f.Close() }
}

// openStore opens the save database. The game still runs without one.
func openStore(cfg config.Config, logger *log.Logger) *storage.Store {
	store, err := storage.Open(cfg.Save.Path)
	if err != nil {
		logger.Warn("could not open save database", "path", cfg.Save.Path, "err", err)
		return nil
	}
	return store
}
