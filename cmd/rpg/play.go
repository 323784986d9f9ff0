package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-rpg/internal/adventure"
	"github.com/vovakirdan/tui-rpg/internal/config"
	"github.com/vovakirdan/tui-rpg/internal/platform/tui"
)

var flagScripts string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the game in this terminal.

Controls:
  Arrows/WASD  - Walk, move the cursor
  Enter/Space  - Confirm, open chests
  Esc/B        - Team menu, back
  S            - Save (on the map)
  Q            - Back to the title screen
  ?            - Toggle help
  Ctrl+C       - Quit

Scripts named by map objects are looked up in --scripts first, then in
the scripts shipped with the game.

Examples:
  rpg play
  rpg play --seed 42
  rpg play --scripts ./scripts --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagScripts, "scripts", "", "Directory of Lua map scripts")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	sizeFromTerminal(&cfg)

	logger, closeLog := fileLogger(cfg)
	defer closeLog()

	store := openStore(cfg, logger)
	opts := []adventure.Option{
		adventure.WithLogger(logger),
		adventure.WithScriptDir(flagScripts),
	}
	if store != nil {
		defer store.Close()
		opts = append(opts, adventure.WithStore(store))
	}

	a := adventure.New(cfg, opts...)
	defer a.Close()

	logger.Info("game started", "fps", cfg.Engine.FPS, "size", fmt.Sprintf("%dx%d", cfg.Engine.Width, cfg.Engine.Height))
	if err := tui.Run(a, cfg.Engine.FPS); err != nil {
		logger.Error("game stopped", "err", err)
		a.Close()
		fatal("%v", err)
	}
	logger.Info("game ended", "wins", a.Wins())
}

// sizeFromTerminal lays the game out for the current terminal.
func sizeFromTerminal(cfg *config.Config) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		cfg.Engine.Width = w
		cfg.Engine.Height = h
	}
}
