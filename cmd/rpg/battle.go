package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-rpg/internal/adventure"
	"github.com/vovakirdan/tui-rpg/internal/platform/tui"
)

var flagEnemies int

var battleCmd = &cobra.Command{
	Use:   "battle",
	Short: "Fight a pack of black cats right away",
	Long: `Start a single fight without walking the maps. The program exits when
the fight ends; the outcome is recorded in the save database.

Examples:
  rpg battle
  rpg battle --enemies 4 --difficulty hard`,
	Args: cobra.NoArgs,
	Run:  runBattle,
}

func init() {
	battleCmd.Flags().IntVar(&flagEnemies, "enemies", 0, "Number of cats (0 = battle.enemies from config)")
}

func runBattle(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	if flagEnemies > 0 {
		cfg.Battle.Enemies = flagEnemies
	}
	sizeFromTerminal(&cfg)

	logger, closeLog := fileLogger(cfg)
	defer closeLog()

	var opts []adventure.Option
	opts = append(opts, adventure.WithLogger(logger))
	if store := openStore(cfg, logger); store != nil {
		defer store.Close()
		opts = append(opts, adventure.WithStore(store))
	}

	a := adventure.New(cfg, opts...)
	defer a.Close()

	a.QuickBattle(cfg.Battle.Enemies)
	if err := tui.Run(a, cfg.Engine.FPS); err != nil {
		a.Close()
		fatal("%v", err)
	}
}
