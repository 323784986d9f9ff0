package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-rpg/internal/platform/tui"
	"github.com/vovakirdan/tui-rpg/internal/storage"
)

var (
	flagBrowse bool
	flagReset  bool
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "Show the save database",
	Long: `Display the saved team, the saved game properties and the recent battles.

Examples:
  rpg saves
  rpg saves --browse
  rpg saves --reset
  rpg saves --db ./save.db`,
	Args: cobra.NoArgs,
	Run:  runSaves,
}

func init() {
	savesCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse the battle log interactively")
	savesCmd.Flags().BoolVar(&flagReset, "reset", false, "Delete the saved game and the battle log")
}

func runSaves(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	store, err := storage.Open(cfg.Save.Path)
	if err != nil {
		fatal("opening save database: %v", err)
	}
	defer store.Close()

	switch {
	case flagReset:
		if err := store.Reset(); err != nil {
			store.Close()
			fatal("%v", err)
		}
		fmt.Printf("Save database %s cleared.\n", store.Path())
		return

	case flagBrowse:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunRecords(store, width, height); err != nil {
			store.Close()
			fatal("%v", err)
		}
		return
	}

	if err := printSaves(store); err != nil {
		store.Close()
		fatal("%v", err)
	}
}

func printSaves(store *storage.Store) error {
	team, err := store.ListCharacters()
	if err != nil {
		return err
	}
	props, err := store.Properties()
	if err != nil {
		return err
	}
	battles, err := store.Battles(10)
	if err != nil {
		return err
	}
	stats, err := store.Stats()
	if err != nil {
		return err
	}

	fmt.Printf("Save database - %s\n", store.Path())
	fmt.Println()

	if len(team) == 0 {
		fmt.Println("No saved game.")
		fmt.Println()
		fmt.Println("Press 's' on a map during 'rpg play' to save.")
	} else {
		fmt.Println("Team:")
		fmt.Printf("  %-16s  %-3s  %-5s  %-5s  %s\n", "Name", "Lv", "HP", "MP", "Saved")
		fmt.Printf("  %-16s  %-3s  %-5s  %-5s  %s\n", "----", "--", "--", "--", "-----")
		for _, c := range team {
			fmt.Printf("  %-16s  %-3d  %-5d  %-5d  %s\n", c.Name, c.Level, c.HP, c.MP, c.UpdatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Println()

		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		fmt.Println("Properties:")
		for _, k := range keys {
			fmt.Printf("  %-10s  %s\n", k, props[k])
		}
	}

	fmt.Println()
	if stats.Count == 0 {
		fmt.Println("No battles recorded yet.")
		return nil
	}
	fmt.Printf("Battles: %d (%d won, %d lost)\n", stats.Count, stats.Won, stats.Lost)
	fmt.Printf("  %-5s  %-10s  %-4s  %-7s  %s\n", "ID", "Map", "Cats", "Outcome", "Date")
	fmt.Printf("  %-5s  %-10s  %-4s  %-7s  %s\n", "--", "---", "----", "-------", "----")
	for _, b := range battles {
		fmt.Printf("  %-5d  %-10s  %-4d  %-7s  %s\n", b.ID, b.Map, b.Enemies, b.Outcome, b.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
