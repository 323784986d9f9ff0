package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-rpg/internal/adventure"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List the shipped maps",
	Long:  `Loads every map shipped with the game and shows its size and objects.`,
	Args:  cobra.NoArgs,
	Run:   runMaps,
}

func runMaps(_ *cobra.Command, _ []string) {
	a := adventure.New(loadConfig())
	defer a.Close()

	names := adventure.MapNames()
	if len(names) == 0 {
		fmt.Println("No maps available.")
		return
	}

	maxNameLen := 4 // "Name" header
	for _, n := range names {
		maxNameLen = max(maxNameLen, len(n))
	}

	fmt.Println("Maps:")
	fmt.Println()
	fmt.Printf("  %-*s  %-7s  %-7s  %s\n", maxNameLen, "Name", "Size", "Objects", "Title")
	fmt.Printf("  %-*s  %-7s  %-7s  %s\n", maxNameLen, "----", "----", "-------", "-----")
	for _, n := range names {
		m, err := a.LoadMap(n)
		if err != nil {
			fmt.Printf("  %-*s  %v\n", maxNameLen, n, err)
			continue
		}
		w, h := m.Size()
		size := fmt.Sprintf("%dx%d", w, h)
		fmt.Printf("  %-*s  %-7s  %-7d  %s\n", maxNameLen, n, size, m.Actions.Len(), m.Title)
		m.Finish()
	}

	fmt.Println()
	fmt.Printf("Object tags: %s\n", strings.Join(adventure.ObjectTags(), ", "))
}
