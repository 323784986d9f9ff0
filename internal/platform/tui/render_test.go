package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-rpg/internal/core"
)

func TestRenderScreen(t *testing.T) {
	scr := core.NewScreen(10, 3)
	scr.DrawTextColor(0, 0, "hp", core.ColorHeal)
	scr.DrawTextColor(3, 0, "mp", core.ColorMana)
	scr.DrawText(0, 2, "cat")

	out := RenderScreen(scr)
	if lines := strings.Split(out, "\n"); len(lines) != 3 {
		t.Fatalf("rendered %d lines, expected 3", len(lines))
	}
	for _, want := range []string{"hp", "mp", "cat"} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}

func TestPaletteCoversColors(t *testing.T) {
	for c := core.ColorRed; c <= core.ColorGray; c++ {
		if _, ok := palette[c]; !ok {
			t.Errorf("no palette entry for color %d", c)
		}
	}
}

func TestPaintGroupsRuns(t *testing.T) {
	scr := core.NewScreen(6, 1)
	scr.DrawTextColor(0, 0, "abc", core.ColorDamage)
	scr.DrawTextColor(3, 0, "def", core.ColorHeal)

	var rendered []string
	p := &Painter{styles: map[core.Color]lipgloss.Style{}, plain: lipgloss.NewStyle()}
	p.styles[core.ColorDamage] = lipgloss.NewStyle().Transform(func(s string) string {
		rendered = append(rendered, s)
		return s
	})
	p.styles[core.ColorHeal] = p.styles[core.ColorDamage]

	if out := p.Paint(scr); out != "abcdef" {
		t.Fatalf("Paint() = %q, expected %q", out, "abcdef")
	}
	if len(rendered) != 2 || rendered[0] != "abc" || rendered[1] != "def" {
		t.Fatalf("styled runs = %q, expected [abc def]", rendered)
	}
}
