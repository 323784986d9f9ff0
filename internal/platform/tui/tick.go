// Package tui hosts the game in a terminal, locally through Bubble Tea or
// remotely through a Wish SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to run one frame of the game.
type TickMsg time.Time

// maxFrame bounds the time simulated by one frame.
const maxFrame = 100 * time.Millisecond

// tickCmd schedules the next frame at fps frames per second.
func tickCmd(fps int) tea.Cmd {
	return tea.Tick(frameTime(fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func frameTime(fps int) time.Duration {
	if fps <= 0 {
		fps = 60
	}
	return time.Second / time.Duration(fps)
}
