package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-rpg/internal/storage"
)

func TestRecordsModel(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "save.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if _, err := store.RecordBattle(storage.BattleRecord{Map: "forest", Enemies: 2, Outcome: storage.OutcomeWon, Duration: 3 * time.Second}); err != nil {
		t.Fatalf("RecordBattle: %v", err)
	}
	if err := store.SaveCharacter(storage.CharacterRecord{Name: "Adventurer", Level: 1, HP: 120, MP: 50}); err != nil {
		t.Fatalf("SaveCharacter: %v", err)
	}

	m := NewRecordsModel(store, 100, 30)
	view := m.View()
	for _, want := range []string{"Battles", "1 battles, 1 won, 0 lost", "forest"} {
		if !strings.Contains(view, want) {
			t.Errorf("battle page does not show %q:\n%s", want, view)
		}
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(RecordsModel)
	if m.Page() != pageTeam {
		t.Fatalf("Page() = %d after tab, expected the team page", m.Page())
	}
	if !strings.Contains(m.View(), "Adventurer") {
		t.Errorf("team page does not show the adventurer:\n%s", m.View())
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if next.(RecordsModel).Page() != pageBattles {
		t.Error("shift+tab did not go back to the battles")
	}
}

func TestRecordsModelEmpty(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "save.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	m := NewRecordsModel(store, 80, 24)
	if !strings.Contains(m.View(), "No battles recorded yet.") {
		t.Errorf("empty database view:\n%s", m.View())
	}
	_, cmd := m.Update(runes("q"))
	if !isQuit(cmd) {
		t.Error("q does not quit")
	}
}

func TestSavePath(t *testing.T) {
	s := &SSHServer{saves: "/saves"}
	tests := []struct {
		user string
		want string
	}{
		{"alice", "/saves/alice.db"},
		{"../etc/passwd", "/saves/___etc_passwd.db"},
		{"bob smith", "/saves/bob_smith.db"},
		{"", "/saves/anonymous.db"},
	}
	for _, tt := range tests {
		if got := s.SavePath(tt.user); got != tt.want {
			t.Errorf("SavePath(%q) = %q, expected %q", tt.user, got, tt.want)
		}
	}
}
