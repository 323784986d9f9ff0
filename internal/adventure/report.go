package adventure

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReportFile is the name of the report written from the panic screen.
const ReportFile = "tui-rpg-report.txt"

// ReportPath returns where SaveReport writes: next to the save database,
// or in the working directory without one.
func (a *Adventure) ReportPath() string {
	if a.Store == nil || a.Store.Path() == "" {
		return ReportFile
	}
	return filepath.Join(filepath.Dir(a.Store.Path()), ReportFile)
}

// SaveReport writes the report of cause to ReportPath and returns the path.
func (a *Adventure) SaveReport(cause error) (string, error) {
	path := a.ReportPath()
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("adventure: report: %w", err)
	}
	if err := a.WriteReport(f, cause); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("adventure: report: %w", err)
	}
	return path, nil
}

// WriteReport dumps the error and the state of the game to w.
func (a *Adventure) WriteReport(w io.Writer, cause error) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s crash report\n", Title)
	fmt.Fprintf(&sb, "date:    %s\n", time.Now().Format(time.RFC3339))
	if cause != nil {
		fmt.Fprintf(&sb, "error:   %v\n", cause)
	}

	sb.WriteString("== map ==\n")
	if m := a.current; m != nil {
		mw, mh := m.Size()
		fmt.Fprintf(&sb, "name:    %s\n", m.Name)
		fmt.Fprintf(&sb, "size:    %dx%d\n", mw, mh)
		fmt.Fprintf(&sb, "player:  %d, %d\n", m.PlayerX, m.PlayerY)
		fmt.Fprintf(&sb, "steps:   %d\n", m.Steps())
		fmt.Fprintf(&sb, "objects: %d\n", m.Actions.Len())
	} else {
		sb.WriteString("none\n")
	}

	sb.WriteString("== view ==\n")
	fmt.Fprintf(&sb, "size:    %dx%d\n", a.width, a.height)
	fmt.Fprintf(&sb, "states:  %d\n", a.Machine.Depth())

	sb.WriteString("== team ==\n")
	for _, ch := range a.Team {
		fmt.Fprintf(&sb, "%-10s lv %d hp %d/%d mp %d/%d\n", ch.Name, ch.Level, ch.HP, ch.MaxHP(), ch.MP, ch.MaxMP())
	}
	fmt.Fprintf(&sb, "wins:    %d\n", a.wins)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("adventure: report: %w", err)
	}
	return nil
}
