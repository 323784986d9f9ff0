package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-rpg/internal/storage"
)

const maxBattles = 100

// Pages of the records viewer.
const (
	pageBattles = iota
	pageTeam
	pageCount
)

var pageTitles = [pageCount]string{"Battles", "Team"}

// RecordsKeyMap defines the key bindings for the records viewer.
type RecordsKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k RecordsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextPage, k.PrevPage, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k RecordsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextPage, k.PrevPage, k.Quit},
	}
}

// DefaultRecordsKeyMap returns default key bindings.
func DefaultRecordsKeyMap() RecordsKeyMap {
	return RecordsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev page"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RecordsModel browses the save database: the battle log and the saved
// team.
type RecordsModel struct {
	store    *storage.Store
	page     int
	stats    *storage.BattleStats
	battles  []storage.BattleRecord
	team     []storage.CharacterRecord
	err      error
	table    table.Model
	help     help.Model
	keys     RecordsKeyMap
	width    int
	height   int
	quitting bool
}

// NewRecordsModel creates a records viewer and loads the database.
func NewRecordsModel(store *storage.Store, width, height int) RecordsModel {
	m := RecordsModel{
		store:  store,
		keys:   DefaultRecordsKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.load()
	m.table = m.createTable()
	return m
}

func (m *RecordsModel) load() {
	var err error
	if m.stats, err = m.store.Stats(); err != nil {
		m.err = err
		return
	}
	if m.battles, err = m.store.Battles(maxBattles); err != nil {
		m.err = err
		return
	}
	if m.team, err = m.store.ListCharacters(); err != nil {
		m.err = err
	}
}

func (m *RecordsModel) columns() []table.Column {
	if m.page == pageTeam {
		return []table.Column{
			{Title: "#", Width: 3},
			{Title: "Name", Width: 16},
			{Title: "Lv", Width: 4},
			{Title: "HP", Width: 6},
			{Title: "MP", Width: 6},
			{Title: "Saved", Width: 14},
		}
	}
	return []table.Column{
		{Title: "#", Width: 5},
		{Title: "Map", Width: 12},
		{Title: "Cats", Width: 5},
		{Title: "Outcome", Width: 8},
		{Title: "Time", Width: 8},
		{Title: "Date", Width: 14},
	}
}

func (m *RecordsModel) rows() []table.Row {
	if m.page == pageTeam {
		rows := make([]table.Row, len(m.team))
		for i, c := range m.team {
			rows[i] = table.Row{
				fmt.Sprintf("%d", c.TeamOrder+1),
				c.Name,
				fmt.Sprintf("%d", c.Level),
				fmt.Sprintf("%d", c.HP),
				fmt.Sprintf("%d", c.MP),
				c.UpdatedAt.Format("Jan 02 15:04"),
			}
		}
		return rows
	}
	rows := make([]table.Row, len(m.battles))
	for i, b := range m.battles {
		rows[i] = table.Row{
			fmt.Sprintf("%d", b.ID),
			b.Map,
			fmt.Sprintf("%d", b.Enemies),
			b.Outcome,
			b.Duration.Round(100 * time.Millisecond).String(),
			b.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

func (m *RecordsModel) createTable() table.Model {
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithRows(m.rows()),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// Init initializes the records model.
func (m RecordsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the records viewer.
func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextPage):
			m.page = (m.page + 1) % pageCount
			m.table = m.createTable()
			return m, nil

		case key.Matches(msg, m.keys.PrevPage):
			m.page = (m.page + pageCount - 1) % pageCount
			m.table = m.createTable()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Page returns the page shown, 0 for the battle log.
func (m RecordsModel) Page() int { return m.page }

// View renders the records viewer.
func (m RecordsModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	b.WriteString(titleStyle.Render(centerText("RECORDS - "+pageTitles[m.page], m.width)))
	b.WriteString("\n")
	b.WriteString(centerText(m.summary(), m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	b.WriteString(tableStyle.Render(m.content()))

	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m RecordsModel) summary() string {
	if m.stats == nil || m.stats.Count == 0 {
		return "No battles yet"
	}
	return fmt.Sprintf("%d battles, %d won, %d lost, last %s",
		m.stats.Count, m.stats.Won, m.stats.Lost, m.stats.LastPlayed.Format("Jan 02 15:04"))
}

func (m RecordsModel) content() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)
	switch {
	case m.err != nil:
		return emptyStyle.Render("Could not read the save database:\n" + m.err.Error())
	case m.page == pageBattles && len(m.battles) == 0:
		return emptyStyle.Render("No battles recorded yet.\nWalk in the forest to meet the cats!")
	case m.page == pageTeam && len(m.team) == 0:
		return emptyStyle.Render("No saved team.\nPress s on the map to save.")
	}
	return m.table.View()
}

// centerText centers text horizontally within the given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunRecords runs the records viewer until the user quits.
func RunRecords(store *storage.Store, width, height int) error {
	p := tea.NewProgram(NewRecordsModel(store, width, height), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
