// Package browser implements the read-only Bubble Tea view behind
// 'paramsync browse': a table of the active design's parameters in
// enumeration order, refreshed periodically from the store.
package browser

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/paramsync/internal/models"
)

// Loader fetches the parameters to display.
type Loader func() ([]models.Parameter, error)

// Model is the Bubble Tea model for the parameter browser
type Model struct {
	Design string
	load   Loader

	// Window dimensions
	Width  int
	Height int

	Params      []models.Parameter
	table       table.Model
	ShowDetail  bool
	ShowHelp    bool
	LastRefresh time.Time
	Err         error

	RefreshInterval time.Duration
}

// MinWidth is the minimum terminal width for proper display
const MinWidth = 40

// MinHeight is the minimum terminal height for proper display
const MinHeight = 10

// TickMsg triggers a data refresh
type TickMsg time.Time

// RefreshDataMsg carries refreshed data
type RefreshDataMsg struct {
	Params    []models.Parameter
	Err       error
	Timestamp time.Time
}

// NewModel creates a browser for design backed by load
func NewModel(design string, load Loader, interval time.Duration) Model {
	t := table.New(
		table.WithColumns(columnsFor(80)),
		table.WithFocused(true),
		table.WithHeight(MinHeight),
	)
	t.SetStyles(tableStyles())

	return Model{
		Design:          design,
		load:            load,
		table:           t,
		RefreshInterval: interval,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchData(), m.scheduleTick())
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.resize()
		return m, nil

	case TickMsg:
		return m, tea.Batch(m.fetchData(), m.scheduleTick())

	case RefreshDataMsg:
		m.Err = msg.Err
		if msg.Err == nil {
			m.Params = msg.Params
			m.table.SetRows(rowsFor(msg.Params))
		}
		m.LastRefresh = msg.Timestamp
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if m.ShowDetail && msg.String() == "esc" {
			m.ShowDetail = false
			return m, nil
		}
		return m, tea.Quit

	case "enter":
		if len(m.Params) > 0 {
			m.ShowDetail = !m.ShowDetail
		}
		return m, nil

	case "r":
		return m, m.fetchData()

	case "?":
		m.ShowHelp = !m.ShowHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// Selected returns the parameter under the cursor
func (m Model) Selected() (models.Parameter, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.Params) {
		return models.Parameter{}, false
	}
	return m.Params[i], true
}

// View implements tea.Model
func (m Model) View() string {
	return m.renderView()
}

func (m *Model) resize() {
	m.table.SetColumns(columnsFor(m.Width))
	// header, footer and borders
	h := m.Height - 6
	if h < 3 {
		h = 3
	}
	m.table.SetHeight(h)
}

func (m Model) fetchData() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		params, err := load()
		return RefreshDataMsg{Params: params, Err: err, Timestamp: time.Now()}
	}
}

// scheduleTick returns a command that sends a TickMsg after the refresh interval
func (m Model) scheduleTick() tea.Cmd {
	if m.RefreshInterval <= 0 {
		return nil
	}
	return tea.Tick(m.RefreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Run starts the browser on the terminal and blocks until the user quits.
func Run(design string, load Loader, interval time.Duration) error {
	p := tea.NewProgram(NewModel(design, load, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
