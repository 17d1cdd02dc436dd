package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/paramsync/internal/models"
)

var (
	primaryColor = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("241")
	errorColor   = lipgloss.Color("196")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	subtleStyle = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle  = lipgloss.NewStyle().Foreground(errorColor)
	labelStyle  = lipgloss.NewStyle().Bold(true)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(mutedColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	return s
}

// columnsFor splits width between name, expression and comment.
func columnsFor(width int) []table.Column {
	if width < MinWidth {
		width = MinWidth
	}
	// borders, padding and cell gaps
	avail := width - 10
	name := avail / 4
	expr := avail * 2 / 5
	comment := avail - name - expr
	return []table.Column{
		{Title: "Name", Width: name},
		{Title: "Expression", Width: expr},
		{Title: "Comment", Width: comment},
	}
}

func rowsFor(params []models.Parameter) []table.Row {
	rows := make([]table.Row, len(params))
	for i, p := range params {
		rows[i] = table.Row{p.Name, p.Expression, p.Comment}
	}
	return rows
}

func (m Model) renderView() string {
	if m.Width > 0 && (m.Width < MinWidth || m.Height < MinHeight) {
		return fmt.Sprintf("Terminal too small (need %dx%d)", MinWidth, MinHeight)
	}

	var sb strings.Builder
	noun := "parameters"
	if len(m.Params) == 1 {
		noun = "parameter"
	}
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%s  %d %s", m.Design, len(m.Params), noun)))
	sb.WriteString("\n")

	switch {
	case m.ShowHelp:
		sb.WriteString(panelStyle.Render(helpText()))
	case m.ShowDetail:
		if p, ok := m.Selected(); ok {
			sb.WriteString(panelStyle.Render(renderDetail(p)))
		}
	case len(m.Params) == 0 && m.Err == nil:
		sb.WriteString(panelStyle.Render(subtleStyle.Render("No parameters. Run 'paramsync import' to load a file.")))
	default:
		sb.WriteString(panelStyle.Render(m.table.View()))
	}
	sb.WriteString("\n")

	if m.Err != nil {
		sb.WriteString(errorStyle.Render("Error: " + m.Err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(m.renderFooter())
	return sb.String()
}

func (m Model) renderFooter() string {
	refreshed := "never"
	if !m.LastRefresh.IsZero() {
		refreshed = m.LastRefresh.Format("15:04:05")
	}
	return subtleStyle.Render(fmt.Sprintf("↑/↓ move  enter details  r refresh  ? help  q quit  ·  refreshed %s", refreshed))
}

func renderDetail(p models.Parameter) string {
	var sb strings.Builder
	sb.WriteString(labelStyle.Render(p.Name))
	sb.WriteString("\n\n")
	sb.WriteString(labelStyle.Render("Expression: "))
	sb.WriteString(p.Expression)
	sb.WriteString("\n")
	if p.Unit != "" {
		sb.WriteString(labelStyle.Render("Unit: "))
		sb.WriteString(p.Unit)
		sb.WriteString("\n")
	}
	if p.Comment != "" {
		sb.WriteString(labelStyle.Render("Comment: "))
		sb.WriteString(p.Comment)
		sb.WriteString("\n")
	}
	sb.WriteString(subtleStyle.Render("esc to go back"))
	return sb.String()
}

func helpText() string {
	return strings.Join([]string{
		labelStyle.Render("Keys"),
		"  ↑/k ↓/j   move selection",
		"  enter     toggle parameter details",
		"  r         refresh from the store",
		"  ?         toggle this help",
		"  q, esc    quit",
	}, "\n")
}
