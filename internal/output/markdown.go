package output

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/marcus/paramsync/internal/models"
	"golang.org/x/term"
)

const (
	defaultMarkdownWidth = 80
	minMarkdownWidth     = 20
)

// TerminalWidth returns the current terminal width or a fallback when unavailable.
func TerminalWidth(fallback int) int {
	if fallback <= 0 {
		fallback = defaultMarkdownWidth
	}

	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}

	if cols := os.Getenv("COLUMNS"); cols != "" {
		if parsed, err := strconv.Atoi(cols); err == nil && parsed > 0 {
			return parsed
		}
	}

	return fallback
}

// RenderMarkdown renders markdown using Glamour with terminal-aware wrapping.
func RenderMarkdown(text string) (string, error) {
	return RenderMarkdownWithWidth(text, TerminalWidth(defaultMarkdownWidth))
}

// RenderMarkdownWithWidth renders markdown using Glamour with explicit wrapping.
func RenderMarkdownWithWidth(text string, width int) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		return "", err
	}

	return strings.TrimRight(rendered, "\n"), nil
}

// ParametersMarkdown builds a markdown document with a heading for the
// design and one table row per parameter.
func ParametersMarkdown(design string, params []models.Parameter) string {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(escapeCell(design))
	sb.WriteString("\n\n")
	if len(params) == 0 {
		sb.WriteString("_No parameters._\n")
		return sb.String()
	}
	sb.WriteString("| Name | Expression | Comment |\n")
	sb.WriteString("|---|---|---|\n")
	for _, p := range params {
		sb.WriteString("| ")
		sb.WriteString(escapeCell(p.Name))
		sb.WriteString(" | `")
		sb.WriteString(strings.ReplaceAll(p.Expression, "`", "'"))
		sb.WriteString("` | ")
		sb.WriteString(escapeCell(p.Comment))
		sb.WriteString(" |\n")
	}
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
