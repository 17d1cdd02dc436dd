// Package output provides styled terminal output helpers (success, error,
// warning, parameter and history formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/paramsync/internal/models"
)

var (
	// Styles
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	actionStyles = map[models.ActionType]lipgloss.Style{
		models.ActionCreate: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.ActionUpdate: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		models.ActionDelete: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Success prints a success message
func Success(format string, args ...interface{}) {
	fmt.Println(successStyle.Render(fmt.Sprintf(format, args...)))
}

// Error prints an error message
func Error(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("ERROR: " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning message
func Warning(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("Warning: " + fmt.Sprintf(format, args...)))
}

// Info prints an info message
func Info(format string, args ...interface{}) {
	fmt.Println(fmt.Sprintf(format, args...))
}

// JSON outputs data as JSON
func JSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// Error codes for structured JSON output
const (
	ErrCodeNotFound         = "not_found"
	ErrCodeInvalidInput     = "invalid_input"
	ErrCodeConflict         = "conflict"
	ErrCodeDatabaseError    = "database_error"
	ErrCodeNoActiveDesign   = "no_active_design"
	ErrCodeFileRead         = "file_read"
	ErrCodeFileWrite        = "file_write"
	ErrCodeNothingToUndo    = "nothing_to_undo"
	ErrCodeValidationFailed = "validation_failed"
)

// JSONError outputs an error as JSON
func JSONError(code, message string) {
	JSONErrorWithDetails(code, message, nil)
}

// JSONErrorWithDetails outputs an error as JSON with additional context
func JSONErrorWithDetails(code, message string, details map[string]interface{}) {
	errObj := map[string]interface{}{
		"code":    code,
		"message": message,
	}
	if len(details) > 0 {
		errObj["details"] = details
	}
	result := map[string]interface{}{
		"error": errObj,
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(data))
}

// FormatParameter formats a parameter on one line:
// "Width = 25 mm  # comment"
func FormatParameter(p *models.Parameter) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(p.Name))
	sb.WriteString(" = ")
	sb.WriteString(p.Expression)
	if p.Comment != "" {
		sb.WriteString("  ")
		sb.WriteString(subtleStyle.Render("# " + p.Comment))
	}
	return sb.String()
}

// FormatParameterLong formats a parameter with all of its fields
func FormatParameterLong(p *models.Parameter) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(p.Name))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Expression: %s\n", p.Expression))
	if p.Unit != "" {
		sb.WriteString(fmt.Sprintf("Unit: %s\n", p.Unit))
	}
	if p.Comment != "" {
		sb.WriteString(fmt.Sprintf("Comment: %s\n", p.Comment))
	}
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("Updated %s", FormatTimeAgo(p.UpdatedAt))))
	return sb.String()
}

// FormatDesign formats a design summary, marking the active one
func FormatDesign(name string, count int, active bool) string {
	marker := "  "
	label := name
	if active {
		marker = activeStyle.Render("* ")
		label = activeStyle.Render(name)
	}
	noun := "parameters"
	if count == 1 {
		noun = "parameter"
	}
	return fmt.Sprintf("%s%s  %s", marker, label, subtleStyle.Render(fmt.Sprintf("%d %s", count, noun)))
}

// FormatAction formats an action type with color
func FormatAction(a models.ActionType) string {
	style, ok := actionStyles[a]
	if !ok {
		return string(a)
	}
	return style.Render(string(a))
}

// FormatBatch formats one undo group for the history view:
// "[3m ago] Apply Params from JSON (4 changes)"
func FormatBatch(b *models.Batch) string {
	noun := "changes"
	if len(b.Actions) == 1 {
		noun = "change"
	}
	line := fmt.Sprintf("[%s] %s (%d %s)", FormatTimeAgo(b.Timestamp), b.Label, len(b.Actions), noun)
	if b.Undone {
		return subtleStyle.Render(line + " [undone]")
	}
	return line
}

// FormatTimeAgo formats a time as a human-readable "ago" string
func FormatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		return t.Format("2006-01-02")
	}
}

// SectionHeader returns a formatted section header for CLI output
func SectionHeader(title string) string {
	return fmt.Sprintf("\n%s:\n", strings.ToUpper(title))
}

// IndentString indents each line in a string by the specified number of spaces
func IndentString(s string, spaces int) string {
	if s == "" {
		return ""
	}
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}
