package tui

import "github.com/charmbracelet/lipgloss"

// Theme bundles the lipgloss styles used for widget chrome around the survey
// prompts: section headers, help lines, error messages, and read-only values.
type Theme struct {
	Section  lipgloss.Style
	Help     lipgloss.Style
	Error    lipgloss.Style
	Value    lipgloss.Style
	Divider  string
	Optional string
}

// DefaultTheme styles chrome the way terminals expect: bold headers, faint
// help, red errors.
func DefaultTheme() Theme {
	return Theme{
		Section:  lipgloss.NewStyle().Bold(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Value:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Divider:  "---",
		Optional: "Optional Parameters",
	}
}

func (t Theme) section(text string) string {
	if text == "" {
		return ""
	}
	return t.Section.Render(text)
}

func (t Theme) help(text string) string {
	if text == "" {
		return ""
	}
	return t.Help.Render(text)
}

func (t Theme) errorLine(text string) string {
	return t.Error.Render(text)
}

func (t Theme) value(text string) string {
	return t.Value.Render(text)
}
