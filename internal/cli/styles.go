package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true)

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("246")).
			Width(20)
)

// Heading renders a report title
func Heading(title string) string {
	return headingStyle.Render(title)
}

// OK renders a passed check line
func OK(format string, args ...interface{}) string {
	return okStyle.Render("✓") + " " + fmt.Sprintf(format, args...)
}

// Fail renders a failed check line
func Fail(format string, args ...interface{}) string {
	return failStyle.Render("✗") + " " + fmt.Sprintf(format, args...)
}

// Warn renders a warning line
func Warn(format string, args ...interface{}) string {
	return warnStyle.Render("⚠") + " " + fmt.Sprintf(format, args...)
}

// Skip renders a check that did not run
func Skip(format string, args ...interface{}) string {
	return mutedStyle.Render("⊘ " + fmt.Sprintf(format, args...))
}

// Detail renders an indented explanation under a check line
func Detail(format string, args ...interface{}) string {
	return mutedStyle.Render("   " + fmt.Sprintf(format, args...))
}

// KeyValue renders one aligned row of a report
func KeyValue(key string, value interface{}) string {
	return keyStyle.Render(key) + fmt.Sprint(value)
}
