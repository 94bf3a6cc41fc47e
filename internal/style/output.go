// Package style holds the small set of color tokens and print helpers
// conductor's thin CLI uses for success lines and error headers.
// Rich terminal rendering (syntax-highlighted code frames, spinners,
// suggestion boxes) is out of scope for this CLI and was trimmed along
// with it; see DESIGN.md.
package style

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/compat"
)

var (
	MidnightColor  = "#0D1B2A"
	NavyColor      = "#1B263B"
	LanternColor   = "#F4D58D"
	ChameleonColor = "#3A7D44"
	ForestColor    = "#1E5128"
	SunsetColor    = "#D88A60"
	OffWhiteColor  = "#F8F9FA"
	WarmGrayColor  = "#CED4DA"
	ErrorBaseColor = "#2D1B1B"

	LightLanternColor   = "#E6A645"
	LightWarmGrayColor  = "#8B949E"
	LightOffWhiteColor  = "#F1F3F4"
	LightErrorBaseColor = "#FDEAEA"

	ErrorColor = compat.AdaptiveColor{
		Light: lipgloss.Color(SunsetColor),
		Dark:  lipgloss.Color(SunsetColor),
	}
	WarningColor = compat.AdaptiveColor{
		Light: lipgloss.Color(LightLanternColor),
		Dark:  lipgloss.Color(LanternColor),
	}
	SuccessColor = compat.AdaptiveColor{
		Light: lipgloss.Color(ForestColor),
		Dark:  lipgloss.Color(ChameleonColor),
	}
	InfoColor = compat.AdaptiveColor{
		Light: lipgloss.Color(NavyColor),
		Dark:  lipgloss.Color(LanternColor),
	}
	MutedColor = compat.AdaptiveColor{
		Light: lipgloss.Color(LightWarmGrayColor),
		Dark:  lipgloss.Color(WarmGrayColor),
	}
	AccentColor = compat.AdaptiveColor{
		Light: lipgloss.Color(ChameleonColor),
		Dark:  lipgloss.Color(LanternColor),
	}
	CodeColor = compat.AdaptiveColor{
		Light: lipgloss.Color(MidnightColor),
		Dark:  lipgloss.Color(MidnightColor),
	}
	PrimaryTextColor = compat.AdaptiveColor{
		Light: lipgloss.Color(MidnightColor),
		Dark:  lipgloss.Color(OffWhiteColor),
	}
	ErrorBgColor = compat.AdaptiveColor{
		Light: lipgloss.Color(LightErrorBaseColor),
		Dark:  lipgloss.Color(ErrorBaseColor),
	}
)

var (
	ErrorStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)
	InfoStyle    = lipgloss.NewStyle().Foreground(InfoColor).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	AccentStyle  = lipgloss.NewStyle().Foreground(AccentColor)
)

func SuccessIcon() string { return SuccessStyle.Render("✓") }
func ErrorIcon() string   { return ErrorStyle.Render("✗") }
func WarningIcon() string { return WarningStyle.Render("⚠") }
func InfoIcon() string    { return InfoStyle.Render("ℹ") }

func Success(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", SuccessIcon(), message)
}

func Error(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", ErrorIcon(), message)
}

func Warning(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", WarningIcon(), message)
}

func Info(w io.Writer, message string) {
	fmt.Fprintf(w, "%s %s\n", InfoIcon(), message)
}

// Muted renders a de-emphasized line.
func Muted(w io.Writer, message string) {
	fmt.Fprintln(w, MutedStyle.Render(message))
}
