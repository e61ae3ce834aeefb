package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/domain"
)

// Color palette
var (
	Amber      = lipgloss.Color("#D97706")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
	Green      = lipgloss.Color("#10B981")
	Red        = lipgloss.Color("#EF4444")
	Rose       = lipgloss.Color("#F43F5E")
)

// Borders
var (
	ActiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Amber)

	InactiveBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray)
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Amber)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)
)

// Tab bar
var (
	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(Amber).
			Bold(true).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(LightGray).
				Padding(0, 1)
)

// Reading status indicator styles
var (
	UnreadStyle    = lipgloss.NewStyle().Foreground(Amber)
	ReadingStyle   = lipgloss.NewStyle().Foreground(Amber)
	CompletedStyle = lipgloss.NewStyle().Foreground(Green)
	LikedStyle     = lipgloss.NewStyle().Foreground(Rose)
)

const (
	LikedChar   = "♥"
	UnlikedChar = " "
)

// List item styles
var (
	SelectedItemStyle = lipgloss.NewStyle().
				Foreground(White).
				Background(SlateLight)

	NormalItemStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	MatchStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)
)

// Input styles
var (
	PromptStyle = lipgloss.NewStyle().
			Foreground(Amber).
			Bold(true)

	SuggestionStyle = lipgloss.NewStyle().
			Foreground(DimGray).
			Italic(true)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Amber)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Progress bar styles
var (
	ProgressFullStyle = lipgloss.NewStyle().
				Foreground(Amber)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(DimGray)
)

// Truncate shortens s to width display cells, ending in an ellipsis
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}

	limit := width
	if width > 3 {
		limit = width - 3
	}
	// Every rune takes at least one cell, so at most limit runes can fit
	runes := []rune(prefix(s, limit))
	for len(runes) > 0 && lipgloss.Width(string(runes)) > limit {
		runes = runes[:len(runes)-1]
	}
	if width <= 3 {
		return string(runes)
	}
	return string(runes) + "..."
}

// prefix returns the first n runes of s
func prefix(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Highlight renders the bytes of text at the given offsets with MatchStyle.
// Offsets at or beyond limit are ignored.
func Highlight(text string, offsets []int, limit int) string {
	if len(offsets) == 0 {
		return text
	}
	matched := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		if o < limit {
			matched[o] = true
		}
	}

	var b strings.Builder
	for i, r := range text {
		if matched[i] {
			b.WriteString(MatchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// RenderProgressBar renders a progress bar for a 0-100 percentage
func RenderProgressBar(percent, width int) string {
	if width < 3 {
		return ""
	}

	filled := width * percent / 100
	filled = max(0, min(filled, width))

	return ProgressFullStyle.Render(strings.Repeat("█", filled)) +
		ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// RenderStatus renders the reading status indicator
func RenderStatus(status domain.ReadingStatus) string {
	switch status {
	case domain.StatusCompleted:
		return CompletedStyle.Render("✓")
	case domain.StatusReading:
		return ReadingStyle.Render("◐")
	default:
		return UnreadStyle.Render("●")
	}
}

// RenderLiked renders the like marker
func RenderLiked(liked bool) string {
	if liked {
		return LikedStyle.Render(LikedChar)
	}
	return UnlikedChar
}

// RenderRow pads text to width and applies the selected or normal style
func RenderRow(text string, selected bool, width int) string {
	style := NormalItemStyle
	if selected {
		style = SelectedItemStyle
	}
	if width > 0 {
		style = style.Width(width)
	}
	return style.Render(text)
}
