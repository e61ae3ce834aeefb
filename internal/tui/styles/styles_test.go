package styles

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "Dune", 10, "Dune"},
		{"exact", "Dune", 4, "Dune"},
		{"ellipsis", "Dune Messiah", 8, "Dune ..."},
		{"narrow", "Dune", 3, "Dun"},
		{"zero width", "Dune", 0, ""},
		{"wide runes", "日本語テキスト", 7, "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.width)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, lipgloss.Width(got), max(tt.width, 0))
		})
	}
}

func TestTruncate_LongDescription(t *testing.T) {
	desc := strings.Repeat("a long synopsis ", 4000)

	got := Truncate(desc, 80)

	assert.Equal(t, 80, lipgloss.Width(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.True(t, strings.HasPrefix(desc, strings.TrimSuffix(got, "...")))
}

func TestHighlight(t *testing.T) {
	prev := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() { lipgloss.SetColorProfile(prev) })

	got := Highlight("Dune by Frank", []int{0, 2, 9}, len("Dune"))

	assert.True(t, strings.HasPrefix(got, MatchStyle.Render("D")))
	assert.Contains(t, got, MatchStyle.Render("n"))
	assert.NotContains(t, got, MatchStyle.Render("u"))
	// Offset 9 is in the author, past the title limit
	assert.True(t, strings.HasSuffix(got, "e by Frank"))
	assert.Equal(t, lipgloss.Width("Dune by Frank"), lipgloss.Width(got))

	assert.Equal(t, "Dune", Highlight("Dune", nil, 4))
}
