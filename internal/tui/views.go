package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	progressWidth = 10
)

// View renders the application
func (m Model) View() string {
	width, height := m.Width, m.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	tabs := m.renderTabs()
	status := m.renderStatusBar(width)
	bodyHeight := max(3, height-lipgloss.Height(tabs)-lipgloss.Height(status)-2)

	var body string
	if m.ShowHelp {
		body = m.renderHelp()
	} else {
		switch m.Pane {
		case PaneSearch:
			body = m.renderSearch(width-4, bodyHeight)
		case PaneLibrary:
			body = m.renderLibrary(width-4, bodyHeight)
		case PaneBestsellers:
			body = m.renderBestsellers(width-4, bodyHeight)
		case PaneReviews:
			body = m.renderReviews(width-4, bodyHeight)
		}
	}

	box := styles.ActiveBorder.
		Width(width - 2).
		Height(bodyHeight).
		Padding(0, 1).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, tabs, box, status)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, int(paneCount))
	for p := PaneSearch; p < paneCount; p++ {
		label := p.String()
		if p == PaneLibrary {
			label = fmt.Sprintf("%s (%d)", label, len(m.Entries))
		}
		if p == m.Pane {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.InactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderStatusBar(width int) string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(styles.Truncate(m.StatusMsg, width))
		}
		return styles.SuccessStyle.Render(styles.Truncate(m.StatusMsg, width))
	}

	var hints []string
	for _, b := range m.Keys.HelpBindings(m.Pane) {
		h := b.Help()
		hints = append(hints, styles.HelpKeyStyle.Render(h.Key)+" "+styles.HelpDescStyle.Render(h.Desc))
	}
	return styles.Truncate(strings.Join(hints, "  "), width*4)
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keys: "+m.Pane.String()) + "\n\n")
	for _, binding := range m.Keys.HelpBindings(m.Pane) {
		b.WriteString(renderBinding(binding) + "\n")
	}
	b.WriteString("\n" + styles.DimStyle.Render("esc or ? to close"))
	return b.String()
}

func renderBinding(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("%s  %s", styles.HelpKeyStyle.Render(fmt.Sprintf("%-8s", h.Key)), styles.HelpDescStyle.Render(h.Desc))
}

func (m Model) renderSearch(width, height int) string {
	var b strings.Builder

	b.WriteString(m.renderInput("Search", m.queryInput.View(), m.focus == focusQuery) + "\n")
	b.WriteString(m.renderInput("Genre ", m.genreInput.View(), m.focus == focusGenre) + "\n")
	if len(m.genreSuggestions) > 0 {
		b.WriteString(styles.SuggestionStyle.Render("  tab: "+strings.Join(m.genreSuggestions, ", ")) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.Searching:
		b.WriteString(styles.DimStyle.Render("Searching..."))
		return b.String()
	case len(m.Results) == 0:
		b.WriteString(styles.DimStyle.Render("Press s to search the catalog"))
		return b.String()
	}

	rows := make([]string, len(m.Results))
	for i, r := range m.Results {
		rows[i] = fmt.Sprintf("%s by %s  %s", r.Title, r.Author, styles.DimStyle.Render("["+r.Genre+"]"))
	}
	listHeight := max(1, height-lipgloss.Height(b.String())-6)
	b.WriteString(renderList(rows, m.resultCursor, width, listHeight))

	if r, ok := m.selectedResult(); ok {
		b.WriteString("\n\n" + renderRecordDetail(r, width))
	}
	return b.String()
}

func (m Model) renderInput(label, view string, focused bool) string {
	prompt := styles.DimStyle.Render(label + ": ")
	if focused {
		prompt = styles.PromptStyle.Render(label + ": ")
	}
	return prompt + view
}

func (m Model) renderLibrary(width, height int) string {
	var b strings.Builder

	b.WriteString(m.renderLibraryFilters() + "\n")
	if m.focus == focusFilter || m.FilterQuery != "" {
		b.WriteString(m.renderInput("Filter", m.filterInput.View(), m.focus == focusFilter) + "\n")
	}
	b.WriteString("\n")

	if len(m.Entries) == 0 {
		b.WriteString(styles.DimStyle.Render("No saved books here yet. Add some from the Search pane."))
		return b.String()
	}

	rows := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		rows[i] = renderEntryRow(e, m.titleMatches[e.ID], width)
	}
	listHeight := max(1, height-lipgloss.Height(b.String())-5)
	b.WriteString(renderList(rows, m.libraryCursor, width, listHeight))

	if e, ok := m.selectedEntry(); ok {
		b.WriteString("\n\n" + renderRecordDetail(e.BookRecord, width))
	}
	return b.String()
}

func (m Model) renderLibraryFilters() string {
	if m.RecommendGenre != "" {
		return styles.AccentStyle.Render("Recommended in " + m.RecommendGenre + " (esc to return)")
	}

	genre := "All genres"
	if m.GenreFilter != "" {
		genre = m.GenreFilter
	}
	parts := []string{"Genre: " + genre}
	if m.LikedOnly {
		parts = append(parts, styles.LikedStyle.Render(styles.LikedChar)+" liked only")
	}
	return styles.SubtitleStyle.Render(strings.Join(parts, "  |  "))
}

// renderEntryRow renders one library line, highlighting matched title offsets
func renderEntryRow(e domain.LibraryEntry, matches []int, width int) string {
	prefix := styles.RenderStatus(e.Status) + " " + styles.RenderLiked(e.IsLiked) + " "
	suffix := " " + styles.RenderProgressBar(e.Progress, progressWidth) + fmt.Sprintf(" %3d%%", e.Progress)
	textWidth := max(10, width-lipgloss.Width(prefix)-lipgloss.Width(suffix)-1)
	text := styles.Truncate(fmt.Sprintf("%s by %s", e.Title, e.Author), textWidth)
	pad := strings.Repeat(" ", max(0, textWidth-lipgloss.Width(text)))
	return prefix + styles.Highlight(text, matches, len(e.Title)) + pad + suffix
}

func renderRecordDetail(r domain.BookRecord, width int) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(r.Title, width)) + "\n")

	meta := []string{r.Author, r.Genre, r.FormattedPageCount() + " pages", r.PublishedDate}
	if rating := r.FormattedRating(); rating != "" {
		meta = append(meta, rating)
	}
	b.WriteString(styles.SubtitleStyle.Render(styles.Truncate(strings.Join(meta, " · "), width)) + "\n")
	b.WriteString(styles.DimStyle.Render(styles.Truncate(r.Description, width*2)))
	return b.String()
}

func (m Model) renderBestsellers(width, height int) string {
	switch {
	case m.LoadingBestsellers:
		return styles.DimStyle.Render("Loading bestsellers...")
	case len(m.Bestsellers) == 0:
		return styles.DimStyle.Render("No bestseller list available. Set bestsellers.api_key to enable it.")
	}

	rows := make([]string, len(m.Bestsellers))
	for i, book := range m.Bestsellers {
		rank := book.Int("rank")
		if rank == 0 {
			rank = i + 1
		}
		rows[i] = fmt.Sprintf("%2d. %s by %s", rank, titleCase(book.String("title")), book.String("author"))
	}

	var b strings.Builder
	b.WriteString(renderList(rows, m.bestsellerCursor, width, max(1, height-4)))
	if m.bestsellerCursor < len(m.Bestsellers) {
		desc := m.Bestsellers[m.bestsellerCursor].String("description")
		if desc != "" {
			b.WriteString("\n\n" + styles.DimStyle.Render(styles.Truncate(desc, width*2)))
		}
	}
	return b.String()
}

func (m Model) renderReviews(width, height int) string {
	var b strings.Builder
	title := "Reviews"
	if m.ReviewsTitle != "" {
		title = "Reviews for " + m.ReviewsTitle
	}
	b.WriteString(styles.TitleStyle.Render(styles.Truncate(title, width)) + "\n\n")

	switch {
	case m.LoadingReviews:
		b.WriteString(styles.DimStyle.Render("Loading reviews..."))
		return b.String()
	case m.ReviewsTitle == "":
		b.WriteString(styles.DimStyle.Render("Select a saved book and press v to see its reviews"))
		return b.String()
	case len(m.Reviews) == 0:
		b.WriteString(styles.DimStyle.Render("No reviews found"))
		return b.String()
	}

	rows := make([]string, len(m.Reviews))
	for i, r := range m.Reviews {
		byline := r.String("byline")
		if byline == "" {
			byline = "Unknown reviewer"
		}
		rows[i] = fmt.Sprintf("%s  %s", byline, styles.DimStyle.Render(r.String("publication_dt")))
	}
	b.WriteString(renderList(rows, m.reviewCursor, width, max(1, height-6)))

	if m.reviewCursor < len(m.Reviews) {
		if summary := m.Reviews[m.reviewCursor].String("summary"); summary != "" {
			b.WriteString("\n\n" + styles.DimStyle.Render(styles.Truncate(summary, width*2)))
		}
	}
	return b.String()
}

// renderList renders rows in a window of height lines that keeps cursor visible
func renderList(rows []string, cursor, width, height int) string {
	start := 0
	if cursor >= height {
		start = cursor - height + 1
	}
	end := min(len(rows), start+height)

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, styles.RenderRow(rows[i], i == cursor, width))
	}
	return strings.Join(lines, "\n")
}

// titleCase converts the provider's all-caps titles for display
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
