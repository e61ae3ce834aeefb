package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui/styles"
)

const (
	maxTitleWidth   = 40
	maxSummaryWidth = 60
)

// printer renders command output as tables
type printer struct {
	out   io.Writer
	color bool
}

func (a *app) printer() printer {
	return printer{out: a.out, color: a.stdoutIsTerminal()}
}

func (p printer) newTable(headers ...string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleDouble)

	row := make(table.Row, len(headers))
	for i, h := range headers {
		row[i] = p.paint(text.FgGreen, h)
	}
	t.AppendHeader(row)
	return t
}

func (p printer) paint(c text.Color, s string) string {
	if !p.color || s == "" {
		return s
	}
	return c.Sprint(s)
}

func (p printer) records(records []domain.BookRecord) {
	t := p.newTable("#", "Title", "Author", "Genre", "Pages", "Published", "Rating")
	for i, r := range records {
		t.AppendRow(table.Row{
			i + 1,
			styles.Truncate(r.Title, maxTitleWidth),
			r.Author,
			p.paint(text.FgHiBlue, r.Genre),
			r.FormattedPageCount(),
			r.PublishedDate,
			r.FormattedRating(),
		})
	}
	t.Render()
}

func (p printer) entries(entries []domain.LibraryEntry) {
	t := p.newTable("ID", "Status", "Liked", "Title", "Author", "Genre", "Progress")
	for _, e := range entries {
		liked := ""
		if e.IsLiked {
			liked = p.paint(text.FgHiRed, styles.LikedChar)
		}
		t.AppendRow(table.Row{
			e.ID,
			p.status(e.Status),
			liked,
			styles.Truncate(e.Title, maxTitleWidth),
			e.Author,
			p.paint(text.FgHiBlue, e.Genre),
			fmt.Sprintf("%3d%%", e.Progress),
		})
	}
	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d books", len(entries))})
	t.Render()
}

func (p printer) status(s domain.ReadingStatus) string {
	switch s {
	case domain.StatusCompleted:
		return p.paint(text.FgHiGreen, string(s))
	case domain.StatusReading:
		return p.paint(text.FgHiYellow, string(s))
	default:
		return string(s)
	}
}

func (p printer) bestsellers(books []domain.RawRecord) {
	t := p.newTable("Rank", "Title", "Author", "Weeks", "ISBN")
	for i, b := range books {
		rank := b.Int("rank")
		if rank == 0 {
			rank = i + 1
		}
		t.AppendRow(table.Row{
			rank,
			styles.Truncate(b.String("title"), maxTitleWidth),
			b.String("author"),
			b.Int("weeks_on_list"),
			b.String("primary_isbn13"),
		})
	}
	t.Render()
}

func (p printer) reviews(reviews []domain.RawRecord) {
	t := p.newTable("Reviewer", "Published", "Summary", "Link")
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: maxSummaryWidth},
	})
	for _, r := range reviews {
		byline := r.String("byline")
		if byline == "" {
			byline = "Unknown reviewer"
		}
		t.AppendRow(table.Row{
			byline,
			r.String("publication_dt"),
			r.String("summary"),
			r.String("url"),
		})
	}
	t.Render()
}

func (p printer) genres(genres []string) {
	t := p.newTable("Genre")
	for _, g := range genres {
		t.AppendRow(table.Row{g})
	}
	t.Render()
}

func (p printer) line(format string, args ...any) {
	fmt.Fprintf(p.out, strings.TrimSuffix(format, "\n")+"\n", args...)
}
