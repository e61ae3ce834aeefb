package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/search"
	"github.com/spf13/cobra"
)

func newSearchCmd(a *app) *cobra.Command {
	var genre string

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search the book catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.queries()
			if err != nil {
				return err
			}

			results := books.Search(cmd.Context(), strings.Join(args, " "), genre)
			if len(results) == 0 {
				a.printer().line("No results.")
				return nil
			}
			a.printer().records(results)
			return nil
		},
	}
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "restrict results to a subject")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var (
		genre string
		index int
	)

	cmd := &cobra.Command{
		Use:   "add <query...>",
		Short: "Search the catalog and save a result to the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.queries()
			if err != nil {
				return err
			}
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}

			query := strings.Join(args, " ")
			results := books.Search(cmd.Context(), query, genre)
			if len(results) == 0 {
				return fmt.Errorf("no catalog results for %q", query)
			}
			if index < 1 || index > len(results) {
				return fmt.Errorf("--index must be between 1 and %d", len(results))
			}

			record := results[index-1]
			entry, err := lib.Add(record)
			if errors.Is(err, domain.ErrDuplicate) {
				return fmt.Errorf("%q is already in your library", record.Title)
			}
			if err != nil {
				return err
			}
			a.printer().line("Added %q by %s (id %d)", entry.Title, entry.Author, entry.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "restrict results to a subject")
	cmd.Flags().IntVarP(&index, "index", "n", 1, "which search result to save (1-based)")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var (
		genre     string
		likedOnly bool
		filter    string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved books",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}

			entries := search.FilterEntries(filter, lib.ListByGenre(genre, likedOnly))
			if len(entries) == 0 {
				a.printer().line("No saved books match.")
				return nil
			}
			a.printer().entries(entries)
			return nil
		},
	}
	cmd.Flags().StringVarP(&genre, "genre", "g", "", "only books in this genre")
	cmd.Flags().BoolVarP(&likedOnly, "liked", "l", false, "only liked books")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy match on title and author")
	return cmd
}

func newGenresCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "genres [partial]",
		Short: "List genres in the library, best match first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}

			partial := ""
			if len(args) == 1 {
				partial = args[0]
			}
			genres := search.SuggestGenres(partial, lib.Genres())
			if len(genres) == 0 {
				a.printer().line("No genres match.")
				return nil
			}
			a.printer().genres(genres)
			return nil
		},
	}
}

func newLikeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "like <id>",
		Short: "Toggle the liked flag of a saved book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}

			liked, err := lib.ToggleLike(id)
			if err != nil {
				return entryError(id, err)
			}
			entry, err := lib.Get(id)
			if err != nil {
				return entryError(id, err)
			}
			if liked {
				a.printer().line("Liked %q", entry.Title)
			} else {
				a.printer().line("Unliked %q", entry.Title)
			}
			return nil
		},
	}
}

func newProgressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <id> <percent>",
		Short: "Set reading progress (0-100) of a saved book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			percent, err := strconv.Atoi(strings.TrimSuffix(args[1], "%"))
			if err != nil {
				return fmt.Errorf("invalid progress %q: expected a whole number", args[1])
			}
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}

			entry, err := lib.UpdateProgress(id, percent)
			if err != nil {
				return entryError(id, err)
			}
			a.printer().line("%q is %d%% read (%s)", entry.Title, entry.Progress, entry.Status)
			return nil
		},
	}
}

func newRecommendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <genre>",
		Short: "Show finished books in a genre, most complete first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}

			genre := strings.Join(args, " ")
			entries := lib.RecommendationsByGenre(genre)
			if len(entries) == 0 {
				a.printer().line("No finished books in %s yet.", genre)
				return nil
			}
			a.printer().entries(entries)
			return nil
		},
	}
}

func newBestsellersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bestsellers",
		Short: "Show the current bestseller list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.queries()
			if err != nil {
				return err
			}

			list := books.FetchCuratedList(cmd.Context())
			if len(list) == 0 {
				a.printer().line("No bestseller list available. Set bestsellers.api_key or SHELF_BESTSELLERS_API_KEY.")
				return nil
			}
			a.printer().bestsellers(list)
			return nil
		},
	}
}

func newReviewsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reviews <isbn>",
		Short: "Show published reviews of a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.queries()
			if err != nil {
				return err
			}

			reviews := books.FetchReviews(cmd.Context(), args[0])
			if len(reviews) == 0 {
				a.printer().line("No reviews found.")
				return nil
			}
			a.printer().reviews(reviews)
			return nil
		},
	}
}

func newOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open the preview link of a saved book in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			launcher, err := a.browser()
			if err != nil {
				return err
			}

			entry, err := lib.Get(id)
			if err != nil {
				return entryError(id, err)
			}
			if err := launcher.Launch(entry.PreviewLink); err != nil {
				return fmt.Errorf("cannot open %q: %w", entry.Title, err)
			}
			a.printer().line("Opened preview for %q", entry.Title)
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.printer().line("shelf %s", Version)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid book id %q", s)
	}
	return id, nil
}

// entryError turns a missing-entry error into a message naming the id
func entryError(id int64, err error) error {
	if errors.Is(err, domain.ErrEntryNotFound) {
		return fmt.Errorf("no saved book with id %d", id)
	}
	return err
}
