package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/shelf/internal/domain"
	"github.com/mmcdole/shelf/internal/tui"
	"github.com/spf13/cobra"
)

// changeBuffer sizes the channel feeding library changes to the TUI
const changeBuffer = 32

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "shelf",
		Short: "A personal reading tracker for the terminal",
		Long: `shelf searches the public book catalog, keeps a personal library of
saved books with likes and reading progress, and shows the current
bestseller list with reviews.

Run without a subcommand to open the interactive browser.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.config/shelf/config.yaml)")
	root.PersistentFlags().BoolVar(&a.ephemeral, "ephemeral", false, "keep the library in memory only")

	root.AddCommand(
		newSearchCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newGenresCmd(a),
		newLikeCmd(a),
		newProgressCmd(a),
		newRecommendCmd(a),
		newBestsellersCmd(a),
		newReviewsCmd(a),
		newOpenCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
	)
	return root
}

func (a *app) runTUI(cmd *cobra.Command) error {
	if !isTerminal(a.out) || !isTerminal(a.in) {
		return errors.New("the interactive browser needs a terminal; see 'shelf --help' for scriptable commands")
	}

	lib, err := a.openLibrary()
	if err != nil {
		return err
	}
	books, err := a.queries()
	if err != nil {
		return err
	}
	opener, err := a.browser()
	if err != nil {
		return err
	}

	changes := make(chan domain.ChangeEvent, changeBuffer)
	unsubscribe := lib.Subscribe(tui.NewChannelObserver(changes))
	defer unsubscribe()

	model := tui.NewModel(tui.Deps{
		Library:         lib,
		Books:           books,
		Opener:          opener,
		Changes:         changes,
		ShowBestsellers: a.cfg.UI.ShowBestsellers,
		Logger:          a.logger,
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
		tea.WithInput(a.in),
		tea.WithOutput(a.out),
	)
	if _, err := p.Run(); err != nil {
		a.logger.Error("tui exited with error", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}
	a.logger.Info("shelf closed", "entries", lib.Len())
	return nil
}

// stdoutIsTerminal reports whether output goes to a terminal that accepts color
func (a *app) stdoutIsTerminal() bool {
	return isTerminal(a.out) && os.Getenv("NO_COLOR") == ""
}
