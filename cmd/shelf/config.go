package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.printer().line("%s", a.configFile())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			a.printer().config(a.cfg)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set-key",
		Short: "Store the bestseller API key in the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.promptSecret("API key: ")
			if err != nil {
				return err
			}
			if key == "" {
				return errors.New("no API key entered")
			}

			path := a.configFile()
			if err := adapter.SetConfigValue(path, "bestsellers.api_key", key); err != nil {
				return err
			}
			a.printer().line("Saved API key to %s", path)
			return nil
		},
	})

	return cmd
}

func (a *app) configFile() string {
	if a.configPath != "" {
		return a.configPath
	}
	return adapter.ConfigFilePath()
}

// promptSecret reads one line, hiding input when stdin is a terminal
func (a *app) promptSecret(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)

	if f, ok := a.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.out) // Add newline after hidden input
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(a.in).ReadString('\n')
	fmt.Fprintln(a.out)
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p printer) config(cfg *adapter.Config) {
	key := "(not set)"
	if cfg.Bestsellers.APIKey != "" {
		key = "(set)"
	}
	dataDir := cfg.Data.Dir
	if dataDir == "" {
		dataDir = "(memory only)"
	}

	t := p.newTable("Setting", "Value")
	t.AppendRows([]table.Row{
		{"data.dir", dataDir},
		{"catalog.base_url", cfg.Catalog.BaseURL},
		{"catalog.max_results", cfg.Catalog.MaxResults},
		{"catalog.requests_per_second", cfg.Catalog.RequestsPerSecond},
		{"bestsellers.base_url", cfg.Bestsellers.BaseURL},
		{"bestsellers.api_key", key},
		{"bestsellers.list", cfg.Bestsellers.List},
		{"http.timeout", cfg.HTTP.Timeout},
		{"library.strict_load", cfg.Library.StrictLoad},
		{"browser.command", cfg.Browser.Command},
		{"ui.show_bestsellers", cfg.UI.ShowBestsellers},
		{"logging.file", cfg.Logging.File},
		{"logging.level", cfg.Logging.Level},
	})
	t.Render()
}
