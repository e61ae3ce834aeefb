package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/shelf/internal/adapter"
	"github.com/mmcdole/shelf/internal/bestseller"
	"github.com/mmcdole/shelf/internal/catalog"
	"github.com/mmcdole/shelf/internal/library"
	"github.com/mmcdole/shelf/internal/query"
	"github.com/mmcdole/shelf/internal/store"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{in: stdin, out: stdout}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// app lazily builds the services a command needs, so commands that only
// talk to the providers never lock the library database
type app struct {
	in  io.Reader
	out io.Writer

	// Flags
	configPath string
	ephemeral  bool

	cfg      *adapter.Config
	logger   *slog.Logger
	blobs    *store.BlobStore
	library  *library.Store
	books    *query.Service
	launcher *adapter.Launcher
	closers  []io.Closer
}

// load reads configuration and sets up logging
func (a *app) load() error {
	if a.cfg != nil {
		return nil
	}

	if err := adapter.LoadDotEnv(".env"); err != nil {
		return err
	}
	cfg, err := adapter.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.ephemeral {
		cfg.Data.Dir = ""
	}
	a.cfg = cfg

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		a.closers = append(a.closers, closer)
	}
	a.logger = logger.With("session", uuid.NewString())
	slog.SetDefault(a.logger)

	a.logger.Info("starting shelf", "version", Version, "dataDir", cfg.Data.Dir)
	return nil
}

// openLibrary opens the persisted library
func (a *app) openLibrary() (*library.Store, error) {
	if a.library != nil {
		return a.library, nil
	}
	if err := a.load(); err != nil {
		return nil, err
	}

	blobs, err := store.NewBlobStore(a.cfg.Data.Dir)
	if err != nil {
		if errors.Is(err, store.ErrLocked) {
			return nil, fmt.Errorf("library is in use by another shelf process: %w", err)
		}
		return nil, fmt.Errorf("failed to open library: %w", err)
	}
	a.blobs = blobs
	a.closers = append(a.closers, blobs)

	opts := []library.Option{library.WithLogger(a.logger)}
	if a.cfg.Library.StrictLoad {
		opts = append(opts, library.WithStrictLoad())
	}
	lib, err := library.New(blobs, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	a.library = lib
	return lib, nil
}

// queries builds the provider façade
func (a *app) queries() (*query.Service, error) {
	if a.books != nil {
		return a.books, nil
	}
	if err := a.load(); err != nil {
		return nil, err
	}

	cfg := a.cfg
	timeout := cfg.HTTP.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, timeout, cfg.Catalog.RequestsPerSecond, a.logger)
	bestsellerClient := bestseller.NewClient(cfg.Bestsellers.BaseURL, cfg.Bestsellers.APIKey, cfg.Bestsellers.List, timeout, a.logger)

	a.books = query.NewService(catalogClient, bestsellerClient,
		query.WithMaxResults(cfg.Catalog.MaxResults),
		query.WithTimeout(timeout),
		query.WithLogger(a.logger),
	)
	return a.books, nil
}

// browser builds the preview link launcher
func (a *app) browser() (*adapter.Launcher, error) {
	if a.launcher != nil {
		return a.launcher, nil
	}
	if err := a.load(); err != nil {
		return nil, err
	}
	a.launcher = adapter.NewLauncher(a.cfg.Browser.Command, a.cfg.Browser.Args, a.logger)
	return a.launcher, nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

// isTerminal reports whether v is a file attached to a terminal
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
