package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ErrNoLink indicates there is nothing to open
var ErrNoLink = errors.New("no link to open")

// Launcher opens links in a web browser
type Launcher struct {
	command string   // configured browser command, empty for system default
	args    []string // additional arguments placed before the URL
	goos    string
	start   func(*exec.Cmd) error
	logger  *slog.Logger
}

// NewLauncher creates a Launcher. An empty command uses the OS default opener.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command: strings.TrimSpace(command),
		args:    args,
		goos:    runtime.GOOS,
		start:   (*exec.Cmd).Start,
		logger:  logger,
	}
}

// Launch opens link without waiting for the browser to exit
func (l *Launcher) Launch(link string) error {
	link = strings.TrimSpace(link)
	if link == "" {
		return ErrNoLink
	}
	if u, err := url.Parse(link); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open non-web link %q", link)
	}

	name, args := l.commandFor(link)
	l.logger.Info("opening link", "command", name, "url", link)

	if err := l.start(exec.Command(name, args...)); err != nil {
		return fmt.Errorf("failed to launch %s: %w", name, err)
	}
	return nil
}

// commandFor returns the program and arguments that open link
func (l *Launcher) commandFor(link string) (string, []string) {
	if l.command != "" {
		args := append([]string{}, l.args...)
		return l.command, append(args, link)
	}

	switch l.goos {
	case "darwin":
		return "open", []string{link}
	case "windows":
		// Not cmd /c start: cmd.exe splits the URL at & and runs the rest
		return "rundll32", []string{"url.dll,FileProtocolHandler", link}
	default:
		// Linux and other Unix-like systems
		return "xdg-open", []string{link}
	}
}
