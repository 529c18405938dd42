// Package console renders progress events and run setup for the command
// line tools.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/imagedata/internal/config"
	"github.com/handiism/imagedata/internal/progress"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	RuleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
)

// Prefix returns the marker and style used for a level.
func Prefix(level progress.Level) (string, lipgloss.Style) {
	switch level {
	case progress.LevelError:
		return "✗", errorStyle
	case progress.LevelWarning:
		return "!", warningStyle
	case progress.LevelSuccess:
		return "✓", successStyle
	case progress.LevelInfo:
		return "›", infoStyle
	default:
		return "·", dimStyle
	}
}

// Printer writes one styled line per event.
type Printer struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
}

// NewPrinter creates a Printer. Verbose events are dropped unless verbose is set.
func NewPrinter(out io.Writer, verbose bool) *Printer {
	return &Printer{out: out, verbose: verbose}
}

// Print renders event. It has the signature of a progress.Func.
func (p *Printer) Print(event progress.Event) {
	if event.Level == progress.LevelVerbose && !p.verbose {
		return
	}

	prefix, style := Prefix(event.Level)

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, style.Render(prefix+" "+event.Message))
}

// Banner prints the tool name followed by a rule.
func Banner(out io.Writer, title string) {
	fmt.Fprintln(out, TitleStyle.Render(title))
	fmt.Fprintln(out, RuleStyle.Render(strings.Repeat("━", 40)))
}

// LoadSettings reads the optional config file, then applies .env files and
// IMAGEDATA_* variables on top.
func LoadSettings(configPath string) (*config.Settings, error) {
	settings := config.DefaultSettings()
	if configPath != "" {
		var err error
		settings, err = config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if err := config.LoadEnv(); err != nil {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	if err := settings.ApplyEnv(); err != nil {
		return nil, err
	}
	return settings, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(out io.Writer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(out, "\nInterrupted, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}
