// Package tui provides a Bubble Tea terminal user interface for the dataset tools.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/imagedata/internal/builder"
	"github.com/handiism/imagedata/internal/config"
	"github.com/handiism/imagedata/internal/console"
	events "github.com/handiism/imagedata/internal/progress"
	"github.com/handiism/imagedata/internal/tags"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// maxLogLines is how many log lines the running view shows.
const maxLogLines = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateRunning
	StateComplete
	StateError
)

// Task selects which tool a run drives.
type Task int

const (
	TaskBuild Task = iota
	TaskImport
)

// String returns the task name shown in the UI.
func (t Task) String() string {
	if t == TaskImport {
		return "Import tags into CSV"
	}
	return "Build dataset CSV"
}

// runner is implemented by builder.Builder and tags.Importer.
type runner interface {
	GetProgress() (done, total int32)
}

// logBuffer collects progress events from the running tool.
type logBuffer struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *logBuffer) add(event events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

// tail returns the last n events, skipping verbose ones unless verbose is set.
func (l *logBuffer) tail(n int, verbose bool) []events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []events.Event
	for i := len(l.events) - 1; i >= 0 && len(out) < n; i-- {
		if l.events[i].Level == events.LevelVerbose && !verbose {
			continue
		}
		out = append(out, l.events[i])
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func (l *logBuffer) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	logs      *logBuffer
	summary   []string
	err       error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	// Running tool, polled for progress
	runner runner
	done   int32
	total  int32

	// Options
	task    Task
	verbose bool
	verify  bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	ti := textinput.New()
	ti.Placeholder = "."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		logs:      &logBuffer{},
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// RunDoneMsg is sent when the tool finishes.
	RunDoneMsg struct {
		Summary []string
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateRunning {
				m.cancel()
			}
			return m, nil

		case "enter":
			if m.state == StateInput {
				cmd, err := m.start()
				if err != nil {
					m.state = StateError
					m.err = err
					return m, nil
				}
				m.state = StateRunning
				return m, tea.Batch(cmd, m.tickProgress(), m.spinner.Tick)
			}

		case "tab":
			if m.state == StateInput {
				m.task = 1 - m.task
				return m, nil
			}

		case "ctrl+o":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "ctrl+f":
			if m.state == StateInput {
				m.verify = !m.verify
				return m, nil
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for another run, keeping the directory and options
				m.state = StateInput
				m.logs.reset()
				m.summary = nil
				m.err = nil
				m.done = 0
				m.total = 0
				m.runner = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.Focus()
				return m, textinput.Blink
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case RunDoneMsg:
		m.pollProgress()
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
			m.summary = msg.Summary
		}

	case TickMsg:
		if m.state == StateRunning {
			cmds = append(cmds, m.progress.SetPercent(m.pollProgress()), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// pollProgress copies the runner's counters into the model and returns the
// finished fraction.
func (m *Model) pollProgress() float64 {
	if m.runner == nil {
		return 0
	}
	m.done, m.total = m.runner.GetProgress()
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// settings builds run settings from the environment and the entered directory.
func (m Model) settings() (*config.Settings, error) {
	settings, err := console.LoadSettings("")
	if err != nil {
		return nil, err
	}
	if dir := strings.TrimSpace(m.textInput.Value()); dir != "" {
		settings.Root = dir
	}
	if m.verify {
		settings.VerifyMedia = true
	}
	return settings, settings.Validate()
}

// start creates the selected tool and returns the command that runs it.
func (m *Model) start() (tea.Cmd, error) {
	settings, err := m.settings()
	if err != nil {
		return nil, err
	}

	m.logs.reset()
	ctx := m.ctx

	switch m.task {
	case TaskImport:
		importer := tags.NewImporter(settings, m.logs.add)
		m.runner = importer
		return func() tea.Msg {
			result, err := importer.Run(ctx)
			if errors.Is(err, tags.ErrNoRecords) {
				return RunDoneMsg{Summary: []string{"No JSON metadata files found.", "The CSV was not changed."}}
			}
			if err != nil {
				return RunDoneMsg{Err: err}
			}
			return RunDoneMsg{Summary: importSummary(result)}
		}, nil

	default:
		b := builder.NewBuilder(settings, m.logs.add)
		m.runner = b
		return func() tea.Msg {
			result, err := b.Run(ctx)
			if err != nil {
				return RunDoneMsg{Err: err}
			}
			return RunDoneMsg{Summary: buildSummary(result, settings.VerifyMedia)}
		}, nil
	}
}

func buildSummary(result *builder.Result, verified bool) []string {
	lines := []string{
		fmt.Sprintf("Users scanned: %d (%d missing)", result.UsersScanned, result.UsersMissing),
		fmt.Sprintf("Total entries: %d", len(result.Rows)),
	}
	if verified {
		lines = append(lines, fmt.Sprintf("Media problems: %d", result.Problems))
	}
	return append(lines, fmt.Sprintf("Output file: %s", result.OutputPath))
}

func importSummary(result *tags.Result) []string {
	return []string{
		fmt.Sprintf("JSON files found: %d", result.Records),
		fmt.Sprintf("CSV rows processed: %d", result.Rows),
		fmt.Sprintf("Rows updated: %d", result.Updated),
		fmt.Sprintf("Rows not found in JSON: %d", result.NotFound),
		fmt.Sprintf("Backup saved as: %s", result.BackupPath),
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("Image Dataset Tools"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Build the media CSV and import sidecar tags"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateRunning:
		b.WriteString(m.viewRunning())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Working directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Task: "))
	b.WriteString(taskStyle.Render(m.task.String()))
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose output (ctrl+o)\n", checkbox(m.verbose)))
	if m.task == TaskBuild {
		b.WriteString(fmt.Sprintf("  %s Verify media files (ctrl+f)\n", checkbox(m.verify)))
	}

	return b.String()
}

func (m Model) viewRunning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(m.task.String() + "..."))
	b.WriteString("\n\n")

	b.WriteString(m.progress.View())
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Steps: %d/%d", m.done, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	b.WriteString(boxStyle.Render("Done!\n\n" + strings.Join(m.summary, "\n")))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
		b.WriteString("\n\n")
	}
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, event := range m.logs.tail(maxLogLines, m.verbose) {
		prefix, style := console.Prefix(event.Level)
		b.WriteString(style.Render(prefix + " " + event.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: switch task • ctrl+o: verbose • ctrl+f: verify • esc: quit"
	case StateRunning:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

// Run starts the TUI application.
func Run() error {
	p := tea.NewProgram(NewModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
