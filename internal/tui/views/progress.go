package views

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/skintap/internal/engine/batch"
	"github.com/rendis/skintap/internal/engine/opener"
	"github.com/rendis/skintap/internal/tui/styles"
)

// OpenFunc opens every entry of res, reporting each one to onEach.
type OpenFunc func(ctx context.Context, res batch.Results, onEach func(opener.Event)) (*opener.Stats, error)

// sharedState holds data shared between the opener goroutine and the TUI.
// Lives behind a pointer so it survives bubbletea's value copies.
type sharedState struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	events chan opener.Event
}

// ProgressModel shows tabs being opened one by one.
type ProgressModel struct {
	ctx         context.Context
	title       string
	results     batch.Results
	labels      map[string]string
	open        OpenFunc
	progress    progress.Model
	startTime   time.Time
	done        bool
	confirmQuit bool
	err         error
	stats       *opener.Stats
	events      []opener.Event
	width       int
	shared      *sharedState
}

// Messages
type progressTickMsg time.Time

type openEventMsg opener.Event

type openCompleteMsg struct {
	Stats *opener.Stats
	Err   error
}

// NewProgressModel prepares to open res under ctx. labels maps market ids
// to display names.
func NewProgressModel(ctx context.Context, title string, res batch.Results, labels map[string]string, open OpenFunc) ProgressModel {
	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
	)
	return ProgressModel{
		ctx:       ctx,
		title:     title,
		results:   res,
		labels:    labels,
		open:      open,
		progress:  p,
		startTime: time.Now(),
		shared:    &sharedState{events: make(chan opener.Event, len(res.Entries))},
	}
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(
		m.startOpening(),
		m.waitForEvent(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return progressTickMsg(t)
	})
}

func (m ProgressModel) startOpening() tea.Cmd {
	shared := m.shared
	parent := m.ctx
	res := m.results
	open := m.open

	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		shared.mu.Lock()
		shared.cancel = cancel
		shared.mu.Unlock()
		defer cancel()

		stats, err := open(ctx, res, func(ev opener.Event) {
			shared.events <- ev
		})
		close(shared.events)
		return openCompleteMsg{Stats: stats, Err: err}
	}
}

// waitForEvent delivers the next opener event, or nothing once the channel
// is closed.
func (m ProgressModel) waitForEvent() tea.Cmd {
	events := m.shared.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return openEventMsg(ev)
	}
}

// Stop cancels a run in progress.
func (m ProgressModel) Stop() {
	if cancel := m.shared.getCancel(); cancel != nil {
		cancel()
	}
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.Stop()
			return m, tea.Quit
		case "esc":
			if m.done {
				return m, m.toResults()
			}
			if m.confirmQuit {
				m.Stop()
				return m, nil
			}
			m.confirmQuit = true
			return m, nil
		case "enter":
			if m.done {
				return m, m.toResults()
			}
			if m.confirmQuit {
				m.confirmQuit = false
				return m, nil
			}
		}
		if m.confirmQuit {
			m.confirmQuit = false
		}
	case progressTickMsg:
		if m.done {
			return m, nil
		}
		return m, tickCmd()
	case openEventMsg:
		m.events = append(m.events, opener.Event(msg))
		return m, m.waitForEvent()
	case openCompleteMsg:
		m.done = true
		m.confirmQuit = false
		m.stats = msg.Stats
		m.err = msg.Err
		return m, nil
	}

	var cmd tea.Cmd
	var pModel tea.Model
	pModel, cmd = m.progress.Update(msg)
	m.progress = pModel.(progress.Model)
	return m, cmd
}

func (m ProgressModel) toResults() tea.Cmd {
	res := m.results
	return func() tea.Msg { return NavigateToResults{Title: m.title, Results: res} }
}

func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Opening: " + m.title))
	b.WriteString("\n\n")

	b.WriteString(m.renderEvents())
	b.WriteString("\n")

	var pct float64
	if total := len(m.results.Entries); total > 0 {
		pct = float64(len(m.events)) / float64(total)
	}
	b.WriteString(m.progress.ViewAs(pct))
	b.WriteString("\n\n")

	if m.done {
		if m.err != nil && !errors.Is(m.err, context.Canceled) {
			b.WriteString(styles.ErrorText.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(m.renderSummary())
		}
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("enter view results • esc back"))
	} else if m.confirmQuit {
		b.WriteString(styles.ErrorText.Render("Press ESC again to stop opening tabs"))
		b.WriteString("\n")
		b.WriteString(styles.StatusBar.Render("esc confirm stop • any key continue"))
	} else {
		b.WriteString(styles.StatusBar.Render("esc stop • ctrl+c quit"))
	}

	return styles.Border.Render(b.String())
}

func (m ProgressModel) renderEvents() string {
	var sb strings.Builder
	label := lipgloss.NewStyle().Foreground(styles.Text).Width(14)
	ok := lipgloss.NewStyle().Foreground(styles.Success)
	skip := lipgloss.NewStyle().Foreground(styles.Muted)
	fail := lipgloss.NewStyle().Foreground(styles.Error)
	pending := lipgloss.NewStyle().Foreground(styles.Muted).Italic(true)

	for i, e := range m.results.Entries {
		name := m.labels[string(e.Market)]
		if name == "" {
			name = string(e.Market)
		}
		var status string
		switch {
		case i >= len(m.events):
			status = pending.Render("waiting")
		case m.events[i].Skipped:
			reason := "skipped"
			if m.events[i].Err != nil {
				reason += ": " + m.events[i].Err.Error()
			}
			status = skip.Render(truncate(reason, 60))
		case m.events[i].Err != nil:
			status = fail.Render(truncate("failed: "+m.events[i].Err.Error(), 60))
		default:
			status = ok.Render("opened")
		}
		sb.WriteString(label.Render(name))
		sb.WriteString(status)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m ProgressModel) renderSummary() string {
	if m.stats == nil {
		return ""
	}
	elapsed := time.Since(m.startTime).Truncate(100 * time.Millisecond)
	msg := fmt.Sprintf("Opened %d of %d tabs in %s", m.stats.Opened.Load(), m.stats.Total, elapsed)
	if errors.Is(m.err, context.Canceled) {
		msg = fmt.Sprintf("Stopped after %d of %d tabs", m.stats.Opened.Load(), m.stats.Total)
	}
	out := lipgloss.NewStyle().Foreground(styles.Success).Bold(true).Render(msg)
	if f := m.stats.Failed.Load(); f > 0 {
		out += lipgloss.NewStyle().Foreground(styles.Error).Render(fmt.Sprintf("  %d failed", f))
	}
	if s := m.stats.Skipped.Load(); s > 0 {
		out += lipgloss.NewStyle().Foreground(styles.Warning).Render(fmt.Sprintf("  %d skipped", s))
	}
	return out
}

func (s *sharedState) getCancel() context.CancelFunc {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel
}

// NavigateToResults shows generated URLs in the explorer.
type NavigateToResults struct {
	Title   string
	Results batch.Results
}
