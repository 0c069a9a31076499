package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/skintap/internal/engine/batch"
	"github.com/rendis/skintap/internal/engine/suggest"
	"github.com/rendis/skintap/internal/tui/styles"
)

type focusArea int

const (
	focusTable focusArea = iota
	focusFilter
	focusDetail
)

// OpenOneFunc opens a single result entry.
type OpenOneFunc func(ctx context.Context, e batch.Entry) error

// copyFunc is swapped in tests.
var copyFunc = clipboard.WriteAll

// ExplorerModel lists the generated URLs of one search with a detail panel.
type ExplorerModel struct {
	title    string
	results  batch.Results
	labels   map[string]string
	openOne  OpenOneFunc
	filtered []batch.Entry
	table    table.Model
	filter   textinput.Model
	focus    focusArea
	selected int
	width    int
	height   int
	status   string
	statusOK bool

	detailScrollY int
	detailLines   []string
}

func NewExplorerModel(title string, res batch.Results, labels map[string]string, openOne OpenOneFunc) ExplorerModel {
	filter := textinput.New()
	filter.Placeholder = "Type to filter..."
	filter.CharLimit = 50

	m := ExplorerModel{
		title:    title,
		results:  res,
		labels:   labels,
		openOne:  openOne,
		filter:   filter,
		filtered: res.Entries,
		selected: -1,
	}
	m.buildTable(m.filtered)
	if len(m.filtered) > 0 {
		m.selected = 0
		m.cacheDetailContent()
	}
	return m
}

func (m ExplorerModel) Init() tea.Cmd {
	return nil
}

func (m ExplorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
	case openResultMsg:
		if msg.Err != nil {
			m.setStatus(fmt.Sprintf("Open failed: %v", msg.Err), false)
		} else {
			m.setStatus("Opened "+m.label(msg.Entry), true)
		}
		return m, nil
	case tea.KeyMsg:
		key := msg.String()

		switch m.focus {
		case focusTable:
			switch key {
			case "esc", "q":
				return m, func() tea.Msg { return NavigateToHome{} }
			case "/", "tab":
				m.focus = focusFilter
				m.filter.Focus()
				return m, textinput.Blink
			case "1":
				m.focus = focusDetail
				m.table.SetStyles(m.unfocusedTableStyles())
				return m, nil
			case "enter", "o":
				return m, m.openSelected()
			case "O":
				res := m.results
				title := m.title
				return m, func() tea.Msg { return NavigateToOpen{Title: title, Results: res} }
			case "c":
				m.copySelected()
				return m, nil
			}

		case focusFilter:
			switch key {
			case "esc", "enter", "tab":
				m.focus = focusTable
				m.filter.Blur()
				return m, nil
			}

		case focusDetail:
			maxScroll := len(m.detailLines) - m.panelHeight()
			if maxScroll < 0 {
				maxScroll = 0
			}
			switch key {
			case "esc":
				m.focus = focusTable
				m.table.SetStyles(m.focusedTableStyles())
				return m, nil
			case "up", "k":
				if m.detailScrollY > 0 {
					m.detailScrollY--
				}
				return m, nil
			case "down", "j":
				if m.detailScrollY < maxScroll {
					m.detailScrollY++
				}
				return m, nil
			case "c":
				m.copySelected()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusTable:
		m.table, cmd = m.table.Update(msg)
		cursor := m.table.Cursor()
		if cursor != m.selected && cursor < len(m.filtered) {
			m.selected = cursor
			m.detailScrollY = 0
			m.cacheDetailContent()
		}
	case focusFilter:
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
	}

	return m, cmd
}

func (m ExplorerModel) current() (batch.Entry, bool) {
	if m.selected < 0 || m.selected >= len(m.filtered) {
		return batch.Entry{}, false
	}
	return m.filtered[m.selected], true
}

func (m ExplorerModel) label(e batch.Entry) string {
	if l := m.labels[string(e.Market)]; l != "" {
		return l
	}
	return string(e.Market)
}

func (m *ExplorerModel) setStatus(s string, ok bool) {
	m.status = s
	m.statusOK = ok
}

type openResultMsg struct {
	Entry batch.Entry
	Err   error
}

func (m *ExplorerModel) openSelected() tea.Cmd {
	e, ok := m.current()
	if !ok {
		return nil
	}
	if !e.OK() {
		m.setStatus(m.label(e)+" has no URL for this search", false)
		return nil
	}
	open := m.openOne
	return func() tea.Msg {
		return openResultMsg{Entry: e, Err: open(context.Background(), e)}
	}
}

func (m *ExplorerModel) copySelected() {
	e, ok := m.current()
	if !ok || !e.OK() {
		return
	}
	if err := copyFunc(e.URL); err != nil {
		m.setStatus(fmt.Sprintf("Copy failed: %v", err), false)
		return
	}
	m.setStatus(m.label(e)+" URL copied to clipboard", true)
}

func (m *ExplorerModel) cacheDetailContent() {
	e, ok := m.current()
	if !ok {
		m.detailLines = nil
		return
	}

	lines := []string{m.label(e), ""}
	if !e.OK() {
		reason := "no URL"
		if e.Err != nil {
			reason = e.Err.Error()
		}
		lines = append(lines, "Skipped: "+reason)
		m.detailLines = lines
		return
	}

	w := m.width - 8
	if w < 40 {
		w = 40
	}
	// Wrap the URL on query separators first so long links stay readable.
	url := e.URL
	for len(url) > w {
		cut := strings.LastIndexAny(url[:w], "&?#")
		if cut <= 0 {
			cut = w
		}
		lines = append(lines, url[:cut])
		url = url[cut:]
	}
	m.detailLines = append(lines, url)
}

func (m *ExplorerModel) buildTable(entries []batch.Entry) {
	marketW := 14
	statusW := 8
	urlW := 60
	if m.width > 90 {
		urlW = m.width - marketW - statusW - 10
	}

	columns := []table.Column{
		{Title: "Market", Width: marketW},
		{Title: "Status", Width: statusW},
		{Title: "URL", Width: urlW},
	}

	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		status, url := "ready", e.URL
		if !e.OK() {
			status = "skipped"
			if e.Err != nil {
				url = e.Err.Error()
			}
		}
		rows[i] = table.Row{
			truncate(m.label(e), marketW),
			status,
			truncate(url, urlW),
		}
	}

	h := 10
	if m.table.Height() > 0 {
		h = m.table.Height()
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(h),
	)
	t.SetStyles(m.focusedTableStyles())
	m.table = t
}

func (m ExplorerModel) focusedTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Secondary)
	s.Selected = s.Selected.
		Foreground(styles.SelectedText).
		Background(styles.Primary).
		Bold(true)
	return s
}

func (m ExplorerModel) unfocusedTableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true).
		Foreground(styles.Muted)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Dim).
		Bold(false)
	return s
}

func (m ExplorerModel) panelHeight() int {
	h := m.height/2 - 8
	if h < 4 {
		h = 4
	}
	return h
}

func (m *ExplorerModel) updateLayout() {
	if m.width <= 0 {
		return
	}
	tableH := m.height/2 - 4
	if tableH < 5 {
		tableH = 5
	}
	m.table.SetHeight(tableH)
	m.buildTable(m.filtered)
	m.cacheDetailContent()
}

func (m *ExplorerModel) applyFilter() {
	words := strings.Fields(suggest.Fold(m.filter.Value()))
	if len(words) == 0 {
		m.filtered = m.results.Entries
	} else {
		m.filtered = nil
		for _, e := range m.results.Entries {
			haystack := suggest.Fold(m.label(e) + " " + string(e.Market) + " " + e.URL)
			match := true
			for _, w := range words {
				if !strings.Contains(haystack, w) {
					match = false
					break
				}
			}
			if match {
				m.filtered = append(m.filtered, e)
			}
		}
	}
	m.buildTable(m.filtered)
	if len(m.filtered) > 0 {
		m.selected = 0
	} else {
		m.selected = -1
	}
	m.detailScrollY = 0
	m.cacheDetailContent()
}

func (m ExplorerModel) View() string {
	var b strings.Builder

	total := len(m.results.Entries)
	b.WriteString(styles.Title.Render(fmt.Sprintf("Results: %s", m.title)))
	b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
		Render(fmt.Sprintf("  %d of %d markets have a URL", m.results.Count(), total)))
	if len(m.filtered) != total {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
			Render(fmt.Sprintf(" (showing %d)", len(m.filtered))))
	}
	b.WriteString("\n\n")

	filterStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	if m.focus == focusFilter {
		filterStyle = lipgloss.NewStyle().Foreground(styles.Primary)
	}
	b.WriteString(filterStyle.Render("Filter: "))
	b.WriteString(m.filter.View())
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n\n")

	detailW := m.width - 4
	if detailW < 40 {
		detailW = 40
	}
	borderColor := styles.Muted
	if m.focus == focusDetail {
		borderColor = styles.Primary
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(detailW).
		Render(m.viewDetailPanel(m.panelHeight()))
	label := lipgloss.NewStyle().Bold(true).Foreground(borderColor).Render("[1] Details")
	b.WriteString(label + "\n" + box)
	b.WriteString("\n\n")

	if m.status != "" {
		color := styles.Success
		if !m.statusOK {
			color = styles.Error
		}
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(m.status))
		b.WriteString("\n")
	}

	var statusText string
	switch m.focus {
	case focusTable:
		statusText = "↑↓ navigate • enter open • O open all • c copy url • 1 details • / filter • esc back"
	case focusFilter:
		statusText = "type to filter • esc back"
	case focusDetail:
		statusText = "↑↓ scroll • c copy url • esc back to table"
	}
	b.WriteString(styles.StatusBar.Render(statusText))

	return b.String()
}

func (m ExplorerModel) viewDetailPanel(h int) string {
	if len(m.detailLines) == 0 {
		return lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).Render("No market selected")
	}

	end := m.detailScrollY + h
	if end > len(m.detailLines) {
		end = len(m.detailLines)
	}
	var sb strings.Builder
	for i := m.detailScrollY; i < end; i++ {
		line := m.detailLines[i]
		switch {
		case i == 0:
			line = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Render(line)
		case strings.HasPrefix(line, "Skipped:"):
			line = lipgloss.NewStyle().Foreground(styles.Warning).Render(line)
		default:
			line = lipgloss.NewStyle().Foreground(styles.Text).Render(line)
		}
		sb.WriteString(line)
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	if len(m.detailLines) > h {
		sb.WriteString("\n")
		sb.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).
			Render(fmt.Sprintf("[%d/%d]", m.detailScrollY+1, len(m.detailLines)-h+1)))
	}
	return sb.String()
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// NavigateToOpen opens every URL of a result set again.
type NavigateToOpen struct {
	Title   string
	Results batch.Results
}
