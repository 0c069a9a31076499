package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/skintap/internal/engine/storage"
	"github.com/rendis/skintap/internal/tui/styles"
)

const recentVisible = 8

type RecentModel struct {
	entries       []storage.Search
	cursor        int
	confirmDelete bool
	err           error
	now           func() time.Time
}

func NewRecentModel(entries []storage.Search, err error) RecentModel {
	return RecentModel{entries: entries, err: err, now: time.Now}
}

func (m RecentModel) Init() tea.Cmd {
	return nil
}

func (m RecentModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if m.confirmDelete {
		m.confirmDelete = false
		if key.String() == "y" && m.cursor < len(m.entries) {
			id := m.entries[m.cursor].ID
			return m, func() tea.Msg { return DeleteSearchMsg{ID: id} }
		}
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.entries) {
			id := m.entries[m.cursor].ID
			return m, func() tea.Msg { return NavigateToHistory{ID: id} }
		}
	case "e":
		if m.cursor < len(m.entries) {
			form := m.entries[m.cursor].Form
			return m, func() tea.Msg { return NavigateToSearch{Form: &form} }
		}
	case "d":
		if m.cursor < len(m.entries) {
			m.confirmDelete = true
		}
	case "esc":
		return m, func() tea.Msg { return NavigateToHome{} }
	}
	return m, nil
}

func (m RecentModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Recent Searches"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.ErrorText.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("esc back"))
		return styles.Border.Render(b.String())
	}

	if len(m.entries) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).
			Render("No searches yet"))
		b.WriteString("\n\n")
		b.WriteString(styles.StatusBar.Render("esc back"))
		return styles.Border.Render(b.String())
	}

	start := 0
	if m.cursor >= recentVisible {
		start = m.cursor - recentVisible + 1
	}
	end := start + recentVisible
	if end > len(m.entries) {
		end = len(m.entries)
	}

	for i := start; i < end; i++ {
		entry := m.entries[i]
		cursor := "  "
		style := styles.InactiveItem
		if i == m.cursor {
			cursor = "> "
			style = styles.ActiveItem
		}

		name := style.Render(entry.Form.Item)
		detail := lipgloss.NewStyle().Foreground(styles.Muted).Render(
			fmt.Sprintf("  %s  %d/%d markets  %s", summarize(entry), entry.Opened, entry.Total, timeAgo(m.now(), entry.CreatedAt)))

		b.WriteString(fmt.Sprintf("%s%s\n%s\n", cursor, name, detail))
	}
	if len(m.entries) > recentVisible {
		b.WriteString(styles.Hint.Render(fmt.Sprintf("  %d of %d", m.cursor+1, len(m.entries))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.confirmDelete {
		b.WriteString(styles.ErrorText.Render("Delete this search? y to confirm"))
	} else {
		b.WriteString(styles.StatusBar.Render("enter results • e edit and re-run • d delete • esc back"))
	}

	return styles.Border.Render(b.String())
}

// summarize renders the filters of a search on one line.
func summarize(s storage.Search) string {
	var parts []string
	f := s.Form
	if f.StatTrak {
		parts = append(parts, "ST")
	}
	if f.Exterior != "" {
		parts = append(parts, strings.ToUpper(f.Exterior))
	}
	if f.MinFloat != "" || f.MaxFloat != "" {
		lo, hi := f.MinFloat, f.MaxFloat
		if lo == "" {
			lo = "0"
		}
		if hi == "" {
			hi = "1"
		}
		parts = append(parts, lo+"-"+hi)
	}
	if f.PaintSeed != "" {
		parts = append(parts, "#"+f.PaintSeed)
	}
	if f.NoTradeHold {
		parts = append(parts, "no hold")
	}
	if len(parts) == 0 {
		return "any"
	}
	return strings.Join(parts, " ")
}

func timeAgo(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// NavigateToRecent signals navigation to the recent searches view.
type NavigateToRecent struct{}

// NavigateToHistory shows the recorded results of a past search.
type NavigateToHistory struct {
	ID string
}

// DeleteSearchMsg removes a search from history.
type DeleteSearchMsg struct {
	ID string
}
