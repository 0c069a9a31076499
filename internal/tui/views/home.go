package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/skintap/internal/tui/styles"
)

type menuItem struct {
	key   string
	label string
	desc  string
	msg   tea.Msg
}

type HomeModel struct {
	items   []menuItem
	cursor  int
	version string
	catalog string
}

// NewHomeModel builds the main menu. catalogInfo is shown under the tagline.
func NewHomeModel(version, catalogInfo string) HomeModel {
	return HomeModel{
		version: version,
		catalog: catalogInfo,
		items: []menuItem{
			{key: "n", label: "New Search", desc: "Describe an item and open market tabs", msg: NavigateToSearch{}},
			{key: "r", label: "Recent Searches", desc: "Reopen or re-run a past search", msg: NavigateToRecent{}},
			{key: "c", label: "Import Catalog", desc: "Load an item id catalog from a .json file", msg: NavigateToCatalog{}},
			{key: "t", label: "Toggle Theme", desc: "Switch between dark and light", msg: ToggleThemeMsg{}},
			{key: "q", label: "Quit", desc: "Exit skintap"},
		},
	}
}

func (m HomeModel) Init() tea.Cmd {
	return nil
}

func (m HomeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch key := msg.String(); key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case "enter":
			return m, m.handleSelect()
		default:
			for i, it := range m.items {
				if it.key == key {
					m.cursor = i
					return m, m.handleSelect()
				}
			}
		}
	}
	return m, nil
}

func (m HomeModel) handleSelect() tea.Cmd {
	it := m.items[m.cursor]
	if it.msg == nil {
		return tea.Quit
	}
	return func() tea.Msg { return it.msg }
}

func (m HomeModel) View() string {
	var b strings.Builder

	logo := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Render("  skintap")

	version := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Render(" " + m.version)

	tagline := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Italic(true).
		Render("  CS2 marketplace search launcher")

	b.WriteString(logo + version + "\n")
	b.WriteString(tagline + "\n")
	if m.catalog != "" {
		b.WriteString(styles.Hint.Render("  " + m.catalog))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range m.items {
		cursor := "  "
		style := styles.InactiveItem
		if i == m.cursor {
			cursor = "> "
			style = styles.ActiveItem
		}

		key := lipgloss.NewStyle().
			Foreground(styles.Secondary).
			Bold(true).
			Render(fmt.Sprintf("[%s]", item.key))

		label := style.Render(item.label)
		desc := lipgloss.NewStyle().
			Foreground(styles.Muted).
			Render(" - " + item.desc)

		b.WriteString(fmt.Sprintf("%s%s %s%s\n", cursor, key, label, desc))
	}

	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render("↑↓ navigate • enter select • q quit"))

	return styles.Border.Render(b.String())
}

// Navigation messages
type NavigateToCatalog struct{}

// ToggleThemeMsg flips the palette and persists the choice.
type ToggleThemeMsg struct{}
