package views

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/skintap/internal/engine/parser"
	"github.com/rendis/skintap/internal/engine/suggest"
	"github.com/rendis/skintap/internal/model"
	"github.com/rendis/skintap/internal/tui/styles"
)

// Field indices. Exterior, StatTrak, trade hold and markets are virtual
// fields without a textinput.
const (
	fieldItem = iota
	fieldExterior
	fieldStatTrak
	fieldMinFloat
	fieldMaxFloat
	fieldSeed
	fieldTradeHold
	fieldMarkets
	fieldCount
)

const maxSuggestions = 5

// MarketOption is one entry of the market selector.
type MarketOption struct {
	ID    string
	Label string
}

type SearchModel struct {
	inputs  []textinput.Model
	focused int
	err     string

	exterior    int // index into exteriorChoices
	statTrak    bool
	noTradeHold bool

	markets      []MarketOption
	selected     map[string]bool
	marketCursor int

	names       []string
	suggestions []string
	suggIdx     int
}

var exteriorChoices = append([]model.Exterior{model.ExteriorAny}, model.Exteriors...)

// NewSearchModel pre-fills the form. names feeds item autocomplete.
func NewSearchModel(form model.SearchForm, names []string, markets []MarketOption) SearchModel {
	inputs := make([]textinput.Model, fieldCount)
	inputs[fieldItem] = newInput("★ Karambit | Doppler (Phase 2)", form.Item, 60)
	inputs[fieldMinFloat] = newInput("0.00", form.MinFloat, 10)
	inputs[fieldMaxFloat] = newInput("1.00", form.MaxFloat, 10)
	inputs[fieldSeed] = newInput("0-1000", form.PaintSeed, 10)
	inputs[fieldItem].Focus()

	m := SearchModel{
		inputs:      inputs,
		focused:     fieldItem,
		statTrak:    form.StatTrak,
		noTradeHold: form.NoTradeHold,
		markets:     markets,
		selected:    make(map[string]bool, len(form.Markets)),
		names:       names,
		suggIdx:     -1,
	}
	if ext, err := parser.ParseExterior(form.Exterior); err == nil {
		for i, e := range exteriorChoices {
			if e == ext {
				m.exterior = i
			}
		}
	}
	for _, id := range form.Markets {
		m.selected[string(model.NormalizeMarketID(id))] = true
	}
	return m
}

func newInput(placeholder, value string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	if width > 0 {
		ti.Width = width
	}
	if value != "" {
		ti.SetValue(value)
	}
	return ti
}

func (m SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Form returns the current field values.
func (m SearchModel) Form() model.SearchForm {
	f := model.SearchForm{
		Item:        strings.TrimSpace(m.inputs[fieldItem].Value()),
		StatTrak:    m.statTrak,
		Exterior:    string(exteriorChoices[m.exterior]),
		MinFloat:    strings.TrimSpace(m.inputs[fieldMinFloat].Value()),
		MaxFloat:    strings.TrimSpace(m.inputs[fieldMaxFloat].Value()),
		PaintSeed:   strings.TrimSpace(m.inputs[fieldSeed].Value()),
		NoTradeHold: m.noTradeHold,
	}
	for _, mk := range m.markets {
		if m.selected[mk.ID] {
			f.Markets = append(f.Markets, mk.ID)
		}
	}
	return f
}

// SetError shows err inline and focuses the offending field when known.
func (m *SearchModel) SetError(err error) {
	m.err = err.Error()
	var ve *parser.ValidationError
	if !errors.As(err, &ve) {
		return
	}
	m.err = ve.Err.Error()
	target := m.focused
	switch ve.Field {
	case "item":
		target = fieldItem
	case "exterior":
		target = fieldExterior
	case "float":
		target = fieldMinFloat
	case "paint_seed":
		target = fieldSeed
	}
	m.focusField(target)
}

func (m SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			return m, func() tea.Msg { return NavigateToHome{} }

		case "up":
			if m.focused == fieldItem && len(m.suggestions) > 0 && m.suggIdx > 0 {
				m.suggIdx--
				return m, nil
			}
			m.err = ""
			return m, m.focusField(m.focused - 1)

		case "down":
			if m.focused == fieldItem && len(m.suggestions) > 0 && m.suggIdx < len(m.suggestions)-1 {
				m.suggIdx++
				return m, nil
			}
			m.err = ""
			return m, m.focusField(m.focused + 1)

		case "tab":
			m.err = ""
			if m.focused == fieldItem && len(m.suggestions) > 0 {
				m.selectSuggestion()
			}
			return m, m.focusField(m.focused + 1)

		case "shift+tab":
			m.err = ""
			return m, m.focusField(m.focused - 1)

		case "enter":
			if m.focused == fieldItem && len(m.suggestions) > 0 {
				m.selectSuggestion()
				return m, m.focusField(m.focused + 1)
			}
			return m, m.submit()

		case "left":
			if m.moveVirtual(-1) {
				return m, nil
			}

		case "right":
			if m.moveVirtual(1) {
				return m, nil
			}

		case " ":
			if m.toggleVirtual() {
				return m, nil
			}

		case "a":
			if m.focused == fieldMarkets {
				m.toggleAllMarkets()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	if m.isInput(m.focused) {
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	}
	if m.focused == fieldItem {
		m.updateSuggestions()
	}
	return m, cmd
}

func (m SearchModel) isInput(idx int) bool {
	switch idx {
	case fieldItem, fieldMinFloat, fieldMaxFloat, fieldSeed:
		return true
	}
	return false
}

// moveVirtual handles left/right on virtual fields.
func (m *SearchModel) moveVirtual(dir int) bool {
	switch m.focused {
	case fieldExterior:
		m.exterior = (m.exterior + dir + len(exteriorChoices)) % len(exteriorChoices)
	case fieldStatTrak:
		m.statTrak = !m.statTrak
	case fieldTradeHold:
		m.noTradeHold = !m.noTradeHold
	case fieldMarkets:
		if len(m.markets) == 0 {
			return true
		}
		m.marketCursor = (m.marketCursor + dir + len(m.markets)) % len(m.markets)
	default:
		return false
	}
	return true
}

func (m *SearchModel) toggleVirtual() bool {
	switch m.focused {
	case fieldStatTrak:
		m.statTrak = !m.statTrak
	case fieldTradeHold:
		m.noTradeHold = !m.noTradeHold
	case fieldMarkets:
		if m.marketCursor < len(m.markets) {
			id := m.markets[m.marketCursor].ID
			m.selected[id] = !m.selected[id]
		}
	default:
		return false
	}
	return true
}

func (m *SearchModel) toggleAllMarkets() {
	all := true
	for _, mk := range m.markets {
		if !m.selected[mk.ID] {
			all = false
			break
		}
	}
	for _, mk := range m.markets {
		m.selected[mk.ID] = !all
	}
}

func (m *SearchModel) selectSuggestion() {
	if m.suggIdx >= 0 && m.suggIdx < len(m.suggestions) {
		m.inputs[fieldItem].SetValue(m.suggestions[m.suggIdx])
		m.inputs[fieldItem].CursorEnd()
		m.suggestions = nil
		m.suggIdx = -1
	}
}

func (m *SearchModel) updateSuggestions() {
	raw := strings.TrimSpace(m.inputs[fieldItem].Value())
	m.suggestions = suggest.Suggest(raw, m.names, maxSuggestions)
	// Hide the list once the input is already an exact pick.
	if len(m.suggestions) == 1 && strings.EqualFold(m.suggestions[0], raw) {
		m.suggestions = nil
	}
	if len(m.suggestions) == 0 {
		m.suggIdx = -1
		return
	}
	if m.suggIdx < 0 || m.suggIdx >= len(m.suggestions) {
		m.suggIdx = 0
	}
}

func (m *SearchModel) focusField(idx int) tea.Cmd {
	if m.isInput(m.focused) {
		m.inputs[m.focused].Blur()
	}
	if m.focused == fieldItem {
		m.suggestions = nil
		m.suggIdx = -1
	}
	m.focused = (idx + fieldCount) % fieldCount
	if !m.isInput(m.focused) {
		return nil
	}
	m.inputs[m.focused].Focus()
	return textinput.Blink
}

func (m *SearchModel) submit() tea.Cmd {
	form := m.Form()
	if _, err := parser.Build(form); err != nil {
		m.SetError(err)
		return nil
	}
	if len(form.Markets) == 0 {
		m.err = "Select at least one market"
		m.focusField(fieldMarkets)
		return nil
	}
	m.err = ""
	return func() tea.Msg { return SubmitSearchMsg{Form: form} }
}

func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("New Search") + "\n\n")

	b.WriteString(m.renderField("Item:", fieldItem))
	if m.focused == fieldItem && len(m.suggestions) > 0 {
		b.WriteString(m.renderSuggestions())
	}
	if strings.HasSuffix(strings.TrimSpace(m.inputs[fieldItem].Value()), strings.TrimSpace(model.VanillaSuffix)) {
		b.WriteString(styles.Hint.Render("  vanilla: exterior and float filters are ignored") + "\n")
	}

	b.WriteString(m.renderExterior())
	b.WriteString(m.renderToggle("StatTrak:", fieldStatTrak, m.statTrak))
	b.WriteString("\n")
	b.WriteString(m.renderField("Min float:", fieldMinFloat))
	b.WriteString(m.renderField("Max float:", fieldMaxFloat))
	b.WriteString(m.renderField("Paint seed:", fieldSeed))
	b.WriteString(m.renderToggle("No hold:", fieldTradeHold, m.noTradeHold))
	b.WriteString("\n")
	b.WriteString(m.renderMarkets())

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.ErrorText.Render("  " + m.err))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.StatusBar.Render(m.statusText()))

	return styles.Border.Render(b.String())
}

func (m SearchModel) statusText() string {
	switch m.focused {
	case fieldExterior:
		return "←→ change • enter open tabs • tab next • esc back"
	case fieldStatTrak, fieldTradeHold:
		return "space toggle • enter open tabs • tab next • esc back"
	case fieldMarkets:
		return "←→ move • space toggle • a all/none • enter open tabs • esc back"
	}
	return "enter open tabs • tab next • esc back"
}

func (m SearchModel) renderSuggestions() string {
	var sb strings.Builder
	active := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(styles.Muted)

	for i, s := range m.suggestions {
		if i == m.suggIdx {
			sb.WriteString(active.Render("  > " + s))
		} else {
			sb.WriteString(inactive.Render("    " + s))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m SearchModel) renderExterior() string {
	label := styles.Label.Render("Exterior:")
	active := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(styles.Muted)

	parts := make([]string, len(exteriorChoices))
	for i, e := range exteriorChoices {
		name := strings.ToUpper(string(e))
		if e == model.ExteriorAny {
			name = "Any"
		}
		if i == m.exterior {
			parts[i] = active.Render(name)
		} else {
			parts[i] = inactive.Render(name)
		}
	}
	line := label + " " + strings.Join(parts, "  ")
	if m.focused == fieldExterior {
		line += lipgloss.NewStyle().Foreground(styles.Secondary).Render(" ←→")
		if e := exteriorChoices[m.exterior]; e != model.ExteriorAny {
			line += styles.Hint.Render("  " + e.Label())
		}
	}
	return line + "\n"
}

func (m SearchModel) renderToggle(label string, idx int, on bool) string {
	box := "[ ]"
	style := lipgloss.NewStyle().Foreground(styles.Muted)
	if on {
		box = "[x]"
		style = lipgloss.NewStyle().Foreground(styles.Success).Bold(true)
	}
	line := styles.Label.Render(label) + " " + style.Render(box)
	if m.focused == idx {
		line += lipgloss.NewStyle().Foreground(styles.Secondary).Render(" space")
	}
	return line + "\n"
}

func (m SearchModel) renderMarkets() string {
	var sb strings.Builder
	n := 0
	for _, mk := range m.markets {
		if m.selected[mk.ID] {
			n++
		}
	}
	sb.WriteString(styles.Label.Render("Markets:"))
	sb.WriteString(styles.Hint.Render(fmt.Sprintf(" %d of %d selected", n, len(m.markets))))
	sb.WriteString("\n")

	const perRow = 4
	for i, mk := range m.markets {
		box := "[ ]"
		if m.selected[mk.ID] {
			box = "[x]"
		}
		style := styles.InactiveItem
		if m.selected[mk.ID] {
			style = styles.Value
		}
		if m.focused == fieldMarkets && i == m.marketCursor {
			style = styles.ActiveItem
		}
		sb.WriteString(style.Render(fmt.Sprintf("  %s %-12s", box, mk.Label)))
		if (i+1)%perRow == 0 || i == len(m.markets)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m SearchModel) renderField(label string, idx int) string {
	l := styles.Label.Render(label)
	v := m.inputs[idx].View()
	return fmt.Sprintf("%s %s\n", l, v)
}

// Messages
type NavigateToHome struct{}

// NavigateToSearch opens the form. A nil Form pre-fills the last saved one.
type NavigateToSearch struct {
	Form *model.SearchForm
}

// SubmitSearchMsg carries a form that passed validation.
type SubmitSearchMsg struct {
	Form model.SearchForm
}
