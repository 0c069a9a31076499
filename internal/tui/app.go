package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rendis/skintap/internal/app"
	"github.com/rendis/skintap/internal/engine/batch"
	"github.com/rendis/skintap/internal/tui/views"
)

type viewID int

const (
	viewHome viewID = iota
	viewSearch
	viewProgress
	viewExplorer
	viewFilePicker
	viewRecent
)

// App is the root bubbletea model.
type App struct {
	ctx     context.Context
	svc     *app.App
	version string

	currentView viewID
	// explorerBack is where esc from the explorer returns to.
	explorerBack viewID
	width        int
	height       int
	labels       map[string]string

	home       views.HomeModel
	search     views.SearchModel
	progress   views.ProgressModel
	explorer   views.ExplorerModel
	filePicker views.FilePickerModel
	recent     views.RecentModel
}

func NewApp(ctx context.Context, svc *app.App, version string) App {
	loadTheme(svc)

	labels := make(map[string]string)
	for _, id := range svc.Tables.IDs() {
		labels[string(id)] = svc.Tables.Label(id)
	}

	a := App{
		ctx:         ctx,
		svc:         svc,
		version:     version,
		currentView: viewHome,
		labels:      labels,
	}
	a.home = a.newHome()
	return a
}

func (a App) newHome() views.HomeModel {
	info := fmt.Sprintf("catalog: %d items", len(a.svc.ItemNames()))
	return views.NewHomeModel(a.version, info)
}

func (a App) marketOptions() []views.MarketOption {
	ids := a.svc.Tables.IDs()
	opts := make([]views.MarketOption, 0, len(ids))
	for _, id := range ids {
		opts = append(opts, views.MarketOption{ID: string(id), Label: a.labels[string(id)]})
	}
	return opts
}

func (a App) Init() tea.Cmd {
	return a.home.Init()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && a.currentView != viewProgress {
			return a, tea.Quit
		}
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case views.NavigateToHome:
		if a.currentView == viewExplorer && a.explorerBack == viewRecent {
			return a.showRecent()
		}
		a.currentView = viewHome
		a.home = a.newHome()
		return a, nil
	case views.ToggleThemeMsg:
		toggleTheme(a.svc)
		return a, nil
	case views.NavigateToSearch:
		form := a.svc.LastForm()
		if msg.Form != nil {
			form = *msg.Form
		}
		a.currentView = viewSearch
		a.search = views.NewSearchModel(form, a.svc.ItemNames(), a.marketOptions())
		return a, a.search.Init()
	case views.SubmitSearchMsg:
		p, err := a.svc.Prepare(msg.Form)
		if err != nil {
			a.search.SetError(err)
			return a, nil
		}
		a.explorerBack = viewHome
		return a.startOpening(p.Descriptor.MarketHashName(), p.Results)
	case views.NavigateToOpen:
		return a.startOpening(msg.Title, msg.Results)
	case views.NavigateToResults:
		a.currentView = viewExplorer
		a.explorer = views.NewExplorerModel(msg.Title, msg.Results, a.labels, a.svc.OpenOne)
		return a, tea.Batch(a.explorer.Init(), a.sizeCmd())
	case views.NavigateToRecent:
		return a.showRecent()
	case views.NavigateToHistory:
		s, res, err := a.svc.Recorded(msg.ID)
		if err != nil {
			a.svc.Logger.Error("loading search failed", "id", msg.ID, "err", err)
			return a.showRecent()
		}
		a.currentView = viewExplorer
		a.explorerBack = viewRecent
		a.explorer = views.NewExplorerModel(s.Form.Item, res, a.labels, a.svc.OpenOne)
		return a, tea.Batch(a.explorer.Init(), a.sizeCmd())
	case views.DeleteSearchMsg:
		if err := a.svc.Store.DeleteSearch(msg.ID); err != nil {
			a.svc.Logger.Error("deleting search failed", "id", msg.ID, "err", err)
		}
		return a.showRecent()
	case views.NavigateToCatalog:
		a.currentView = viewFilePicker
		a.filePicker = views.NewFilePickerModel("")
		return a, a.filePicker.Init()
	case views.ImportCatalogMsg:
		c, err := a.svc.ImportCatalog(msg.Path)
		if err != nil {
			a.filePicker.SetResult(fmt.Sprintf("Import failed: %v", err), false)
		} else {
			a.filePicker.SetResult(fmt.Sprintf("Imported %d entries", c.Len()), true)
		}
		return a, nil
	}

	var cmd tea.Cmd
	switch a.currentView {
	case viewHome:
		var m tea.Model
		m, cmd = a.home.Update(msg)
		a.home = m.(views.HomeModel)
	case viewSearch:
		var m tea.Model
		m, cmd = a.search.Update(msg)
		a.search = m.(views.SearchModel)
	case viewProgress:
		var m tea.Model
		m, cmd = a.progress.Update(msg)
		a.progress = m.(views.ProgressModel)
	case viewExplorer:
		var m tea.Model
		m, cmd = a.explorer.Update(msg)
		a.explorer = m.(views.ExplorerModel)
	case viewFilePicker:
		var m tea.Model
		m, cmd = a.filePicker.Update(msg)
		a.filePicker = m.(views.FilePickerModel)
	case viewRecent:
		var m tea.Model
		m, cmd = a.recent.Update(msg)
		a.recent = m.(views.RecentModel)
	}

	return a, cmd
}

func (a App) startOpening(title string, res batch.Results) (tea.Model, tea.Cmd) {
	a.currentView = viewProgress
	a.progress = views.NewProgressModel(a.ctx, title, res, a.labels, a.svc.Open)
	return a, tea.Batch(a.progress.Init(), a.sizeCmd())
}

func (a App) showRecent() (tea.Model, tea.Cmd) {
	a.currentView = viewRecent
	a.recent = loadRecent(a.svc)
	return a, a.recent.Init()
}

func (a App) View() string {
	var content string
	switch a.currentView {
	case viewHome:
		content = a.home.View()
	case viewSearch:
		content = a.search.View()
	case viewProgress:
		content = a.progress.View()
	case viewExplorer:
		content = a.explorer.View()
	case viewFilePicker:
		content = a.filePicker.View()
	case viewRecent:
		content = a.recent.View()
	}

	return lipgloss.Place(
		a.width, a.height,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// sizeCmd sends a WindowSizeMsg so newly created views get the current terminal size.
func (a App) sizeCmd() tea.Cmd {
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// Run starts the TUI and blocks until it exits or ctx is cancelled.
func Run(ctx context.Context, svc *app.App, version string) error {
	p := tea.NewProgram(NewApp(ctx, svc, version), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
