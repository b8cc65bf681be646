package tui

import (
	"context"

	"github.com/MKhiriev/lks-registry/models"
	tea "github.com/charmbracelet/bubbletea"
)

// RootModel routes between the login screen and the dashboard:
// 1) pumps views from the controller
// 2) shows the dashboard while a user is logged in
// 3) handles global Ctrl+C quit
// 4) delegates all other messages to the active screen
type RootModel struct {
	views <-chan models.DashboardView

	login     *LoginModel
	dashboard *DashboardModel

	view        models.DashboardView
	hasView     bool
	viewsClosed bool
}

// NewRootModel creates the router. views is the subscription returned by
// the dashboard controller.
func NewRootModel(ctx context.Context, t *TUI, views <-chan models.DashboardView) RootModel {
	return RootModel{
		views:     views,
		login:     NewLoginModel(ctx, t.dashboard),
		dashboard: NewDashboardModel(ctx, t),
	}
}

func (r RootModel) Init() tea.Cmd {
	return tea.Batch(waitForView(r.views), r.login.Init())
}

// waitForView reads the next view. A closed channel ends the program.
func waitForView(views <-chan models.DashboardView) tea.Cmd {
	return func() tea.Msg {
		view, ok := <-views
		if !ok {
			return viewsClosedMsg{}
		}
		return viewMsg{view: view}
	}
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return r, tea.Quit
		}
	case viewsClosedMsg:
		r.viewsClosed = true
		return r, tea.Quit
	case viewMsg:
		r.view = msg.view
		r.hasView = true
		r.login.appName = msg.view.State.AppName
		r.dashboard.setView(msg.view)
		return r, waitForView(r.views)
	case loginResultMsg:
		_, cmd := r.login.Update(msg)
		return r, cmd
	}

	if !r.hasView {
		return r, nil
	}

	if r.view.State.IsLoggedIn {
		_, cmd := r.dashboard.Update(msg)
		return r, cmd
	}
	_, cmd := r.login.Update(msg)
	return r, cmd
}

func (r RootModel) View() string {
	if !r.hasView {
		return renderPage("LOADING", "Loading local data...", "")
	}
	if r.view.State.IsLoggedIn {
		return r.dashboard.View()
	}
	return r.login.View()
}
