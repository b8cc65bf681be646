package tui

import "github.com/MKhiriev/lks-registry/models"

// viewMsg carries the latest controller view.
type viewMsg struct {
	view models.DashboardView
}

// viewsClosedMsg is sent when the controller stopped publishing views.
type viewsClosedMsg struct{}

type loginResultMsg struct {
	err error
}

// actionDoneMsg reports the outcome of a dashboard command. status is shown
// on success.
type actionDoneMsg struct {
	status string
	err    error
}

type driveLinkMsg struct {
	url   string
	state string
	err   error
}

type clearStatusMsg struct {
	seq int
}
