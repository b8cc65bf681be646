package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/lks-registry/internal/service"
	"github.com/MKhiriev/lks-registry/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	tabInstitutions = iota
	tabBeneficiaries
	tabNotifications
	tabCount
)

var tabTitles = [tabCount]string{"Institutions (LKS)", "Beneficiaries (PM)", "Notifications"}

const (
	statusTTL         = 5 * time.Second
	driveLinkInterval = 2 * time.Second
)

type confirmState struct {
	prompt string
	action tea.Cmd
}

// DashboardModel is the main screen shown while a user is logged in.
type DashboardModel struct {
	ctx context.Context
	tui *TUI

	view    models.DashboardView
	tab     int
	cursors [tabCount]int

	form     *formModel
	confirm  *confirmState
	showInfo bool

	status    string
	statusErr bool
	statusSeq int
}

// NewDashboardModel creates the dashboard screen.
func NewDashboardModel(ctx context.Context, t *TUI) *DashboardModel {
	return &DashboardModel{ctx: ctx, tui: t}
}

func (m *DashboardModel) Init() tea.Cmd {
	return nil
}

func (m *DashboardModel) setView(view models.DashboardView) {
	m.view = view
	for tab := range m.cursors {
		n := m.rowCount(tab)
		if m.cursors[tab] >= n {
			m.cursors[tab] = max(n-1, 0)
		}
	}
	if !view.State.IsLoggedIn {
		m.form = nil
		m.confirm = nil
		m.showInfo = false
	}
}

func (m *DashboardModel) rowCount(tab int) int {
	switch tab {
	case tabInstitutions:
		return len(m.view.State.Institutions)
	case tabBeneficiaries:
		return len(m.view.State.Beneficiaries)
	default:
		return len(m.view.State.Notifications)
	}
}

func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		if m.form != nil && m.form.submitting {
			m.form.done(msg.err)
			if m.form.closed {
				m.form = nil
			}
			if msg.err != nil {
				return m, nil
			}
		}
		return m, m.setStatus(msg.status, msg.err)
	case driveLinkMsg:
		return m, m.handleDriveLink(msg)
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusErr = false
		}
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)

	if m.form != nil {
		cmd := m.form.Update(msg)
		if m.form.closed {
			m.form = nil
		}
		return m, cmd
	}
	if !ok {
		return m, nil
	}

	if m.confirm != nil {
		switch {
		case key.Matches(keyMsg, keys.yes):
			action := m.confirm.action
			m.confirm = nil
			return m, action
		case key.Matches(keyMsg, keys.no):
			m.confirm = nil
		}
		return m, nil
	}

	if m.showInfo {
		if key.Matches(keyMsg, keys.esc) || key.Matches(keyMsg, keys.info) {
			m.showInfo = false
		}
		return m, nil
	}

	return m, m.handleKey(keyMsg)
}

func (m *DashboardModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.quit):
		return tea.Quit
	case key.Matches(msg, keys.up):
		if m.cursors[m.tab] > 0 {
			m.cursors[m.tab]--
		}
	case key.Matches(msg, keys.down):
		if m.cursors[m.tab] < m.rowCount(m.tab)-1 {
			m.cursors[m.tab]++
		}
	case key.Matches(msg, keys.nextTab):
		m.tab = (m.tab + 1) % tabCount
	case key.Matches(msg, keys.prevTab):
		m.tab = (m.tab - 1 + tabCount) % tabCount
	case key.Matches(msg, keys.newItem):
		return m.openCreateForm()
	case key.Matches(msg, keys.enter):
		return m.openEditForm()
	case key.Matches(msg, keys.delete):
		m.askDelete()
	case key.Matches(msg, keys.attach):
		return m.openAttachForm()
	case key.Matches(msg, keys.push):
		return m.run("Changes pushed", func(ctx context.Context) error {
			return m.tui.dashboard.ForcePush(ctx)
		})
	case key.Matches(msg, keys.copyID):
		return m.copySelectedID()
	case key.Matches(msg, keys.markRead):
		return m.run("Notifications marked as read", func(ctx context.Context) error {
			return m.tui.dashboard.MarkNotificationsRead(ctx)
		})
	case key.Matches(msg, keys.export):
		return m.cmdExport()
	case key.Matches(msg, keys.cloud):
		return m.openCloudForm()
	case key.Matches(msg, keys.linkDrive):
		return m.cmdLinkDrive()
	case key.Matches(msg, keys.logout):
		return m.run("", func(ctx context.Context) error {
			return m.tui.dashboard.Logout(ctx)
		})
	case key.Matches(msg, keys.info):
		m.showInfo = true
	}
	return nil
}

// run executes fn off the UI goroutine and reports it as an [actionDoneMsg].
func (m *DashboardModel) run(status string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{status: status, err: fn(ctx)}
	}
}

func (m *DashboardModel) setStatus(status string, err error) tea.Cmd {
	if err != nil {
		status = humanizeError(err)
	}
	if status == "" {
		return nil
	}

	m.statusSeq++
	m.status = status
	m.statusErr = err != nil
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// ── Forms ──

var (
	institutionLabels = []string{"Name", "Registration no.", "Address", "District", "Village", "Head", "Phone", "Email", "Service type"}
	beneficiaryLabels = []string{"Institution ID", "Name", "NIK", "Gender", "Birth place", "Birth date", "Address", "Category", "Status"}
)

func institutionValues(i models.Institution) []string {
	return []string{i.Name, i.RegistrationNumber, i.Address, i.District, i.Village, i.Head, i.Phone, i.Email, i.ServiceType}
}

func applyInstitutionValues(i *models.Institution, v []string) {
	i.Name, i.RegistrationNumber, i.Address, i.District, i.Village, i.Head, i.Phone, i.Email, i.ServiceType =
		v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8]
}

func beneficiaryValues(b models.Beneficiary) []string {
	return []string{b.InstitutionID, b.Name, b.NIK, b.Gender, b.BirthPlace, b.BirthDate, b.Address, b.Category, b.Status}
}

func applyBeneficiaryValues(b *models.Beneficiary, v []string) {
	b.InstitutionID, b.Name, b.NIK, b.Gender, b.BirthPlace, b.BirthDate, b.Address, b.Category, b.Status =
		v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8]
}

func (m *DashboardModel) openCreateForm() tea.Cmd {
	dashboard := m.tui.dashboard

	switch m.tab {
	case tabInstitutions:
		m.form = newFormModel("NEW INSTITUTION", institutionLabels, nil, func(v []string) tea.Cmd {
			var inst models.Institution
			applyInstitutionValues(&inst, v)
			return m.run("Institution created", func(ctx context.Context) error {
				_, err := dashboard.CreateInstitution(ctx, inst)
				return err
			})
		})
	case tabBeneficiaries:
		var prefill []string
		if inst, ok := m.selectedInstitution(); ok {
			prefill = []string{inst.ID}
		}
		m.form = newFormModel("NEW BENEFICIARY", beneficiaryLabels, prefill, func(v []string) tea.Cmd {
			var b models.Beneficiary
			applyBeneficiaryValues(&b, v)
			return m.run("Beneficiary created", func(ctx context.Context) error {
				_, err := dashboard.CreateBeneficiary(ctx, b)
				return err
			})
		})
	default:
		return nil
	}
	return textinput.Blink
}

func (m *DashboardModel) openEditForm() tea.Cmd {
	dashboard := m.tui.dashboard

	switch m.tab {
	case tabInstitutions:
		inst, ok := m.selectedInstitution()
		if !ok {
			return nil
		}
		m.form = newFormModel("EDIT INSTITUTION", institutionLabels, institutionValues(inst), func(v []string) tea.Cmd {
			updated := inst.Clone()
			applyInstitutionValues(&updated, v)
			return m.run("Institution saved", func(ctx context.Context) error {
				return dashboard.UpdateInstitution(ctx, updated)
			})
		})
	case tabBeneficiaries:
		b, ok := m.selectedBeneficiary()
		if !ok {
			return nil
		}
		m.form = newFormModel("EDIT BENEFICIARY", beneficiaryLabels, beneficiaryValues(b), func(v []string) tea.Cmd {
			updated := b
			applyBeneficiaryValues(&updated, v)
			return m.run("Beneficiary saved", func(ctx context.Context) error {
				return dashboard.UpdateBeneficiary(ctx, updated)
			})
		})
	default:
		return nil
	}
	return textinput.Blink
}

func (m *DashboardModel) openAttachForm() tea.Cmd {
	inst, ok := m.selectedInstitution()
	if m.tab != tabInstitutions || !ok {
		return nil
	}

	dashboard := m.tui.dashboard
	m.form = newFormModel("ATTACH DOCUMENT · "+inst.Name, []string{"Kind", "File path"}, nil, func(v []string) tea.Cmd {
		kind, path := v[0], v[1]
		return m.run("Document attached", func(ctx context.Context) error {
			if kind == "" || path == "" {
				return errors.New("kind and file path are required")
			}
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			_, err = dashboard.AttachDocument(ctx, inst.ID, kind, filepath.Base(path), f)
			return err
		})
	})
	return textinput.Blink
}

func (m *DashboardModel) openCloudForm() tea.Cmd {
	cloud := m.view.State.CloudConfig
	dashboard := m.tui.dashboard
	m.form = newFormModel("CLOUD STORE", []string{"API key", "Project ID"}, []string{cloud.APIKey, cloud.ProjectID}, func(v []string) tea.Cmd {
		cfg := models.CloudConfig{APIKey: v[0], ProjectID: v[1]}
		status := "Cloud store configured"
		if cfg.APIKey == "" && cfg.ProjectID == "" {
			status = "Switched to local-only mode"
		}
		return m.run(status, func(ctx context.Context) error {
			return dashboard.SetCloudConfig(ctx, cfg)
		})
	})
	return textinput.Blink
}

func (m *DashboardModel) askDelete() {
	dashboard := m.tui.dashboard

	switch m.tab {
	case tabInstitutions:
		inst, ok := m.selectedInstitution()
		if !ok {
			return
		}
		m.confirm = &confirmState{
			prompt: fmt.Sprintf("Delete institution %q?", inst.Name),
			action: m.run("Institution deleted", func(ctx context.Context) error {
				return dashboard.DeleteInstitution(ctx, inst.ID)
			}),
		}
	case tabBeneficiaries:
		b, ok := m.selectedBeneficiary()
		if !ok {
			return
		}
		m.confirm = &confirmState{
			prompt: fmt.Sprintf("Delete beneficiary %q?", b.Name),
			action: m.run("Beneficiary deleted", func(ctx context.Context) error {
				return dashboard.DeleteBeneficiary(ctx, b.ID)
			}),
		}
	}
}

// ── Commands ──

func (m *DashboardModel) copySelectedID() tea.Cmd {
	var id string
	switch m.tab {
	case tabInstitutions:
		if inst, ok := m.selectedInstitution(); ok {
			id = inst.ID
		}
	case tabBeneficiaries:
		if b, ok := m.selectedBeneficiary(); ok {
			id = b.ID
		}
	}
	if id == "" {
		return nil
	}

	return func() tea.Msg {
		if err := clipboard.WriteAll(id); err != nil {
			return actionDoneMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return actionDoneMsg{status: "Copied " + id}
	}
}

func (m *DashboardModel) cmdExport() tea.Cmd {
	ctx := m.ctx
	dashboard := m.tui.dashboard
	dir := m.tui.exportDir
	stamp := time.Now().Format("20060102-150405")

	return func() tea.Msg {
		lksPath := filepath.Join(dir, "lks-"+stamp+".csv")
		if err := exportFile(lksPath, func(w io.Writer) error {
			return dashboard.ExportInstitutionsCSV(ctx, w)
		}); err != nil {
			return actionDoneMsg{err: err}
		}

		pmPath := filepath.Join(dir, "pm-"+stamp+".csv")
		if err := exportFile(pmPath, func(w io.Writer) error {
			return dashboard.ExportBeneficiariesCSV(ctx, w)
		}); err != nil {
			return actionDoneMsg{err: err}
		}

		return actionDoneMsg{status: "Exported " + lksPath + " and " + pmPath}
	}
}

func exportFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err = write(f); err != nil {
		f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}

func (m *DashboardModel) cmdLinkDrive() tea.Cmd {
	if m.tui.drive == nil || m.tui.driveLink == nil {
		return m.setStatus("", errors.New("file storage is not available"))
	}

	ctx := m.ctx
	drive := m.tui.drive
	return func() tea.Msg {
		auth, err := drive.AuthURL(ctx)
		if err != nil {
			return driveLinkMsg{err: err}
		}
		return driveLinkMsg{url: auth.URL, state: auth.State}
	}
}

func (m *DashboardModel) handleDriveLink(msg driveLinkMsg) tea.Cmd {
	if msg.err != nil {
		return m.setStatus("", msg.err)
	}

	m.tui.driveLink.Start(m.ctx, msg.state, driveLinkInterval)
	if err := clipboard.WriteAll(msg.url); err != nil {
		return m.setStatus("Open in a browser: "+msg.url, nil)
	}
	return m.setStatus("Authorization link copied, open it in a browser", nil)
}

// ── Selection ──

func (m *DashboardModel) selectedInstitution() (models.Institution, bool) {
	list := m.view.State.Institutions
	i := m.cursors[tabInstitutions]
	if i < 0 || i >= len(list) {
		return models.Institution{}, false
	}
	return list[i], true
}

func (m *DashboardModel) selectedBeneficiary() (models.Beneficiary, bool) {
	list := m.view.State.Beneficiaries
	i := m.cursors[tabBeneficiaries]
	if i < 0 || i >= len(list) {
		return models.Beneficiary{}, false
	}
	return list[i], true
}

// ── Rendering ──

func (m *DashboardModel) View() string {
	if m.showInfo {
		return renderBuildInfoWindow(m.view.State.AppName, m.tui.buildInfo)
	}
	if m.form != nil {
		return m.form.View()
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.tab {
	case tabInstitutions:
		b.WriteString(m.renderInstitutions())
	case tabBeneficiaries:
		b.WriteString(m.renderBeneficiaries())
	default:
		b.WriteString(m.renderNotifications())
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderStatusLine())

	if m.confirm != nil {
		b.WriteString("\n\n")
		b.WriteString(overlayBoxStyle.Render(m.confirm.prompt + "\n\ny: yes │ n: no"))
	}

	return renderPage(m.title(), b.String(), m.hotKeys())
}

func (m *DashboardModel) title() string {
	name := valueOrDash(m.view.State.AppName)
	if u := m.view.State.CurrentUser; u != nil {
		return strings.ToUpper(name) + " · " + u.Username
	}
	return strings.ToUpper(name)
}

func (m *DashboardModel) hotKeys() string {
	common := "tab: switch │ p: push │ e: export │ c: cloud │ g: link storage │ i: about │ o: logout │ q: quit"
	switch m.tab {
	case tabInstitutions:
		return "n: new │ enter: edit │ d: delete │ a: attach │ y: copy id\n" + common
	case tabBeneficiaries:
		return "n: new │ enter: edit │ d: delete │ y: copy id\n" + common
	default:
		return "r: mark all read\n" + common
	}
}

func (m *DashboardModel) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, title := range tabTitles {
		if i == tabNotifications {
			if unread := service.UnreadCount(m.view.State.Notifications); unread > 0 {
				title = fmt.Sprintf("%s (%d)", title, unread)
			}
		}
		if i == m.tab {
			parts = append(parts, activeTabStyle.Render(title))
		} else {
			parts = append(parts, tabStyle.Render(title))
		}
	}
	return strings.Join(parts, "   ")
}

func (m *DashboardModel) renderRow(tab, i int, line string) string {
	if i == m.cursors[tab] && tab == m.tab {
		return selectedStyle.Render(line)
	}
	return line
}

func (m *DashboardModel) renderInstitutions() string {
	list := m.view.State.Institutions
	if len(list) == 0 {
		return "No institutions yet (press n)"
	}

	rows := make([]string, 0, len(list)+1)
	rows = append(rows, helpStyle.Render(fitText("NAME", 32)+" "+fitText("DISTRICT", 18)+" "+fitText("HEAD", 20)+" DOCS"))
	for i, inst := range list {
		line := fitText(inst.Name, 32) + " " +
			fitText(valueOrDash(inst.District), 18) + " " +
			fitText(valueOrDash(inst.Head), 20) + " " +
			fmt.Sprintf("%d", len(inst.Documents))
		rows = append(rows, m.renderRow(tabInstitutions, i, line))
	}
	return strings.Join(rows, "\n")
}

func (m *DashboardModel) renderBeneficiaries() string {
	list := m.view.State.Beneficiaries
	if len(list) == 0 {
		return "No beneficiaries yet (press n)"
	}

	names := make(map[string]string, len(m.view.State.Institutions))
	for _, inst := range m.view.State.Institutions {
		names[inst.ID] = inst.Name
	}

	rows := make([]string, 0, len(list)+1)
	rows = append(rows, helpStyle.Render(fitText("NAME", 28)+" "+fitText("NIK", 18)+" "+fitText("CATEGORY", 16)+" INSTITUTION"))
	for i, b := range list {
		inst := names[b.InstitutionID]
		if inst == "" {
			inst = b.InstitutionID
		}
		line := fitText(b.Name, 28) + " " +
			fitText(valueOrDash(b.NIK), 18) + " " +
			fitText(valueOrDash(b.Category), 16) + " " +
			fitText(valueOrDash(inst), 28)
		rows = append(rows, m.renderRow(tabBeneficiaries, i, line))
	}
	return strings.Join(rows, "\n")
}

func (m *DashboardModel) renderNotifications() string {
	list := m.view.State.Notifications
	if len(list) == 0 {
		return "No notifications"
	}

	rows := make([]string, 0, len(list))
	for i, n := range list {
		line := n.Timestamp.Local().Format("2006-01-02 15:04") + "  " +
			fitText(n.Actor, 14) + " " + fitText(n.Action, 8) + " " + n.Target
		if !n.Read {
			line = unreadStyle.Render("● " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, m.renderRow(tabNotifications, i, line))
	}
	return strings.Join(rows, "\n")
}

func (m *DashboardModel) renderStatusLine() string {
	style, ok := statusStyles[m.view.Status]
	if !ok {
		style = helpStyle
	}

	parts := []string{style.Render("● " + string(m.view.Status))}
	if m.view.State.CloudConfig.ProjectID != "" {
		parts = append(parts, "project "+m.view.State.CloudConfig.ProjectID)
	} else {
		parts = append(parts, "local only")
	}
	if m.view.RemoteUpdating {
		parts = append(parts, "receiving remote changes")
	}
	if m.view.SyncMessage != "" {
		parts = append(parts, errorStyle.Render(m.view.SyncMessage))
	}

	line := strings.Join(parts, " │ ")
	if m.view.StorageBanner != "" {
		line += "\n" + bannerStyle.Render(m.view.StorageBanner)
	}
	if m.status != "" {
		if m.statusErr {
			line += "\n" + errorStyle.Render(m.status)
		} else {
			line += "\n" + m.status
		}
	}
	return line
}
