// Package tui is the interactive Bubble Tea front-end over the inventory
// service. It owns no logic: every action maps onto one controller method,
// and every controller result comes back as a message.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/w365ops/cloudpcctl/internal/core/domain"
	"github.com/w365ops/cloudpcctl/internal/core/ports/driving"
)

// mode is the current input mode.
type mode int

const (
	modeBrowse mode = iota
	modeFilter
	modeConfirm
)

// Messages produced by controller calls.
type (
	refreshedMsg struct {
		records []domain.CloudPC
		err     error
	}
	filteredMsg struct {
		records []domain.CloudPC
		err     error
	}
	deprovisionedMsg struct {
		name string
		err  error
	}
	exportedMsg struct {
		path string
		rows int
		err  error
	}
)

// Model is the Bubble Tea model for the Cloud PC browser.
type Model struct {
	svc driving.InventoryService

	table       table.Model
	filterInput textinput.Model

	mode    mode
	visible []domain.CloudPC
	target  domain.CloudPC
	status  string
	isErr   bool
	width   int
	height  int
}

// New creates the initial model.
func New(svc driving.InventoryService) Model {
	ti := textinput.New()
	ti.Placeholder = "filter by id, name, user, status, or plan"
	ti.CharLimit = 80

	tbl := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	return Model{
		svc:         svc,
		table:       tbl,
		filterInput: ti,
		status:      "loading...",
	}
}

// Run starts the TUI program.
func Run(svc driving.InventoryService) error {
	p := tea.NewProgram(New(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init triggers the first refresh.
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(msg.Height-6, 3))
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			// Prior rows stay on screen: stale-but-present beats blank.
			return m.withError(msg.err), nil
		}
		m.filterInput.SetValue("")
		return m.withRecords(msg.records, "refreshed"), nil

	case filteredMsg:
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		return m.withRecords(msg.records, ""), nil

	case deprovisionedMsg:
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		m.status = fmt.Sprintf("grace period ended for %s", msg.name)
		m.isErr = false
		// The controller already refreshed and cleared its filter;
		// pull its state and drop the stale filter text with it.
		m.filterInput.SetValue("")
		return m.withRecords(m.svc.Visible(), m.status), nil

	case exportedMsg:
		if msg.err != nil {
			return m.withError(msg.err), nil
		}
		m.status = fmt.Sprintf("exported %d rows to %s", msg.rows, msg.path)
		m.isErr = false
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeFilter:
			return m.updateFilter(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// updateBrowse handles keys in the normal browsing mode.
func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "r":
		m.status = "refreshing..."
		m.isErr = false
		return m, m.refreshCmd()

	case "/":
		m.mode = modeFilter
		m.filterInput.Focus()
		return m, textinput.Blink

	case "e":
		return m, m.exportCmd()

	case "c":
		if pc, ok := m.selected(); ok {
			if err := clipboard.WriteAll(pc.ID); err != nil {
				return m.withError(fmt.Errorf("copy to clipboard: %w", err)), nil
			}
			m.status = fmt.Sprintf("copied %s", pc.ID)
			m.isErr = false
		}
		return m, nil

	case "d":
		pc, ok := m.selected()
		if !ok {
			return m, nil
		}
		if !pc.InGracePeriod() {
			m.status = fmt.Sprintf("%s is %s, only devices in grace period can be deprovisioned",
				pc.ManagedDeviceName, pc.Status)
			m.isErr = true
			return m, nil
		}
		m.mode = modeConfirm
		m.target = pc
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// updateFilter handles keys while the filter input is focused. Every change
// of the text re-applies the filter through the controller.
func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.mode = modeBrowse
		m.filterInput.Blur()
		return m, nil
	}

	before := m.filterInput.Value()
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)

	if after := m.filterInput.Value(); after != before {
		return m, tea.Batch(cmd, m.filterCmd(after))
	}
	return m, cmd
}

// updateConfirm handles the deprovision confirmation dialog.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = modeBrowse
		m.status = fmt.Sprintf("deprovisioning %s...", m.target.ManagedDeviceName)
		m.isErr = false
		return m, m.deprovisionCmd(m.target)
	case "n", "N", "esc":
		m.mode = modeBrowse
		m.status = "cancelled"
		m.isErr = false
		return m, nil
	}
	return m, nil
}

// View renders the screen.
func (m Model) View() string {
	title := titleStyle.Render("cloudpcctl")

	counts := fmt.Sprintf("%d cloud pcs, %d in grace period",
		len(m.svc.All()), m.svc.GraceCount())

	filterLine := ""
	if m.mode == modeFilter || m.filterInput.Value() != "" {
		filterLine = "filter: " + m.filterInput.View() + "\n"
	}

	status := m.status
	style := statusBarStyle
	if m.isErr {
		style = errorStyle
	}

	view := fmt.Sprintf("%s  %s\n\n%s\n%s%s\n%s",
		title,
		statusBarStyle.Render(counts),
		m.table.View(),
		filterLine,
		style.Render(status),
		helpStyle.Render("r refresh · / filter · d deprovision · e export · c copy id · q quit"),
	)

	if m.mode == modeConfirm {
		dialog := confirmStyle.Render(fmt.Sprintf(
			"End the grace period of %s?\n(user %s, ends %s)\n\nThis permanently deprovisions the Cloud PC.\n\n[y] yes  [n] no",
			m.target.ManagedDeviceName, m.target.UserPrincipalName, m.target.GraceEndDisplay(),
		))
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
	}

	return view
}

// selected returns the record under the cursor.
func (m Model) selected() (domain.CloudPC, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return domain.CloudPC{}, false
	}
	return m.visible[idx], true
}

// withRecords replaces the table rows.
func (m Model) withRecords(records []domain.CloudPC, status string) Model {
	m.visible = records
	rows := make([]table.Row, 0, len(records))
	for i := range records {
		pc := &records[i]
		statusCell := pc.Status
		if pc.InGracePeriod() {
			statusCell = graceStyle.Render(pc.Status)
		}
		rows = append(rows, table.Row{
			pc.ManagedDeviceName,
			pc.UserPrincipalName,
			statusCell,
			pc.ServicePlanName,
			pc.GraceEndDisplay(),
		})
	}
	m.table.SetRows(rows)
	if status != "" {
		m.status = status
		m.isErr = false
	}
	return m
}

// withError puts the error in the status bar without touching the rows.
func (m Model) withError(err error) Model {
	m.status = err.Error()
	m.isErr = true
	return m
}

// columns sizes the table to the terminal width.
func columns(width int) []table.Column {
	name := max(width/4, 16)
	user := max(width/4, 16)
	status := 22
	plan := max(width/5, 14)
	grace := 20
	return []table.Column{
		{Title: "Name", Width: name},
		{Title: "User", Width: user},
		{Title: "Status", Width: status},
		{Title: "Plan", Width: plan},
		{Title: "Grace ends", Width: grace},
	}
}

// Controller calls run off the UI goroutine and come back as messages.
// Each one blocks on at most one network round trip.

func (m Model) refreshCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		records, err := svc.Refresh(ctx)
		return refreshedMsg{records: records, err: err}
	}
}

func (m Model) filterCmd(text string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		records, err := svc.SetFilter(ctx, text)
		return filteredMsg{records: records, err: err}
	}
}

func (m Model) deprovisionCmd(pc domain.CloudPC) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		err := svc.Deprovision(ctx, pc.ID)
		return deprovisionedMsg{name: pc.ManagedDeviceName, err: err}
	}
}

func (m Model) exportCmd() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		path := fmt.Sprintf("cloudpcs-%s.csv", time.Now().Format("20060102-150405"))
		rows, err := svc.ExportFile(path)
		return exportedMsg{path: path, rows: rows, err: err}
	}
}
