package ui

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stationhub/internal/config"
	"stationhub/internal/domain"
	"stationhub/internal/eventbus"
	"stationhub/internal/ui/services/selection"
	"stationhub/internal/ui/views"
)

const (
	sendTimeout   = 5 * time.Second
	reloadTimeout = 30 * time.Second
)

type tab int

const (
	tabCommits tab = iota
	tabInstallations
)

var tabNames = []string{"Commits", "Installations"}

// InstallationReader is the read side of the installation actor
type InstallationReader interface {
	Snapshot() []domain.Installation
	Count() int
}

// ActionSender queues installation actions
type ActionSender interface {
	Send(ctx context.Context, action domain.InstallationAction) error
}

// CommitSource holds the loaded commit feed
type CommitSource interface {
	Items() []domain.Commit
	Count() int
	At(i int) (domain.Commit, bool)
	Load(ctx context.Context)
}

// Model represents the UI state
type Model struct {
	bus           eventbus.EventBus
	installations InstallationReader
	sender        ActionSender
	commits       CommitSource

	commitCtl *selection.Controller[*selection.ListState]
	instCtl   *selection.Controller[*selection.TableState]
	snapshot  []domain.Installation

	active tab
	width  int
	height int
	status string
	isErr  bool

	styles *views.Styles
	help   help.Model
	keys   keyMap

	// Program reference for terminal management
	program *tea.Program
	pager   *PagerOps
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, installations InstallationReader, sender ActionSender, commits CommitSource) *Model {
	m := &Model{
		bus:           bus,
		installations: installations,
		sender:        sender,
		commits:       commits,
		styles:        views.NewStyles(),
		help:          help.New(),
		keys:          newKeyMap(),
	}

	delegate := views.CommitDelegate{
		Styles: m.styles,
		Selected: func() (int, bool) {
			return m.commitCtl.Selected()
		},
	}
	l := list.New(nil, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	m.commitCtl = selection.NewController(selection.NewListState(l), cfg.UISettings.LoopedCommits)

	t := table.New(
		table.WithColumns(views.InstallationColumns()),
		table.WithStyles(views.TableStyles(false)),
	)
	m.instCtl = selection.NewController(selection.NewTableState(t), cfg.UISettings.LoopedInstallations)

	m.refresh()
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case statusMsg:
		m.setStatus(string(msg), false)
		return m, nil

	case pagerMsg:
		if msg.err != nil {
			log.Printf("Pager error: %v", msg.err)
			m.setStatus(fmt.Sprintf("Pager failed: %v", msg.err), true)
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		if m.active == tabCommits {
			m.active = tabInstallations
		} else {
			m.active = tabCommits
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.active != tabCommits {
			return m, nil
		}
		c, ok := m.selectedCommit()
		if !ok {
			return m, nil
		}
		return m, m.openCommitCmd(c)

	case key.Matches(msg, m.keys.Install):
		if m.active != tabInstallations {
			return m, nil
		}
		inst, ok := m.selectedInstallation()
		if !ok {
			m.setStatus("No installation selected", true)
			return m, nil
		}
		return m, m.installCmd(inst.Version)

	case key.Matches(msg, m.keys.Reload):
		m.setStatus("Loading commits...", false)
		return m, m.reloadCmd()

	case key.Matches(msg, m.keys.Rescan):
		if m.bus != nil {
			m.bus.Publish(eventbus.ScanRequestedEvent{})
		}
		return m, nil
	}

	input := m.keys.Bindings.FromKey(msg)
	if m.active == tabCommits {
		m.commitCtl.HandleInput(input, m.commits.Count())
	} else {
		m.instCtl.HandleInput(input, len(m.snapshot))
		m.syncTableStyles()
	}
	return m, nil
}

func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.InstallationsChangedEvent, eventbus.CommitsLoadedEvent:
		m.refresh()
	case eventbus.ScanStartedEvent:
		m.setStatus(fmt.Sprintf("Scanning %s...", e.Root), false)
	case eventbus.ScanCompletedEvent:
		m.setStatus(fmt.Sprintf("Scan complete: %d versions, %d new", e.VersionsFound, e.Announced), false)
	case eventbus.ErrorEvent:
		if e.Err != nil {
			m.setStatus(fmt.Sprintf("%s: %v", e.Message, e.Err), true)
		} else {
			m.setStatus(e.Message, true)
		}
	}
}

// refresh reloads rows from the commit store and the actor snapshot and
// keeps both cursors inside the new item counts
func (m *Model) refresh() {
	commitItems := m.commits.Items()
	items := make([]list.Item, len(commitItems))
	for i, c := range commitItems {
		items[i] = views.CommitItem{Commit: c}
	}
	state := m.commitCtl.State()
	state.Model.SetItems(items)
	clampSelection(m.commitCtl, len(items))

	m.snapshot = m.installations.Snapshot()
	m.instCtl.State().Model.SetRows(views.InstallationRows(m.snapshot))
	clampSelection(m.instCtl, len(m.snapshot))
	m.syncTableStyles()
}

func clampSelection[S selection.State](ctl *selection.Controller[S], n int) {
	if n == 0 {
		ctl.Unselect()
		return
	}
	idx, ok := ctl.Selected()
	switch {
	case !ok:
	case idx >= n:
		ctl.SelectLast(n)
	default:
		// new items may have moved the widget cursor
		ctl.SelectIndex(idx)
	}
}

func (m *Model) syncTableStyles() {
	_, ok := m.instCtl.Selected()
	m.instCtl.State().Model.SetStyles(views.TableStyles(ok))
}

func (m *Model) resize() {
	bodyHeight := m.height - 10
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	bodyWidth := m.width - 4
	if bodyWidth < 10 {
		bodyWidth = 10
	}

	m.commitCtl.State().Model.SetSize(bodyWidth, bodyHeight)
	clampSelection(m.commitCtl, m.commits.Count())
	t := &m.instCtl.State().Model
	t.SetWidth(bodyWidth)
	t.SetHeight(bodyHeight)
	m.help.Width = m.width
}

func (m *Model) selectedCommit() (domain.Commit, bool) {
	idx, ok := m.commitCtl.Selected()
	if !ok {
		return domain.Commit{}, false
	}
	return m.commits.At(idx)
}

func (m *Model) selectedInstallation() (domain.Installation, bool) {
	idx, ok := m.instCtl.Selected()
	if !ok || idx >= len(m.snapshot) {
		return domain.Installation{}, false
	}
	return m.snapshot[idx], true
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.isErr = isErr
}

func (m *Model) installCmd(version domain.GameVersion) tea.Cmd {
	sender := m.sender
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := sender.Send(ctx, domain.InstallAction{Version: version}); err != nil {
			log.Printf("Error queueing install of %s: %v", version, err)
			return statusMsg(fmt.Sprintf("Could not install %s: %v", version, err))
		}
		return statusMsg(fmt.Sprintf("Installing %s", version))
	}
}

func (m *Model) reloadCmd() tea.Cmd {
	commits := m.commits
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()

		before := commits.Count()
		commits.Load(ctx)
		return statusMsg(fmt.Sprintf("%d commits loaded", commits.Count()-before))
	}
}

func (m *Model) openCommitCmd(c domain.Commit) tea.Cmd {
	pager := m.pager
	content := commitPagerContent(c)
	return func() tea.Msg {
		return pagerMsg{err: pager.Show(content)}
	}
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("stationhub"))
	b.WriteString("\n")
	b.WriteString(views.RenderTabs(m.styles, tabNames, int(m.active)))
	b.WriteString("\n\n")

	switch m.active {
	case tabCommits:
		b.WriteString(m.commitsView())
	case tabInstallations:
		b.WriteString(m.installationsView())
	}

	if m.status != "" {
		style := m.styles.Status
		if m.isErr {
			style = m.styles.StatusError.MarginTop(1)
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))

	return m.styles.Main.Render(b.String())
}

func (m *Model) commitsView() string {
	if m.commits.Count() == 0 {
		return m.styles.Dim.Render("No commits loaded. Press r to reload.")
	}

	body := m.commitCtl.State().Model.View()
	if c, ok := m.selectedCommit(); ok {
		body = lipgloss.JoinVertical(lipgloss.Left, body, views.RenderCommitDetails(m.styles, c, m.width-4))
	}
	return body
}

func (m *Model) installationsView() string {
	if len(m.snapshot) == 0 {
		return m.styles.Dim.Render("No installations yet. Press s to scan for builds.")
	}

	body := m.instCtl.State().Model.View()
	if inst, ok := m.selectedInstallation(); ok {
		body = lipgloss.JoinVertical(lipgloss.Left, body, views.RenderInstallationDetails(m.styles, inst))
	}
	return body
}
