package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/board"
	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const toastTTL = 4 * time.Second

type boardTab int

const (
	tabBoard boardTab = iota
	tabSprints
)

type formKind int

const (
	formNone formKind = iota
	formTask
	formSprint
	formAssign
)

// commandDoneMsg reports a resolved dispatcher command.
type commandDoneMsg struct {
	out board.Outcome
	err error
}

type reloadedMsg struct{ err error }

type clearToastMsg struct{ seq int }

// boardModel is the interactive project board. Edits go through the
// dispatcher; the model only re-reads the store when it reports a change.
type boardModel struct {
	ctx    context.Context
	d      *board.Dispatcher
	bridge *eventBridge
	keys   boardKeyMap
	help   help.Model
	now    func() time.Time

	project *domain.Project
	tab     boardTab
	col     int
	row     int

	width  int
	height int

	form         *huh.Form
	formKind     formKind
	taskValues   taskFormValues
	sprintValues sprintFormValues
	assignValue  string
	assignTaskID string

	toast    *board.Notification
	toastSeq int
}

func newBoardModel(ctx context.Context, d *board.Dispatcher, bridge *eventBridge) *boardModel {
	return &boardModel{
		ctx:     ctx,
		d:       d,
		bridge:  bridge,
		keys:    newBoardKeyMap(),
		help:    help.New(),
		now:     time.Now,
		project: d.Store().Project(),
	}
}

func (m *boardModel) Init() tea.Cmd {
	return m.bridge.wait()
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case storeChangedMsg:
		m.refresh()
		return m, m.bridge.wait()

	case toastMsg:
		m.refresh()
		return m, tea.Batch(m.bridge.wait(), m.showToast(msg.n))

	case clearToastMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case commandDoneMsg:
		// Remote failures were already surfaced by the dispatcher's notifier.
		if msg.err != nil && domain.IsValidation(msg.err) {
			return m, m.showToast(board.Notification{Level: board.LevelError, Message: "Change rejected", Err: msg.err})
		}
		return m, nil

	case reloadedMsg:
		if msg.err != nil && !errors.Is(msg.err, board.ErrSuperseded) {
			return m, m.showToast(board.Notification{Level: board.LevelError, Message: "Failed to reload project", Err: msg.err})
		}
		m.refresh()
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	if k, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(k)
	}
	return m, nil
}

func (m *boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Tab):
		if m.tab == tabBoard {
			m.tab = tabSprints
		} else {
			m.tab = tabBoard
		}
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.clamp()
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(domain.TaskStatuses)-1 {
			m.col++
			m.clamp()
		}
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Down):
		m.row++
		m.clamp()
	case key.Matches(msg, m.keys.Advance):
		return m, m.moveSelected(1)
	case key.Matches(msg, m.keys.Retreat):
		return m, m.moveSelected(-1)
	case key.Matches(msg, m.keys.NewTask):
		m.taskValues = taskFormValues{}
		return m, m.openForm(formTask, newTaskForm(&m.taskValues))
	case key.Matches(msg, m.keys.NewSprint):
		m.sprintValues = sprintFormValues{}
		return m, m.openForm(formSprint, newSprintForm(&m.sprintValues, m.now()))
	case key.Matches(msg, m.keys.Assign):
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.assignTaskID = t.ID
		return m, m.openForm(formAssign, newAssignForm(m.project, t, &m.assignValue))
	case key.Matches(msg, m.keys.Reload):
		return m, m.reload()
	}
	return m, nil
}

func (m *boardModel) openForm(kind formKind, f *huh.Form) tea.Cmd {
	m.form = f
	m.formKind = kind
	return f.Init()
}

func (m *boardModel) closeForm() {
	m.form = nil
	m.formKind = formNone
}

func (m *boardModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		submit := m.completeForm()
		m.closeForm()
		return m, tea.Batch(cmd, submit)
	case huh.StateAborted:
		m.closeForm()
		return m, cmd
	}
	return m, cmd
}

// completeForm turns the finished dialog into a dispatcher command.
func (m *boardModel) completeForm() tea.Cmd {
	switch m.formKind {
	case formTask:
		return m.submit(board.CreateTask{Draft: m.taskValues.draft()})
	case formSprint:
		draft, err := m.sprintValues.draft()
		if err != nil {
			return m.showToast(board.Notification{Level: board.LevelError, Message: "Change rejected", Err: err})
		}
		return m.submit(board.CreateSprint{Draft: draft})
	case formAssign:
		var sprintID *string
		if m.assignValue != noSprint {
			sprintID = domain.StringPtr(m.assignValue)
		}
		return m.submit(board.AssignTaskToSprint{TaskID: m.assignTaskID, SprintID: sprintID})
	}
	return nil
}

// moveSelected shifts the selected task delta columns along the status
// sequence.
func (m *boardModel) moveSelected(delta int) tea.Cmd {
	t, ok := m.selectedTask()
	if !ok {
		return nil
	}
	next := nextStatus(t.Status, delta)
	if next == t.Status {
		return nil
	}
	return m.submit(board.SetTaskStatus{TaskID: t.ID, Status: next})
}

func nextStatus(s domain.TaskStatus, delta int) domain.TaskStatus {
	for i, st := range domain.TaskStatuses {
		if st != s {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(domain.TaskStatuses) {
			return s
		}
		return domain.TaskStatuses[j]
	}
	return s
}

// submit registers cmd immediately so key order is dispatch order, then
// waits for it off the update loop.
func (m *boardModel) submit(cmd board.Command) tea.Cmd {
	ctx := m.ctx
	p := m.d.Submit(ctx, cmd)
	return func() tea.Msg {
		out, err := p.Wait(ctx)
		return commandDoneMsg{out: out, err: err}
	}
}

func (m *boardModel) reload() tea.Cmd {
	ctx, d := m.ctx, m.d
	projectID := d.Store().ProjectID()
	return func() tea.Msg {
		return reloadedMsg{err: d.Load(ctx, projectID)}
	}
}

func (m *boardModel) showToast(n board.Notification) tea.Cmd {
	m.toast = &n
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return clearToastMsg{seq: seq} })
}

func (m *boardModel) refresh() {
	m.project = m.d.Store().Project()
	m.clamp()
}

func (m *boardModel) columnTasks() []domain.Task {
	if m.project == nil {
		return nil
	}
	return board.ColumnsByStatus(m.project).ByStatus(domain.TaskStatuses[m.col])
}

func (m *boardModel) clamp() {
	n := len(m.columnTasks())
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

func (m *boardModel) selectedTask() (domain.Task, bool) {
	tasks := m.columnTasks()
	if m.row < len(tasks) {
		return tasks[m.row], true
	}
	return domain.Task{}, false
}

func (m *boardModel) View() string {
	if m.project == nil {
		return formatter.Dim("No project loaded") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.headerView() + "\n\n")

	switch {
	case m.form != nil:
		b.WriteString(formatter.RenderBox(m.formTitle(), m.form.View()))
	case m.tab == tabSprints:
		b.WriteString(formatter.FormatSprints(m.project, m.now()))
	default:
		b.WriteString(m.columnsView())
	}

	b.WriteString("\n\n")
	if m.toast != nil {
		b.WriteString(renderToast(*m.toast) + "\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *boardModel) headerView() string {
	tabs := []string{"Board", "Sprints"}
	for i, t := range tabs {
		if boardTab(i) == m.tab {
			tabs[i] = formatter.StyleHeader.Render("[" + t + "]")
		} else {
			tabs[i] = formatter.Dim(" " + t + " ")
		}
	}
	line := formatter.Bold(m.project.Name) + "  " + strings.Join(tabs, " ")
	if n := m.d.Store().Pending(); n > 0 {
		line += "  " + formatter.StyleYellow.Render(fmt.Sprintf("%d saving…", n))
	}
	return line
}

func (m *boardModel) columnsView() string {
	width := 32
	if m.width > 0 {
		width = max(24, (m.width-6)/len(domain.TaskStatuses))
	}
	cols := board.ColumnsByStatus(m.project)
	selected := ""
	if t, ok := m.selectedTask(); ok {
		selected = t.ID
	}
	panels := make([]string, 0, len(domain.TaskStatuses))
	for _, s := range domain.TaskStatuses {
		panels = append(panels, formatter.RenderColumn(m.project, s, cols.ByStatus(s), width, selected))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

func (m *boardModel) formTitle() string {
	switch m.formKind {
	case formTask:
		return "New task"
	case formSprint:
		return "New sprint"
	case formAssign:
		return "Assign to sprint"
	}
	return ""
}
