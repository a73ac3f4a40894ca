package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu  sync.Mutex
	got []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.got...)
}

type dispatcherFixture struct {
	d        *Dispatcher
	remote   *testutil.FakeRemote
	notifier *recordingNotifier
	project  *domain.Project
}

func newDispatcherFixture(t *testing.T, p *domain.Project) *dispatcherFixture {
	t.Helper()
	remote := testutil.NewFakeRemote()
	remote.AddProject(p)
	n := &recordingNotifier{}
	var seq atomic.Int64
	d := NewDispatcher(NewStore(remote), remote,
		WithNotifier(n),
		WithIDGenerator(func() string { return fmt.Sprintf("tmp-%d", seq.Add(1)) }),
	)
	require.NoError(t, d.Load(context.Background(), p.ID))
	return &dispatcherFixture{d: d, remote: remote, notifier: n, project: p}
}

func (f *dispatcherFixture) tasks() []domain.Task {
	return f.d.Store().Project().Tasks
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond)
}

func TestDispatcher_CreateTaskSuccess(t *testing.T) {
	f := newDispatcherFixture(t, testutil.NewTestProject("Alpha"))
	ctx := context.Background()

	task, err := f.d.CreateTask(ctx, domain.TaskDraft{Title: "Write release notes", Priority: domain.PriorityLow})
	require.NoError(t, err)
	assert.Equal(t, "srv-task-1", task.ID)

	tasks := f.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "srv-task-1", tasks[0].ID)
	assert.Equal(t, "Write release notes", tasks[0].Title)
	assert.Equal(t, domain.TaskTodo, tasks[0].Status)
	assert.Equal(t, domain.PriorityLow, tasks[0].Priority)
	assert.Equal(t, 0, f.d.Store().Pending())

	notes := f.notifier.all()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelSuccess, notes[0].Level)
	assert.Equal(t, "Task created successfully!", notes[0].Message)
}

func TestDispatcher_CreateTaskFailureRollsBack(t *testing.T) {
	f := newDispatcherFixture(t, testutil.NewTestProject("Alpha"))
	ctx := context.Background()
	release := f.remote.Hold(testutil.OpCreateTask)

	pending := f.d.Submit(ctx, CreateTask{Draft: domain.TaskDraft{Title: "Write release notes", Priority: domain.PriorityLow}})

	// Optimistic insert is visible while the request is in flight.
	waitFor(t, func() bool { return len(f.tasks()) == 1 })
	assert.Equal(t, "tmp-1", f.tasks()[0].ID)
	assert.True(t, f.d.Busy("tmp-1", KindCreateTask))

	release <- fmt.Errorf("%w: status 500", domain.ErrRemoteFailure)
	_, err := pending.Wait(ctx)
	require.Error(t, err)

	var merr *MutationError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, KindCreateTask, merr.Kind)
	assert.True(t, errors.Is(err, domain.ErrRemoteFailure))

	assert.Empty(t, f.tasks())
	assert.False(t, f.d.Busy("tmp-1", KindCreateTask))

	notes := f.notifier.all()
	require.Len(t, notes, 1)
	assert.Equal(t, LevelError, notes[0].Level)
	assert.Equal(t, "Failed to create task", notes[0].Message)
}

func TestDispatcher_ShapeFailureRollsBackLikeRemoteFailure(t *testing.T) {
	f := newDispatcherFixture(t, testutil.NewTestProject("Alpha"))
	ctx := context.Background()
	f.remote.FailNext(testutil.OpCreateTask, fmt.Errorf("%w: task response is not a record", domain.ErrShape))
	f.remote.FailNext(testutil.OpCreateSprint, domain.ErrShape)

	_, err := f.d.CreateTask(ctx, domain.TaskDraft{Title: "Write release notes"})
	require.Error(t, err)
	var merr *MutationError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, KindCreateTask, merr.Kind)
	assert.True(t, errors.Is(err, domain.ErrShape))
	assert.False(t, domain.IsValidation(err))

	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err = f.d.CreateSprint(ctx, domain.SprintDraft{Name: "S1", Goal: "Ship", StartDate: start, EndDate: start.AddDate(0, 0, 14)})
	assert.True(t, errors.Is(err, domain.ErrShape))

	p := f.d.Store().Project()
	assert.Empty(t, p.Tasks)
	assert.Empty(t, p.Sprints)
	assert.Zero(t, f.d.Store().Pending())

	notes := f.notifier.all()
	require.Len(t, notes, 2)
	assert.Equal(t, LevelError, notes[0].Level)
	assert.Equal(t, "Failed to create task", notes[0].Message)
	assert.Equal(t, "Failed to create sprint", notes[1].Message)
}

func TestDispatcher_CreateTaskWithoutCanonicalKeepsTempID(t *testing.T) {
	f := newDispatcherFixture(t, testutil.NewTestProject("Alpha"))
	f.remote.NoCanonical = true

	task, err := f.d.CreateTask(context.Background(), domain.TaskDraft{Title: "Write release notes"})
	require.NoError(t, err)
	assert.Equal(t, "tmp-1", task.ID)
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	require.Len(t, f.tasks(), 1)
	assert.Equal(t, "tmp-1", f.tasks()[0].ID)
}

func TestDispatcher_ValidationNeverContactsRemote(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	task := testutil.NewTestTask(p.ID, "A")
	p.Tasks = []domain.Task{task}
	f := newDispatcherFixture(t, p)
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  Command
	}{
		{"empty title", CreateTask{Draft: domain.TaskDraft{Title: "   "}}},
		{"bad priority", CreateTask{Draft: domain.TaskDraft{Title: "x", Priority: "URGENT"}}},
		{"sprint without goal", CreateSprint{Draft: domain.SprintDraft{Name: "S1"}}},
		{"unknown status", SetTaskStatus{TaskID: task.ID, Status: "BLOCKED"}},
		{"unknown task", SetTaskStatus{TaskID: "missing", Status: domain.TaskDone}},
		{"unknown sprint", AssignTaskToSprint{TaskID: task.ID, SprintID: domain.StringPtr("missing")}},
		{"empty sprint id", AssignTaskToSprint{TaskID: task.ID, SprintID: domain.StringPtr("")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.d.Dispatch(ctx, tt.cmd)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err), "got %v", err)
		})
	}

	for _, c := range f.remote.Calls() {
		assert.Equal(t, testutil.OpFetchProject, c.Op, "no write may reach the remote")
	}
	assert.Empty(t, f.notifier.all())
	assert.Equal(t, f.project.Tasks[0].Status, f.tasks()[0].Status)
}

func TestDispatcher_AssignThenUnassign(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	sp := testutil.NewTestSprint(p.ID, "Sprint 1")
	task := testutil.NewTestTask(p.ID, "A")
	p.Sprints = []domain.Sprint{sp}
	p.Tasks = []domain.Task{task}
	f := newDispatcherFixture(t, p)
	ctx := context.Background()

	require.NoError(t, f.d.AssignTaskToSprint(ctx, task.ID, domain.StringPtr(sp.ID)))
	assert.True(t, f.tasks()[0].InSprint(sp.ID))
	assert.Empty(t, UnassignedTasks(f.d.Store().Project()))

	require.NoError(t, f.d.AssignTaskToSprint(ctx, task.ID, nil))
	assert.Nil(t, f.tasks()[0].SprintID)
	assert.Len(t, UnassignedTasks(f.d.Store().Project()), 1)

	notes := f.notifier.all()
	require.Len(t, notes, 2)
	assert.Equal(t, "Task assigned to sprint successfully!", notes[0].Message)
	assert.Equal(t, "Task removed from sprint.", notes[1].Message)
	assert.Nil(t, f.remote.Project(p.ID).Tasks[0].SprintID)
}

func TestDispatcher_StatusUpdatesQueuePerTask(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	task := testutil.NewTestTask(p.ID, "A")
	p.Tasks = []domain.Task{task}
	f := newDispatcherFixture(t, p)
	ctx := context.Background()
	release := f.remote.Hold(testutil.OpUpdateTaskStatus)

	first := f.d.Submit(ctx, SetTaskStatus{TaskID: task.ID, Status: domain.TaskInProgress})
	second := f.d.Submit(ctx, SetTaskStatus{TaskID: task.ID, Status: domain.TaskDone})

	waitFor(t, func() bool { return f.remote.CallCount(testutil.OpUpdateTaskStatus) == 1 })
	assert.Equal(t, domain.TaskInProgress, f.tasks()[0].Status)
	assert.True(t, f.d.Busy(task.ID, KindSetTaskStatus))

	// The second request must not start while the first is outstanding.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, f.remote.CallCount(testutil.OpUpdateTaskStatus))

	release <- nil
	_, err := first.Wait(ctx)
	require.NoError(t, err)
	_, err = second.Wait(ctx)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskDone, f.tasks()[0].Status)
	var statuses []domain.TaskStatus
	for _, c := range f.remote.Calls() {
		if c.Op == testutil.OpUpdateTaskStatus {
			statuses = append(statuses, c.Status)
		}
	}
	assert.Equal(t, []domain.TaskStatus{domain.TaskInProgress, domain.TaskDone}, statuses)
	assert.False(t, f.d.Busy(task.ID, KindSetTaskStatus))
}

func TestDispatcher_StatusFailureRestoresPreviousStatus(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	task := testutil.NewTestTask(p.ID, "A", testutil.WithStatus(domain.TaskInProgress))
	p.Tasks = []domain.Task{task}
	f := newDispatcherFixture(t, p)
	f.remote.FailNext(testutil.OpUpdateTaskStatus, domain.ErrUnauthorized)

	err := f.d.SetTaskStatus(context.Background(), task.ID, domain.TaskDone)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Equal(t, domain.TaskInProgress, f.tasks()[0].Status)
	assert.Equal(t, "Failed to update task status", f.notifier.all()[0].Message)
}

func TestDispatcher_IndependentTasksDoNotQueue(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	a := testutil.NewTestTask(p.ID, "A")
	b := testutil.NewTestTask(p.ID, "B")
	p.Tasks = []domain.Task{a, b}
	f := newDispatcherFixture(t, p)
	ctx := context.Background()
	releaseA := f.remote.Hold(testutil.OpUpdateTaskStatus)

	pa := f.d.Submit(ctx, SetTaskStatus{TaskID: a.ID, Status: domain.TaskDone})
	waitFor(t, func() bool { return f.remote.CallCount(testutil.OpUpdateTaskStatus) == 1 })

	_, err := f.d.Dispatch(ctx, SetTaskStatus{TaskID: b.ID, Status: domain.TaskDone})
	require.NoError(t, err, "b is not blocked by a's outstanding request")

	releaseA <- errors.New("boom")
	_, err = pa.Wait(ctx)
	require.Error(t, err)

	tasks := f.tasks()
	assert.Equal(t, domain.TaskTodo, tasks[0].Status)
	assert.Equal(t, domain.TaskDone, tasks[1].Status)
}

func TestDispatcher_EditOfTemporaryTaskWaitsForCreate(t *testing.T) {
	f := newDispatcherFixture(t, testutil.NewTestProject("Alpha"))
	ctx := context.Background()
	release := f.remote.Hold(testutil.OpCreateTask)

	create := f.d.Submit(ctx, CreateTask{Draft: domain.TaskDraft{Title: "New"}})
	waitFor(t, func() bool { return len(f.tasks()) == 1 })
	tempID := f.tasks()[0].ID

	status := f.d.Submit(ctx, SetTaskStatus{TaskID: tempID, Status: domain.TaskInProgress})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, f.remote.CallCount(testutil.OpUpdateTaskStatus))

	release <- nil
	out, err := create.Wait(ctx)
	require.NoError(t, err)
	_, err = status.Wait(ctx)
	require.NoError(t, err)

	calls := f.remote.Calls()
	last := calls[len(calls)-1]
	assert.Equal(t, testutil.OpUpdateTaskStatus, last.Op)
	assert.Equal(t, out.Task.ID, last.EntityID, "edit is sent with the server id")

	tasks := f.tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, out.Task.ID, tasks[0].ID)
	assert.Equal(t, domain.TaskInProgress, tasks[0].Status)
	assert.True(t, f.d.Busy(tempID, KindSetTaskStatus) == false)
}

func TestDispatcher_AssignToSprintBeingCreated(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	task := testutil.NewTestTask(p.ID, "A")
	p.Tasks = []domain.Task{task}
	f := newDispatcherFixture(t, p)
	ctx := context.Background()
	release := f.remote.Hold(testutil.OpCreateSprint)

	create := f.d.Submit(ctx, CreateSprint{Draft: testutil.NewTestSprintDraft("Sprint 1")})
	waitFor(t, func() bool { return len(f.d.Store().Project().Sprints) == 1 })
	tempID := f.d.Store().Project().Sprints[0].ID

	assign := f.d.Submit(ctx, AssignTaskToSprint{TaskID: task.ID, SprintID: domain.StringPtr(tempID)})
	release <- nil

	out, err := create.Wait(ctx)
	require.NoError(t, err)
	_, err = assign.Wait(ctx)
	require.NoError(t, err)

	assert.True(t, f.tasks()[0].InSprint(out.Sprint.ID))
	assert.True(t, f.remote.Project(p.ID).Tasks[0].InSprint(out.Sprint.ID))
}

func TestDispatcher_CreateSprintFailure(t *testing.T) {
	f := newDispatcherFixture(t, testutil.NewTestProject("Alpha"))
	f.remote.FailNext(testutil.OpCreateSprint, domain.ErrShape)

	_, err := f.d.CreateSprint(context.Background(), testutil.NewTestSprintDraft("Sprint 1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrShape))
	assert.Empty(t, f.d.Store().Project().Sprints)
	assert.Equal(t, "Failed to create sprint", f.notifier.all()[0].Message)
}

func TestDispatcher_ResultAfterDiscardIsIgnored(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	task := testutil.NewTestTask(p.ID, "A")
	p.Tasks = []domain.Task{task}
	f := newDispatcherFixture(t, p)
	ctx := context.Background()
	release := f.remote.Hold(testutil.OpUpdateTaskStatus)

	pending := f.d.Submit(ctx, SetTaskStatus{TaskID: task.ID, Status: domain.TaskDone})
	waitFor(t, func() bool { return f.remote.CallCount(testutil.OpUpdateTaskStatus) == 1 })

	f.d.Store().Discard()
	release <- nil

	out, err := pending.Wait(ctx)
	require.NoError(t, err)
	assert.True(t, out.Discarded)
	assert.Nil(t, f.d.Store().Project())
	assert.Empty(t, f.notifier.all())
}

func TestDispatcher_CommandWithoutProject(t *testing.T) {
	remote := testutil.NewFakeRemote()
	d := NewDispatcher(NewStore(remote), remote)

	_, err := d.CreateTask(context.Background(), domain.TaskDraft{Title: "x"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, remote.Calls())
}
