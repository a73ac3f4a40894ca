package board

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedStore(t *testing.T, p *domain.Project) (*Store, *testutil.FakeRemote) {
	t.Helper()
	remote := testutil.NewFakeRemote()
	remote.AddProject(p)
	s := NewStore(remote)
	require.NoError(t, s.Load(context.Background(), p.ID))
	return s, remote
}

func TestStore_LoadReplacesAggregate(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	p.Tasks = []domain.Task{testutil.NewTestTask(p.ID, "A")}
	s, _ := loadedStore(t, p)

	got := s.Project()
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
	assert.Len(t, got.Tasks, 1)
	assert.Equal(t, p.ID, s.ProjectID())
}

func TestStore_LoadNotFound(t *testing.T) {
	s := NewStore(testutil.NewFakeRemote())
	err := s.Load(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Nil(t, s.Project())
	assert.Equal(t, "", s.ProjectID())
}

func TestStore_ProjectReturnsCopy(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	p.Tasks = []domain.Task{testutil.NewTestTask(p.ID, "A")}
	s, _ := loadedStore(t, p)

	got := s.Project()
	got.Tasks[0].Title = "changed"
	assert.Equal(t, "A", s.Project().Tasks[0].Title)
}

func TestStore_ApplyThenRollbackRestoresState(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	sp := testutil.NewTestSprint(p.ID, "Sprint 1")
	task := testutil.NewTestTask(p.ID, "A")
	p.Sprints = []domain.Sprint{sp}
	p.Tasks = []domain.Task{task}
	s, _ := loadedStore(t, p)
	before := s.Project()

	id, err := s.ApplyLocal(UpdateTaskSprint{TaskID: task.ID, SprintID: domain.StringPtr(sp.ID)})
	require.NoError(t, err)
	assert.True(t, s.Project().Tasks[0].InSprint(sp.ID))
	assert.Equal(t, 1, s.Pending())

	assert.True(t, s.Rollback(id))
	assert.Equal(t, before, s.Project())
	assert.Equal(t, 0, s.Pending())
}

func TestStore_CommitAndRollbackAreIdempotent(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	task := testutil.NewTestTask(p.ID, "A")
	p.Tasks = []domain.Task{task}
	s, _ := loadedStore(t, p)

	id, err := s.ApplyLocal(UpdateTaskStatus{TaskID: task.ID, Status: domain.TaskDone})
	require.NoError(t, err)

	assert.True(t, s.Commit(id))
	assert.False(t, s.Commit(id), "second commit is a no-op")
	assert.False(t, s.Rollback(id), "rollback after commit is a no-op")
	assert.Equal(t, domain.TaskDone, s.Project().Tasks[0].Status)

	id2, err := s.ApplyLocal(UpdateTaskStatus{TaskID: task.ID, Status: domain.TaskTodo})
	require.NoError(t, err)
	assert.True(t, s.Rollback(id2))
	assert.False(t, s.Commit(id2), "commit after rollback is a no-op")
	assert.Equal(t, domain.TaskDone, s.Project().Tasks[0].Status)
}

func TestStore_RollbackKeepsIndependentMutation(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	a := testutil.NewTestTask(p.ID, "A")
	b := testutil.NewTestTask(p.ID, "B")
	p.Tasks = []domain.Task{a, b}
	s, _ := loadedStore(t, p)

	first, err := s.ApplyLocal(UpdateTaskStatus{TaskID: a.ID, Status: domain.TaskInProgress})
	require.NoError(t, err)
	_, err = s.ApplyLocal(UpdateTaskStatus{TaskID: b.ID, Status: domain.TaskDone})
	require.NoError(t, err)

	require.True(t, s.Rollback(first))

	got := s.Project()
	assert.Equal(t, domain.TaskTodo, got.Tasks[0].Status)
	assert.Equal(t, domain.TaskDone, got.Tasks[1].Status, "later mutation on another task survives")
	assert.Equal(t, 1, s.Pending())
}

func TestStore_RollbackOfCreateDropsDependentEdit(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	s, _ := loadedStore(t, p)

	tmp := testutil.NewTestTask(p.ID, "temp", testutil.WithTaskID("tmp-1"))
	create, err := s.ApplyLocal(InsertTask{Task: tmp})
	require.NoError(t, err)
	_, err = s.ApplyLocal(UpdateTaskStatus{TaskID: "tmp-1", Status: domain.TaskDone})
	require.NoError(t, err)

	require.True(t, s.Rollback(create))
	assert.Empty(t, s.Project().Tasks)
}

func TestStore_ResolveReplacesInPlace(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	first := testutil.NewTestTask(p.ID, "first")
	p.Tasks = []domain.Task{first}
	s, _ := loadedStore(t, p)

	tmp := testutil.NewTestTask(p.ID, "new", testutil.WithTaskID("tmp-1"))
	id, err := s.ApplyLocal(InsertTask{Task: tmp})
	require.NoError(t, err)
	last := testutil.NewTestTask(p.ID, "last", testutil.WithTaskID("tmp-2"))
	_, err = s.ApplyLocal(InsertTask{Task: last})
	require.NoError(t, err)

	server := tmp
	server.ID = "srv-1"
	require.True(t, s.Resolve(id, Canonical{Task: &server}))

	got := s.Project()
	require.Len(t, got.Tasks, 3)
	assert.Equal(t, first.ID, got.Tasks[0].ID)
	assert.Equal(t, "srv-1", got.Tasks[1].ID, "canonical record keeps the optimistic position")
	assert.Equal(t, "tmp-2", got.Tasks[2].ID)
}

func TestStore_ConfirmedTaskWithDanglingSprintSurvivesRollback(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	other := testutil.NewTestTask(p.ID, "other")
	p.Tasks = []domain.Task{other}
	s, _ := loadedStore(t, p)

	tmp := testutil.NewTestTask(p.ID, "new", testutil.WithTaskID("tmp-1"))
	create, err := s.ApplyLocal(InsertTask{Task: tmp})
	require.NoError(t, err)

	server := tmp
	server.ID = "srv-1"
	server.SprintID = domain.StringPtr("deleted-sprint")
	require.True(t, s.Resolve(create, Canonical{Task: &server}))
	require.Len(t, s.Project().Tasks, 2)

	edit, err := s.ApplyLocal(UpdateTaskStatus{TaskID: other.ID, Status: domain.TaskDone})
	require.NoError(t, err)
	require.True(t, s.Rollback(edit))

	got := s.Project()
	require.Len(t, got.Tasks, 2, "server-confirmed task is kept")
	confirmed, ok := got.TaskByID("srv-1")
	require.True(t, ok)
	assert.Equal(t, "deleted-sprint", *confirmed.SprintID)
	assert.Equal(t, domain.TaskTodo, got.Tasks[0].Status)
	assert.Zero(t, s.Pending())

	unassigned := UnassignedTasks(got)
	assert.Len(t, unassigned, 2, "dangling sprint reference renders as unassigned")
}

func TestStore_FoldLogsMutationThatNoLongerFits(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	s, _ := loadedStore(t, p)
	var buf bytes.Buffer
	s.setLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	first, err := s.ApplyLocal(InsertTask{Task: testutil.NewTestTask(p.ID, "a", testutil.WithTaskID("tmp-1"))})
	require.NoError(t, err)
	second, err := s.ApplyLocal(InsertTask{Task: testutil.NewTestTask(p.ID, "b", testutil.WithTaskID("tmp-2"))})
	require.NoError(t, err)

	// The server hands back the same id for both creates.
	dup := testutil.NewTestTask(p.ID, "a", testutil.WithTaskID("srv-1"))
	require.True(t, s.Resolve(second, Canonical{Task: &dup}))
	require.True(t, s.Resolve(first, Canonical{Task: &dup}))

	assert.Contains(t, buf.String(), "committed mutation does not fit confirmed state")
	assert.Zero(t, s.Pending())
}

func TestStore_ApplyLocalRejectsUnknownTask(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	s, _ := loadedStore(t, p)

	_, err := s.ApplyLocal(UpdateTaskStatus{TaskID: "nope", Status: domain.TaskDone})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 0, s.Pending())
}

func TestStore_ApplyLocalRequiresLoadedProject(t *testing.T) {
	s := NewStore(testutil.NewFakeRemote())
	_, err := s.ApplyLocal(UpdateTaskStatus{TaskID: "x", Status: domain.TaskDone})
	assert.True(t, domain.IsValidation(err))
}

func TestStore_DiscardIgnoresLateResults(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	task := testutil.NewTestTask(p.ID, "A")
	p.Tasks = []domain.Task{task}
	s, _ := loadedStore(t, p)

	id, err := s.ApplyLocal(UpdateTaskStatus{TaskID: task.ID, Status: domain.TaskDone})
	require.NoError(t, err)
	gen := s.Generation()

	s.Discard()
	assert.NotEqual(t, gen, s.Generation())
	assert.Nil(t, s.Project())
	assert.False(t, s.Commit(id))
	assert.False(t, s.Rollback(id))
}

func TestStore_ReloadForgetsPendingSnapshots(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	task := testutil.NewTestTask(p.ID, "A")
	p.Tasks = []domain.Task{task}
	s, _ := loadedStore(t, p)

	id, err := s.ApplyLocal(UpdateTaskStatus{TaskID: task.ID, Status: domain.TaskDone})
	require.NoError(t, err)
	require.NoError(t, s.Load(context.Background(), p.ID))

	assert.False(t, s.Rollback(id))
	assert.Equal(t, domain.TaskTodo, s.Project().Tasks[0].Status)
}

func TestStore_OnChangeFires(t *testing.T) {
	p := testutil.NewTestProject("Alpha")
	task := testutil.NewTestTask(p.ID, "A")
	p.Tasks = []domain.Task{task}
	s, _ := loadedStore(t, p)

	calls := 0
	s.OnChange(func() {
		calls++
		_ = s.Project()
	})
	id, err := s.ApplyLocal(UpdateTaskStatus{TaskID: task.ID, Status: domain.TaskDone})
	require.NoError(t, err)
	s.Commit(id)
	assert.Equal(t, 2, calls)
}
