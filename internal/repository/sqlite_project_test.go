package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeamRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTeamRepo(db)
	ctx := context.Background()

	team := testutil.NewTestTeam("Platform", "u1", "u2")
	require.NoError(t, repo.Create(ctx, team))

	fetched, err := repo.GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Platform", fetched.Name)
	assert.Equal(t, "Platform team", fetched.Description)
	require.Len(t, fetched.Members, 2)
	assert.Equal(t, domain.TeamMember{UserID: "u1", Role: domain.RoleOwner}, fetched.Members[0])
	assert.Equal(t, domain.RoleMember, fetched.Members[1].Role)
}

func TestTeamRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := NewSQLiteTeamRepo(db).GetByID(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTeamRepo_MembershipLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteTeamRepo(db)
	ctx := context.Background()

	a := testutil.NewTestTeam("A", "u1")
	b := testutil.NewTestTeam("B", "u2")
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	require.NoError(t, repo.AddMember(ctx, b.ID, domain.TeamMember{UserID: "u1"}))
	// Re-adding changes the role instead of failing.
	require.NoError(t, repo.AddMember(ctx, b.ID, domain.TeamMember{UserID: "u1", Role: domain.RoleOwner}))

	ids, err := repo.ListIDsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids)

	fetched, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Members, 2)
	assert.Equal(t, domain.RoleOwner, fetched.Members[1].Role)

	none, err := repo.ListIDsByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProjectRepo_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	team := testutil.NewTestTeam("Core")
	require.NoError(t, NewSQLiteTeamRepo(db).Create(ctx, team))
	repo := NewSQLiteProjectRepo(db)

	p1 := testutil.NewTestProject("Alpha", testutil.WithTeamID(team.ID))
	p2 := testutil.NewTestProject("Beta", testutil.WithTeamID(team.ID))
	require.NoError(t, repo.Create(ctx, p1))
	require.NoError(t, repo.Create(ctx, p2))

	fetched, err := repo.GetByID(ctx, p1.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", fetched.Name)
	assert.Equal(t, team.ID, fetched.TeamID)
	assert.True(t, p1.CreatedAt.Equal(fetched.CreatedAt))

	list, err := repo.ListByTeam(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
	assert.Equal(t, "Beta", list[1].Name)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestProjectRepo_RequiresTeam(t *testing.T) {
	db := testutil.NewTestDB(t)
	p := testutil.NewTestProject("Orphan")
	assert.Error(t, NewSQLiteProjectRepo(db).Create(context.Background(), p))
}

func TestSprintRepo_CreateListDelete(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := seedProject(t, db)
	repo := NewSQLiteSprintRepo(db)

	s1 := testutil.NewTestSprint(proj.ID, "Sprint 1")
	s2 := testutil.NewTestSprint(proj.ID, "Sprint 2")
	require.NoError(t, repo.Create(ctx, &s1))
	require.NoError(t, repo.Create(ctx, &s2))

	list, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Sprint 1", list[0].Name)
	assert.Equal(t, s1.Goal, list[0].Goal)
	assert.Equal(t, s1.StartDate.Format("2006-01-02"), list[0].StartDate.Format("2006-01-02"))
	assert.Equal(t, s1.EndDate.Format("2006-01-02"), list[0].EndDate.Format("2006-01-02"))

	require.NoError(t, repo.Delete(ctx, s1.ID))
	_, err = repo.GetByID(ctx, s1.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, s1.ID), domain.ErrNotFound))
}

func TestTaskRepo_Lifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := seedProject(t, db)
	sprints := NewSQLiteSprintRepo(db)
	repo := NewSQLiteTaskRepo(db)

	sp := testutil.NewTestSprint(proj.ID, "Sprint 1")
	require.NoError(t, sprints.Create(ctx, &sp))

	task := testutil.NewTestTask(proj.ID, "Write docs", testutil.WithPriority(domain.PriorityHigh))
	require.NoError(t, repo.Create(ctx, &task))

	fetched, err := repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write docs", fetched.Title)
	assert.Equal(t, domain.TaskTodo, fetched.Status)
	assert.Equal(t, domain.PriorityHigh, fetched.Priority)
	assert.Nil(t, fetched.SprintID)

	require.NoError(t, repo.UpdateStatus(ctx, task.ID, domain.TaskInProgress))
	require.NoError(t, repo.SetSprint(ctx, task.ID, domain.StringPtr(sp.ID)))
	fetched, err = repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskInProgress, fetched.Status)
	assert.True(t, fetched.InSprint(sp.ID))

	// Deleting the sprint leaves the reference dangling.
	require.NoError(t, sprints.Delete(ctx, sp.ID))
	fetched, err = repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, fetched.InSprint(sp.ID))

	require.NoError(t, repo.SetSprint(ctx, task.ID, nil))
	fetched, err = repo.GetByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched.SprintID)

	assert.True(t, errors.Is(repo.UpdateStatus(ctx, "missing", domain.TaskDone), domain.ErrNotFound))
	assert.True(t, errors.Is(repo.SetSprint(ctx, "missing", nil), domain.ErrNotFound))
}

func TestTaskRepo_ListKeepsInsertionOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	proj := seedProject(t, db)
	repo := NewSQLiteTaskRepo(db)

	for _, title := range []string{"c", "a", "b"} {
		task := testutil.NewTestTask(proj.ID, title)
		require.NoError(t, repo.Create(ctx, &task))
	}
	list, err := repo.ListByProject(ctx, proj.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].Title)
	assert.Equal(t, "a", list[1].Title)
	assert.Equal(t, "b", list[2].Title)
}
