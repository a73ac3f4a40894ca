package roster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userIn(teams ...*domain.Team) *domain.User {
	u := &domain.User{ID: "u1", DisplayName: "Ada"}
	for _, t := range teams {
		u.Memberships = append(u.Memberships, domain.TeamMembership{TeamID: t.ID})
	}
	return u
}

func TestStore_LoadKeepsMembershipOrder(t *testing.T) {
	remote := testutil.NewFakeRemote()
	var teams []*domain.Team
	for i := 0; i < 6; i++ {
		team := testutil.NewTestTeam(fmt.Sprintf("Team %d", i), "u1")
		remote.AddTeam(team)
		teams = append(teams, team)
	}
	remote.SetUser(userIn(teams...), nil)

	s := NewStore(remote, nil)
	s.SetFetchLimit(2)
	r, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Teams, 6)
	for i, team := range r.Teams {
		assert.Equal(t, teams[i].ID, team.ID)
	}
	assert.Empty(t, r.Warnings)
	assert.Equal(t, "Ada", r.User.DisplayName)
}

func TestStore_SkipsMissingTeam(t *testing.T) {
	remote := testutil.NewFakeRemote()
	a := testutil.NewTestTeam("A", "u1")
	gone := testutil.NewTestTeam("Gone", "u1")
	c := testutil.NewTestTeam("C", "u1")
	remote.AddTeam(a)
	remote.AddTeam(c)
	remote.SetUser(userIn(a, gone, c), nil)

	var logs bytes.Buffer
	s := NewStore(remote, slog.New(slog.NewTextHandler(&logs, nil)))
	r, err := s.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, r.Teams, 2)
	assert.Equal(t, "A", r.Teams[0].Name)
	assert.Equal(t, "C", r.Teams[1].Name)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, gone.ID, r.Warnings[0].TeamID)
	assert.True(t, errors.Is(r.Warnings[0].Err, domain.ErrNotFound))
	assert.Contains(t, logs.String(), "team skipped")
	assert.Contains(t, logs.String(), gone.ID)
}

func TestStore_SkipsFailingTeam(t *testing.T) {
	remote := testutil.NewFakeRemote()
	a := testutil.NewTestTeam("A", "u1")
	b := testutil.NewTestTeam("B", "u1")
	remote.AddTeam(a)
	remote.AddTeam(b)
	remote.SetTeamError(a.ID, domain.ErrRemoteFailure)
	remote.SetUser(userIn(a, b), nil)

	r, err := NewStore(remote, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Teams, 1)
	assert.Equal(t, "B", r.Teams[0].Name)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0].String(), a.ID)
}

func TestStore_UserFailureIsFatal(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.SetUser(nil, domain.ErrUnauthorized)

	_, err := NewStore(remote, nil).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRosterUnavailable))
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.Equal(t, 0, remote.CallCount(testutil.OpFetchTeam))
}

func TestStore_CacheAndRefresh(t *testing.T) {
	remote := testutil.NewFakeRemote()
	a := testutil.NewTestTeam("A", "u1")
	remote.AddTeam(a)
	remote.SetUser(userIn(a, a), nil)

	s := NewStore(remote, nil)
	r, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, r.Teams, 1, "duplicate memberships collapse")
	assert.Equal(t, 1, remote.CallCount(testutil.OpFetchTeam))

	cached, ok := s.Team(a.ID)
	require.True(t, ok)
	assert.Equal(t, "A", cached.Name)

	_, err = s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, remote.CallCount(testutil.OpFetchTeam), "second load is served from cache")

	_, err = s.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, remote.CallCount(testutil.OpFetchTeam))

	_, ok = s.Team("unknown")
	assert.False(t, ok)
}

func TestStore_NoMemberships(t *testing.T) {
	remote := testutil.NewFakeRemote()
	remote.SetUser(&domain.User{ID: "u1"}, nil)

	r, err := NewStore(remote, nil).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, r.Teams)
	assert.Empty(t, r.Warnings)
}
