// Package roster loads the teams the current user belongs to.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"golang.org/x/sync/errgroup"
)

// ErrRosterUnavailable means the membership list itself could not be
// loaded. Per-team failures never produce it.
var ErrRosterUnavailable = errors.New("team roster unavailable")

// Source is the part of the remote service the roster needs.
type Source interface {
	FetchCurrentUser(ctx context.Context) (*domain.User, error)
	FetchTeam(ctx context.Context, teamID string) (*domain.Team, error)
}

// Warning is a team that could not be loaded and was left out.
type Warning struct {
	TeamID string
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("team %s skipped: %v", w.TeamID, w.Err)
}

// Roster is the user plus every team that loaded, in membership order.
type Roster struct {
	User     *domain.User
	Teams    []domain.Team
	Warnings []Warning
}

const defaultFetchLimit = 4

// Store caches fetched teams by id.
type Store struct {
	src    Source
	logger *slog.Logger
	limit  int

	mu    sync.Mutex
	cache map[string]domain.Team
}

func NewStore(src Source, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		src:    src,
		logger: logger,
		limit:  defaultFetchLimit,
		cache:  make(map[string]domain.Team),
	}
}

// SetFetchLimit bounds how many team requests run at once.
func (s *Store) SetFetchLimit(n int) {
	if n > 0 {
		s.limit = n
	}
}

// Load fetches the current user and each of their teams. Teams already in
// the cache are not fetched again.
func (s *Store) Load(ctx context.Context) (Roster, error) {
	user, err := s.src.FetchCurrentUser(ctx)
	if err != nil {
		return Roster{}, fmt.Errorf("%w: %w", ErrRosterUnavailable, err)
	}
	if user == nil {
		return Roster{}, fmt.Errorf("%w: no user returned", ErrRosterUnavailable)
	}

	ids := dedupe(user.TeamIDs())
	teams := make([]*domain.Team, len(ids))
	errs := make([]error, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, id := range ids {
		if t, ok := s.cached(id); ok {
			teams[i] = &t
			continue
		}
		g.Go(func() error {
			t, err := s.src.FetchTeam(gctx, id)
			if err != nil {
				errs[i] = err
				return nil
			}
			if t == nil {
				errs[i] = fmt.Errorf("team %s: %w", id, domain.ErrNotFound)
				return nil
			}
			teams[i] = t
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return Roster{}, err
	}

	r := Roster{User: user, Teams: make([]domain.Team, 0, len(ids))}
	for i, id := range ids {
		if errs[i] != nil {
			r.Warnings = append(r.Warnings, Warning{TeamID: id, Err: errs[i]})
			s.logger.WarnContext(ctx, "team skipped",
				"team_id", id,
				"not_found", errors.Is(errs[i], domain.ErrNotFound),
				"error", errs[i].Error(),
			)
			continue
		}
		r.Teams = append(r.Teams, *teams[i])
		s.store(*teams[i])
	}
	return r, nil
}

// Refresh drops every cached team and loads again.
func (s *Store) Refresh(ctx context.Context) (Roster, error) {
	s.mu.Lock()
	s.cache = make(map[string]domain.Team)
	s.mu.Unlock()
	return s.Load(ctx)
}

// Team returns a cached team.
func (s *Store) Team(id string) (domain.Team, bool) {
	return s.cached(id)
}

func (s *Store) cached(id string) (domain.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.cache[id]
	return t, ok
}

func (s *Store) store(t domain.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[t.ID] = t
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
