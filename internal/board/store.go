package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// ErrSuperseded is returned by Load when the view was discarded or another
// load started before the fetch completed.
var ErrSuperseded = errors.New("project load superseded")

// ProjectFetcher loads the canonical project aggregate.
type ProjectFetcher interface {
	FetchProject(ctx context.Context, projectID string) (*domain.Project, error)
}

// SnapshotID names the aggregate state immediately before one optimistic
// mutation. Ids are monotonic for the lifetime of a Store.
type SnapshotID uint64

// Canonical carries the server's record for an optimistically inserted
// entity. Either field may be nil.
type Canonical struct {
	Task   *domain.Task
	Sprint *domain.Sprint
}

type logEntry struct {
	id        SnapshotID
	mutation  Mutation
	committed bool
	void      bool
}

// Store owns the in-memory copy of the project currently on screen.
//
// The aggregate is kept as a confirmed base plus an ordered log of
// mutations that have not been folded into it yet. current is always
// base with the log applied in order. Committed entries fold into base as
// soon as every entry before them is committed too; a rollback drops its
// entry and replays the remainder on base, so concurrent mutations on other
// entities survive it.
type Store struct {
	fetcher ProjectFetcher
	logger  *slog.Logger

	mu       sync.Mutex
	base     *domain.Project
	current  *domain.Project
	log      []logEntry
	lastID   SnapshotID
	gen      uint64
	onChange func()
}

func NewStore(fetcher ProjectFetcher) *Store {
	return &Store{fetcher: fetcher, logger: slog.New(slog.DiscardHandler)}
}

func (s *Store) setLogger(l *slog.Logger) {
	s.mu.Lock()
	s.logger = l
	s.mu.Unlock()
}

// OnChange registers fn to run after every state change. fn runs outside
// the store lock and may read the store.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Load fetches projectID and replaces the aggregate wholesale. Pending
// snapshots of the previous aggregate are forgotten.
func (s *Store) Load(ctx context.Context, projectID string) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	p, err := s.fetcher.FetchProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("loading project %s: %w", projectID, err)
	}
	if p == nil {
		return fmt.Errorf("loading project %s: %w", projectID, domain.ErrNotFound)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return ErrSuperseded
	}
	s.base = p.Clone()
	s.current = p.Clone()
	s.log = nil
	fn := s.onChange
	s.mu.Unlock()

	notify(fn)
	return nil
}

// Discard drops the aggregate. Results of requests still in flight find
// their snapshot ids unknown and are ignored.
func (s *Store) Discard() {
	s.mu.Lock()
	s.gen++
	s.base = nil
	s.current = nil
	s.log = nil
	fn := s.onChange
	s.mu.Unlock()

	notify(fn)
}

// Project returns a deep copy of the current aggregate, or nil when nothing
// is loaded.
func (s *Store) Project() *domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// ProjectID returns the id of the loaded project, or "".
func (s *Store) ProjectID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// Generation changes on every Load and Discard.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Pending returns the number of mutations not yet committed.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.log {
		if !e.committed {
			n++
		}
	}
	return n
}

// ApplyLocal applies m to the aggregate and returns the id of the state
// captured just before it. A mutation that does not fit the current
// aggregate returns a *domain.ValidationError and changes nothing.
func (s *Store) ApplyLocal(m Mutation) (SnapshotID, error) {
	s.mu.Lock()
	if s.current == nil {
		s.mu.Unlock()
		return 0, domain.NewValidationError("project", "is not loaded")
	}
	if err := m.apply(s.current); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	s.lastID++
	id := s.lastID
	s.log = append(s.log, logEntry{id: id, mutation: m})
	fn := s.onChange
	s.mu.Unlock()

	notify(fn)
	return id, nil
}

// Commit makes the mutation behind id permanent. Unknown, committed or
// rolled back ids are a no-op and report false.
func (s *Store) Commit(id SnapshotID) bool {
	return s.Resolve(id, Canonical{})
}

// Resolve commits id and overwrites the optimistically inserted entity with
// the server's record, keeping its position.
func (s *Store) Resolve(id SnapshotID, c Canonical) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 || s.log[i].committed {
		s.mu.Unlock()
		return false
	}
	e := &s.log[i]
	switch m := e.mutation.(type) {
	case InsertTask:
		if c.Task != nil {
			replaceTask(s.current, m.Task.ID, *c.Task)
			m.Task = c.Task.Clone()
			e.mutation = m
		}
	case InsertSprint:
		if c.Sprint != nil {
			replaceSprint(s.current, m.Sprint.ID, *c.Sprint)
			m.Sprint = *c.Sprint
			e.mutation = m
		}
	}
	e.committed = true
	s.fold()
	fn := s.onChange
	s.mu.Unlock()

	notify(fn)
	return true
}

// Rollback reverts the mutation behind id. Mutations applied after it that
// are still live are replayed on top of the restored state. Unknown or
// committed ids are a no-op and report false.
func (s *Store) Rollback(id SnapshotID) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 || s.log[i].committed {
		s.mu.Unlock()
		return false
	}
	s.log = append(s.log[:i], s.log[i+1:]...)
	s.rebuild()
	fn := s.onChange
	s.mu.Unlock()

	notify(fn)
	return true
}

func (s *Store) indexOf(id SnapshotID) int {
	for i := range s.log {
		if s.log[i].id == id {
			return i
		}
	}
	return -1
}

// fold moves the committed prefix of the log into base.
func (s *Store) fold() {
	n := 0
	for n < len(s.log) && s.log[n].committed {
		e := &s.log[n]
		if !e.void {
			if err := e.mutation.apply(s.base); err != nil {
				e.void = true
				s.logger.Warn("committed mutation does not fit confirmed state",
					"kind", e.mutation.Kind(), "entity", e.mutation.EntityID(), "error", err)
			}
		}
		n++
	}
	if n > 0 {
		s.log = append([]logEntry(nil), s.log[n:]...)
	}
}

func (s *Store) rebuild() {
	p := s.base.Clone()
	for i := range s.log {
		e := &s.log[i]
		e.void = e.mutation.apply(p) != nil
	}
	s.current = p
}

func replaceTask(p *domain.Project, id string, t domain.Task) {
	if i := p.TaskIndex(id); i >= 0 {
		p.Tasks[i] = t.Clone()
	}
}

func replaceSprint(p *domain.Project, id string, sp domain.Sprint) {
	if i := p.SprintIndex(id); i >= 0 {
		p.Sprints[i] = sp
	}
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}
