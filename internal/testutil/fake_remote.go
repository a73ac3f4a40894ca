package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// Operation names recorded by FakeRemote.
const (
	OpFetchProject       = "FetchProject"
	OpFetchTeam          = "FetchTeam"
	OpFetchCurrentUser   = "FetchCurrentUser"
	OpListTeamProjects   = "ListTeamProjects"
	OpCreateTask         = "CreateTask"
	OpCreateSprint       = "CreateSprint"
	OpUpdateTaskStatus   = "UpdateTaskStatus"
	OpAssignTaskToSprint = "AssignTaskToSprint"
)

// Call is one recorded invocation.
type Call struct {
	Op       string
	EntityID string
	Status   domain.TaskStatus
	SprintID *string
}

// FakeRemote is an in-memory remote service for tests. Successful writes
// update its own copy of the project so a reload observes them.
//
// Errors can be scripted per operation with FailNext, and calls can be
// parked with Hold until the test releases them, which lets tests control
// the order in which in-flight requests resolve.
type FakeRemote struct {
	mu       sync.Mutex
	projects map[string]*domain.Project
	teams    map[string]*domain.Team
	user     *domain.User
	userErr  error
	teamErrs map[string]error
	failNext map[string][]error
	holds    map[string][]chan error
	calls    []Call
	seq      int

	// NoCanonical makes creates succeed without returning a server record.
	NoCanonical bool
}

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		projects: make(map[string]*domain.Project),
		teams:    make(map[string]*domain.Team),
		teamErrs: make(map[string]error),
		failNext: make(map[string][]error),
		holds:    make(map[string][]chan error),
	}
}

func (f *FakeRemote) AddProject(p *domain.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[p.ID] = p.Clone()
}

func (f *FakeRemote) AddTeam(t *domain.Team) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teams[t.ID] = t
}

func (f *FakeRemote) SetUser(u *domain.User, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user = u
	f.userErr = err
}

// SetTeamError makes FetchTeam(id) fail with err.
func (f *FakeRemote) SetTeamError(id string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teamErrs[id] = err
}

// FailNext queues err as the result of the next call to op.
func (f *FakeRemote) FailNext(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[op] = append(f.failNext[op], err)
}

// Hold parks the next call to op until a value is sent on the returned
// channel. A nil value lets the call proceed normally; an error fails it.
func (f *FakeRemote) Hold(op string) chan<- error {
	ch := make(chan error, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holds[op] = append(f.holds[op], ch)
	return ch
}

// Calls returns a copy of the recorded calls.
func (f *FakeRemote) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns the number of recorded calls to op.
func (f *FakeRemote) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Project returns the fake's own copy of a project.
func (f *FakeRemote) Project(id string) *domain.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.projects[id].Clone()
}

// begin records the call, then waits on any hold and returns any scripted
// error.
func (f *FakeRemote) begin(ctx context.Context, c Call) error {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	var hold chan error
	if hs := f.holds[c.Op]; len(hs) > 0 {
		hold = hs[0]
		f.holds[c.Op] = hs[1:]
	}
	var scripted error
	if errs := f.failNext[c.Op]; len(errs) > 0 {
		scripted = errs[0]
		f.failNext[c.Op] = errs[1:]
	}
	f.mu.Unlock()

	if hold != nil {
		select {
		case err := <-hold:
			if err != nil {
				return err
			}
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", domain.ErrRemoteFailure, ctx.Err())
		}
	}
	return scripted
}

func (f *FakeRemote) FetchProject(ctx context.Context, projectID string) (*domain.Project, error) {
	if err := f.begin(ctx, Call{Op: OpFetchProject, EntityID: projectID}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}
	return p.Clone(), nil
}

func (f *FakeRemote) FetchTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	if err := f.begin(ctx, Call{Op: OpFetchTeam, EntityID: teamID}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.teamErrs[teamID]; err != nil {
		return nil, err
	}
	t, ok := f.teams[teamID]
	if !ok {
		return nil, fmt.Errorf("team %s: %w", teamID, domain.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (f *FakeRemote) FetchCurrentUser(ctx context.Context) (*domain.User, error) {
	if err := f.begin(ctx, Call{Op: OpFetchCurrentUser}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userErr != nil {
		return nil, f.userErr
	}
	if f.user == nil {
		return nil, fmt.Errorf("current user: %w", domain.ErrNotFound)
	}
	cp := *f.user
	return &cp, nil
}

func (f *FakeRemote) ListTeamProjects(ctx context.Context, teamID string) ([]domain.ProjectSummary, error) {
	if err := f.begin(ctx, Call{Op: OpListTeamProjects, EntityID: teamID}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ProjectSummary
	for _, p := range f.projects {
		if p.TeamID == teamID {
			out = append(out, domain.ProjectSummary{ID: p.ID, Name: p.Name, Description: p.Description, TeamID: p.TeamID, CreatedAt: p.CreatedAt})
		}
	}
	return out, nil
}

func (f *FakeRemote) CreateTask(ctx context.Context, projectID string, draft domain.TaskDraft) (*domain.Task, error) {
	if err := f.begin(ctx, Call{Op: OpCreateTask, EntityID: projectID}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}
	f.seq++
	t := domain.Task{
		ID:          fmt.Sprintf("srv-task-%d", f.seq),
		ProjectID:   projectID,
		Title:       draft.Title,
		Description: draft.Description,
		Status:      domain.TaskTodo,
		Priority:    draft.Priority,
	}
	p.Tasks = append(p.Tasks, t)
	if f.NoCanonical {
		return nil, nil
	}
	return &t, nil
}

func (f *FakeRemote) CreateSprint(ctx context.Context, projectID string, draft domain.SprintDraft) (*domain.Sprint, error) {
	if err := f.begin(ctx, Call{Op: OpCreateSprint, EntityID: projectID}); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", projectID, domain.ErrNotFound)
	}
	f.seq++
	s := domain.Sprint{
		ID:        fmt.Sprintf("srv-sprint-%d", f.seq),
		ProjectID: projectID,
		Name:      draft.Name,
		Goal:      draft.Goal,
		StartDate: draft.StartDate,
		EndDate:   draft.EndDate,
	}
	p.Sprints = append(p.Sprints, s)
	if f.NoCanonical {
		return nil, nil
	}
	return &s, nil
}

func (f *FakeRemote) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	if err := f.begin(ctx, Call{Op: OpUpdateTaskStatus, EntityID: taskID, Status: status}); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.findTask(taskID)
	if err != nil {
		return err
	}
	t.Status = status
	return nil
}

func (f *FakeRemote) AssignTaskToSprint(ctx context.Context, taskID string, sprintID *string) error {
	c := Call{Op: OpAssignTaskToSprint, EntityID: taskID}
	if sprintID != nil {
		c.SprintID = domain.StringPtr(*sprintID)
	}
	if err := f.begin(ctx, c); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, err := f.findTask(taskID)
	if err != nil {
		return err
	}
	if sprintID == nil {
		t.SprintID = nil
	} else {
		t.SprintID = domain.StringPtr(*sprintID)
	}
	return nil
}

func (f *FakeRemote) findTask(taskID string) (*domain.Task, error) {
	for _, p := range f.projects {
		if t, ok := p.TaskByID(taskID); ok {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: task %s not found", domain.ErrRemoteFailure, taskID)
}
