package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/google/uuid"
)

// ProjectRemote is the part of the remote service the dispatcher drives.
type ProjectRemote interface {
	ProjectFetcher
	CreateTask(ctx context.Context, projectID string, draft domain.TaskDraft) (*domain.Task, error)
	CreateSprint(ctx context.Context, projectID string, draft domain.SprintDraft) (*domain.Sprint, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error
	AssignTaskToSprint(ctx context.Context, taskID string, sprintID *string) error
}

// Command is a user mutation submitted to the dispatcher.
type Command interface {
	Kind() MutationKind
	validate() error
}

type CreateTask struct {
	Draft domain.TaskDraft
}

func (CreateTask) Kind() MutationKind { return KindCreateTask }
func (c CreateTask) validate() error  { return c.Draft.Validate() }

type CreateSprint struct {
	Draft domain.SprintDraft
}

func (CreateSprint) Kind() MutationKind { return KindCreateSprint }
func (c CreateSprint) validate() error  { return c.Draft.Validate() }

type SetTaskStatus struct {
	TaskID string
	Status domain.TaskStatus
}

func (SetTaskStatus) Kind() MutationKind { return KindSetTaskStatus }

func (c SetTaskStatus) validate() error {
	if c.TaskID == "" {
		return domain.NewValidationError("task", "id is required")
	}
	if !c.Status.Valid() {
		return domain.NewValidationError("status", fmt.Sprintf("%q is not a task status", c.Status))
	}
	return nil
}

// AssignTaskToSprint moves a task into a sprint. A nil SprintID unassigns
// it through the same path.
type AssignTaskToSprint struct {
	TaskID   string
	SprintID *string
}

func (AssignTaskToSprint) Kind() MutationKind { return KindAssignTaskToSprint }

func (c AssignTaskToSprint) validate() error {
	if c.TaskID == "" {
		return domain.NewValidationError("task", "id is required")
	}
	if c.SprintID != nil && *c.SprintID == "" {
		return domain.NewValidationError("sprint", "id must not be empty")
	}
	return nil
}

// MutationError is the typed failure returned when the remote call behind
// a command fails. The optimistic change has already been rolled back.
type MutationError struct {
	Kind MutationKind
	Err  error
}

func (e *MutationError) Error() string {
	return fmt.Sprintf("%s: %v", failureMessage(e.Kind), e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// Outcome is the result of one command.
type Outcome struct {
	Kind   MutationKind
	Task   *domain.Task
	Sprint *domain.Sprint
	// Discarded is set when the remote call succeeded after the aggregate
	// it was applied to had been discarded or reloaded.
	Discarded bool
	Err       error
}

// Pending is a submitted command that may still be queued or in flight.
type Pending struct {
	done chan struct{}
	out  Outcome
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) resolve(out Outcome) {
	p.out = out
	close(p.done)
}

// Done is closed once the command has committed, rolled back or been
// rejected.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Wait blocks until the command resolves or ctx ends. Abandoning the wait
// does not cancel the command.
func (p *Pending) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-p.done:
		return p.out, p.out.Err
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) {
		if n != nil {
			d.notifier = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// WithIDGenerator replaces the temporary id source (uuid v4 by default).
func WithIDGenerator(gen func() string) Option {
	return func(d *Dispatcher) { d.newID = gen }
}

// Dispatcher runs each command as validate, snapshot and apply, remote
// call, then commit or rollback against its Store.
//
// Commands touching the same (entity, kind) run one at a time in submission
// order. A create holds both edit keys of its temporary id, so edits to an
// entity that the server has not confirmed yet wait for the create.
type Dispatcher struct {
	store    *Store
	remote   ProjectRemote
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	queue    *keyQueue

	mu      sync.Mutex
	aliases map[string]string // temporary id -> server id
	handles map[string]string // server id -> temporary id
}

func NewDispatcher(store *Store, remote ProjectRemote, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:    store,
		remote:   remote,
		notifier: NoopNotifier{},
		logger:   slog.New(slog.DiscardHandler),
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
		queue:    newKeyQueue(),
		aliases:  make(map[string]string),
		handles:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	store.setLogger(d.logger)
	return d
}

// Store returns the aggregate store the dispatcher mutates.
func (d *Dispatcher) Store() *Store { return d.store }

// Load loads projectID into the store and forgets id translations that
// belonged to the previous aggregate.
func (d *Dispatcher) Load(ctx context.Context, projectID string) error {
	d.mu.Lock()
	d.aliases = make(map[string]string)
	d.handles = make(map[string]string)
	d.mu.Unlock()
	return d.store.Load(ctx, projectID)
}

// job is a command plus the identities fixed at submission time.
type job struct {
	cmd    Command
	tempID string
	hold   []queueKey
	follow []queueKey
}

// Submit registers cmd behind any in-flight command on the same key and
// runs it asynchronously. Static validation failures resolve immediately
// without touching the store or the remote.
func (d *Dispatcher) Submit(ctx context.Context, cmd Command) *Pending {
	p := newPending()
	if err := cmd.validate(); err != nil {
		p.resolve(Outcome{Kind: cmd.Kind(), Err: err})
		return p
	}

	j := d.plan(cmd)
	t := d.queue.enter(j.hold, j.follow)
	go func() {
		if err := t.wait(ctx); err != nil {
			p.resolve(Outcome{Kind: cmd.Kind(), Err: err})
			return
		}
		out := d.run(ctx, j)
		t.release()
		p.resolve(out)
	}()
	return p
}

// Dispatch submits cmd and waits for it to resolve.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (Outcome, error) {
	return d.Submit(ctx, cmd).Wait(ctx)
}

func (d *Dispatcher) CreateTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	out, err := d.Dispatch(ctx, CreateTask{Draft: draft})
	if err != nil {
		return domain.Task{}, err
	}
	return *out.Task, nil
}

func (d *Dispatcher) CreateSprint(ctx context.Context, draft domain.SprintDraft) (domain.Sprint, error) {
	out, err := d.Dispatch(ctx, CreateSprint{Draft: draft})
	if err != nil {
		return domain.Sprint{}, err
	}
	return *out.Sprint, nil
}

func (d *Dispatcher) SetTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	_, err := d.Dispatch(ctx, SetTaskStatus{TaskID: taskID, Status: status})
	return err
}

func (d *Dispatcher) AssignTaskToSprint(ctx context.Context, taskID string, sprintID *string) error {
	_, err := d.Dispatch(ctx, AssignTaskToSprint{TaskID: taskID, SprintID: sprintID})
	return err
}

// plan fixes temporary ids and queue keys in submission order.
func (d *Dispatcher) plan(cmd Command) job {
	d.mu.Lock()
	defer d.mu.Unlock()

	j := job{cmd: cmd}
	switch c := cmd.(type) {
	case CreateTask:
		j.tempID = d.newID()
		j.hold = []queueKey{
			{j.tempID, KindCreateTask},
			{j.tempID, KindSetTaskStatus},
			{j.tempID, KindAssignTaskToSprint},
		}
	case CreateSprint:
		j.tempID = d.newID()
		j.hold = []queueKey{{j.tempID, KindCreateSprint}}
	case SetTaskStatus:
		j.hold = []queueKey{{d.handle(c.TaskID), KindSetTaskStatus}}
	case AssignTaskToSprint:
		j.hold = []queueKey{{d.handle(c.TaskID), KindAssignTaskToSprint}}
		if c.SprintID != nil {
			j.follow = []queueKey{{d.handle(*c.SprintID), KindCreateSprint}}
		}
	}
	return j
}

// handle maps any id of an entity to its stable queue identity: the
// temporary id when the entity was created in this session.
func (d *Dispatcher) handle(id string) string {
	if h, ok := d.handles[id]; ok {
		return h
	}
	return id
}

// serverID translates a temporary id to the id the server assigned.
func (d *Dispatcher) serverID(id string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s, ok := d.aliases[id]; ok {
		return s
	}
	return id
}

func (d *Dispatcher) alias(tempID, serverID string) {
	if tempID == serverID || serverID == "" {
		return
	}
	d.mu.Lock()
	d.aliases[tempID] = serverID
	d.handles[serverID] = tempID
	d.mu.Unlock()
}

func (d *Dispatcher) run(ctx context.Context, j job) Outcome {
	start := d.now()
	kind := j.cmd.Kind()
	projectID := d.store.ProjectID()

	m, err := d.mutationFor(j, projectID)
	if err != nil {
		d.logResult(ctx, kind, "", start, err)
		return Outcome{Kind: kind, Err: err}
	}

	snap, err := d.store.ApplyLocal(m)
	if err != nil {
		d.logResult(ctx, kind, m.EntityID(), start, err)
		return Outcome{Kind: kind, Err: err}
	}

	canonical, err := d.call(ctx, projectID, j, m)
	if err != nil {
		d.store.Rollback(snap)
		merr := &MutationError{Kind: kind, Err: err}
		d.notifier.Notify(Notification{Level: LevelError, Kind: kind, Message: failureMessage(kind), Err: err})
		d.logResult(ctx, kind, m.EntityID(), start, merr)
		return Outcome{Kind: kind, Err: merr}
	}

	out := Outcome{Kind: kind}
	switch m := m.(type) {
	case InsertTask:
		t := m.Task
		if canonical.Task != nil {
			t = *canonical.Task
		}
		out.Task = &t
	case InsertSprint:
		sp := m.Sprint
		if canonical.Sprint != nil {
			sp = *canonical.Sprint
		}
		out.Sprint = &sp
	}

	if !d.store.Resolve(snap, canonical) {
		out.Discarded = true
		d.logger.DebugContext(ctx, "mutation result ignored", "kind", kind, "entity", m.EntityID())
		return out
	}
	switch {
	case canonical.Task != nil:
		d.alias(j.tempID, canonical.Task.ID)
	case canonical.Sprint != nil:
		d.alias(j.tempID, canonical.Sprint.ID)
	}

	unassign := false
	if a, ok := m.(UpdateTaskSprint); ok {
		unassign = a.SprintID == nil
	}
	d.notifier.Notify(Notification{Level: LevelSuccess, Kind: kind, Message: successMessage(kind, unassign)})
	d.logResult(ctx, kind, m.EntityID(), start, nil)
	return out
}

// mutationFor builds the optimistic mutation. Ids are translated to server
// ids here, after any create they depend on has resolved.
func (d *Dispatcher) mutationFor(j job, projectID string) (Mutation, error) {
	if projectID == "" {
		return nil, domain.NewValidationError("project", "is not loaded")
	}
	switch c := j.cmd.(type) {
	case CreateTask:
		draft := c.Draft.Normalize()
		return InsertTask{Task: domain.Task{
			ID:          j.tempID,
			ProjectID:   projectID,
			Title:       draft.Title,
			Description: draft.Description,
			Status:      domain.TaskTodo,
			Priority:    draft.Priority,
			CreatedAt:   d.now(),
		}}, nil
	case CreateSprint:
		draft := c.Draft.Normalize()
		return InsertSprint{Sprint: domain.Sprint{
			ID:        j.tempID,
			ProjectID: projectID,
			Name:      draft.Name,
			Goal:      draft.Goal,
			StartDate: draft.StartDate,
			EndDate:   draft.EndDate,
		}}, nil
	case SetTaskStatus:
		return UpdateTaskStatus{TaskID: d.serverID(c.TaskID), Status: c.Status}, nil
	case AssignTaskToSprint:
		m := UpdateTaskSprint{TaskID: d.serverID(c.TaskID)}
		if c.SprintID != nil {
			m.SprintID = domain.StringPtr(d.serverID(*c.SprintID))
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported command %T", j.cmd)
}

// call is the single suspension point of a command.
func (d *Dispatcher) call(ctx context.Context, projectID string, j job, m Mutation) (Canonical, error) {
	switch m := m.(type) {
	case InsertTask:
		t, err := d.remote.CreateTask(ctx, projectID, j.cmd.(CreateTask).Draft.Normalize())
		if err != nil || t == nil {
			return Canonical{}, err
		}
		if t.ProjectID == "" {
			t.ProjectID = projectID
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = m.Task.CreatedAt
		}
		return Canonical{Task: t}, nil
	case InsertSprint:
		sp, err := d.remote.CreateSprint(ctx, projectID, j.cmd.(CreateSprint).Draft.Normalize())
		if err != nil || sp == nil {
			return Canonical{}, err
		}
		if sp.ProjectID == "" {
			sp.ProjectID = projectID
		}
		return Canonical{Sprint: sp}, nil
	case UpdateTaskStatus:
		return Canonical{}, d.remote.UpdateTaskStatus(ctx, m.TaskID, m.Status)
	case UpdateTaskSprint:
		return Canonical{}, d.remote.AssignTaskToSprint(ctx, m.TaskID, m.SprintID)
	}
	return Canonical{}, fmt.Errorf("unsupported mutation %T", m)
}

func (d *Dispatcher) logResult(ctx context.Context, kind MutationKind, entity string, start time.Time, err error) {
	attrs := []any{
		"kind", string(kind),
		"entity", entity,
		"duration_ms", d.now().Sub(start).Milliseconds(),
		"success", err == nil,
	}
	if err != nil {
		attrs = append(attrs, "error", err.Error())
		if domain.IsValidation(err) {
			d.logger.WarnContext(ctx, "mutation rejected", attrs...)
			return
		}
		d.logger.ErrorContext(ctx, "mutation failed", attrs...)
		return
	}
	d.logger.InfoContext(ctx, "mutation committed", attrs...)
}

// Busy reports whether a command of the given kind is queued or in flight
// for the entity.
func (d *Dispatcher) Busy(entityID string, kind MutationKind) bool {
	d.mu.Lock()
	h := d.handle(entityID)
	d.mu.Unlock()
	return d.queue.busy(queueKey{h, kind})
}
