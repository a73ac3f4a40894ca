package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// HTTPClient implements Remote against the project and user services.
type HTTPClient struct {
	cfg      Config
	http     *http.Client
	tokens   TokenSource
	observer Observer
}

var _ Remote = (*HTTPClient)(nil)

// NewHTTPClient creates a client for cfg.BaseURL. tokens may be nil for an
// anonymous client.
func NewHTTPClient(cfg Config, tokens TokenSource, observer Observer) *HTTPClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		tokens:   tokens,
		observer: observer,
	}
}

func (c *HTTPClient) FetchProject(ctx context.Context, projectID string) (*domain.Project, error) {
	data, err := c.do(ctx, "fetch_project", http.MethodGet, path("project-service/project", projectID), nil)
	if err != nil {
		return nil, err
	}
	p, err := decode("project", data, validateProject)
	if err != nil {
		return nil, err
	}
	return projectFromWire(p), nil
}

func (c *HTTPClient) ListTeamProjects(ctx context.Context, teamID string) ([]domain.ProjectSummary, error) {
	data, err := c.do(ctx, "list_team_projects", http.MethodGet,
		path("project-service/project/teams", teamID, "projects"), nil)
	if err != nil {
		return nil, err
	}
	ok, err := hasRecord("project list", data)
	if err != nil || !ok {
		return nil, err
	}
	list, err := decode("project list", data, func(ps []projectWire) error {
		var errs shapeErrors
		for i, p := range ps {
			if p.ProjectID == "" || strings.TrimSpace(p.ProjectName) == "" {
				errs.addf("[%d]: projectId and projectName are required", i)
			}
		}
		return errs.err("project list")
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProjectSummary, 0, len(list))
	for _, p := range list {
		out = append(out, summaryFromWire(p))
	}
	return out, nil
}

func (c *HTTPClient) FetchTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	data, err := c.do(ctx, "fetch_team", http.MethodGet, path("user-service/teams", teamID), nil)
	if err != nil {
		return nil, err
	}
	t, err := decode("team", data, validateTeam)
	if err != nil {
		return nil, err
	}
	return teamFromWire(t), nil
}

func (c *HTTPClient) FetchCurrentUser(ctx context.Context) (*domain.User, error) {
	data, err := c.do(ctx, "fetch_current_user", http.MethodGet, "user-service/user", nil)
	if err != nil {
		return nil, err
	}
	u, err := decode("user", data, validateUser)
	if err != nil {
		return nil, err
	}
	return userFromWire(u), nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, projectID string, draft domain.TaskDraft) (*domain.Task, error) {
	data, err := c.do(ctx, "create_task", http.MethodPost,
		path("project-service/task/projects", projectID, "task"), taskRequestFromDraft(draft))
	if err != nil {
		return nil, err
	}
	ok, err := hasRecord("task", data)
	if err != nil || !ok {
		return nil, err
	}
	t, err := decode("task", data, validateTask)
	if err != nil {
		return nil, err
	}
	task := taskFromWire(t)
	return &task, nil
}

func (c *HTTPClient) CreateSprint(ctx context.Context, projectID string, draft domain.SprintDraft) (*domain.Sprint, error) {
	data, err := c.do(ctx, "create_sprint", http.MethodPost,
		path("project-service/sprint/projects", projectID, "sprint"), sprintRequestFromDraft(projectID, draft))
	if err != nil {
		return nil, err
	}
	ok, err := hasRecord("sprint", data)
	if err != nil || !ok {
		return nil, err
	}
	s, err := decode("sprint", data, validateSprint)
	if err != nil {
		return nil, err
	}
	sp := sprintFromWire(s)
	return &sp, nil
}

func (c *HTTPClient) UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error {
	_, err := c.do(ctx, "update_task_status", http.MethodPut,
		path("project-service/task", taskID), updateTaskRequest{TaskStatus: string(status)})
	return err
}

func (c *HTTPClient) AssignTaskToSprint(ctx context.Context, taskID string, sprintID *string) error {
	if sprintID == nil {
		_, err := c.do(ctx, "unassign_task", http.MethodDelete,
			path("project-service/task/sprint/task", taskID), nil)
		return err
	}
	_, err := c.do(ctx, "assign_task", http.MethodPost,
		path("project-service/task/sprint", *sprintID, "task", taskID), nil)
	return err
}

// do sends one request and returns the body of a 2xx response. Every other
// outcome is an error wrapping a domain sentinel.
func (c *HTTPClient) do(ctx context.Context, op, method, p string, body any) ([]byte, error) {
	start := time.Now()
	status, data, err := c.roundTrip(ctx, method, p, body)
	if err == nil && (status < 200 || status > 299) {
		err = newStatusError(op, status, data)
	}

	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, p string, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.cfg.BaseURL, "/")+"/"+p, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %s %s: %w", domain.ErrRemoteFailure, method, p, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: reading response: %w", domain.ErrRemoteFailure, err)
	}
	return resp.StatusCode, data, nil
}

// hasRecord reports whether a 2xx body carries an entity. Empty bodies and
// the legacy "Success" acknowledgement do not; any other non-JSON body is a
// shape error.
func hasRecord(entity string, data []byte) (bool, error) {
	s := strings.TrimSpace(string(data))
	switch s {
	case "", "null", "Success", `"Success"`:
		return false, nil
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return true, nil
	}
	return false, fmt.Errorf("%w: %s response is not a record: %q", domain.ErrShape, entity, truncate(s, 64))
}

func decode[T any](entity string, data []byte, validate func(T) error) (T, error) {
	var zero, v T
	if err := json.Unmarshal(data, &v); err != nil {
		return zero, fmt.Errorf("%w: decoding %s: %v", domain.ErrShape, entity, err)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return zero, err
		}
	}
	return v, nil
}

func path(prefix string, segments ...string) string {
	parts := []string{prefix}
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return strings.Join(parts, "/")
}
