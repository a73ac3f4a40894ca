package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/spf13/pflag"
)

// resolveTaskID matches input against the project's task ids: an exact id
// first, then a unique prefix.
func resolveTaskID(p *domain.Project, input string) (string, error) {
	ids := make([]string, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		ids = append(ids, t.ID)
	}
	return resolveID("task", ids, input)
}

func resolveSprintID(p *domain.Project, input string) (string, error) {
	ids := make([]string, 0, len(p.Sprints))
	for _, sp := range p.Sprints {
		ids = append(ids, sp.ID)
	}
	return resolveID("sprint", ids, input)
}

func resolveID(entity string, ids []string, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s ID is required", entity)
	}

	for _, id := range ids {
		if id == input {
			return id, nil
		}
	}

	var matches []string
	for _, id := range ids {
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", entity, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", entity, input, len(matches))
	}
}

// parseStatus accepts the wire value or the column label in any case,
// e.g. "in_progress", "IN_PROGRESS", "in progress", "completed".
func parseStatus(input string) (domain.TaskStatus, error) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(input), " ", "_"))
	for _, s := range domain.TaskStatuses {
		if norm == string(s) || norm == strings.ToUpper(strings.ReplaceAll(s.Label(), " ", "_")) {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (use TODO, IN_PROGRESS or DONE)", input)
}

func parsePriority(input string) (domain.TaskPriority, error) {
	if strings.TrimSpace(input) == "" {
		return domain.PriorityMedium, nil
	}
	p := domain.TaskPriority(strings.ToUpper(strings.TrimSpace(input)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q (use LOW, MEDIUM or HIGH)", input)
	}
	return p, nil
}

// priorityFlag is a --priority flag that rejects unknown values at parse
// time.
type priorityFlag domain.TaskPriority

var _ pflag.Value = (*priorityFlag)(nil)

func (f *priorityFlag) String() string { return string(*f) }

func (f *priorityFlag) Set(s string) error {
	p, err := parsePriority(s)
	if err != nil {
		return err
	}
	*f = priorityFlag(p)
	return nil
}

func (*priorityFlag) Type() string { return "priority" }
