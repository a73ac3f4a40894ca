package remote

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/sprintboard/internal/domain"
)

// Inbound payloads are checked before conversion. Any problem is reported
// as domain.ErrShape with every issue found.

type shapeErrors []string

func (s *shapeErrors) addf(format string, args ...any) {
	*s = append(*s, fmt.Sprintf(format, args...))
}

func (s shapeErrors) err(entity string) error {
	if len(s) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s: %s", domain.ErrShape, entity, strings.Join(s, "; "))
}

func validateProject(p projectWire) error {
	var errs shapeErrors
	if p.ProjectID == "" {
		errs.addf("projectId is required")
	}
	if strings.TrimSpace(p.ProjectName) == "" {
		errs.addf("projectName is required")
	}
	sprintIDs := make(map[string]bool, len(p.SprintList))
	for i, s := range p.SprintList {
		if err := validateSprint(s); err != nil {
			errs.addf("sprintList[%d]: %s", i, detail(err))
			continue
		}
		if sprintIDs[s.SprintID] {
			errs.addf("sprintList[%d]: duplicate sprintId %s", i, s.SprintID)
		}
		sprintIDs[s.SprintID] = true
		if s.ProjectID != "" && p.ProjectID != "" && s.ProjectID != p.ProjectID {
			errs.addf("sprintList[%d]: belongs to project %s", i, s.ProjectID)
		}
	}
	taskIDs := make(map[string]bool, len(p.TaskList))
	for i, t := range p.TaskList {
		if err := validateTask(t); err != nil {
			errs.addf("taskList[%d]: %s", i, detail(err))
			continue
		}
		if taskIDs[t.TaskID] {
			errs.addf("taskList[%d]: duplicate taskId %s", i, t.TaskID)
		}
		taskIDs[t.TaskID] = true
		if t.ProjectID != "" && p.ProjectID != "" && t.ProjectID != p.ProjectID {
			errs.addf("taskList[%d]: belongs to project %s", i, t.ProjectID)
		}
	}
	return errs.err("project")
}

// validateTask checks one task. A sprintId that names no sprint is allowed.
func validateTask(t taskWire) error {
	var errs shapeErrors
	if t.TaskID == "" {
		errs.addf("taskId is required")
	}
	if strings.TrimSpace(t.TaskTitle) == "" {
		errs.addf("taskTitle is required")
	}
	if !domain.TaskStatus(t.TaskStatus).Valid() {
		errs.addf("taskStatus %q is invalid", t.TaskStatus)
	}
	if t.TaskPriority != "" && !domain.TaskPriority(t.TaskPriority).Valid() {
		errs.addf("taskPriority %q is invalid", t.TaskPriority)
	}
	return errs.err("task")
}

func validateSprint(s sprintWire) error {
	var errs shapeErrors
	if s.SprintID == "" {
		errs.addf("sprintId is required")
	}
	if strings.TrimSpace(s.SprintName) == "" {
		errs.addf("sprintName is required")
	}
	if !s.StartDate.IsZero() && !s.EndDate.IsZero() && s.EndDate.Before(s.StartDate.Time) {
		errs.addf("endDate is before startDate")
	}
	return errs.err("sprint")
}

func validateTeam(t teamWire) error {
	var errs shapeErrors
	if t.TeamID == "" {
		errs.addf("teamId is required")
	}
	if strings.TrimSpace(t.TeamName) == "" {
		errs.addf("teamName is required")
	}
	for i, m := range t.TeamMembers {
		if m.UserID == "" {
			errs.addf("teamMembers[%d]: userId is required", i)
		}
	}
	return errs.err("team")
}

func validateUser(u userWire) error {
	var errs shapeErrors
	if u.UserID == "" {
		errs.addf("userId is required")
	}
	for i, m := range u.TeamMemberships {
		if m.TeamID == "" {
			errs.addf("teamMemberships[%d]: teamId is required", i)
		}
	}
	return errs.err("user")
}

// detail strips the sentinel prefix from a nested shape error.
func detail(err error) string {
	msg := err.Error()
	if errors.Is(err, domain.ErrShape) {
		msg = strings.TrimPrefix(msg, domain.ErrShape.Error()+": ")
	}
	return msg
}
