package remote

import (
	"github.com/alexanderramin/sprintboard/internal/domain"
)

func projectFromWire(p projectWire) *domain.Project {
	out := &domain.Project{
		ID:          p.ProjectID,
		Name:        p.ProjectName,
		Description: p.ProjectDesc,
		TeamID:      p.TeamID,
		CreatedAt:   p.CreatedAt.Time,
		Tasks:       make([]domain.Task, 0, len(p.TaskList)),
		Sprints:     make([]domain.Sprint, 0, len(p.SprintList)),
	}
	for _, t := range p.TaskList {
		task := taskFromWire(t)
		if task.ProjectID == "" {
			task.ProjectID = p.ProjectID
		}
		out.Tasks = append(out.Tasks, task)
	}
	for _, s := range p.SprintList {
		sp := sprintFromWire(s)
		if sp.ProjectID == "" {
			sp.ProjectID = p.ProjectID
		}
		out.Sprints = append(out.Sprints, sp)
	}
	return out
}

func summaryFromWire(p projectWire) domain.ProjectSummary {
	return domain.ProjectSummary{
		ID:          p.ProjectID,
		Name:        p.ProjectName,
		Description: p.ProjectDesc,
		TeamID:      p.TeamID,
		CreatedAt:   p.CreatedAt.Time,
	}
}

func taskFromWire(t taskWire) domain.Task {
	priority := domain.TaskPriority(t.TaskPriority)
	if priority == "" {
		priority = domain.PriorityMedium
	}
	var sprintID *string
	if t.SprintID != nil && *t.SprintID != "" {
		sprintID = domain.StringPtr(*t.SprintID)
	}
	return domain.Task{
		ID:          t.TaskID,
		ProjectID:   t.ProjectID,
		Title:       t.TaskTitle,
		Description: t.TaskDesc,
		Status:      domain.TaskStatus(t.TaskStatus),
		Priority:    priority,
		SprintID:    sprintID,
		CreatedAt:   t.CreatedAt.Time,
	}
}

func sprintFromWire(s sprintWire) domain.Sprint {
	return domain.Sprint{
		ID:        s.SprintID,
		ProjectID: s.ProjectID,
		Name:      s.SprintName,
		Goal:      s.SprintGoal,
		StartDate: s.StartDate.Time,
		EndDate:   s.EndDate.Time,
	}
}

func teamFromWire(t teamWire) *domain.Team {
	out := &domain.Team{ID: t.TeamID, Name: t.TeamName, Description: t.TeamDesc}
	for _, m := range t.TeamMembers {
		role := domain.MemberRole(m.Role)
		if role == "" {
			role = domain.RoleMember
		}
		out.Members = append(out.Members, domain.TeamMember{UserID: m.UserID, Role: role})
	}
	return out
}

func userFromWire(u userWire) *domain.User {
	out := &domain.User{
		ID:          u.UserID,
		Email:       u.UserEmail,
		DisplayName: u.UserFullName,
		Role:        u.Role,
	}
	for _, m := range u.TeamMemberships {
		out.Memberships = append(out.Memberships, domain.TeamMembership{TeamID: m.TeamID})
	}
	return out
}

func taskRequestFromDraft(d domain.TaskDraft) createTaskRequest {
	return createTaskRequest{
		TaskTitle:    d.Title,
		TaskDesc:     d.Description,
		TaskStatus:   string(domain.TaskTodo),
		TaskPriority: string(d.Priority),
	}
}

func sprintRequestFromDraft(projectID string, d domain.SprintDraft) createSprintRequest {
	return createSprintRequest{
		ProjectID:  projectID,
		SprintName: d.Name,
		SprintGoal: d.Goal,
		StartDate:  wireTime{d.StartDate},
		EndDate:    wireTime{d.EndDate},
	}
}
