package remote

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Wire shapes of the project and user services. Field names are the
// services' own and must not change.

type projectWire struct {
	ProjectID   string       `json:"projectId"`
	ProjectName string       `json:"projectName"`
	ProjectDesc string       `json:"projectDesc"`
	TeamID      string       `json:"teamId"`
	CreatedAt   wireTime     `json:"createdAt"`
	TaskList    []taskWire   `json:"taskList"`
	SprintList  []sprintWire `json:"sprintList"`
}

type taskWire struct {
	TaskID       string   `json:"taskId"`
	ProjectID    string   `json:"projectId"`
	TaskTitle    string   `json:"taskTitle"`
	TaskDesc     string   `json:"taskDesc"`
	TaskStatus   string   `json:"taskStatus"`
	TaskPriority string   `json:"taskPriority"`
	SprintID     *string  `json:"sprintId"`
	CreatedAt    wireTime `json:"createdAt"`
}

type sprintWire struct {
	SprintID   string   `json:"sprintId"`
	ProjectID  string   `json:"projectId"`
	SprintName string   `json:"sprintName"`
	SprintGoal string   `json:"sprintGoal"`
	StartDate  wireTime `json:"startDate"`
	EndDate    wireTime `json:"endDate"`
}

type teamWire struct {
	TeamID      string       `json:"teamId"`
	TeamName    string       `json:"teamName"`
	TeamDesc    string       `json:"teamDesc"`
	TeamMembers []memberWire `json:"teamMembers"`
}

type memberWire struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type userWire struct {
	UserID          string           `json:"userId"`
	UserEmail       string           `json:"userEmail"`
	UserFullName    string           `json:"userFullName"`
	Role            string           `json:"role"`
	TeamMemberships []membershipWire `json:"teamMemberships"`
}

type membershipWire struct {
	TeamID string `json:"teamId"`
}

type createTaskRequest struct {
	TaskTitle    string `json:"taskTitle"`
	TaskDesc     string `json:"taskDesc"`
	TaskStatus   string `json:"taskStatus"`
	TaskPriority string `json:"taskPriority"`
}

type createSprintRequest struct {
	ProjectID  string   `json:"projectId"`
	SprintName string   `json:"sprintName"`
	SprintGoal string   `json:"sprintGoal"`
	StartDate  wireTime `json:"startDate"`
	EndDate    wireTime `json:"endDate"`
}

type updateTaskRequest struct {
	TaskStatus string `json:"taskStatus"`
}

// wireTime accepts the date and timestamp layouts the services emit and
// writes RFC 3339. A null or empty value decodes to the zero time.
type wireTime struct {
	time.Time
}

var wireTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("time must be a string: %w", err)
	}
	for _, layout := range wireTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unrecognized time %q", raw)
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}
