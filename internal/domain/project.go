package domain

import "time"

// Project is the aggregate root: the project record plus its tasks and
// sprints. Slice order is insertion order and is preserved by every
// operation that rewrites an element in place.
type Project struct {
	ID          string
	Name        string
	Description string
	TeamID      string
	CreatedAt   time.Time
	Tasks       []Task
	Sprints     []Sprint
}

// Clone returns a deep copy. Task.SprintID pointers are not shared with the
// receiver.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	if p.Tasks != nil {
		c.Tasks = make([]Task, len(p.Tasks))
		for i, t := range p.Tasks {
			c.Tasks[i] = t.Clone()
		}
	}
	if p.Sprints != nil {
		c.Sprints = make([]Sprint, len(p.Sprints))
		copy(c.Sprints, p.Sprints)
	}
	return &c
}

// TaskIndex returns the slice position of the task with the given id, or -1.
func (p *Project) TaskIndex(id string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// SprintIndex returns the slice position of the sprint with the given id, or -1.
func (p *Project) SprintIndex(id string) int {
	for i := range p.Sprints {
		if p.Sprints[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *Project) TaskByID(id string) (*Task, bool) {
	i := p.TaskIndex(id)
	if i < 0 {
		return nil, false
	}
	return &p.Tasks[i], true
}

func (p *Project) SprintByID(id string) (*Sprint, bool) {
	i := p.SprintIndex(id)
	if i < 0 {
		return nil, false
	}
	return &p.Sprints[i], true
}

func (p *Project) HasSprint(id string) bool {
	return p.SprintIndex(id) >= 0
}

// ProjectSummary is a project as listed for a team, without its tasks and
// sprints.
type ProjectSummary struct {
	ID          string
	Name        string
	Description string
	TeamID      string
	CreatedAt   time.Time
}
