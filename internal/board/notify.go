package board

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is user-facing feedback for one resolved command.
type Notification struct {
	Level   Level
	Kind    MutationKind
	Message string
	Err     error
}

// Notifier surfaces notifications to the user (toast line, stderr, ...).
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// NoopNotifier drops every notification.
type NoopNotifier struct{}

func (NoopNotifier) Notify(Notification) {}

func failureMessage(kind MutationKind) string {
	switch kind {
	case KindCreateTask:
		return "Failed to create task"
	case KindCreateSprint:
		return "Failed to create sprint"
	case KindSetTaskStatus:
		return "Failed to update task status"
	case KindAssignTaskToSprint:
		return "Failed to assign task to sprint"
	default:
		return "Failed to apply change"
	}
}

func successMessage(kind MutationKind, unassign bool) string {
	switch kind {
	case KindCreateTask:
		return "Task created successfully!"
	case KindCreateSprint:
		return "Sprint created successfully!"
	case KindSetTaskStatus:
		return "Task status updated successfully!"
	case KindAssignTaskToSprint:
		if unassign {
			return "Task removed from sprint."
		}
		return "Task assigned to sprint successfully!"
	default:
		return "Change saved."
	}
}
