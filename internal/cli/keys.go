package cli

import "github.com/charmbracelet/bubbles/key"

type boardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Advance   key.Binding
	Retreat   key.Binding
	NewTask   key.Binding
	NewSprint key.Binding
	Assign    key.Binding
	Tab       key.Binding
	Reload    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev column")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next column")),
		Advance:   key.NewBinding(key.WithKeys(">", "."), key.WithHelp(">", "move forward")),
		Retreat:   key.NewBinding(key.WithKeys("<", ","), key.WithHelp("<", "move back")),
		NewTask:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		NewSprint: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "new sprint")),
		Assign:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "assign sprint")),
		Tab:       key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "board/sprints")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.NewTask, k.Assign, k.Tab, k.Help, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Advance, k.Retreat, k.Assign},
		{k.NewTask, k.NewSprint, k.Tab},
		{k.Reload, k.Help, k.Quit},
	}
}
