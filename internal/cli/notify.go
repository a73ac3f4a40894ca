package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/alexanderramin/sprintboard/internal/board"
	"github.com/alexanderramin/sprintboard/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
)

// storeChangedMsg tells the board to re-read the aggregate.
type storeChangedMsg struct{}

// toastMsg carries one dispatcher notification into the TUI.
type toastMsg struct {
	n board.Notification
}

// eventBridge forwards store changes and dispatcher notifications from
// worker goroutines into the bubbletea loop. Error notifications are queued
// apart from the channel and are never dropped.
type eventBridge struct {
	ch chan tea.Msg

	mu   sync.Mutex
	errs []board.Notification
}

func newEventBridge() *eventBridge {
	return &eventBridge{ch: make(chan tea.Msg, 64)}
}

func (b *eventBridge) Notify(n board.Notification) {
	if n.Level == board.LevelError {
		b.mu.Lock()
		b.errs = append(b.errs, n)
		b.mu.Unlock()
		// Wake a blocked wait; a full buffer already guarantees one.
		b.send(storeChangedMsg{})
		return
	}
	b.send(toastMsg{n: n})
}

func (b *eventBridge) changed() {
	b.send(storeChangedMsg{})
}

// send never blocks. A full buffer drops the message; a pending
// storeChangedMsg already covers any later change.
func (b *eventBridge) send(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

func (b *eventBridge) nextError() (board.Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.errs) == 0 {
		return board.Notification{}, false
	}
	n := b.errs[0]
	b.errs = b.errs[1:]
	return n, true
}

// wait returns a Cmd that delivers the next bridged message. Queued errors
// go first; an error toast stands in for a store change since the board
// refreshes on toasts too.
func (b *eventBridge) wait() tea.Cmd {
	return func() tea.Msg {
		if n, ok := b.nextError(); ok {
			return toastMsg{n: n}
		}
		msg := <-b.ch
		if _, ok := msg.(storeChangedMsg); ok {
			if n, ok := b.nextError(); ok {
				return toastMsg{n: n}
			}
		}
		return msg
	}
}

// lineNotifier prints success notifications for one-shot commands.
// Failures are returned to cobra as errors and printed once by main.
type lineNotifier struct {
	w io.Writer
}

func (n lineNotifier) Notify(note board.Notification) {
	if note.Level == board.LevelSuccess {
		fmt.Fprintln(n.w, formatter.StyleGreen.Render("✔ "+note.Message))
	}
}

// renderToast formats a notification for the TUI status line.
func renderToast(n board.Notification) string {
	if n.Level == board.LevelError {
		msg := n.Message
		if n.Err != nil {
			msg += ": " + n.Err.Error()
		}
		return formatter.StyleRed.Render("✖ " + msg)
	}
	return formatter.StyleGreen.Render("✔ " + n.Message)
}
