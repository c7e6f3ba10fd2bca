// Package chatlog is the view model behind the chat pane: an ordered,
// append-only list of message records. Rendering lives with the UI.
package chatlog

import (
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// Role identifies who authored an entry.
type Role string

const (
	RoleUser   Role = "user"
	RoleBot    Role = "bot"
	RoleSystem Role = "system" // client-side notices, never sent to the backend
)

// Class returns the presentation class for the role.
func (r Role) Class() string {
	switch r {
	case RoleBot:
		return "bot-msg"
	case RoleSystem:
		return "system-msg"
	default:
		return "user-msg"
	}
}

// Entry is one rendered line of conversation.
type Entry struct {
	Role Role
	Text string
	Time time.Time
}

// String renders the entry as "role:text".
func (e Entry) String() string {
	return string(e.Role) + ":" + e.Text
}

// Log is safe for concurrent use.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// New returns an empty log.
func New() *Log {
	return &Log{now: time.Now}
}

// Append adds an entry and returns it as stored. Text is reduced to plain
// content before storing.
func (l *Log) Append(role Role, text string) Entry {
	e := Entry{Role: role, Text: PlainText(text), Time: l.now()}
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
	return e
}

// Entries returns a copy of all entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Last returns the most recent entry.
func (l *Log) Last() (Entry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}

// Strings returns every entry formatted with Entry.String.
func (l *Log) Strings() []string {
	entries := l.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}

// PlainText strips terminal escape sequences and control characters other
// than newline and tab, so text from the backend is shown, never interpreted.
func PlainText(s string) string {
	s = ansi.Strip(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		case r >= 0x80 && r < 0xa0:
			return -1
		}
		return r
	}, s)
}
