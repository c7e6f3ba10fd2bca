package chatlog

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"go.uber.org/goleak"
)

func TestLog_AppendOrder(t *testing.T) {
	l := New()
	l.Append(RoleUser, "hello")
	l.Append(RoleBot, "Thanks Alice")

	want := []string{"user:hello", "bot:Thanks Alice"}
	if diff := cmp.Diff(want, l.Strings()); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
	if l.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", l.Len())
	}
}

func TestLog_EntriesIsCopy(t *testing.T) {
	l := New()
	l.Append(RoleUser, "one")

	entries := l.Entries()
	entries[0].Text = "mutated"

	if got, _ := l.Last(); got.Text != "one" {
		t.Errorf("log was mutated through Entries(): %q", got.Text)
	}
}

func TestLog_LastEmpty(t *testing.T) {
	if _, ok := New().Last(); ok {
		t.Error("expected no last entry on empty log")
	}
}

func TestLog_TimestampsFromClock(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return fixed }

	l.Append(RoleSystem, "note")

	want := []Entry{{Role: RoleSystem, Text: "note", Time: fixed}}
	if diff := cmp.Diff(want, l.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestLog_ConcurrentAppend(t *testing.T) {
	defer goleak.VerifyNone(t)
	l := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Append(RoleUser, "x")
		}()
	}
	wg.Wait()

	if l.Len() != 50 {
		t.Errorf("expected 50 entries, got %d", l.Len())
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"keeps newlines and tabs", "a\n\tb", "a\n\tb"},
		{"strips sgr", "\x1b[31mred\x1b[0m", "red"},
		{"strips osc title", "\x1b]0;pwned\x07ok", "ok"},
		{"drops bell and backspace", "a\x07b\x08c", "abc"},
		{"normalizes crlf", "a\r\nb", "a\nb"},
		{"markup stays literal", "<b>bold</b>", "<b>bold</b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLog_AppendSanitizes(t *testing.T) {
	l := New()
	l.Append(RoleBot, "\x1b[2Jcleared?")

	got := l.Entries()
	want := []Entry{{Role: RoleBot, Text: "cleared?"}}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(Entry{}, "Time")); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestRole_Class(t *testing.T) {
	if RoleBot.Class() != "bot-msg" || RoleUser.Class() != "user-msg" || RoleSystem.Class() != "system-msg" {
		t.Error("unexpected role classes")
	}
}
