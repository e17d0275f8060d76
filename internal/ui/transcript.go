package ui

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/RichardoC/padchat/internal/models"
)

// PlaceholderText is shown in an assistant entry until its reply arrives.
const PlaceholderText = "..."

type EventKind int

const (
	EventAppended EventKind = iota
	EventReplaced
	EventCleared
)

// Event describes a single transcript mutation. Entry is zero for EventCleared.
type Event struct {
	Kind  EventKind
	Index int
	Entry EntryView
}

// EntryView is a read-only snapshot of a rendered transcript entry.
type EntryView struct {
	Role    string
	Content string
	HTML    string
}

// Entry is the handle returned by AppendMessage. It allows the caller to
// overwrite the displayed content of that entry exactly once.
type Entry struct {
	t        *Transcript
	role     string
	content  string
	html     string
	replaced bool
	detached bool
}

// Transcript is the scrolling list of role-tagged messages of the active
// conversation. It is a pure view and is safe for concurrent use.
type Transcript struct {
	mu       sync.Mutex
	entries  []*Entry
	scrollTo int
	onChange func(Event)
}

func NewTranscript() *Transcript {
	return &Transcript{scrollTo: -1}
}

// OnChange registers a listener that is called after every mutation.
// The listener runs outside the transcript lock.
func (t *Transcript) OnChange(fn func(Event)) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// AppendMessage adds an entry, scrolls the view to it and returns its handle.
func (t *Transcript) AppendMessage(role, content string) *Entry {
	e := &Entry{t: t, role: role, content: content, html: Sanitize(content)}

	t.mu.Lock()
	t.entries = append(t.entries, e)
	idx := len(t.entries) - 1
	t.scrollTo = idx
	view := e.view()
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(Event{Kind: EventAppended, Index: idx, Entry: view})
	}
	return e
}

// Clear removes every entry. Handles to removed entries become inert.
func (t *Transcript) Clear() {
	t.mu.Lock()
	for _, e := range t.entries {
		e.detached = true
	}
	t.entries = nil
	t.scrollTo = -1
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(Event{Kind: EventCleared, Index: -1})
	}
}

// Replace overwrites the entry's content in place. It reports false when the
// entry was already replaced or has been cleared from the transcript.
func (e *Entry) Replace(content string) bool {
	t := e.t
	t.mu.Lock()
	if e.replaced || e.detached {
		t.mu.Unlock()
		return false
	}
	e.replaced = true
	e.content = content
	e.html = Sanitize(content)
	idx := t.indexOf(e)
	view := e.view()
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil {
		fn(Event{Kind: EventReplaced, Index: idx, Entry: view})
	}
	return true
}

func (e *Entry) Role() string {
	return e.role
}

func (e *Entry) Content() string {
	e.t.mu.Lock()
	defer e.t.mu.Unlock()
	return e.content
}

func (e *Entry) view() EntryView {
	return EntryView{Role: e.role, Content: e.content, HTML: e.html}
}

func (t *Transcript) indexOf(e *Entry) int {
	for i, x := range t.entries {
		if x == e {
			return i
		}
	}
	return -1
}

func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *Transcript) Entries() []EntryView {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]EntryView, len(t.entries))
	for i, e := range t.entries {
		out[i] = e.view()
	}
	return out
}

// ScrollPosition is the index of the entry the view is scrolled to, or -1.
func (t *Transcript) ScrollPosition() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scrollTo
}

// HTML renders the transcript as bubble markup.
func (t *Transcript) HTML() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var b strings.Builder
	for _, e := range t.entries {
		role := html.EscapeString(e.role)
		fmt.Fprintf(&b, `<div class="bubble %s"><div class="role %s">%s</div><div class="content">%s</div></div>`,
			role, role, roleBadge(e.role), e.html)
		b.WriteByte('\n')
	}
	return b.String()
}

// Text renders the transcript as plain "role: content" lines.
func (t *Transcript) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var b strings.Builder
	for _, e := range t.entries {
		fmt.Fprintf(&b, "%s: %s\n", e.role, e.content)
	}
	return b.String()
}

func roleBadge(role string) string {
	if role == models.RoleUser {
		return "U"
	}
	return "A"
}
