package ui

import (
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/RichardoC/padchat/internal/models"
)

// EmptyDirectoryText replaces the conversation list when there is nothing to show.
const EmptyDirectoryText = "No conversations yet."

type SidebarItem struct {
	ID     models.ConversationID
	Title  string
	Active bool
}

// Sidebar is the rendered conversation list. It only displays what it is
// given; selection is handled by whoever owns the session state.
type Sidebar struct {
	mu      sync.Mutex
	items   []SidebarItem
	renders int
}

func NewSidebar() *Sidebar {
	return &Sidebar{}
}

// Render replaces the displayed list, marking the entry whose id is active.
func (s *Sidebar) Render(list []models.ConversationSummary, active models.ConversationID) {
	items := make([]SidebarItem, len(list))
	for i, c := range list {
		items[i] = SidebarItem{ID: c.ID, Title: c.Title, Active: active != "" && c.ID == active}
	}

	s.mu.Lock()
	s.items = items
	s.renders++
	s.mu.Unlock()
}

func (s *Sidebar) Items() []SidebarItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SidebarItem(nil), s.items...)
}

// Empty reports whether the placeholder is shown instead of controls.
func (s *Sidebar) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items) == 0
}

// Renders counts how many times the sidebar has been redrawn.
func (s *Sidebar) Renders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renders
}

func (s *Sidebar) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return `<div class="muted">` + EmptyDirectoryText + `</div>`
	}
	var b strings.Builder
	for _, it := range s.items {
		class := "chat-link"
		if it.Active {
			class += " active"
		}
		fmt.Fprintf(&b, `<button class="%s" data-id="%s">%s</button>`,
			class, html.EscapeString(string(it.ID)), Sanitize(it.Title))
		b.WriteByte('\n')
	}
	return b.String()
}
