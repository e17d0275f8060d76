package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/models"
	"github.com/RichardoC/padchat/internal/session"
	"github.com/RichardoC/padchat/internal/ui"
)

// Directory caches the conversation listing and draws the sidebar.
type Directory struct {
	backend  Backend
	state    *session.State
	sidebar  *ui.Sidebar
	logger   *zap.Logger
	onSelect func(context.Context, models.ConversationID) error
}

func NewDirectory(backend Backend, state *session.State, sidebar *ui.Sidebar, logger *zap.Logger) *Directory {
	return &Directory{backend: backend, state: state, sidebar: sidebar, logger: logger}
}

// OnSelect sets what happens when a sidebar entry is chosen. The directory
// never changes the active conversation itself.
func (d *Directory) OnSelect(fn func(context.Context, models.ConversationID) error) {
	d.onSelect = fn
}

// Refresh replaces the cached listing with the server's and redraws.
func (d *Directory) Refresh(ctx context.Context) ([]models.ConversationSummary, error) {
	list, err := d.backend.ListChats(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	if cleared := d.state.ReplaceDirectory(list); cleared {
		d.logger.Info("Active conversation no longer listed, clearing selection")
	}
	d.logger.Debug("Refreshed conversation directory", zap.Int("count", len(list)))
	d.Render()
	return d.state.Directory(), nil
}

// PatchTitle updates one cached title without refetching.
func (d *Directory) PatchTitle(id models.ConversationID, title string) {
	d.state.PatchTitle(id, title)
	d.Render()
}

// Select is the user clicking a sidebar entry.
func (d *Directory) Select(ctx context.Context, id models.ConversationID) error {
	if d.onSelect == nil {
		return fmt.Errorf("no selection handler for conversation %s", id)
	}
	return d.onSelect(ctx, id)
}

// Render redraws the sidebar from the session state.
func (d *Directory) Render() {
	list, active := d.state.Snapshot()
	d.sidebar.Render(list, active)
}
