package chat

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/models"
	"github.com/RichardoC/padchat/internal/session"
	"github.com/RichardoC/padchat/internal/ui"
)

// DefaultTitle is the title given to conversations created from the client.
const DefaultTitle = "New chat"

// Controller loads conversations into the page and tracks the active one.
type Controller struct {
	backend Backend
	state   *session.State
	dir     *Directory
	page    *ui.Page
	logger  *zap.Logger

	// serialises applying fetched details so two activations never
	// interleave their transcript writes
	applyMu sync.Mutex
}

func NewController(backend Backend, state *session.State, dir *Directory, page *ui.Page, logger *zap.Logger) *Controller {
	return &Controller{backend: backend, state: state, dir: dir, page: page, logger: logger}
}

// Activate fetches the conversation and makes it the active one: the
// transcript is rebuilt from its messages and the settings controls are
// overwritten, discarding unsaved edits. On error nothing changes.
func (c *Controller) Activate(ctx context.Context, id models.ConversationID) error {
	detail, err := c.backend.GetChat(ctx, id)
	if err != nil {
		return fmt.Errorf("get chat %s: %w", id, err)
	}

	c.applyMu.Lock()
	defer c.applyMu.Unlock()

	c.state.Activate(detail.Summary())
	c.page.Form.SetTitle(detail.Title)

	c.page.Transcript.Clear()
	for _, m := range detail.Messages {
		c.page.Transcript.AppendMessage(m.Role, m.Content)
	}
	c.page.Form.Apply(detail.Settings())
	c.dir.Render()

	c.logger.Debug("Activated conversation",
		zap.String("conversationID", id.String()),
		zap.Int("messages", len(detail.Messages)))
	return nil
}

// CreateAndActivate creates a conversation carrying the current form
// settings, refreshes the directory once and activates the new conversation.
func (c *Controller) CreateAndActivate(ctx context.Context, title string) (models.ConversationID, error) {
	s := c.page.Form.Settings()
	id, err := c.backend.CreateChat(ctx, models.CreateChatRequest{
		Title:        title,
		Model:        s.Model,
		SystemPrompt: s.SystemPrompt,
		Temperature:  s.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("create chat: %w", err)
	}
	c.logger.Info("Created conversation",
		zap.String("conversationID", id.String()),
		zap.String("model", s.Model))

	// The create response does not tell us where the chat sits in the listing.
	if _, err := c.dir.Refresh(ctx); err != nil {
		return id, err
	}
	if err := c.Activate(ctx, id); err != nil {
		return id, err
	}
	return id, nil
}

// NewChat is the "start new conversation" action.
func (c *Controller) NewChat(ctx context.Context) (models.ConversationID, error) {
	return c.CreateAndActivate(ctx, DefaultTitle)
}
