// Package chat keeps the client's conversation view in sync with the backend
// and sequences the requests needed to send a message.
package chat

import (
	"context"

	"github.com/RichardoC/padchat/internal/models"
)

// Backend is the chat HTTP API as consumed by the client. *client.Client
// implements it.
type Backend interface {
	ListModels(ctx context.Context) ([]string, error)
	ListChats(ctx context.Context) ([]models.ConversationSummary, error)
	GetChat(ctx context.Context, id models.ConversationID) (*models.ConversationDetail, error)
	CreateChat(ctx context.Context, req models.CreateChatRequest) (models.ConversationID, error)
	UpdateSettings(ctx context.Context, id models.ConversationID, s models.Settings) error
	SendMessage(ctx context.Context, id models.ConversationID, content string) (*models.SendMessageResponse, error)
}
