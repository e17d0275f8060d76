package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ConversationID is assigned by the server and treated as opaque by the client.
// The backend emits integers, but any JSON number or string is accepted.
type ConversationID string

func (id *ConversationID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ConversationID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("conversation id: %w", err)
	}
	*id = ConversationID(n.String())
	return nil
}

func (id ConversationID) String() string {
	return string(id)
}

type Message struct {
	ID        int64     `json:"id,omitempty"`
	ConvID    int64     `json:"chat_id,omitempty"`
	Role      string    `json:"role"` // user, assistant, or system
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Settings are the per-conversation generation parameters.
type Settings struct {
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
}

type ConversationSummary struct {
	ID    ConversationID `json:"id"`
	Title string         `json:"title"`
}

type ConversationDetail struct {
	ID           ConversationID `json:"id"`
	Title        string         `json:"title"`
	Model        string         `json:"model"`
	SystemPrompt string         `json:"system_prompt"`
	Temperature  float64        `json:"temperature"`
	CreatedAt    string         `json:"created_at,omitempty"`
	UpdatedAt    string         `json:"updated_at,omitempty"`
	Messages     []Message      `json:"-"`
}

func (d ConversationDetail) Summary() ConversationSummary {
	return ConversationSummary{ID: d.ID, Title: d.Title}
}

func (d ConversationDetail) Settings() Settings {
	return Settings{Model: d.Model, SystemPrompt: d.SystemPrompt, Temperature: d.Temperature}
}

// Chat is the backend's stored row for a conversation.
type Chat struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Model        string    `json:"model"`
	SystemPrompt string    `json:"system_prompt"`
	Temperature  float64   `json:"temperature"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
