package models

// RequestIDHeader carries a per-request id from the client into server logs.
const RequestIDHeader = "X-Request-ID"

// Request and response bodies of the chat HTTP API.

type CreateChatRequest struct {
	Title        string  `json:"title"`
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt"`
	Temperature  float64 `json:"temperature"`
}

type CreateChatResponse struct {
	ID    ConversationID `json:"id"`
	Title string         `json:"title,omitempty"`
}

// UpdateSettingsRequest carries a partial settings update; nil fields are
// left unchanged by the server.
type UpdateSettingsRequest struct {
	Model        *string  `json:"model,omitempty"`
	SystemPrompt *string  `json:"system_prompt,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
}

func FullSettingsUpdate(s Settings) UpdateSettingsRequest {
	return UpdateSettingsRequest{Model: &s.Model, SystemPrompt: &s.SystemPrompt, Temperature: &s.Temperature}
}

type SendMessageRequest struct {
	Content string `json:"content"`
}

type SendMessageResponse struct {
	Reply string `json:"reply,omitempty"`
	Title string `json:"title,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
