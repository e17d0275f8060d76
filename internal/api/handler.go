package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/db"
	"github.com/RichardoC/padchat/internal/llm"
	"github.com/RichardoC/padchat/internal/models"
)

const (
	defaultTitle       = "New chat"
	defaultTemperature = 0.7
	titleLimit         = 40
)

type Handler struct {
	db     *db.Database
	llm    *llm.Service
	models []string
	logger *zap.Logger
}

func NewHandler(database *db.Database, llmService *llm.Service, modelList []string, logger *zap.Logger) *Handler {
	return &Handler{
		db:     database,
		llm:    llmService,
		models: modelList,
		logger: logger,
	}
}

// Routes returns the API mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/models", h.ListModels)
	mux.HandleFunc("GET /api/chats", h.ListChats)
	mux.HandleFunc("POST /api/chats", h.CreateChat)
	mux.HandleFunc("GET /api/chats/{id}", h.GetChat)
	mux.HandleFunc("DELETE /api/chats/{id}", h.DeleteChat)
	mux.HandleFunc("POST /api/chats/{id}/config", h.UpdateConfig)
	mux.HandleFunc("POST /api/chats/{id}/message", h.SendMessage)
	return mux
}

type chatResponse struct {
	Chat     models.Chat      `json:"chat"`
	Messages []models.Message `json:"messages"`
}

func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, h.models)
}

func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.db.GetChats()
	if err != nil {
		h.requestLogger(r).Error("Failed to get chats", zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.requestLogger(r).Debug("Retrieved chats", zap.Int("count", len(chats)))
	h.writeJSON(w, r, http.StatusOK, chats)
}

func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req models.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = defaultTitle
	}
	settings := models.Settings{
		Model:        strings.TrimSpace(req.Model),
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
	}
	if settings.Model == "" {
		settings.Model = h.llm.DefaultModel()
	}
	// A zero temperature is indistinguishable from an absent one.
	if settings.Temperature == 0 {
		settings.Temperature = defaultTemperature
	}

	chat, err := h.db.CreateChat(title, settings)
	if err != nil {
		h.requestLogger(r).Error("Failed to create chat", zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.requestLogger(r).Info("Created chat", zap.Int64("chatID", chat.ID), zap.String("model", chat.Model))
	h.writeJSON(w, r, http.StatusOK, models.CreateChatResponse{
		ID:    models.ConversationID(strconv.FormatInt(chat.ID, 10)),
		Title: chat.Title,
	})
}

func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.lookupChat(w, r)
	if !ok {
		return
	}

	messages, err := h.db.GetMessages(chat.ID)
	if err != nil {
		h.requestLogger(r).Error("Failed to get messages", zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, r, http.StatusOK, chatResponse{Chat: *chat, Messages: messages})
}

func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := h.chatID(w, r)
	if !ok {
		return
	}

	var req models.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.db.UpdateSettings(id, req); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.requestLogger(r).Error("Failed to update chat settings", zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		h.writeError(w, r, http.StatusBadRequest, "content required")
		return
	}

	chat, ok := h.lookupChat(w, r)
	if !ok {
		return
	}
	logger := h.requestLogger(r).With(zap.Int64("chatID", chat.ID))

	// Save user message
	userMsg := &models.Message{ConvID: chat.ID, Role: models.RoleUser, Content: content}
	if err := h.db.SaveMessage(userMsg); err != nil {
		logger.Error("Failed to save user message", zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, "Failed to save message")
		return
	}

	history, err := h.db.GetMessages(chat.ID)
	if err != nil {
		logger.Error("Failed to get history", zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	// An upstream failure becomes the assistant's reply rather than an HTTP error.
	reply, err := h.llm.Reply(r.Context(), *chat, history)
	if err != nil {
		logger.Warn("Upstream model failed", zap.Error(err))
		reply = "⚠️ upstream error: " + err.Error()
	}

	assistantMsg := &models.Message{ConvID: chat.ID, Role: models.RoleAssistant, Content: reply}
	if err := h.db.SaveMessage(assistantMsg); err != nil {
		logger.Error("Failed to save assistant message", zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, "Failed to save message")
		return
	}

	title := chat.Title
	if title == defaultTitle {
		if first := firstUserMessage(history); first != "" {
			title = titleFrom(first)
		}
	}
	if err := h.db.TouchChat(chat.ID, title); err != nil {
		logger.Error("Failed to update chat", zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, r, http.StatusOK, models.SendMessageResponse{Reply: reply, Title: title})
}

func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	id, ok := h.chatID(w, r)
	if !ok {
		return
	}

	if err := h.db.DeleteChat(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			h.writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
		h.requestLogger(r).Error("Failed to delete chat", zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) chatID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, "Invalid chat ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) lookupChat(w http.ResponseWriter, r *http.Request) (*models.Chat, bool) {
	id, ok := h.chatID(w, r)
	if !ok {
		return nil, false
	}
	chat, err := h.db.GetChat(id)
	if errors.Is(err, db.ErrNotFound) {
		h.writeError(w, r, http.StatusNotFound, err.Error())
		return nil, false
	}
	if err != nil {
		h.requestLogger(r).Error("Failed to get chat", zap.Error(err))
		h.writeError(w, r, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return chat, true
}

func (h *Handler) requestLogger(r *http.Request) *zap.Logger {
	return h.logger.With(
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("requestID", r.Header.Get(models.RequestIDHeader)))
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.requestLogger(r).Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.writeJSON(w, r, status, models.ErrorResponse{Error: msg})
}

func firstUserMessage(history []models.Message) string {
	for _, m := range history {
		if m.Role == models.RoleUser {
			return m.Content
		}
	}
	return ""
}

// titleFrom cuts text to the title limit, marking truncation with an ellipsis.
func titleFrom(text string) string {
	if utf8.RuneCountInString(text) <= titleLimit {
		return text
	}
	return string([]rune(text)[:titleLimit]) + "…"
}
