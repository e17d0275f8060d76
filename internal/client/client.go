// Package client talks to the chat backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/models"
)

const RequestIDHeader = models.RequestIDHeader

// APIError is returned when the backend answers with a non-2xx status.
type APIError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for the backend rooted at baseURL. No request timeout
// is applied; callers bound requests with their context.
func New(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatDetailResponse struct {
	Chat     models.ConversationDetail `json:"chat"`
	Messages []transcriptMessage       `json:"messages"`
}

// transcriptMessage is the part of a stored message the client renders.
// Timestamps and ids are ignored; backends disagree on their formats.
type transcriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.do(ctx, "list models", http.MethodGet, "/api/models", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListChats(ctx context.Context) ([]models.ConversationSummary, error) {
	out := make([]models.ConversationSummary, 0)
	if err := c.do(ctx, "list chats", http.MethodGet, "/api/chats", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetChat fetches a conversation's settings together with its transcript.
func (c *Client) GetChat(ctx context.Context, id models.ConversationID) (*models.ConversationDetail, error) {
	var resp chatDetailResponse
	if err := c.do(ctx, "get chat", http.MethodGet, chatPath(id), nil, &resp); err != nil {
		return nil, err
	}
	detail := resp.Chat
	if detail.ID == "" {
		detail.ID = id
	}
	detail.Messages = make([]models.Message, len(resp.Messages))
	for i, m := range resp.Messages {
		detail.Messages[i] = models.Message{Role: m.Role, Content: m.Content}
	}
	return &detail, nil
}

func (c *Client) CreateChat(ctx context.Context, req models.CreateChatRequest) (models.ConversationID, error) {
	var resp models.CreateChatResponse
	if err := c.do(ctx, "create chat", http.MethodPost, "/api/chats", req, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", errors.New("create chat: response carried no id")
	}
	return resp.ID, nil
}

func (c *Client) UpdateSettings(ctx context.Context, id models.ConversationID, s models.Settings) error {
	return c.do(ctx, "update settings", http.MethodPost, chatPath(id)+"/config", models.FullSettingsUpdate(s), nil)
}

func (c *Client) SendMessage(ctx context.Context, id models.ConversationID, content string) (*models.SendMessageResponse, error) {
	var resp models.SendMessageResponse
	if err := c.do(ctx, "send message", http.MethodPost, chatPath(id)+"/message", models.SendMessageRequest{Content: content}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func chatPath(id models.ConversationID) string {
	return "/api/chats/" + url.PathEscape(string(id))
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("op", op),
			zap.String("requestID", requestID),
			zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("request completed",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("requestID", requestID))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Op: op, StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var e models.ErrorResponse
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(data))
}
