package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/RichardoC/padchat/internal/models"
)

// fakeBackend records every call and serves canned data.
type fakeBackend struct {
	mu sync.Mutex

	models    []string
	modelsErr error

	chats   []models.ConversationSummary
	listErr error
	details map[models.ConversationID]*models.ConversationDetail
	getErr  error

	createErr error
	nextID    int

	settingsErr error

	sendResp *models.SendMessageResponse
	sendErr  error
	onSend   func()

	calls   []string
	created []models.CreateChatRequest
	updated []models.Settings
	sent    []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		models:   []string{"m1", "m2"},
		details:  map[models.ConversationID]*models.ConversationDetail{},
		sendResp: &models.SendMessageResponse{},
	}
}

// addChat registers a conversation both in the listing and as a detail.
func (f *fakeBackend) addChat(d models.ConversationDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, d.Summary())
	f.details[d.ID] = &d
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) ListModels(ctx context.Context) ([]string, error) {
	f.record("ListModels")
	if f.modelsErr != nil {
		return nil, f.modelsErr
	}
	return append([]string(nil), f.models...), nil
}

func (f *fakeBackend) ListChats(ctx context.Context) ([]models.ConversationSummary, error) {
	f.record("ListChats")
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ConversationSummary(nil), f.chats...), nil
}

func (f *fakeBackend) GetChat(ctx context.Context, id models.ConversationID) (*models.ConversationDetail, error) {
	f.record("GetChat " + id.String())
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[id]
	if !ok {
		return nil, fmt.Errorf("chat %s not found", id)
	}
	cp := *d
	cp.Messages = append([]models.Message(nil), d.Messages...)
	return &cp, nil
}

func (f *fakeBackend) CreateChat(ctx context.Context, req models.CreateChatRequest) (models.ConversationID, error) {
	f.record("CreateChat")
	if f.createErr != nil {
		return "", f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, req)
	f.nextID++
	id := models.ConversationID(fmt.Sprintf("n%d", f.nextID))
	d := &models.ConversationDetail{
		ID:           id,
		Title:        req.Title,
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		Temperature:  req.Temperature,
	}
	f.details[id] = d
	f.chats = append([]models.ConversationSummary{d.Summary()}, f.chats...)
	return id, nil
}

func (f *fakeBackend) UpdateSettings(ctx context.Context, id models.ConversationID, s models.Settings) error {
	f.record("UpdateSettings " + id.String())
	f.mu.Lock()
	f.updated = append(f.updated, s)
	f.mu.Unlock()
	return f.settingsErr
}

func (f *fakeBackend) SendMessage(ctx context.Context, id models.ConversationID, content string) (*models.SendMessageResponse, error) {
	f.record("SendMessage " + id.String())
	f.mu.Lock()
	f.sent = append(f.sent, content)
	hook := f.onSend
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	resp := *f.sendResp
	return &resp, nil
}
