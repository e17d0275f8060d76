package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/api"
	"github.com/RichardoC/padchat/internal/chat"
	"github.com/RichardoC/padchat/internal/client"
	"github.com/RichardoC/padchat/internal/db"
	"github.com/RichardoC/padchat/internal/llm"
)

type echoModel struct {
	calls int
}

func (m *echoModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "pong"}}}, nil
}

func (m *echoModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func setupREPL(t *testing.T) (*REPL, *chat.App, *bytes.Buffer, *echoModel) {
	t.Helper()
	database, err := db.New(filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	model := &echoModel{}
	h := api.NewHandler(database, llm.NewWithModel(model, "m1", zap.NewNop()), []string{"m1", "m2"}, zap.NewNop())
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)

	app := chat.New(client.New(srv.URL, zap.NewNop()), zap.NewNop())
	require.NoError(t, app.Start(context.Background()))

	out := &bytes.Buffer{}
	return New(app, out, zap.NewNop()), app, out, model
}

func TestHandleSendsMessage(t *testing.T) {
	r, app, out, model := setupREPL(t)

	quit, err := r.Handle(context.Background(), "hello")
	require.NoError(t, err)
	assert.False(t, quit)
	assert.Equal(t, 1, model.calls)

	text := out.String()
	assert.Contains(t, text, "user> hello")
	assert.Contains(t, text, "assistant> ...")
	assert.Contains(t, text, "assistant> pong")

	items := app.Page.Sidebar.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "hello", items[0].Title)
	assert.Empty(t, app.Page.Form.Input())
}

func TestHandleBlankLineIsIgnored(t *testing.T) {
	r, app, _, model := setupREPL(t)

	_, err := r.Handle(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, 0, model.calls)
	assert.True(t, app.Page.Sidebar.Empty())
}

func TestHandleSettingsCommands(t *testing.T) {
	r, app, out, _ := setupREPL(t)
	ctx := context.Background()

	_, err := r.Handle(ctx, "/models")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "* m1\n  m2\n")

	_, err = r.Handle(ctx, "/model m2")
	require.NoError(t, err)
	assert.Equal(t, "m2", app.Page.Form.Settings().Model)

	_, err = r.Handle(ctx, "/system be brief")
	require.NoError(t, err)
	assert.Equal(t, "be brief", app.Page.Form.Settings().SystemPrompt)

	_, err = r.Handle(ctx, "/temp 1.1")
	require.NoError(t, err)
	assert.Equal(t, "1.1", app.Page.Form.TemperatureReadout())

	_, err = r.Handle(ctx, "/temp warm")
	assert.ErrorContains(t, err, "invalid temperature")
}

func TestHandleConversationCommands(t *testing.T) {
	r, app, out, _ := setupREPL(t)
	ctx := context.Background()

	_, err := r.Handle(ctx, "/list")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No conversations yet.")

	_, err = r.Handle(ctx, "first question")
	require.NoError(t, err)
	first := app.State.ActiveID()

	_, err = r.Handle(ctx, "/new")
	require.NoError(t, err)
	require.Len(t, app.Page.Sidebar.Items(), 2)
	assert.NotEqual(t, first, app.State.ActiveID())
	assert.Zero(t, app.Page.Transcript.Len())

	pos := 0
	for i, it := range app.Page.Sidebar.Items() {
		if it.ID == first {
			pos = i + 1
		}
	}
	require.NotZero(t, pos)

	out.Reset()
	_, err = r.Handle(ctx, "/open "+strconv.Itoa(pos))
	require.NoError(t, err)
	assert.Equal(t, first, app.State.ActiveID())
	assert.Contains(t, out.String(), "── first question ──")
	assert.Equal(t, 2, app.Page.Transcript.Len())

	_, err = r.Handle(ctx, "/open 99")
	assert.ErrorContains(t, err, "no conversation")
	_, err = r.Handle(ctx, "/open")
	assert.ErrorContains(t, err, "usage")

	out.Reset()
	_, err = r.Handle(ctx, "/list")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}

func TestHandleUnknownCommand(t *testing.T) {
	r, _, _, _ := setupREPL(t)
	_, err := r.Handle(context.Background(), "/dance")
	assert.ErrorContains(t, err, "unknown command /dance")
}

func TestRunStopsAtQuit(t *testing.T) {
	r, _, out, model := setupREPL(t)

	err := r.Run(context.Background(), strings.NewReader("hi\n/quit\nnever sent\n"))
	require.NoError(t, err)
	assert.Equal(t, 1, model.calls)
	assert.Contains(t, out.String(), "padchat ready")
}

func TestRunStopsAtEOF(t *testing.T) {
	r, _, out, _ := setupREPL(t)

	require.NoError(t, r.Run(context.Background(), strings.NewReader("/bogus\n")))
	assert.Contains(t, out.String(), "error: unknown command /bogus")
}
