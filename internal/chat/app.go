package chat

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/session"
	"github.com/RichardoC/padchat/internal/ui"
)

// App wires the client components around one page and one session state.
type App struct {
	Page       *ui.Page
	State      *session.State
	Catalog    *Catalog
	Directory  *Directory
	Controller *Controller
	Pipeline   *Pipeline

	logger *zap.Logger
}

func New(backend Backend, logger *zap.Logger) *App {
	page := ui.NewPage()
	state := session.New()
	dir := NewDirectory(backend, state, page.Sidebar, logger)
	ctrl := NewController(backend, state, dir, page, logger)
	dir.OnSelect(ctrl.Activate)

	return &App{
		Page:       page,
		State:      state,
		Catalog:    NewCatalog(backend, page.Form, logger),
		Directory:  dir,
		Controller: ctrl,
		Pipeline:   NewPipeline(backend, state, ctrl, dir, page, logger),
		logger:     logger,
	}
}

// Start loads the model catalog and the conversation listing, then opens the
// first conversation if there is one. Any error leaves the page unusable.
func (a *App) Start(ctx context.Context) error {
	if _, err := a.Catalog.Load(ctx); err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	list, err := a.Directory.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	if len(list) > 0 && !a.State.HasActive() {
		if err := a.Controller.Activate(ctx, list[0].ID); err != nil {
			return fmt.Errorf("startup: %w", err)
		}
	}
	a.logger.Info("Chat client ready", zap.Int("conversations", len(list)))
	return nil
}
