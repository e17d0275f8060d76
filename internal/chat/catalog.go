package chat

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/ui"
)

var ErrEmptyCatalog = errors.New("model catalog is empty")

// Catalog loads the available models into the model selector.
type Catalog struct {
	backend Backend
	form    *ui.Form
	logger  *zap.Logger
}

func NewCatalog(backend Backend, form *ui.Form, logger *zap.Logger) *Catalog {
	return &Catalog{backend: backend, form: form, logger: logger}
}

// Load fetches the model list once, fills the selector in the returned order
// and selects the first model. There is no fallback list.
func (c *Catalog) Load(ctx context.Context) ([]string, error) {
	names, err := c.backend.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}
	if len(names) == 0 {
		return nil, ErrEmptyCatalog
	}
	c.form.SetModelOptions(names)
	c.logger.Debug("Loaded model catalog",
		zap.Int("count", len(names)),
		zap.String("default", names[0]))
	return names, nil
}
