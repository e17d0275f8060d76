package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/ui"
)

func TestCatalogLoadSelectsFirst(t *testing.T) {
	backend := newFakeBackend()
	backend.models = []string{"b", "a", "c"}
	form := ui.NewForm()

	got, err := NewCatalog(backend, form, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, got)
	assert.Equal(t, []string{"b", "a", "c"}, form.ModelOptions())
	assert.Equal(t, "b", form.Settings().Model)
}

func TestCatalogLoadErrors(t *testing.T) {
	backend := newFakeBackend()
	backend.modelsErr = errors.New("offline")
	_, err := NewCatalog(backend, ui.NewForm(), zap.NewNop()).Load(context.Background())
	assert.ErrorContains(t, err, "offline")

	backend = newFakeBackend()
	backend.models = nil
	_, err = NewCatalog(backend, ui.NewForm(), zap.NewNop()).Load(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}
