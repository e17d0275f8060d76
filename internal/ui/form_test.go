package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RichardoC/padchat/internal/models"
)

func TestFormModelOptionsDefaultToFirst(t *testing.T) {
	f := NewForm()
	f.SetModelOptions([]string{"m1", "m2"})

	assert.Equal(t, []string{"m1", "m2"}, f.ModelOptions())
	assert.Equal(t, "m1", f.Settings().Model)
}

func TestFormApplyRoundTrip(t *testing.T) {
	f := NewForm()
	f.SetModelOptions([]string{"m0", "m1"})
	require.NoError(t, f.SetSystemPrompt("unsaved edit"))

	f.Apply(models.Settings{Model: "m1", SystemPrompt: "be terse", Temperature: 0.7})

	assert.Equal(t, models.Settings{Model: "m1", SystemPrompt: "be terse", Temperature: 0.7}, f.Settings())
	assert.Equal(t, "0.7", f.TemperatureReadout())
}

func TestFormApplyUnknownModelBecomesOption(t *testing.T) {
	f := NewForm()
	f.SetModelOptions([]string{"m1"})
	f.Apply(models.Settings{Model: "retired", Temperature: 1})

	assert.Equal(t, []string{"m1", "retired"}, f.ModelOptions())
	assert.Equal(t, "retired", f.Settings().Model)
	assert.Equal(t, "1", f.TemperatureReadout())
}

func TestFormDisabledRejectsEdits(t *testing.T) {
	f := NewForm()
	f.SetModelOptions([]string{"m1", "m2"})
	f.SetDisabled(true)

	assert.ErrorIs(t, f.SelectModel("m2"), ErrControlsDisabled)
	assert.ErrorIs(t, f.SetSystemPrompt("x"), ErrControlsDisabled)
	assert.ErrorIs(t, f.SetTemperature(0.2), ErrControlsDisabled)
	assert.ErrorIs(t, f.SetInput("x"), ErrControlsDisabled)
	assert.Equal(t, "m1", f.Settings().Model)

	f.SetDisabled(false)
	assert.NoError(t, f.SelectModel("m2"))
	assert.Error(t, f.SelectModel("nope"))
}

func TestFormTemperatureReadout(t *testing.T) {
	f := NewForm()
	assert.Equal(t, "0", f.TemperatureReadout())
	require.NoError(t, f.SetTemperature(1.25))
	assert.Equal(t, "1.25", f.TemperatureReadout())
}

func TestFormResetInput(t *testing.T) {
	f := NewForm()
	require.NoError(t, f.SetInput("draft"))
	f.SetDisabled(true)
	assert.False(t, f.Focused())

	f.ResetInput()
	assert.Empty(t, f.Input())
	assert.True(t, f.Focused())
}
