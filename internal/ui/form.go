package ui

import (
	"errors"
	"slices"
	"strconv"
	"sync"

	"github.com/RichardoC/padchat/internal/models"
)

// ErrControlsDisabled is returned by user-facing setters while a send is pending.
var ErrControlsDisabled = errors.New("controls are disabled")

// Form holds the editable generation settings, the composer input and the
// enabled state of every interactive control. It is the source of truth for
// the settings persisted on the next send.
type Form struct {
	mu sync.Mutex

	options      []string
	model        string
	systemPrompt string
	temperature  float64
	readout      string

	title    string
	input    string
	focused  bool
	disabled bool
}

func NewForm() *Form {
	return &Form{readout: FormatTemperature(0)}
}

// FormatTemperature produces the live numeric readout, using the shortest
// representation of v ("0.7", not "0.700000").
func FormatTemperature(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SetModelOptions fills the model selector and selects the first option.
func (f *Form) SetModelOptions(names []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.options = append([]string(nil), names...)
	f.model = ""
	if len(f.options) > 0 {
		f.model = f.options[0]
	}
}

func (f *Form) ModelOptions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.options...)
}

// Apply overwrites the settings controls, discarding unsaved edits. A model
// missing from the catalog is added as an option so it survives the next save.
func (f *Form) Apply(s models.Settings) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.Model != "" && !slices.Contains(f.options, s.Model) {
		f.options = append(f.options, s.Model)
	}
	f.model = s.Model
	f.systemPrompt = s.SystemPrompt
	f.temperature = s.Temperature
	f.readout = FormatTemperature(s.Temperature)
}

// Settings returns the current control values.
func (f *Form) Settings() models.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return models.Settings{Model: f.model, SystemPrompt: f.systemPrompt, Temperature: f.temperature}
}

// SelectModel is the user picking a model from the selector.
func (f *Form) SelectModel(model string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabled {
		return ErrControlsDisabled
	}
	if !slices.Contains(f.options, model) {
		return errors.New("unknown model: " + model)
	}
	f.model = model
	return nil
}

func (f *Form) SetSystemPrompt(prompt string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabled {
		return ErrControlsDisabled
	}
	f.systemPrompt = prompt
	return nil
}

// SetTemperature updates the slider and its readout.
func (f *Form) SetTemperature(v float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabled {
		return ErrControlsDisabled
	}
	f.temperature = v
	f.readout = FormatTemperature(v)
	return nil
}

func (f *Form) TemperatureReadout() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readout
}

// SetInput is the user typing into the composer.
func (f *Form) SetInput(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabled {
		return ErrControlsDisabled
	}
	f.input = text
	return nil
}

func (f *Form) Input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.input
}

// ResetInput clears the composer and gives it focus.
func (f *Form) ResetInput() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.input = ""
	f.focused = true
}

func (f *Form) Focused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

// SetDisabled toggles the model, system prompt, temperature, input and send
// controls together.
func (f *Form) SetDisabled(disabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disabled = disabled
	if disabled {
		f.focused = false
	}
}

func (f *Form) Disabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.disabled
}

func (f *Form) SetTitle(title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.title = title
}

func (f *Form) Title() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.title
}
