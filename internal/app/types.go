package app

import (
	"context"
	"io"

	"github.com/zarkzo/ich-review/ichclient"
)

// Selection is the currently held scan file. It is replaced wholesale on
// each successful Select and owned by the submission controller alone.
type Selection struct {
	Name string
	Size int64
	Data []byte
}

// Backend is the slice of the inference client the controller needs.
type Backend interface {
	Predict(ctx context.Context, filename string, r io.Reader) (*ichclient.PredictionPayload, []byte, error)
	Health(ctx context.Context) (*ichclient.HealthStatus, error)
}

// Hooks route the controller's UI side effects. Every field is optional so
// the state machine stays testable without a window.
type Hooks struct {
	// Notify surfaces a blocking notice to the user.
	Notify func(title, message string)
	// Diagnostic emits a non-blocking log line.
	Diagnostic func(message string)
	// ReflectSelection mirrors the selected filename in the UI.
	ReflectSelection func(name string)
	// SetSubmitEnabled toggles the submit action.
	SetSubmitEnabled func(enabled bool)
	// SetBusy raises or clears the busy indicator.
	SetBusy func(busy bool)
	// Navigate switches to the result view.
	Navigate func()
}

func (h Hooks) notify(title, message string) {
	if h.Notify != nil {
		h.Notify(title, message)
	}
}

func (h Hooks) diagnostic(message string) {
	if h.Diagnostic != nil {
		h.Diagnostic(message)
	}
}

func (h Hooks) reflectSelection(name string) {
	if h.ReflectSelection != nil {
		h.ReflectSelection(name)
	}
}

func (h Hooks) setSubmitEnabled(enabled bool) {
	if h.SetSubmitEnabled != nil {
		h.SetSubmitEnabled(enabled)
	}
}

func (h Hooks) setBusy(busy bool) {
	if h.SetBusy != nil {
		h.SetBusy(busy)
	}
}

func (h Hooks) navigate() {
	if h.Navigate != nil {
		h.Navigate()
	}
}
