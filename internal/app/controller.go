package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mdobak/go-xerrors"

	"github.com/zarkzo/ich-review/ichclient"
)

// ErrNoSelection is returned by Submit when no scan file is held.
var ErrNoSelection = errors.New("no file selected")

// SubmissionController drives the submission workflow: it validates a chosen
// scan, holds the single current selection, uploads it and hands the result
// payload to the session slot before navigating. All UI effects go through
// Hooks; the controller itself never touches a widget.
type SubmissionController struct {
	cfg    ichclient.Config
	api    Backend
	store  *ichclient.SessionStore
	hooks  Hooks
	logger *slog.Logger

	mu       sync.Mutex
	sel      *Selection
	inFlight bool
}

func NewSubmissionController(cfg ichclient.Config, api Backend, store *ichclient.SessionStore, hooks Hooks) *SubmissionController {
	return &SubmissionController{
		cfg:    cfg,
		api:    api,
		store:  store,
		hooks:  hooks,
		logger: ichclient.GetLogger(),
	}
}

// Select validates a candidate file and, on success, makes it the current
// selection. On failure the previous selection is left untouched and the
// reason is surfaced as a blocking notice.
func (c *SubmissionController) Select(name string, size int64, data []byte) error {
	if err := ichclient.ValidateSelection(c.cfg, name, size); err != nil {
		c.hooks.notify("Invalid file", err.Error())
		return err
	}

	c.mu.Lock()
	c.sel = &Selection{Name: name, Size: size, Data: data}
	c.mu.Unlock()

	c.logger.Info("scan selected", slog.String("file", name), slog.Int64("bytes", size))
	c.hooks.reflectSelection(name)
	c.hooks.setSubmitEnabled(true)
	return nil
}

// Selection returns the currently held file, or nil.
func (c *SubmissionController) Selection() *Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sel
}

// Submit uploads the current selection. With no selection it notifies and
// performs no network activity. Failures are terminal for the attempt: the
// busy indicator is cleared and the submit action re-enabled so the user can
// retry. On success the raw response body is written to the session slot and
// the controller navigates to the result view, leaving the busy indicator
// active since the view is about to be replaced.
func (c *SubmissionController) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.sel == nil {
		c.mu.Unlock()
		c.hooks.notify("No file selected", "Choose a scan file before uploading.")
		return ErrNoSelection
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil
	}
	c.inFlight = true
	sel := c.sel
	c.mu.Unlock()

	c.hooks.setSubmitEnabled(false)
	c.hooks.setBusy(true)

	_, raw, err := c.api.Predict(ctx, sel.Name, bytes.NewReader(sel.Data))
	if err != nil {
		c.fail(ctx, err)
		return err
	}

	if err := c.store.Put(ichclient.SessionKey, raw); err != nil {
		c.fail(ctx, err)
		return err
	}

	c.logger.Info("prediction stored", slog.String("file", sel.Name), slog.Int("payloadBytes", len(raw)))
	c.hooks.navigate()
	return nil
}

func (c *SubmissionController) fail(ctx context.Context, err error) {
	var apiErr *ichclient.APIError
	var msg string
	if errors.As(err, &apiErr) {
		msg = apiErr.Error()
	} else {
		msg = fmt.Sprintf("Could not reach the detection service at %s. Check that the backend is running.", c.cfg.BackendOrigin)
	}
	c.logger.ErrorContext(ctx, "submission failed", slog.Any("error", xerrors.New(err)))
	c.hooks.notify("Prediction failed", msg)
	c.hooks.setBusy(false)
	c.hooks.setSubmitEnabled(true)

	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// CheckHealth probes the backend's liveness endpoint. Best effort: every
// outcome is a non-blocking diagnostic and submission is never disabled by
// it.
func (c *SubmissionController) CheckHealth(ctx context.Context) {
	h, err := c.api.Health(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "health probe failed", slog.Any("error", xerrors.New(err)))
		c.hooks.diagnostic(fmt.Sprintf("Detection service unreachable at %s", c.cfg.BackendOrigin))
		return
	}
	if !h.ModelLoaded {
		c.hooks.diagnostic("Detection service is up but reports no model loaded")
		return
	}
	c.hooks.diagnostic("Detection service healthy")
}
