package app

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/zarkzo/ich-review/ichclient"
)

// ResultRenderer loads the handed-off payload and shapes it for display.
type ResultRenderer struct {
	cfg    ichclient.Config
	store  *ichclient.SessionStore
	logger *slog.Logger
}

func NewResultRenderer(cfg ichclient.Config, store *ichclient.SessionStore) *ResultRenderer {
	return &ResultRenderer{cfg: cfg, store: store, logger: ichclient.GetLogger()}
}

// Load consumes the session slot. A missing slot and a malformed payload are
// the same failure: the caller notifies and returns to the submission view
// without partial rendering.
func (r *ResultRenderer) Load() (*ichclient.PredictionPayload, error) {
	raw, err := r.store.Take(ichclient.SessionKey)
	if err != nil {
		return nil, err
	}
	var p ichclient.PredictionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("malformed stored result: %w", err)
	}
	if p.Predictions == nil {
		return nil, fmt.Errorf("malformed stored result: no predictions")
	}
	return &p, nil
}

// Comparison builds the ordered comparison cards, logging any source missing
// from the payload. Partial payloads degrade to a smaller grid.
func (r *ResultRenderer) Comparison(p *ichclient.PredictionPayload) []ichclient.SourceView {
	views, skipped := ichclient.BuildComparison(p, r.cfg.DetectionThreshold)
	for _, key := range skipped {
		r.logger.Warn("prediction source missing from payload", slog.String("source", key))
	}
	return views
}

// Headline is the card-level state text. It reflects the source's own
// detected list only; the per-label threshold markers are computed
// separately and the two can disagree.
func Headline(v ichclient.SourceView) string {
	if v.HasFinding {
		return "Hemorrhage detected"
	}
	return "No hemorrhage detected above threshold"
}
