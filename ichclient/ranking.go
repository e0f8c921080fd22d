package ichclient

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// LabelScore is one row of a source's score list, ready for display.
type LabelScore struct {
	Label string
	Score float64
	// Flagged marks scores at or above the detection threshold. It is a
	// per-label visual signal only and is deliberately not reconciled with
	// the source-level Detected list.
	Flagged bool
}

// SourceView is one card of the comparison view.
type SourceView struct {
	Key  string
	Name string
	// HasFinding is the headline state. It comes from the source's own
	// Detected list, never from recomputing the scores.
	HasFinding bool
	Detected   []string
	Scores     []LabelScore
}

var sourceDisplayNames = map[string]string{
	SourceModelA:   "Model A - Primary",
	SourceModelB:   "Model B - Secondary",
	SourceModelC:   "Model C - Validation",
	SourceEnsemble: "Ensemble (Mean)",
}

// labelKey folds a label to its comparison form.
func labelKey(s string) string {
	s = norm.NFKC.String(strings.TrimSpace(s))
	return strings.ToLower(s)
}

// RankConfidences returns the entries in descending score order. The sort is
// stable, so ties keep the payload's own insertion order.
func RankConfidences(c Confidences) []ConfidenceEntry {
	out := c.Entries()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// BuildSourceView turns one source's result into its display form.
func BuildSourceView(key string, res *SourceResult, threshold float64) SourceView {
	view := SourceView{
		Key:        key,
		Name:       res.ModelName,
		HasFinding: len(res.Detected) > 0,
		Detected:   dedupeLabels(res.Detected),
	}
	if view.Name == "" {
		view.Name = sourceDisplayNames[key]
	}
	if view.Name == "" {
		view.Name = key
	}
	for _, e := range RankConfidences(res.Confidences) {
		view.Scores = append(view.Scores, LabelScore{
			Label:   e.Label,
			Score:   e.Score,
			Flagged: e.Score >= threshold,
		})
	}
	return view
}

// BuildComparison assembles the comparison cards in the fixed source order.
// Sources missing from the payload are returned in skipped instead of
// failing the whole render.
func BuildComparison(p *PredictionPayload, threshold float64) (views []SourceView, skipped []string) {
	for _, key := range SourceOrder {
		res, ok := p.Predictions[key]
		if !ok || res == nil {
			skipped = append(skipped, key)
			continue
		}
		views = append(views, BuildSourceView(key, res, threshold))
	}
	return views, skipped
}

func dedupeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, lab := range labels {
		lab = strings.TrimSpace(lab)
		if lab == "" {
			continue
		}
		key := labelKey(lab)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, lab)
	}
	return out
}
