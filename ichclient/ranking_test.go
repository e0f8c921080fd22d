package ichclient

import (
	"encoding/json"
	"testing"
)

func TestRankConfidencesDescendingWithThresholdMarkers(t *testing.T) {
	t.Parallel()

	res := &SourceResult{
		Confidences: NewConfidences(
			ConfidenceEntry{Label: "A", Score: 72.0},
			ConfidenceEntry{Label: "B", Score: 91.5},
			ConfidenceEntry{Label: "C", Score: 40.0},
		),
	}
	view := BuildSourceView(SourceModelA, res, 50)

	want := []struct {
		label   string
		flagged bool
	}{
		{"B", true},
		{"A", true},
		{"C", false},
	}
	if len(view.Scores) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(view.Scores))
	}
	for i, w := range want {
		if view.Scores[i].Label != w.label {
			t.Errorf("row %d: expected label %s, got %s", i, w.label, view.Scores[i].Label)
		}
		if view.Scores[i].Flagged != w.flagged {
			t.Errorf("row %d (%s): expected flagged=%v", i, w.label, w.flagged)
		}
	}
}

func TestRankConfidencesTiesKeepInsertionOrder(t *testing.T) {
	t.Parallel()

	c := NewConfidences(
		ConfidenceEntry{Label: "Subdural", Score: 60},
		ConfidenceEntry{Label: "Epidural", Score: 60},
		ConfidenceEntry{Label: "Subarachnoid", Score: 60},
	)
	ranked := RankConfidences(c)
	want := []string{"Subdural", "Epidural", "Subarachnoid"}
	for i, label := range want {
		if ranked[i].Label != label {
			t.Fatalf("tie order broken at %d: expected %s, got %s", i, label, ranked[i].Label)
		}
	}
}

func TestConfidencesUnmarshalPreservesKeyOrder(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"Epidural": 10.5, "Any ICH": 10.5, "Subdural": 99.0}`)
	var c Confidences
	if err := json.Unmarshal(raw, &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	entries := c.Entries()
	want := []string{"Epidural", "Any ICH", "Subdural"}
	for i, label := range want {
		if entries[i].Label != label {
			t.Fatalf("insertion order lost at %d: expected %s, got %s", i, label, entries[i].Label)
		}
	}

	out, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var round Confidences
	if err := json.Unmarshal(out, &round); err != nil {
		t.Fatalf("round-trip unmarshal: %v", err)
	}
	if round.Len() != c.Len() {
		t.Fatalf("round trip dropped entries: %d vs %d", round.Len(), c.Len())
	}
	if score, ok := round.Get("Subdural"); !ok || score != 99.0 {
		t.Fatalf("round trip lost score: got %v, %v", score, ok)
	}
}

func TestBuildComparisonFixedOrderSkipsMissing(t *testing.T) {
	t.Parallel()

	payload := &PredictionPayload{
		Predictions: map[string]*SourceResult{
			// Intentionally out of declared order; model_b absent.
			SourceEnsemble: {Confidences: NewConfidences(ConfidenceEntry{Label: "Epidural", Score: 55})},
			SourceModelA:   {Confidences: NewConfidences(ConfidenceEntry{Label: "Epidural", Score: 81})},
			SourceModelC:   {Confidences: NewConfidences(ConfidenceEntry{Label: "Epidural", Score: 12})},
		},
	}
	views, skipped := BuildComparison(payload, 50)

	wantOrder := []string{SourceModelA, SourceModelC, SourceEnsemble}
	if len(views) != len(wantOrder) {
		t.Fatalf("expected %d views, got %d", len(wantOrder), len(views))
	}
	for i, key := range wantOrder {
		if views[i].Key != key {
			t.Errorf("position %d: expected %s, got %s", i, key, views[i].Key)
		}
	}
	if len(skipped) != 1 || skipped[0] != SourceModelB {
		t.Fatalf("expected model_b skipped, got %v", skipped)
	}
}

func TestBuildSourceViewHeadlineComesFromDetectedOnly(t *testing.T) {
	t.Parallel()

	// detected empty while a score crosses the threshold: the headline must
	// still say no finding, and the label still gets its marker. The two
	// signals stay independent.
	res := &SourceResult{
		Detected:    nil,
		Confidences: NewConfidences(ConfidenceEntry{Label: "Subdural", Score: 77}),
	}
	view := BuildSourceView(SourceModelB, res, 50)
	if view.HasFinding {
		t.Fatalf("headline must follow the detected list, not the scores")
	}
	if !view.Scores[0].Flagged {
		t.Fatalf("label above threshold must carry the marker regardless of headline")
	}

	// And the inverse: detected non-empty with every score below threshold.
	res = &SourceResult{
		Detected:    []string{"Epidural"},
		Confidences: NewConfidences(ConfidenceEntry{Label: "Epidural", Score: 12}),
	}
	view = BuildSourceView(SourceModelB, res, 50)
	if !view.HasFinding {
		t.Fatalf("non-empty detected list must set the headline")
	}
	if view.Scores[0].Flagged {
		t.Fatalf("label below threshold must not carry the marker")
	}
}

func TestBuildSourceViewNameFallback(t *testing.T) {
	t.Parallel()

	view := BuildSourceView(SourceModelC, &SourceResult{}, 50)
	if view.Name != "Model C - Validation" {
		t.Fatalf("expected display-name fallback, got %q", view.Name)
	}

	view = BuildSourceView(SourceModelC, &SourceResult{ModelName: "Cascade"}, 50)
	if view.Name != "Cascade" {
		t.Fatalf("expected payload name to win, got %q", view.Name)
	}
}

func TestDedupeLabelsNormalizes(t *testing.T) {
	t.Parallel()

	out := dedupeLabels([]string{"Epidural", " epidural ", "Subdural", ""})
	if len(out) != 2 || out[0] != "Epidural" || out[1] != "Subdural" {
		t.Fatalf("unexpected dedupe result: %v", out)
	}
}
