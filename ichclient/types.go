package ichclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Prediction source keys emitted by the inference service.
const (
	SourceModelA   = "model_a"
	SourceModelB   = "model_b"
	SourceModelC   = "model_c"
	SourceEnsemble = "ensemble"
)

// SourceOrder is the order sources appear in the comparison view. The
// payload's own key order is irrelevant; absent sources are skipped.
var SourceOrder = []string{SourceModelA, SourceModelB, SourceModelC, SourceEnsemble}

// Labels is the vocabulary the service scores: the aggregate flag plus the
// five clinical hemorrhage subtypes.
var Labels = []string{
	"Any ICH",
	"Intraparenchymal",
	"Intraventricular",
	"Subarachnoid",
	"Subdural",
	"Epidural",
}

// PredictionPayload is the /predict response body.
type PredictionPayload struct {
	FileID         string                   `json:"file_id,omitempty"`
	OriginalImage  string                   `json:"original_image"`
	ProcessedImage string                   `json:"processed_image"`
	Predictions    map[string]*SourceResult `json:"predictions"`
	ModelInfo      map[string]string        `json:"model_info,omitempty"`
}

// SourceResult holds one prediction source's output. Detected lists the
// labels the source itself flagged; Confidences carries every scored label
// on a 0..100 scale.
type SourceResult struct {
	ModelName   string      `json:"model_name,omitempty"`
	Confidences Confidences `json:"confidences"`
	Detected    []string    `json:"detected"`
}

// HealthStatus is the /health response body.
type HealthStatus struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// ConfidenceEntry is one label/score pair.
type ConfidenceEntry struct {
	Label string
	Score float64
}

// Confidences is a label→score mapping that remembers the key order of the
// JSON object it was decoded from. Score ties must keep the service's own
// ordering, which a plain map would throw away.
type Confidences struct {
	entries []ConfidenceEntry
}

// NewConfidences builds a mapping from entries in the given order.
func NewConfidences(entries ...ConfidenceEntry) Confidences {
	return Confidences{entries: append([]ConfidenceEntry(nil), entries...)}
}

// Entries returns the pairs in insertion order. The slice is a copy.
func (c Confidences) Entries() []ConfidenceEntry {
	return append([]ConfidenceEntry(nil), c.entries...)
}

// Len reports the number of scored labels.
func (c Confidences) Len() int { return len(c.entries) }

// Get looks up a score by label, matching normalized label keys.
func (c Confidences) Get(label string) (float64, bool) {
	key := labelKey(label)
	for _, e := range c.entries {
		if labelKey(e.Label) == key {
			return e.Score, true
		}
	}
	return 0, false
}

// UnmarshalJSON decodes a JSON object while preserving key order.
func (c *Confidences) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		c.entries = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("confidences: expected object, got %v", tok)
	}

	var entries []ConfidenceEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("confidences: non-string key %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return fmt.Errorf("confidences: score for %q is not a number", label)
		}
		score, err := num.Float64()
		if err != nil {
			return err
		}
		entries = append(entries, ConfidenceEntry{Label: label, Score: score})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	c.entries = entries
	return nil
}

// MarshalJSON encodes the mapping as an object in insertion order.
func (c Confidences) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, e := range c.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(e.Score)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
