package ichclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testConfig(origin string) Config {
	cfg := DefaultConfig()
	cfg.BackendOrigin = origin
	return SanitizeConfig(cfg)
}

const samplePayload = `{"predictions": {"model_a": {"detected": ["Epidural"], "confidences": {"Epidural": 81.0}}}, "original_image": "/img/o.png", "processed_image": "/img/p.png"}`

func TestPredictSuccessReturnsRawBody(t *testing.T) {
	t.Parallel()

	var gotField, gotFile string
	var gotContent []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/predict" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("missing multipart field: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotField = "file"
		gotFile = header.Filename
		gotContent, _ = io.ReadAll(file)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, samplePayload)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	payload, raw, err := client.Predict(context.Background(), "scan.dcm", bytes.NewReader([]byte("dicom-bytes")))
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}

	if gotField != "file" || gotFile != "scan.dcm" {
		t.Errorf("multipart upload malformed: field=%q filename=%q", gotField, gotFile)
	}
	if string(gotContent) != "dicom-bytes" {
		t.Errorf("uploaded content mismatch: %q", gotContent)
	}
	if string(raw) != samplePayload {
		t.Errorf("raw body must be returned exactly as received")
	}
	if payload.OriginalImage != "/img/o.png" || payload.ProcessedImage != "/img/p.png" {
		t.Errorf("image locators not parsed: %+v", payload)
	}
	res := payload.Predictions["model_a"]
	if res == nil {
		t.Fatalf("model_a missing from parsed payload")
	}
	if len(res.Detected) != 1 || res.Detected[0] != "Epidural" {
		t.Errorf("detected list not parsed: %v", res.Detected)
	}
	if score, ok := res.Confidences.Get("Epidural"); !ok || score != 81.0 {
		t.Errorf("confidence not parsed: %v %v", score, ok)
	}
}

func TestPredictSurfacesBackendDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail": "Only DICOM files (.dcm) are accepted"}`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, _, err := client.Predict(context.Background(), "scan.dcm", strings.NewReader("x"))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Error() != "Only DICOM files (.dcm) are accepted" {
		t.Fatalf("detail must be surfaced verbatim, got %q", apiErr.Error())
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code lost: %d", apiErr.StatusCode)
	}
}

func TestPredictGenericMessageWithoutDetail(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, "<html>gateway exploded</html>")
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, _, err := client.Predict(context.Background(), "scan.dcm", strings.NewReader("x"))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Detail != "" {
		t.Fatalf("unparseable body must not produce a detail, got %q", apiErr.Detail)
	}
	if !strings.Contains(apiErr.Error(), "500") {
		t.Fatalf("generic message should mention the status, got %q", apiErr.Error())
	}
}

func TestPredictTransportErrorIsNotAPIError(t *testing.T) {
	t.Parallel()

	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, _, err := client.Predict(context.Background(), "scan.dcm", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not be an APIError: %v", err)
	}
}

func TestPredictMalformedSuccessBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "not json")
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	_, _, err := client.Predict(context.Background(), "scan.dcm", strings.NewReader("x"))
	if err == nil {
		t.Fatalf("expected decode error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("undecodable success body is a transport-class failure, got APIError")
	}
}

func TestHealthReportsModelLoaded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"status": "healthy", "model_loaded": true}`)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL))
	h, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("Health returned error: %v", err)
	}
	if !h.ModelLoaded || h.Status != "healthy" {
		t.Fatalf("unexpected health status: %+v", h)
	}
}

func TestResolveImage(t *testing.T) {
	t.Parallel()

	client := NewClient(testConfig("http://backend:8000/"))
	cases := map[string]string{
		"/outputs/x_original.png": "http://backend:8000/outputs/x_original.png",
		"outputs/y.png":           "http://backend:8000/outputs/y.png",
		"http://cdn/z.png":        "http://cdn/z.png",
		"":                        "",
	}
	for in, want := range cases {
		if got := client.ResolveImage(in); got != want {
			t.Errorf("ResolveImage(%q) = %q, want %q", in, got, want)
		}
	}
}
