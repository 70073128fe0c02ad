package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"jobconnect/internal/common"
)

type countingCollector struct {
	errors atomic.Int64
}

func (c *countingCollector) IncErrors() {
	c.errors.Add(1)
}

type recordingWriter struct {
	http.ResponseWriter
	err error
}

func (w *recordingWriter) RecordError(err error) {
	w.err = err
}

type passthroughWriter struct {
	http.ResponseWriter
}

func (w *passthroughWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestErrorMapsCodes(t *testing.T) {
	cases := map[common.Code]int{
		common.CodeValidation:   http.StatusBadRequest,
		common.CodeConflict:     http.StatusBadRequest,
		common.CodeUnauthorized: http.StatusUnauthorized,
		common.CodeForbidden:    http.StatusForbidden,
		common.CodeNotFound:     http.StatusNotFound,
		common.CodeRateLimited:  http.StatusTooManyRequests,
		common.CodeInternal:     http.StatusInternalServerError,
	}
	for code, status := range cases {
		rec := httptest.NewRecorder()
		Error(rec, common.NewError(code, "boom", nil))
		if rec.Code != status {
			t.Fatalf("%s: expected %d, got %d", code, status, rec.Code)
		}
		if body := decodeBody(t, rec); body["success"] != false {
			t.Fatalf("%s: success must be false", code)
		}
	}
}

func TestErrorIncludesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, common.NewValidationError("Validation failed", map[string]string{"email": "is required"}))
	body := decodeBody(t, rec)
	fields, ok := body["fields"].(map[string]any)
	if !ok || fields["email"] != "is required" || body["message"] != "Validation failed" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestInternalErrorsAreHidden(t *testing.T) {
	collector := &countingCollector{}
	SetErrorCollector(collector)
	defer SetErrorCollector(nil)

	cause := errors.New("pq: relation users does not exist")
	rec := httptest.NewRecorder()
	recorder := &recordingWriter{ResponseWriter: rec}
	Error(&passthroughWriter{ResponseWriter: recorder}, cause)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "internal server error" {
		t.Fatalf("internal detail leaked: %v", body)
	}
	if !errors.Is(recorder.err, cause) {
		t.Fatalf("cause not recorded: %v", recorder.err)
	}
	if collector.errors.Load() != 1 {
		t.Fatalf("expected one counted error")
	}
}
