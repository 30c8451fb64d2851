package health

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestHandleRoot(t *testing.T) {
	s := New("", 8080)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	s.handleRoot(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Port    int    `json:"port"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Message != "ResumeGenie bot is running" {
		t.Errorf("message = %q", body.Message)
	}
	if body.Port != 8080 {
		t.Errorf("port = %d, want 8080", body.Port)
	}
}
