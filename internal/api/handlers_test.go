package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mlund/file-format/core/format"
	"github.com/mlund/file-format/internal/inventory"
	"github.com/mlund/file-format/internal/scan"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestHandleHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if !resp.Success {
		t.Error("expected success")
	}
}

func TestHandleHealthMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rec := httptest.NewRecorder()
	handleHealth(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleDetect(t *testing.T) {
	png := append([]byte("\x89PNG\x0D\x0A\x1A\x0A"), make([]byte, 16)...)
	req := httptest.NewRequest(http.MethodPost, "/detect", bytes.NewReader(png))
	rec := httptest.NewRecorder()
	handleDetect(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var result DetectionResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Name != format.PNG.Name() {
		t.Errorf("format = %q, want %q", result.Name, format.PNG.Name())
	}
	if result.MediaType != "image/png" {
		t.Errorf("media type = %q", result.MediaType)
	}
	if result.Size != int64(len(png)) {
		t.Errorf("size = %d, want %d", result.Size, len(png))
	}
}

func TestHandleDetectEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/detect", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	handleDetect(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var result DetectionResult
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Name != format.Empty.Name() {
		t.Errorf("format = %q, want %q", result.Name, format.Empty.Name())
	}
}

func TestHandleDetectBodyTooLarge(t *testing.T) {
	old := ServerConfig
	defer func() { ServerConfig = old }()
	ServerConfig.MaxDetectBytes = 16

	req := httptest.NewRequest(http.MethodPost, "/detect", bytes.NewReader(make([]byte, 64)))
	rec := httptest.NewRecorder()
	handleDetect(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleFormats(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/formats", nil)
	rec := httptest.NewRecorder()
	handleFormats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Meta == nil || resp.Meta.Total != format.Count() {
		t.Errorf("total = %+v, want %d", resp.Meta, format.Count())
	}
	data, _ := json.Marshal(resp.Data)
	var infos []FormatInfo
	if err := json.Unmarshal(data, &infos); err != nil {
		t.Fatalf("decode formats: %v", err)
	}
	if len(infos) != format.Count() {
		t.Fatalf("got %d formats, want %d", len(infos), format.Count())
	}
	for _, info := range infos {
		if info.Name == "" || info.MediaType == "" || info.Kind == "" {
			t.Errorf("incomplete format info: %+v", info)
		}
	}
}

func TestHandleRecordsNoInventory(t *testing.T) {
	activeStore = nil
	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	rec := httptest.NewRecorder()
	handleRecords(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleRecordsAndSummary(t *testing.T) {
	store, err := inventory.Open(filepath.Join(t.TempDir(), "inv.db"))
	if err != nil {
		t.Fatalf("open inventory: %v", err)
	}
	defer store.Close()
	activeStore = store
	defer func() { activeStore = nil }()

	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()
	for _, r := range []scan.Result{
		{Path: "/a.png", Size: 1, Name: "Portable Network Graphics", MediaType: "image/png", Extension: "png"},
		{Path: "/b.txt", Size: 2, Name: "Plain Text", MediaType: "text/plain", Extension: "txt"},
	} {
		if err := store.PutResult(ctx, r); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/records?format=Plain+Text", nil)
	rec := httptest.NewRecorder()
	handleRecords(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("records status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Meta.Total != 1 {
		t.Errorf("filtered total = %d, want 1", resp.Meta.Total)
	}

	req = httptest.NewRequest(http.MethodGet, "/records/summary", nil)
	rec = httptest.NewRecorder()
	handleSummary(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	resp = decodeResponse(t, rec)
	data, _ := json.Marshal(resp.Data)
	var summary map[string]int
	if err := json.Unmarshal(data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary["Plain Text"] != 1 || summary["Portable Network Graphics"] != 1 {
		t.Errorf("summary = %v", summary)
	}
}

func TestHandleRootNotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	handleRoot(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Success || resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("unexpected error payload: %+v", resp.Error)
	}
}

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allow all", func(t *testing.T) {
		h := corsMiddleware(nil, inner)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("allow-origin = %q", got)
		}
	})

	t.Run("restricted", func(t *testing.T) {
		h := corsMiddleware([]string{"https://ok.example"}, inner)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://ok.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://ok.example" {
			t.Errorf("allowed origin not echoed: %q", got)
		}

		req = httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://bad.example")
		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("disallowed origin got header %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		h := corsMiddleware(nil, inner)
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d", rec.Code)
		}
	})
}
