package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/mlund/file-format/core/detect"
	"github.com/mlund/file-format/core/format"
	"github.com/mlund/file-format/internal/logging"
)

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// FormatInfo describes one detectable format.
type FormatInfo struct {
	Name      string `json:"name"`
	ShortName string `json:"short_name,omitempty"`
	MediaType string `json:"media_type"`
	Extension string `json:"extension"`
	Kind      string `json:"kind"`
}

// DetectionResult is the response body of /detect.
type DetectionResult struct {
	FormatInfo
	Size int64 `json:"size"`
}

func formatInfo(f format.Format) FormatInfo {
	return FormatInfo{
		Name:      f.Name(),
		ShortName: f.ShortName(),
		MediaType: f.MediaType(),
		Extension: f.Extension(),
		Kind:      f.Kind().String(),
	}
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
		return
	}
	respond(w, http.StatusOK, map[string]string{
		"service": "file-format",
		"detect":  "/detect",
		"formats": "/formats",
		"records": "/records",
		"events":  "/ws",
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleDetect accepts raw content in the request body and responds with the
// detected format.
func handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	max := ServerConfig.MaxDetectBytes
	if max <= 0 {
		max = defaultMaxDetectBytes
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, max))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body exceeds the size limit")
		return
	}

	start := time.Now()
	detected, err := detect.FromReader(bytes.NewReader(body))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DETECTION_FAILED", "Failed to read content")
		return
	}
	logging.Detection("(upload)", detected.Name(), time.Since(start))
	BroadcastDetection("(upload)", detected.Name(), detected.MediaType())

	respond(w, http.StatusOK, DetectionResult{
		FormatInfo: formatInfo(detected),
		Size:       int64(len(body)),
	})
}

// handleFormats lists every detectable format with its metadata.
func handleFormats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}

	infos := make([]FormatInfo, 0, format.Count())
	for f := format.Format(0); int(f) < format.Count(); f++ {
		infos = append(infos, formatInfo(f))
	}
	respondWithTotal(w, http.StatusOK, infos, len(infos))
}

// handleRecords lists inventory records, optionally filtered by the
// "format" query parameter.
func handleRecords(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	if activeStore == nil {
		respondError(w, http.StatusServiceUnavailable, "NO_INVENTORY", "Inventory database not configured")
		return
	}

	records, err := activeStore.List(r.Context(), r.URL.Query().Get("format"))
	if err != nil {
		logging.Error("inventory list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "INVENTORY_ERROR", "Failed to list records")
		return
	}
	respondWithTotal(w, http.StatusOK, records, len(records))
}

// handleSummary reports the per-format file counts of the inventory.
func handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET is allowed")
		return
	}
	if activeStore == nil {
		respondError(w, http.StatusServiceUnavailable, "NO_INVENTORY", "Inventory database not configured")
		return
	}

	summary, err := activeStore.Summary(r.Context())
	if err != nil {
		logging.Error("inventory summary failed", "error", err)
		respondError(w, http.StatusInternalServerError, "INVENTORY_ERROR", "Failed to summarize records")
		return
	}
	respond(w, http.StatusOK, summary)
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondWithTotal(w http.ResponseWriter, status int, data interface{}, total int) {
	response := APIResponse{
		Success: true,
		Data:    data,
		Meta: &APIMeta{
			Total:     total,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
		Meta: &APIMeta{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
