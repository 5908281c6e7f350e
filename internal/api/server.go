// Package api provides the REST API server for format detection and
// inventory queries.
package api

import (
	"fmt"
	"net/http"
	"os"

	"github.com/mlund/file-format/internal/inventory"
	"github.com/mlund/file-format/internal/logging"
)

// activeStore is the inventory store backing the /records endpoints, nil
// when no inventory database is configured.
var activeStore *inventory.Store

// Start starts the API server with the given configuration. It blocks until
// the listener fails.
func Start(cfg Config) error {
	ServerConfig = cfg
	if ServerConfig.MaxDetectBytes <= 0 {
		ServerConfig.MaxDetectBytes = defaultMaxDetectBytes
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
			return fmt.Errorf("TLS enabled but cert or key file not specified")
		}
		if _, err := os.Stat(cfg.TLS.CertFile); err != nil {
			return fmt.Errorf("TLS cert file not found: %w", err)
		}
		if _, err := os.Stat(cfg.TLS.KeyFile); err != nil {
			return fmt.Errorf("TLS key file not found: %w", err)
		}
	}

	if cfg.InventoryPath != "" {
		store, err := inventory.Open(cfg.InventoryPath)
		if err != nil {
			return fmt.Errorf("open inventory: %w", err)
		}
		activeStore = store
	}

	GlobalHub = NewHub()
	go GlobalHub.Run()

	mux := setupRoutes()

	protocol := "http"
	if cfg.TLS.Enabled {
		protocol = "https"
		logging.Info("TLS enabled", "cert_file", cfg.TLS.CertFile)
	}
	logging.ServerStartup("rest_api", protocol, cfg.Port,
		"inventory", cfg.InventoryPath != "")

	handler := logging.CombinedMiddleware(corsMiddleware(cfg.AllowedOrigins, mux))

	addr := fmt.Sprintf(":%d", cfg.Port)
	if cfg.TLS.Enabled {
		return http.ListenAndServeTLS(addr, cfg.TLS.CertFile, cfg.TLS.KeyFile, handler)
	}
	return http.ListenAndServe(addr, handler)
}

// setupRoutes configures all HTTP routes.
func setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/detect", handleDetect)
	mux.HandleFunc("/formats", handleFormats)
	mux.HandleFunc("/records", handleRecords)
	mux.HandleFunc("/records/summary", handleSummary)
	mux.HandleFunc("/ws", handleWebSocket)

	return mux
}

// corsMiddleware applies the allowed-origin list; an empty list allows all
// origins.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(allowed) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
