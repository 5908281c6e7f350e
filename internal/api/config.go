package api

// Config holds server configuration.
type Config struct {
	Port           int
	InventoryPath  string   // Path to the inventory database ("" = inventory endpoints disabled)
	MaxDetectBytes int64    // Maximum accepted upload size for /detect (0 = default)
	AllowedOrigins []string // CORS allowed origins (empty = allow all)
	TLS            TLSConfig
}

// TLSConfig holds TLS/HTTPS configuration.
type TLSConfig struct {
	Enabled  bool   // Enable HTTPS
	CertFile string // Path to TLS certificate file
	KeyFile  string // Path to TLS private key file
}

// defaultMaxDetectBytes bounds /detect uploads when the configuration does
// not say otherwise.
const defaultMaxDetectBytes = 64 << 20

// ServerConfig is the active server configuration.
var ServerConfig Config
