package ichclient

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// SessionKey is the fixed slot name the submission screen writes the
// prediction payload under and the result screen consumes it from.
const SessionKey = "ich.detection.result"

const (
	defaultBackendOrigin = "http://localhost:8000"
	defaultThreshold     = 50.0
	defaultMaxUpload     = 50 << 20 // 50 MiB
	defaultAcceptExt     = ".dcm"
	defaultSessionDir    = "./cache"
)

type Config struct {
	// BackendOrigin is the base address of the inference service.
	BackendOrigin string
	// DetectionThreshold is the score (0..100 scale) at or above which a
	// label gets the warning marker in the comparison view.
	DetectionThreshold float64
	// MaxUploadBytes caps the size of a selectable scan file.
	MaxUploadBytes int64
	// AcceptExt is the only filename extension Select accepts.
	AcceptExt string
	// SessionDir holds the cross-screen result slot.
	SessionDir string
}

func DefaultConfig() Config {
	return Config{
		BackendOrigin:      defaultBackendOrigin,
		DetectionThreshold: defaultThreshold,
		MaxUploadBytes:     defaultMaxUpload,
		AcceptExt:          defaultAcceptExt,
		SessionDir:         defaultSessionDir,
	}
}

// LoadConfig returns the defaults overridden by the environment. A .env file
// next to the binary is honored when present.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("ICH_BACKEND_ORIGIN"); v != "" {
		cfg.BackendOrigin = v
	}
	if v := os.Getenv("ICH_DETECTION_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DetectionThreshold = f
		}
	}
	if v := os.Getenv("ICH_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("ICH_SESSION_DIR"); v != "" {
		cfg.SessionDir = v
	}
	return SanitizeConfig(cfg)
}

// SanitizeConfig clamps a Config back into its valid range.
func SanitizeConfig(cfg Config) Config {
	cfg.BackendOrigin = strings.TrimRight(strings.TrimSpace(cfg.BackendOrigin), "/")
	if cfg.BackendOrigin == "" {
		cfg.BackendOrigin = defaultBackendOrigin
	}
	if cfg.DetectionThreshold <= 0 || cfg.DetectionThreshold > 100 {
		cfg.DetectionThreshold = defaultThreshold
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUpload
	}
	cfg.AcceptExt = strings.ToLower(strings.TrimSpace(cfg.AcceptExt))
	if cfg.AcceptExt == "" {
		cfg.AcceptExt = defaultAcceptExt
	}
	if !strings.HasPrefix(cfg.AcceptExt, ".") {
		cfg.AcceptExt = "." + cfg.AcceptExt
	}
	cfg.SessionDir = strings.TrimSpace(cfg.SessionDir)
	if cfg.SessionDir == "" {
		cfg.SessionDir = defaultSessionDir
	}
	return cfg
}
