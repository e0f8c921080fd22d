package ichclient

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidationError is a locally recoverable selection failure. The reason is
// shown to the user verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// ValidateSelection gates a candidate scan file before it may become the
// current selection: the filename must carry the accepted extension and the
// byte size must not exceed the configured ceiling.
func ValidateSelection(cfg Config, name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != cfg.AcceptExt {
		return &ValidationError{
			Reason: fmt.Sprintf("Only %s files are accepted (got %q)", cfg.AcceptExt, filepath.Base(name)),
		}
	}
	if size > cfg.MaxUploadBytes {
		return &ValidationError{
			Reason: fmt.Sprintf("File exceeds the %d MiB limit (%.1f MiB)",
				cfg.MaxUploadBytes>>20, float64(size)/(1<<20)),
		}
	}
	return nil
}
