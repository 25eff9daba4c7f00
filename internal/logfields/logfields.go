package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyPath       = "path"
	KeyFragment   = "fragment"
	KeyDirective  = "directive"
	KeyOutput     = "output"
	KeyConfig     = "config"
	KeyCount      = "count"
	KeyBytes      = "bytes"
	KeyHash       = "hash"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Fragment(p string) slog.Attr     { return slog.String(KeyFragment, p) }
func Directive(name string) slog.Attr { return slog.String(KeyDirective, name) }
func Output(p string) slog.Attr       { return slog.String(KeyOutput, p) }
func Config(p string) slog.Attr       { return slog.String(KeyConfig, p) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func Hash(h string) slog.Attr         { return slog.String(KeyHash, h) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
