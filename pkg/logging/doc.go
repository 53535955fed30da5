// Package logging provides structured logging utilities for the tweaks tool.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so every component logs the same way. It supports level configuration from
// flags or the LOG_LEVEL environment variable, module/version context
// injection, and source location tracking for debug logs.
//
// # Formats
//
//   - json: structured JSON records on stderr (default)
//   - text: key=value records on stderr
//   - journal: records sent to the systemd journal with attributes mapped to
//     uppercase journal fields; falls back to json when journald is not
//     reachable
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultLogger("tweaks", version, "info", logging.FormatJSON)
//	    slog.Info("loading definitions", "dir", "/usr/share/tweaks")
//	}
//
// Settings log failures with their name, declared type and backend:
//
//	slog.Error("failed to read setting",
//	    "setting", s.Name(),
//	    "type", s.Type(),
//	    "backend", s.Backend(),
//	    "error", err,
//	)
package logging
