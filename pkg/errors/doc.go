// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Backends and settings classify failures with an ErrorCode so callers can
// tell a dropped setting (BACKEND_UNAVAILABLE) from a failed read
// (READ_FAILURE) or a rejected write (READ_ONLY, WRITE_FAILURE).
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeReadFailure,
//	    "failed to read setting",
//	    cause,
//	    map[string]any{
//	        "setting": "Brightness",
//	        "type":    "number",
//	        "backend": "sysfs",
//	    },
//	)
package errors
