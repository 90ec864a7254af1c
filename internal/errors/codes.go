// Package errors provides structured error handling for appcli.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (working directory, files)
//   - 4XX: Validation errors (manifests, input)
//   - 5XX: Internal errors (command sources, dispatch)
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and directory I/O errors.
	CategoryIO Category = "IO"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeUnknownSource  = "ERR_102_UNKNOWN_SOURCE"
	ErrCodeConfigInvalid  = "ERR_103_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeProbeFailed    = "ERR_201_PROBE_FAILED"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeFileNotFound   = "ERR_203_FILE_NOT_FOUND"
	ErrCodeLockFailed     = "ERR_204_LOCK_FAILED"

	// Validation errors (400-499)
	ErrCodeManifestInvalid = "ERR_401_MANIFEST_INVALID"
	ErrCodeInvalidInput    = "ERR_402_INVALID_INPUT"

	// Internal errors (500-599)
	ErrCodeInternal          = "ERR_500_INTERNAL"
	ErrCodeSourceFailed      = "ERR_501_SOURCE_FAILED"
	ErrCodeSourceUnavailable = "ERR_502_SOURCE_GATE_FAILED"
	ErrCodeCommandFailed     = "ERR_503_COMMAND_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	switch code {
	case ErrCodeProbeFailed:
		return SeverityFatal
	case ErrCodeSourceFailed, ErrCodeSourceUnavailable, ErrCodeUnknownSource:
		// Discovery failures are reported after the selected command runs.
		return SeverityWarning
	default:
		return SeverityError
	}
}
