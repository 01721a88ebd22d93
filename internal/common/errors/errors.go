// Package errors provides standardized error handling for the scoring pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Fatal batch-job errors: the run aborts before any work begins.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeInputNotFound ErrorCode = "INPUT_FILE_NOT_FOUND"
	ErrCodeLabelMissing  ErrorCode = "LABEL_COLUMN_MISSING"
	ErrCodeDatasetEmpty  ErrorCode = "DATASET_EMPTY"

	// Row-level data quality: rows are dropped, the run continues.
	ErrCodeDataQuality ErrorCode = "DATA_QUALITY_VIOLATION"

	// Model lifecycle: the engine falls back to rule-based scoring.
	ErrCodeModelLoadFailed ErrorCode = "MODEL_LOAD_FAILED"
	ErrCodeNoModelVersions ErrorCode = "NO_MODEL_VERSIONS"
	ErrCodeArtifactCorrupt ErrorCode = "ARTIFACT_CORRUPT"

	// Per-request inference failures: fallback for that request only.
	ErrCodeInferenceFailed ErrorCode = "INFERENCE_FAILED"

	// Persistence of batch outputs.
	ErrCodeOutputWriteFailed ErrorCode = "OUTPUT_WRITE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from err, or "" when err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsFatal reports whether err aborts a batch run entirely.
func IsFatal(err error) bool {
	switch CodeOf(err) {
	case ErrCodeConfiguration, ErrCodeInputNotFound, ErrCodeLabelMissing, ErrCodeDatasetEmpty:
		return true
	}
	return false
}

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigurationError creates a fatal configuration error.
func NewConfigurationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfiguration,
		Message:   "Invalid pipeline configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputNotFoundError creates a fatal missing-input error.
func NewInputNotFoundError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputNotFound,
		Message:   "Required input file not found",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLabelMissingError creates a fatal missing-label error.
func NewLabelMissingError(column string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLabelMissing,
		Message:   "Target label column not found in dataset",
		Details:   fmt.Sprintf("column: %s", column),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatasetEmptyError creates a fatal empty-dataset error.
func NewDatasetEmptyError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatasetEmpty,
		Message:   "Dataset contains no rows",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDataQualityError creates a non-fatal row-level validation error.
func NewDataQualityError(reason string, row int) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataQuality,
		Message:   "Row failed data quality validation",
		Details:   reason,
		Retryable: false,
		Metadata:  map[string]interface{}{"row": row},
		Timestamp: time.Now().UTC(),
	}
}

// NewModelLoadFailedError creates a non-fatal model load error.
func NewModelLoadFailedError(version string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelLoadFailed,
		Message:   "Failed to load model artifact bundle",
		Details:   fmt.Sprintf("version: %s, error: %v", version, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoModelVersionsError indicates the model store holds no complete bundles.
func NewNoModelVersionsError(dir string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoModelVersions,
		Message:   "No trained model versions found",
		Details:   fmt.Sprintf("modelDir: %s", dir),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactCorruptError indicates a bundle file is unreadable or malformed.
func NewArtifactCorruptError(file string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactCorrupt,
		Message:   "Model artifact unreadable or corrupt",
		Details:   fmt.Sprintf("file: %s, error: %v", file, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInferenceFailedError creates a per-request inference error.
func NewInferenceFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInferenceFailed,
		Message:   "Model inference failed for request",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewOutputWriteFailedError creates a retryable persistence error.
func NewOutputWriteFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeOutputWriteFailed,
		Message:   "Failed to write pipeline output",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
