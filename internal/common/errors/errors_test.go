package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeInputNotFound, CodeOf(NewInputNotFoundError("/tmp/x.csv")))
	assert.Equal(t, ErrorCode(""), CodeOf(fmt.Errorf("plain error")))
	assert.Equal(t, ErrorCode(""), CodeOf(nil))

	// Codes survive wrapping.
	wrapped := fmt.Errorf("loading dataset: %w", NewDatasetEmptyError("/tmp/x.csv"))
	assert.Equal(t, ErrCodeDatasetEmpty, CodeOf(wrapped))
}

func TestIsFatal(t *testing.T) {
	fatal := []error{
		NewConfigurationError("missing columns"),
		NewInputNotFoundError("/tmp/x.csv"),
		NewLabelMissingError("default"),
		NewDatasetEmptyError("/tmp/x.csv"),
	}
	for _, err := range fatal {
		assert.True(t, IsFatal(err), "expected %v to be fatal", err)
	}

	nonFatal := []error{
		NewDataQualityError("age out of range", 7),
		NewNoModelVersionsError("models"),
		NewInferenceFailedError(fmt.Errorf("dimension mismatch")),
		fmt.Errorf("plain error"),
	}
	for _, err := range nonFatal {
		assert.False(t, IsFatal(err), "expected %v to be non-fatal", err)
	}
}

func TestDataQualityError_CarriesRow(t *testing.T) {
	err := NewDataQualityError("annual_income must be positive", 12)
	assert.Equal(t, 12, err.Metadata["row"])
	assert.Contains(t, err.Error(), "DATA_QUALITY_VIOLATION")
}

func TestRetryableFlags(t *testing.T) {
	assert.True(t, NewInferenceFailedError(fmt.Errorf("x")).Retryable)
	assert.True(t, NewOutputWriteFailedError("/tmp/out.csv", fmt.Errorf("x")).Retryable)
	assert.False(t, NewModelLoadFailedError("20240101_120000", fmt.Errorf("x")).Retryable)
}
