package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "data format error type",
			errType:  ErrTypeDataFormat,
			expected: "DATA_FORMAT",
		},
		{
			name:     "empty result error type",
			errType:  ErrTypeEmptyResult,
			expected: "EMPTY_RESULT",
		},
		{
			name:     "export format error type",
			errType:  ErrTypeExportFormat,
			expected: "EXPORT_FORMAT",
		},
		{
			name:     "parsing error type",
			errType:  ErrTypeParsing,
			expected: "PARSING",
		},
		{
			name:     "storage error type",
			errType:  ErrTypeStorage,
			expected: "STORAGE",
		},
		{
			name:     "validation error type",
			errType:  ErrTypeValidation,
			expected: "VALIDATION",
		},
		{
			name:     "not found error type",
			errType:  ErrTypeNotFound,
			expected: "NOT_FOUND",
		},
		{
			name:     "permission error type",
			errType:  ErrTypePermission,
			expected: "PERMISSION",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeDataFormat,
				Message: "missing required column Churn",
				Cause:   nil,
			},
			wantMessage: "[DATA_FORMAT] missing required column Churn",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "failed to read dataset",
				Cause:   fmt.Errorf("unexpected EOF"),
			},
			wantMessage: "[PARSING] failed to read dataset: unexpected EOF",
		},
		{
			name: "error with complex cause",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "export write failed",
				Cause:   errors.New("disk full"),
			},
			wantMessage: "[STORAGE] export write failed: disk full",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type:    ErrTypeValidation,
				Message: "",
				Cause:   nil,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appError.Error()
			assert.Equal(t, tt.wantMessage, got)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		wantErr  error
	}{
		{
			name: "unwrap with cause",
			appError: &AppError{
				Type:    ErrTypeDataFormat,
				Message: "bad header row",
				Cause:   fmt.Errorf("original error"),
			},
			wantErr: fmt.Errorf("original error"),
		},
		{
			name: "unwrap without cause",
			appError: &AppError{
				Type:    ErrTypeEmptyResult,
				Message: "no records",
				Cause:   nil,
			},
			wantErr: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appError.Unwrap()
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr.Error(), got.Error())
			} else {
				assert.Nil(t, got)
			}
		})
	}
}

func TestAppError_WithContext(t *testing.T) {
	tests := []struct {
		name          string
		appError      *AppError
		key           string
		value         interface{}
		expectedValue interface{}
	}{
		{
			name: "add string context",
			appError: &AppError{
				Type:    ErrTypeDataFormat,
				Message: "column mismatch",
			},
			key:           "column",
			value:         "Monthly Revenue",
			expectedValue: "Monthly Revenue",
		},
		{
			name: "add integer context",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "row skipped",
			},
			key:           "row",
			value:         17,
			expectedValue: 17,
		},
		{
			name: "add complex object context",
			appError: &AppError{
				Type:    ErrTypeStorage,
				Message: "export failed",
			},
			key:           "export",
			value:         map[string]string{"format": "xlsx", "path": "/tmp/out.xlsx"},
			expectedValue: map[string]string{"format": "xlsx", "path": "/tmp/out.xlsx"},
		},
		{
			name: "add context to error with existing context",
			appError: &AppError{
				Type:    ErrTypeValidation,
				Message: "bad filter",
				Context: map[string]interface{}{"field": "age_min"},
			},
			key:           "value",
			value:         "-3",
			expectedValue: "-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.WithContext(tt.key, tt.value)

			// Should return the same instance
			assert.Same(t, tt.appError, result)

			// Should have the context value
			require.Contains(t, result.Context, tt.key)
			assert.Equal(t, tt.expectedValue, result.Context[tt.key])

			// Should initialize context if it was nil
			assert.NotNil(t, result.Context)
		})
	}
}

func TestNewAppError(t *testing.T) {
	tests := []struct {
		name      string
		errType   ErrorType
		message   string
		cause     error
		wantType  ErrorType
		wantMsg   string
		wantCause error
	}{
		{
			name:      "create data format error",
			errType:   ErrTypeDataFormat,
			message:   "header row missing",
			cause:     fmt.Errorf("empty file"),
			wantType:  ErrTypeDataFormat,
			wantMsg:   "header row missing",
			wantCause: fmt.Errorf("empty file"),
		},
		{
			name:      "create error without cause",
			errType:   ErrTypeEmptyResult,
			message:   "no records match",
			cause:     nil,
			wantType:  ErrTypeEmptyResult,
			wantMsg:   "no records match",
			wantCause: nil,
		},
		{
			name:      "create validation error",
			errType:   ErrTypeValidation,
			message:   "Invalid input",
			cause:     errors.New("field required"),
			wantType:  ErrTypeValidation,
			wantMsg:   "Invalid input",
			wantCause: errors.New("field required"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAppError(tt.errType, tt.message, tt.cause)

			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantMsg, got.Message)

			if tt.wantCause != nil {
				require.NotNil(t, got.Cause)
				assert.Equal(t, tt.wantCause.Error(), got.Cause.Error())
			} else {
				assert.Nil(t, got.Cause)
			}

			// Should initialize empty context
			assert.NotNil(t, got.Context)
			assert.Empty(t, got.Context)
		})
	}
}

func TestNewDataFormatError(t *testing.T) {
	tests := []struct {
		name    string
		message string
		cause   error
	}{
		{
			name:    "data format error with cause",
			message: "cannot locate Churn column",
			cause:   fmt.Errorf("header mismatch"),
		},
		{
			name:    "data format error without cause",
			message: "empty dataset",
			cause:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewDataFormatError(tt.message, tt.cause)

			assert.Equal(t, ErrTypeDataFormat, got.Type)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, tt.cause, got.Cause)
			assert.NotNil(t, got.Context)
		})
	}
}

func TestNewEmptyResultError(t *testing.T) {
	got := NewEmptyResultError("no records match the active filter")

	assert.Equal(t, ErrTypeEmptyResult, got.Type)
	assert.Equal(t, "no records match the active filter", got.Message)
	assert.Nil(t, got.Cause)
	assert.NotNil(t, got.Context)
}

func TestNewExportFormatError(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantMsg string
	}{
		{
			name:    "pdf is not supported",
			format:  "pdf",
			wantMsg: `unsupported export format "pdf"`,
		},
		{
			name:    "empty format",
			format:  "",
			wantMsg: `unsupported export format ""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewExportFormatError(tt.format)

			assert.Equal(t, ErrTypeExportFormat, got.Type)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.format, got.Context["format"])
		})
	}
}

func TestNewParsingError(t *testing.T) {
	tests := []struct {
		name    string
		message string
		cause   error
	}{
		{
			name:    "parsing error with cause",
			message: "Failed to parse CSV",
			cause:   fmt.Errorf("invalid character"),
		},
		{
			name:    "parsing error without cause",
			message: "Parse failed",
			cause:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewParsingError(tt.message, tt.cause)

			assert.Equal(t, ErrTypeParsing, got.Type)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, tt.cause, got.Cause)
			assert.NotNil(t, got.Context)
		})
	}
}

func TestNewNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		wantMsg  string
	}{
		{
			name:     "dataset not found",
			resource: "dataset",
			wantMsg:  "dataset not found",
		},
		{
			name:     "segment not found",
			resource: "segment",
			wantMsg:  "segment not found",
		},
		{
			name:     "file not found",
			resource: "file",
			wantMsg:  "file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewNotFoundError(tt.resource)

			assert.Equal(t, ErrTypeNotFound, got.Type)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Nil(t, got.Cause)
			assert.NotNil(t, got.Context)
		})
	}
}

func TestNewConfigError(t *testing.T) {
	tests := []struct {
		name    string
		message string
		cause   error
	}{
		{
			name:    "config error with cause",
			message: "Failed to load configuration",
			cause:   fmt.Errorf("file not found"),
		},
		{
			name:    "config error without cause",
			message: "Invalid configuration",
			cause:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewConfigError(tt.message, tt.cause)

			assert.Equal(t, ErrTypeConfig, got.Type)
			assert.Equal(t, tt.message, got.Message)
			assert.Equal(t, tt.cause, got.Cause)
			assert.NotNil(t, got.Context)
		})
	}
}

func TestAppError_ErrorsIntegration(t *testing.T) {
	t.Run("errors.Is works with AppError", func(t *testing.T) {
		originalErr := fmt.Errorf("original error")
		appErr := NewDataFormatError("dataset malformed", originalErr)

		// Should work with errors.Is
		assert.True(t, errors.Is(appErr, originalErr))

		// Should not match different error
		otherErr := fmt.Errorf("other error")
		assert.False(t, errors.Is(appErr, otherErr))
	})

	t.Run("errors.As works with AppError", func(t *testing.T) {
		originalErr := &AppError{
			Type:    ErrTypeEmptyResult,
			Message: "no records",
		}
		wrappedErr := fmt.Errorf("wrapped: %w", originalErr)

		var appErr *AppError
		assert.True(t, errors.As(wrappedErr, &appErr))
		assert.Equal(t, ErrTypeEmptyResult, appErr.Type)
		assert.Equal(t, "no records", appErr.Message)
	})
}

func TestAppError_ContextChaining(t *testing.T) {
	t.Run("chain multiple context values", func(t *testing.T) {
		appErr := NewDataFormatError("row rejected", nil)

		result := appErr.
			WithContext("row", 42).
			WithContext("column", "Total Charges").
			WithContext("value", "n/a")

		// Should be the same instance
		assert.Same(t, appErr, result)

		// Should have all context values
		assert.Equal(t, 42, result.Context["row"])
		assert.Equal(t, "Total Charges", result.Context["column"])
		assert.Equal(t, "n/a", result.Context["value"])
	})

	t.Run("overwrite existing context value", func(t *testing.T) {
		appErr := NewParsingError("retrying parse", nil)

		result := appErr.
			WithContext("attempt", 1).
			WithContext("attempt", 2) // Overwrite

		assert.Equal(t, 2, result.Context["attempt"])
	})
}

func TestAppError_ComplexScenarios(t *testing.T) {
	t.Run("nested error unwrapping", func(t *testing.T) {
		// Create a chain of errors
		rootErr := fmt.Errorf("root cause")
		appErr1 := NewStorageError("export write failed", rootErr)
		appErr2 := NewParsingError("report generation failed", appErr1)

		// Should unwrap correctly
		assert.True(t, errors.Is(appErr2, appErr1))
		assert.True(t, errors.Is(appErr2, rootErr))

		// Should match AppError types
		var storageErr *AppError
		assert.True(t, errors.As(appErr2, &storageErr))
		assert.Equal(t, ErrTypeParsing, storageErr.Type)
	})

	t.Run("error with rich context", func(t *testing.T) {
		appErr := NewParsingError("Failed to parse CSV", fmt.Errorf("invalid syntax")).
			WithContext("file_path", "/data/customers.csv").
			WithContext("line_number", 42).
			WithContext("column", 15)

		expected := "[PARSING] Failed to parse CSV: invalid syntax"
		assert.Equal(t, expected, appErr.Error())

		// Verify context is preserved
		assert.Equal(t, "/data/customers.csv", appErr.Context["file_path"])
		assert.Equal(t, 42, appErr.Context["line_number"])
		assert.Equal(t, 15, appErr.Context["column"])
	})
}

func TestAppError_EdgeCases(t *testing.T) {
	t.Run("nil cause unwrap", func(t *testing.T) {
		appErr := &AppError{
			Type:    ErrTypeValidation,
			Message: "Validation failed",
			Cause:   nil,
		}

		assert.Nil(t, appErr.Unwrap())
	})

	t.Run("empty context handling", func(t *testing.T) {
		appErr := &AppError{
			Type:    ErrTypeConfig,
			Message: "Config error",
			Context: make(map[string]interface{}),
		}

		result := appErr.WithContext("key", "value")
		assert.Equal(t, "value", result.Context["key"])
	})

	t.Run("context with nil values", func(t *testing.T) {
		appErr := NewDataFormatError("partial row", nil)

		result := appErr.WithContext("nullable_field", nil)
		assert.Contains(t, result.Context, "nullable_field")
		assert.Nil(t, result.Context["nullable_field"])
	})
}
