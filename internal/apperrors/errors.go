package apperrors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeImport     ErrorType = "import"
	ErrorTypeExport     ErrorType = "export"
	ErrorTypeExternal   ErrorType = "external_api"
	ErrorTypeInternal   ErrorType = "internal"
)

// AppError represents an application error with additional context
type AppError struct {
	Type     ErrorType
	Message  string
	Code     string
	Internal error
	Context  map[string]interface{}
	Source   string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Type, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the internal error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is checks if the error matches the target
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Type == t.Type && e.Code == t.Code
	}
	return errors.Is(e.Internal, target)
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// LogFields returns structured logging fields
func (e *AppError) LogFields() []interface{} {
	fields := []interface{}{
		"error_type", e.Type,
		"error_code", e.Code,
		"error_message", e.Message,
		"source", e.Source,
	}

	if e.Internal != nil {
		fields = append(fields, "internal_error", e.Internal.Error())
	}

	for k, v := range e.Context {
		fields = append(fields, k, v)
	}

	return fields
}

// New creates a new AppError
func New(errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)

	return &AppError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Source:  fmt.Sprintf("%s:%d", file, line),
		Context: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error into AppError
func Wrap(err error, errorType ErrorType, code, message string) *AppError {
	_, file, line, _ := runtime.Caller(1)

	return &AppError{
		Type:     errorType,
		Code:     code,
		Message:  message,
		Internal: err,
		Source:   fmt.Sprintf("%s:%d", file, line),
		Context:  make(map[string]interface{}),
	}
}

// Handler provides error handling strategies
type Handler struct {
	logger *slog.Logger
}

// NewHandler creates a new error handler
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Handle processes an error according to its type. Parse and storage errors
// are the swallowed kind: they degrade to defaults and only get a warning.
func (h *Handler) Handle(ctx context.Context, err error) {
	if err == nil {
		return
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		h.handleAppError(ctx, appErr)
	} else {
		h.logger.ErrorContext(ctx, "Unhandled error", "error", err.Error())
	}
}

func (h *Handler) handleAppError(ctx context.Context, err *AppError) {
	switch err.Type {
	case ErrorTypeValidation, ErrorTypeParse, ErrorTypeStorage:
		h.logger.WarnContext(ctx, "Recoverable error", err.LogFields()...)
	case ErrorTypeImport, ErrorTypeExport, ErrorTypeExternal, ErrorTypeInternal:
		h.logger.ErrorContext(ctx, "Critical error", err.LogFields()...)
	default:
		h.logger.ErrorContext(ctx, "Unknown error type", err.LogFields()...)
	}
}

// LogAndReturn logs an error and returns it
func (h *Handler) LogAndReturn(ctx context.Context, err error) error {
	h.Handle(ctx, err)
	return err
}

// Predefined errors
var (
	ErrInvalidInput  = New(ErrorTypeValidation, "INVALID_INPUT", "Invalid input provided")
	ErrCorruptBlob   = New(ErrorTypeParse, "CORRUPT_BLOB", "Persisted blob could not be parsed")
	ErrStorageFailed = New(ErrorTypeStorage, "STORAGE_FAILED", "Blob store operation failed")
	ErrImportFailed  = New(ErrorTypeImport, "IMPORT_FAILED", "Import file could not be processed")
	ErrExportFailed  = New(ErrorTypeExport, "EXPORT_FAILED", "Export file could not be written")
	ErrExternalAPI   = New(ErrorTypeExternal, "EXTERNAL_API", "External API error")
)

// NewStorageError wraps a blob store failure
func NewStorageError(err error, key string) *AppError {
	return Wrap(err, ErrorTypeStorage, "STORAGE_FAILED", "Blob store operation failed").
		WithContext("key", key)
}

// NewParseError wraps a corrupt persisted blob
func NewParseError(err error, key string) *AppError {
	return Wrap(err, ErrorTypeParse, "CORRUPT_BLOB", "Persisted blob could not be parsed").
		WithContext("key", key)
}

// NewImportError wraps a failed import
func NewImportError(err error) *AppError {
	return Wrap(err, ErrorTypeImport, "IMPORT_FAILED", "Import file could not be processed")
}

// NewExportError wraps a failed export
func NewExportError(err error) *AppError {
	return Wrap(err, ErrorTypeExport, "EXPORT_FAILED", "Export file could not be written")
}

// NewExternalAPIError wraps an upstream API failure
func NewExternalAPIError(err error, api string) *AppError {
	return Wrap(err, ErrorTypeExternal, "EXTERNAL_API", fmt.Sprintf("%s API error", api)).
		WithContext("api", api)
}
