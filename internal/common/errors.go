package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")

	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrConversion        = errors.New("conversion failed")
	ErrArchiveRead       = errors.New("archive has no readable segments")
	ErrTokenize          = errors.New("tokenize failed")
	ErrPatternMatch      = errors.New("pattern match failed")
)

// Error codes carried by AppError.
const (
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeConversion        = "CONVERSION_ERROR"
	CodeArchiveRead       = "ARCHIVE_READ_ERROR"
	CodeArchiveWrite      = "ARCHIVE_WRITE_ERROR"
	CodeTokenize          = "TOKENIZE_ERROR"
	CodePatternMatch      = "PATTERN_MATCH_ERROR"
	CodeConfig            = "CONFIG_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func NewUnsupportedFormatError(path, ext string) *AppError {
	return NewAppError(CodeUnsupportedFormat, fmt.Sprintf("%s: extension %q", path, ext), ErrUnsupportedFormat)
}

// NewConversionError wraps cause so that both ErrConversion and cause match errors.Is.
func NewConversionError(path string, cause error) *AppError {
	if cause == nil {
		return NewAppError(CodeConversion, path, ErrConversion)
	}
	return NewAppError(CodeConversion, path, fmt.Errorf("%w: %w", ErrConversion, cause))
}

func NewArchiveReadError(path string) *AppError {
	return NewAppError(CodeArchiveRead, path, ErrArchiveRead)
}

func NewTokenizeError(cause error) *AppError {
	return NewAppError(CodeTokenize, "tagging text", fmt.Errorf("%w: %w", ErrTokenize, cause))
}

func NewPatternMatchError(field string, cause error) *AppError {
	return NewAppError(CodePatternMatch, field, fmt.Errorf("%w: %w", ErrPatternMatch, cause))
}

// CodeOf returns the AppError code in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
