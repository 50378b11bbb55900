// Package errors provides structured error types and exit codes for gmhelper.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the gmhelper binary.
const (
	ExitSuccess          = 0 // Success (also used for "nothing to export" outcomes)
	ExitRuntimeError     = 1 // Runtime error (host export failed, etc.)
	ExitConfigError      = 2 // Configuration error (invalid config, missing parameter)
	ExitEnvironmentError = 3 // Environment error (aseprite not installed, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindValidation
	KindEnvironment
	KindMissingParameter
	KindNoAssetOpen
	KindNoTagsFound
	KindHostExport
)

// String returns the default message for a kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "invalid configuration"
	case KindValidation:
		return "validation failed"
	case KindEnvironment:
		return "environment error"
	case KindMissingParameter:
		return "missing required parameter"
	case KindNoAssetOpen:
		return "no sprite is open"
	case KindNoTagsFound:
		return "no tags found in sprite"
	case KindHostExport:
		return "sprite sheet export failed"
	default:
		return "runtime error"
	}
}

// Kind sentinels for use with errors.Is.
var (
	ErrMissingParameter = &ToolError{Kind: KindMissingParameter}
	ErrNoAssetOpen      = &ToolError{Kind: KindNoAssetOpen}
	ErrNoTagsFound      = &ToolError{Kind: KindNoTagsFound}
	ErrHostExport       = &ToolError{Kind: KindHostExport}
)

// ToolError is the base error type for gmhelper.
type ToolError struct {
	Kind    ErrorKind
	Message string
	Sprite  string // Source file if applicable
	Tag     string // Tag name if applicable
	Cause   error  // Underlying error
}

func (e *ToolError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Sprite != "" && e.Tag != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Sprite, e.Tag, msg)
	}
	if e.Sprite != "" {
		return fmt.Sprintf("[%s] %s", e.Sprite, msg)
	}
	return msg
}

func (e *ToolError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a ToolError of the same kind.
func (e *ToolError) Is(target error) bool {
	t, ok := target.(*ToolError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// ExitCode returns the appropriate exit code for this error.
//
// NoAssetOpen and NoTagsFound end the operation with a message only.
func (e *ToolError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation, KindMissingParameter:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	case KindNoAssetOpen, KindNoTagsFound:
		return ExitSuccess
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *ToolError {
	return &ToolError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *ToolError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *ToolError {
	return &ToolError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *ToolError {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *ToolError {
	return &ToolError{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *ToolError {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *ToolError {
	return &ToolError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// MissingParameter reports an absent required invocation parameter.
func MissingParameter(name string) *ToolError {
	return &ToolError{
		Kind:    KindMissingParameter,
		Message: fmt.Sprintf("missing required parameter: %s", name),
	}
}

// NoAssetOpen reports that the host holds no sprite. cause may be nil.
func NoAssetOpen(sprite string, cause error) *ToolError {
	return &ToolError{
		Kind:   KindNoAssetOpen,
		Sprite: sprite,
		Cause:  cause,
	}
}

// NoTagsFound reports a loaded sprite without tags.
func NoTagsFound(sprite string) *ToolError {
	return &ToolError{
		Kind:   KindNoTagsFound,
		Sprite: sprite,
	}
}

// HostExport reports a failed export of one tag.
func HostExport(sprite, tag string, cause error) *ToolError {
	return &ToolError{
		Kind:   KindHostExport,
		Sprite: sprite,
		Tag:    tag,
		Cause:  cause,
	}
}

// IsKind reports whether any ToolError in err's chain has the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return stderrors.Is(err, &ToolError{Kind: kind})
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var te *ToolError
	if stderrors.As(err, &te) {
		return te.ExitCode()
	}
	return ExitRuntimeError
}
