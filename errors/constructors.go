package errors

import (
	"fmt"
)

// NotFound creates a mount not found error
func NotFound(mountID string) *WidgetError {
	return New(ErrCodeMountNotFound, fmt.Sprintf("mount '%s' not found", mountID)).
		WithDetail("mount", mountID)
}

// DataSourceFailed wraps whatever the data source raised
func DataSourceFailed(mountID string, err error) *WidgetError {
	return Wrap(err, ErrCodeDataSourceFailed, fmt.Sprintf("data source for mount '%s' failed", mountID)).
		WithDetail("mount", mountID)
}

// RenderFailed creates a renderer rejection error
func RenderFailed(kind string, err error) *WidgetError {
	msg := fmt.Sprintf("renderer rejected '%s' chart", kind)
	if err == nil {
		return New(ErrCodeRenderFailed, msg).WithDetail("kind", kind)
	}
	return Wrap(err, ErrCodeRenderFailed, msg).WithDetail("kind", kind)
}

// UnknownKind creates the render error for an unsupported chart kind
func UnknownKind(kind string) *WidgetError {
	return New(ErrCodeRenderFailed, fmt.Sprintf("unknown chart kind '%s'", kind)).
		WithDetail("kind", kind)
}

// Cancelled creates an error for a bind whose handle was destroyed before rendering
func Cancelled(mountID string) *WidgetError {
	return New(ErrCodeCancelled, fmt.Sprintf("bind to mount '%s' was cancelled", mountID)).
		WithDetail("mount", mountID)
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *WidgetError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *WidgetError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// InvalidInput creates an input validation error
func InvalidInput(field, reason string) *WidgetError {
	return New(ErrCodeInvalidInput, fmt.Sprintf("%s: %s", field, reason)).
		WithDetail("field", field)
}
