package cli

import (
	"fmt"
	"io"

	"github.com/grovetools/widgets/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to out
func NewErrorHandler(verbose bool, out io.Writer) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     out,
	}
}

// Handle prints a message for err based on its code and returns err
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "❌ Configuration not found. Create a widgets.yml or pass --config.\n")

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "❌ Invalid configuration: %v\n", err)
		fmt.Fprintf(h.Out, "Run 'widgets validate' for details.\n")

	case errors.ErrCodeMountNotFound:
		if widgetErr, ok := err.(*errors.WidgetError); ok {
			fmt.Fprintf(h.Out, "❌ Mount '%v' not found\n", widgetErr.Details["mount"])
		}

	case errors.ErrCodeStoreFailed:
		fmt.Fprintf(h.Out, "❌ Library database error: %v\n", err)
		fmt.Fprintf(h.Out, "Check the 'database' path in widgets.yml.\n")

	default:
		fmt.Fprintf(h.Out, "❌ Error: %v\n", err)
	}

	if h.Verbose {
		if widgetErr, ok := err.(*errors.WidgetError); ok {
			fmt.Fprintf(h.Out, "\nError details:\n%s\n", widgetErr.ToJSON())
		}
	}
	return err
}
