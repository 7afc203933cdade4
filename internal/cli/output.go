package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // invalid manifest, unreadable tag, stale documents under --strict
	ExitCommandError = 2 // bad arguments, missing paths, store errors
)

// Error codes reported by commands. Manifest codes (E001-E007, E2xx) come
// from the manifest package.
const (
	ErrCodeGeneric  = "E001"
	ErrCodeNotFound = "E005"
	ErrCodeTag      = "E301" // document tag missing or unreadable
	ErrCodeCodec    = "E302" // unknown --codec
	ErrCodeStore    = "E303" // document store could not be opened or queried
	ErrCodeNoChain  = "E304" // kind has no chain in the manifests
	ErrCodeStale    = "E305" // stale documents under --strict
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Exitf formats an error that exits the process with code. A %w verb
// keeps the cause reachable through errors.Is and errors.As.
func Exitf(code int, format string, args ...any) *ExitError {
	return &ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

// ExitCode reports the exit code for err. Errors without one exit with
// ExitFailure.
func ExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// Envelope wraps every --format json result.
type Envelope struct {
	Status string   `json:"status"` // "ok" or "error"
	Data   any      `json:"data,omitempty"`
	Error  *Failure `json:"error,omitempty"`
}

// Failure describes why a command failed.
type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Printer writes command results to Out as text or JSON envelopes.
// Diagnostics go to Diag so JSON on Out stays parseable.
type Printer struct {
	JSON    bool
	Out     io.Writer
	Diag    io.Writer // falls back to Out
	Verbose bool
}

// Result prints data. Text output uses data's default formatting.
func (p *Printer) Result(data any) error {
	if p.JSON {
		return p.envelope(Envelope{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(p.Out, data)
	return err
}

// Fail prints a failure. Details appear in text output only when verbose.
func (p *Printer) Fail(code, message string, details any) error {
	if p.JSON {
		return p.envelope(Envelope{
			Status: "error",
			Error:  &Failure{Code: code, Message: message, Details: details},
		})
	}
	if _, err := fmt.Fprintf(p.Out, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if p.Verbose && details != nil {
		_, err := fmt.Fprintf(p.Out, "Details: %v\n", details)
		return err
	}
	return nil
}

// Logf writes a diagnostic line when verbose.
func (p *Printer) Logf(format string, args ...any) {
	if !p.Verbose {
		return
	}
	w := p.Diag
	if w == nil {
		w = p.Out
	}
	fmt.Fprintf(w, format+"\n", args...)
}

func (p *Printer) envelope(e Envelope) error {
	return json.NewEncoder(p.Out).Encode(e)
}
