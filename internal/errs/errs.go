// Package errs defines the fatal error taxonomy shared across netallow.
//
// Every error the pipeline can return is wrapped in one of these kinds so
// cmd/netallow can pick an exit code with a single type switch instead of
// string matching on error text.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies which of the three fatal error classes an error belongs
// to. An empty result is not an error and has no Kind.
type Kind int

const (
	// KindConfig covers malformed JSON, invalid CIDR, and bad numeric
	// parameters. Reported before any file is opened.
	KindConfig Kind = iota
	// KindIO covers missing files, pipe read failures, and CSV write
	// failures.
	KindIO
	// KindDecoder covers subprocess failure and malformed NetFlow
	// records (missing timestamps, missing address pairs).
	KindDecoder
)

// prefix is the short, greppable string each kind prints to stderr.
func (k Kind) prefix() string {
	switch k {
	case KindConfig:
		return "config error"
	case KindIO:
		return "io error"
	case KindDecoder:
		return "decoder error"
	default:
		return "error"
	}
}

// ExitCode returns the process exit code mandated for this kind.
func (k Kind) ExitCode() int {
	if k == KindConfig {
		return 2
	}
	return 1
}

// Error wraps an underlying error with its Kind and an optional file
// name for diagnostics.
type Error struct {
	Kind Kind
	File string // optional, empty if not file-specific
	Err  error
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind.prefix(), e.File, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind.prefix(), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Config wraps err as a KindConfig error.
func Config(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindConfig, Err: err}
}

// IO wraps err as a KindIO error, optionally tied to file.
func IO(file string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindIO, File: file, Err: err}
}

// Decoder wraps err as a KindDecoder error, optionally tied to file.
func Decoder(file string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindDecoder, File: file, Err: err}
}

// ExitCode inspects err and returns the mandated process exit code, or 1
// for any error that isn't one of our wrapped kinds.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.ExitCode()
	}
	return 1
}
