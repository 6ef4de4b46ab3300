package errs

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// Wrap prefixes err with msg. The chain stays intact for errors.Is/As.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted prefix.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// WithStack records the current stack on a root cause, once per chain.
// Storage adapters call it on driver failures; tagged sentinels never carry one.
func WithStack(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := stackOf(err); ok {
		return err
	}
	return &stackError{err: err, stack: debug.Stack()}
}

type stackError struct {
	err   error
	stack []byte
}

func (e *stackError) Error() string { return e.err.Error() }
func (e *stackError) Unwrap() error { return e.err }

func stackOf(err error) ([]byte, bool) {
	var se *stackError
	if errors.As(err, &se) {
		return se.stack, true
	}
	return nil, false
}

// Loggable renders err as a structured slog group with its kind, unwrap
// chain and captured stack. Usage: slog.Any("err", errs.Loggable(err)).
func Loggable(err error) slog.LogValuer { return loggable{err: err} }

type loggable struct{ err error }

func (l loggable) LogValue() slog.Value {
	if l.err == nil {
		return slog.GroupValue()
	}

	attrs := []slog.Attr{
		slog.String("kind", string(KindOf(l.err))),
		slog.String("message", l.err.Error()),
		slog.Any("chain", Chain(l.err)),
	}
	if stack, ok := stackOf(l.err); ok {
		attrs = append(attrs, slog.String("stack", string(stack)))
	}
	return slog.GroupValue(attrs...)
}

// Chain lists the messages of err and each error it wraps, outermost first.
func Chain(err error) []string {
	var out []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		out = append(out, e.Error())
	}
	return out
}
