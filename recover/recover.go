// file: phfwd/recover/recover.go
package recover

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/rskv-p/phfwd/pkg/x_log"
)

const (
	tagComponent = "component"
	tagCommand   = "command"
	tagLabel     = "label"
	tagStack     = "stack"
)

// ----------------------------------------------------
// Global panic hook (optional)
// ----------------------------------------------------

var OnPanic func(component, command string, recovered any)
var custom *zerolog.Logger

// SetLogger allows injecting a custom logger instance (e.g. for testing).
// Without one, panics go to the global logger as configured at the time.
func SetLogger(l zerolog.Logger) {
	custom = &l
}

func logger() *zerolog.Logger {
	if custom != nil {
		return custom
	}
	l := x_log.New("recover")
	return &l
}

// ----------------------------------------------------
// Panic recovery functions
// ----------------------------------------------------

// Safe runs fn, recovering and logging any panic with label.
func Safe(label string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger().Error().Str(tagLabel, label).Str(tagStack, string(debug.Stack())).Msgf("panic: %v", r)
			if OnPanic != nil {
				OnPanic("Safe", label, r)
			}
		}
	}()
	fn()
}

// RecoverFunc runs fn and turns a panic into an error.
func RecoverFunc(label string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			report("RecoverFunc", label, r)
			err = fmt.Errorf("%s: panic: %v", label, r)
		}
	}()
	return fn()
}

func report(component, command string, recovered any) {
	logger().Error().
		Str(tagComponent, component).
		Str(tagCommand, command).
		Str(tagStack, string(debug.Stack())).
		Msgf("panic: %v", recovered)

	if OnPanic != nil {
		OnPanic(component, command, recovered)
	}
}

// ----------------------------------------------------
// Universal wrapper
// ----------------------------------------------------

// RecoverableFunc is a context-aware function that may panic.
type RecoverableFunc func(ctx context.Context) error

// WrapRecover wraps a context-aware function with panic protection.
func WrapRecover(component, command string, f RecoverableFunc) RecoverableFunc {
	return func(ctx context.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				report(component, command, r)
				err = fmt.Errorf("panic recovered in %s.%s: %v", component, command, r)
			}
		}()
		return f(ctx)
	}
}
