package sandbox

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
)

// ErrClosed is returned by Execute after Close
var ErrClosed = errors.New("sandbox closed")

// Runtime wraps goja VM with security controls
type Runtime struct {
	vm     *goja.Runtime
	config Config
	mu     sync.Mutex

	// Console output
	console   []LogEntry
	consoleMu sync.Mutex
}

// New creates a new sandboxed runtime
func New(config Config) (*Runtime, error) {
	r := &Runtime{
		config:  config,
		console: []LogEntry{},
	}
	if err := r.reset(); err != nil {
		return nil, err
	}
	return r, nil
}

// Execute runs script against doc with the configured timeout. The
// document is exposed as document.documentElement.
func (r *Runtime) Execute(ctx context.Context, script string, doc *Document) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.vm == nil {
		return nil, ErrClosed
	}

	start := time.Now()
	result := &Result{}

	r.consoleMu.Lock()
	r.console = []LogEntry{}
	r.consoleMu.Unlock()

	if doc != nil {
		if err := r.injectDocument(doc); err != nil {
			return nil, fmt.Errorf("failed to inject document: %w", err)
		}
	}

	// Interrupt on timeout or cancellation
	finished := make(chan struct{})
	var timeout <-chan time.Time
	if r.config.Timeout > 0 {
		timer := time.NewTimer(r.config.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}
	watcher := make(chan struct{})
	go func(vm *goja.Runtime) {
		defer close(watcher)
		select {
		case <-timeout:
			vm.Interrupt("execution timeout exceeded")
		case <-ctx.Done():
			vm.Interrupt("context cancelled")
		case <-finished:
		}
	}(r.vm)

	val, err := r.vm.RunString(script)
	close(finished)
	<-watcher
	r.vm.ClearInterrupt()

	result.Duration = time.Since(start)

	r.consoleMu.Lock()
	result.Console = append([]LogEntry{}, r.console...)
	r.consoleMu.Unlock()

	if doc != nil {
		result.Changes = doc.drainChanges()
	}

	if err != nil {
		return result, fmt.Errorf("script failed: %w", err)
	}

	result.Value = r.exportValue(val)
	return result, nil
}

// reset builds a fresh VM
func (r *Runtime) reset() error {
	r.vm = goja.New()
	if r.config.MaxCallStack > 0 {
		r.vm.SetMaxCallStackSize(r.config.MaxCallStack)
	}
	return r.setupGlobals()
}

// setupGlobals configures global objects and security
func (r *Runtime) setupGlobals() error {
	// Remove host access
	for _, name := range []string{"require", "process", "module", "exports"} {
		if err := r.vm.Set(name, goja.Undefined()); err != nil {
			return err
		}
	}

	if r.config.EnableConsole {
		console := r.vm.NewObject()
		for _, level := range []string{"log", "warn", "error", "info"} {
			if err := console.Set(level, r.makeConsoleFunc(level)); err != nil {
				return err
			}
		}
		if err := r.vm.Set("console", console); err != nil {
			return err
		}
	}

	// Timers never fire in the sandbox
	noop := func(call goja.FunctionCall) goja.Value { return goja.Undefined() }
	for _, name := range []string{"setTimeout", "setInterval", "requestAnimationFrame"} {
		if err := r.vm.Set(name, noop); err != nil {
			return err
		}
	}
	return nil
}

// makeConsoleFunc creates a console function
func (r *Runtime) makeConsoleFunc(level string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, arg := range call.Arguments {
			parts = append(parts, arg.String())
		}

		r.consoleMu.Lock()
		r.console = append(r.console, LogEntry{
			Level:   level,
			Message: strings.Join(parts, " "),
			Time:    time.Now(),
		})
		r.consoleMu.Unlock()

		return goja.Undefined()
	}
}

// injectDocument binds document.documentElement.classList and .style to doc
func (r *Runtime) injectDocument(doc *Document) error {
	vm := r.vm

	classList := vm.NewObject()
	_ = classList.Set("toggle", func(call goja.FunctionCall) goja.Value {
		var force *bool
		if len(call.Arguments) > 1 && !goja.IsUndefined(call.Argument(1)) {
			f := call.Argument(1).ToBoolean()
			force = &f
		}
		return vm.ToValue(doc.ToggleClass(call.Argument(0).String(), force))
	})
	_ = classList.Set("add", func(call goja.FunctionCall) goja.Value {
		for _, arg := range call.Arguments {
			doc.AddClass(arg.String())
		}
		return goja.Undefined()
	})
	_ = classList.Set("remove", func(call goja.FunctionCall) goja.Value {
		for _, arg := range call.Arguments {
			doc.RemoveClass(arg.String())
		}
		return goja.Undefined()
	})
	_ = classList.Set("contains", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(doc.HasClass(call.Argument(0).String()))
	})

	style := vm.NewObject()
	_ = style.Set("setProperty", func(call goja.FunctionCall) goja.Value {
		doc.SetProperty(call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	_ = style.Set("getPropertyValue", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(doc.Property(call.Argument(0).String()))
	})
	_ = style.Set("removeProperty", func(call goja.FunctionCall) goja.Value {
		return vm.ToValue(doc.RemoveProperty(call.Argument(0).String()))
	})
	if err := style.DefineAccessorProperty("cssText",
		vm.ToValue(func(goja.FunctionCall) goja.Value { return vm.ToValue(doc.StyleText()) }),
		nil, goja.FLAG_TRUE, goja.FLAG_TRUE); err != nil {
		return err
	}

	root := vm.NewObject()
	_ = root.Set("tagName", "HTML")
	_ = root.Set("classList", classList)
	_ = root.Set("style", style)

	document := vm.NewObject()
	_ = document.Set("documentElement", root)
	if err := document.DefineAccessorProperty("title",
		vm.ToValue(func(goja.FunctionCall) goja.Value { return vm.ToValue(doc.Title()) }),
		vm.ToValue(func(call goja.FunctionCall) goja.Value {
			doc.SetTitle(call.Argument(0).String())
			return goja.Undefined()
		}),
		goja.FLAG_TRUE, goja.FLAG_TRUE); err != nil {
		return err
	}

	return vm.Set("document", document)
}

// exportValue converts goja value to Go value
func (r *Runtime) exportValue(val goja.Value) interface{} {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}

// Reset discards all script state
func (r *Runtime) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.consoleMu.Lock()
	r.console = []LogEntry{}
	r.consoleMu.Unlock()
	return r.reset()
}

// Close releases resources
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.vm = nil
	r.console = nil
	return nil
}
