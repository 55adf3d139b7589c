package app

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/keyscope/internal/config"
	"github.com/dshills/keyscope/internal/event"
)

// ActionFunc executes one action verb. arg is the text after the first
// colon, empty for bare verbs like "quit".
type ActionFunc func(ctx context.Context, arg string) error

// ActionRegistry maps action verbs to their executors.
type ActionRegistry struct {
	mu    sync.RWMutex
	verbs map[string]ActionFunc
}

// NewActionRegistry creates an empty action registry.
func NewActionRegistry() *ActionRegistry {
	return &ActionRegistry{
		verbs: make(map[string]ActionFunc),
	}
}

// Register adds an executor for a verb, replacing any existing one.
func (r *ActionRegistry) Register(verb string, fn ActionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verbs[verb] = fn
}

// Unregister removes the executor for a verb.
func (r *ActionRegistry) Unregister(verb string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.verbs, verb)
}

// Has returns true if an executor is registered for the verb.
func (r *ActionRegistry) Has(verb string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.verbs[verb]
	return ok
}

// Verbs returns all registered verbs, sorted.
func (r *ActionRegistry) Verbs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	verbs := make([]string, 0, len(r.verbs))
	for verb := range r.verbs {
		verbs = append(verbs, verb)
	}
	sort.Strings(verbs)
	return verbs
}

// Execute parses an action string and runs its executor.
func (r *ActionRegistry) Execute(ctx context.Context, action string) error {
	verb, arg, err := ParseAction(action)
	if err != nil {
		return err
	}

	r.mu.RLock()
	fn, ok := r.verbs[verb]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, verb)
	}
	return fn(ctx, arg)
}

// Check verifies that an action string parses and names a registered
// verb without running it. Used when validating bindings before they
// are armed.
func (r *ActionRegistry) Check(action string) error {
	verb, _, err := ParseAction(action)
	if err != nil {
		return err
	}
	if !r.Has(verb) {
		return fmt.Errorf("%w: %q", ErrUnknownAction, verb)
	}
	return nil
}

// ParseAction splits an action string into a verb and its argument.
// The verb is everything before the first colon: "scope:editor" parses
// to ("scope", "editor") and "quit" to ("quit", ""). The argument keeps
// its spelling, so "run:notify-send hi" passes "notify-send hi" through
// untouched.
func ParseAction(action string) (verb, arg string, err error) {
	action = strings.TrimSpace(action)
	if action == "" {
		return "", "", ErrEmptyAction
	}
	verb, arg, _ = strings.Cut(action, ":")
	if verb == "" {
		return "", "", fmt.Errorf("%w: %q has no verb", ErrEmptyAction, action)
	}
	return verb, arg, nil
}

// builtinVerbs are the action verbs every application carries. Kept in
// sync with registerActions.
var builtinVerbs = []string{"emit", "lua", "quit", "run", "scope"}

// registerActions installs the built-in action verbs.
func (a *Application) registerActions() {
	a.actions.Register("scope", a.actionScope)
	a.actions.Register("run", a.actionRun)
	a.actions.Register("lua", a.actionLua)
	a.actions.Register("emit", a.actionEmit)
	a.actions.Register("quit", a.actionQuit)
}

// ValidateConfig checks a configuration the way New would: schema
// validation plus an action-verb check per binding. Backs the -check
// flag, which must not build sources or sockets.
func ValidateConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r := NewActionRegistry()
	noop := func(context.Context, string) error { return nil }
	for _, verb := range builtinVerbs {
		r.Register(verb, noop)
	}
	for i, b := range cfg.Bindings {
		if err := r.Check(b.Action); err != nil {
			return fmt.Errorf("binding %d (%s): %w", i, b.Pattern, err)
		}
	}
	return nil
}

// actionScope switches the active scope.
func (a *Application) actionScope(_ context.Context, arg string) error {
	name := strings.TrimSpace(arg)
	if name == "" {
		return &OperationError{Op: "scope", Err: errors.New("missing scope name")}
	}
	a.SetScope(name)
	return nil
}

// actionRun starts a shell command without waiting for it. The command
// is reaped on a goroutine so a long-running program cannot stall
// matching; a non-zero exit is logged, not returned.
func (a *Application) actionRun(_ context.Context, arg string) error {
	cmdline := strings.TrimSpace(arg)
	if cmdline == "" {
		return &OperationError{Op: "run", Err: errors.New("missing command")}
	}

	cmd := exec.Command("/bin/sh", "-c", cmdline)
	if err := cmd.Start(); err != nil {
		return &OperationError{Op: "run", Target: cmdline, Err: err}
	}
	a.logger.Debug("started command %q pid %d", cmdline, cmd.Process.Pid)

	go func() {
		if err := cmd.Wait(); err != nil {
			a.logger.Warn("command %q: %v", cmdline, err)
		}
	}()
	return nil
}

// actionLua queues a script file, optionally calling a function it
// defines: "lua:deploy.lua" or "lua:deploy.lua:on_press". Script errors
// surface asynchronously in the log.
func (a *Application) actionLua(_ context.Context, arg string) error {
	file, entry, _ := strings.Cut(strings.TrimSpace(arg), ":")
	if file == "" {
		return &OperationError{Op: "lua", Err: errors.New("missing script path")}
	}

	err := a.script.RunFileAsync(file, entry, func(err error) {
		a.logger.Error("lua %s: %v", file, err)
	})
	if err != nil {
		return &OperationError{Op: "lua", Target: file, Err: err}
	}
	return nil
}

// actionEmit publishes the text on the bus for IPC and UI subscribers.
func (a *Application) actionEmit(_ context.Context, arg string) error {
	a.bus.Publish(event.TopicUserEmit, event.UserEmit{Text: strings.TrimSpace(arg)})
	return nil
}

// actionQuit requests daemon shutdown.
func (a *Application) actionQuit(_ context.Context, _ string) error {
	a.Quit()
	return nil
}
