package script

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Defaults for the engine.
const (
	DefaultQueueSize = 64
	DefaultTimeout   = 5 * time.Second
)

// Host exposes daemon operations to Lua scripts.
type Host interface {
	// Log writes a message to the daemon log.
	Log(msg string)

	// ActiveScope returns the name of the active scope.
	ActiveScope() string

	// SetScope switches the active scope.
	SetScope(name string)

	// Emit publishes a user event.
	Emit(text string)
}

// call is one queued Lua operation.
type call struct {
	fn     func(L *lua.LState) error
	result chan error
}

// Engine runs Lua snippets on a single sandboxed state.
//
// All Lua execution happens on one goroutine because LState is not
// goroutine-safe. Run blocks for the result; RunAsync queues and
// returns, which is the right shape for binding callbacks.
type Engine struct {
	L *lua.LState

	queue   chan *call
	done    chan struct{}
	closed  atomic.Bool
	timeout time.Duration

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the per-call timeout for synchronous Run calls.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithQueueSize sets how many operations may be buffered.
func WithQueueSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.queue = make(chan *call, n)
		}
	}
}

// New creates an engine bound to the given host and starts its
// execution goroutine.
func New(host Host, opts ...Option) *Engine {
	e := &Engine{
		queue:   make(chan *call, DefaultQueueSize),
		done:    make(chan struct{}),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true,
	})
	openSafeLibraries(L)
	installSandbox(L)
	registerHostModule(L, host)
	e.L = L

	e.wg.Add(1)
	go e.run()

	return e
}

// Run executes a Lua snippet and waits for the result.
func (e *Engine) Run(ctx context.Context, code string) error {
	return e.execute(ctx, func(L *lua.LState) error {
		return L.DoString(code)
	})
}

// RunAsync queues a Lua snippet without waiting for completion.
// Errors are reported through errFn, which may be nil.
func (e *Engine) RunAsync(code string, errFn func(error)) error {
	return e.enqueue(func(L *lua.LState) error { return L.DoString(code) }, errFn)
}

// RunFile executes a script file and waits for the result. A non-empty
// entry names a global function the file defines, called after the file
// body runs. The file is re-read on every call, so script edits take
// effect without a daemon reload.
func (e *Engine) RunFile(ctx context.Context, path, entry string) error {
	return e.execute(ctx, fileCall(path, entry))
}

// RunFileAsync queues a script file invocation without waiting for
// completion. Errors are reported through errFn, which may be nil.
func (e *Engine) RunFileAsync(path, entry string, errFn func(error)) error {
	return e.enqueue(fileCall(path, entry), errFn)
}

// fileCall builds the queued operation for a file invocation.
func fileCall(path, entry string) func(L *lua.LState) error {
	return func(L *lua.LState) error {
		if err := L.DoFile(path); err != nil {
			return err
		}
		if entry == "" {
			return nil
		}
		fn := L.GetGlobal(entry)
		if fn.Type() != lua.LTFunction {
			return fmt.Errorf("%w: %s in %s", ErrNoSuchFunction, entry, path)
		}
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	}
}

// enqueue adds an operation to the queue without blocking and spawns a
// goroutine to report its eventual error.
func (e *Engine) enqueue(fn func(L *lua.LState) error, errFn func(error)) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	c := &call{
		fn:     fn,
		result: make(chan error, 1),
	}

	select {
	case <-e.done:
		return ErrEngineClosed
	case e.queue <- c:
		go func() {
			err, ok := <-c.result
			if ok && err != nil && errFn != nil {
				errFn(err)
			}
		}()
		return nil
	default:
		return ErrQueueFull
	}
}

// execute queues an operation and waits for it under the engine timeout.
func (e *Engine) execute(ctx context.Context, fn func(L *lua.LState) error) error {
	if e.closed.Load() {
		return ErrEngineClosed
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	c := &call{
		fn:     fn,
		result: make(chan error, 1),
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-e.done:
		return ErrEngineClosed
	case e.queue <- c:
	}

	select {
	case <-ctx.Done():
		// The call stays queued and will still run; we just stop waiting.
		return ctx.Err()
	case err, ok := <-c.result:
		if !ok {
			return ErrEngineClosed
		}
		return err
	}
}

// run owns the Lua state and drains the queue until closed.
func (e *Engine) run() {
	defer e.wg.Done()
	defer e.L.Close()

	for {
		select {
		case <-e.done:
			e.drain()
			return
		case c := <-e.queue:
			err := e.safeCall(c.fn)
			c.result <- err
			close(c.result)
		}
	}
}

// safeCall runs one operation with panic recovery.
func (e *Engine) safeCall(fn func(L *lua.LState) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case error:
				err = v
			case string:
				err = errors.New(v)
			default:
				err = errors.New("lua panic")
			}
		}
	}()
	return fn(e.L)
}

// drain fails any remaining queued calls.
func (e *Engine) drain() {
	for {
		select {
		case c := <-e.queue:
			c.result <- ErrEngineClosed
			close(c.result)
		default:
			return
		}
	}
}

// Close stops the engine and releases the Lua state. Queued calls
// fail with ErrEngineClosed.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.closed.Store(true)
		close(e.done)
	})
	e.wg.Wait()
}
