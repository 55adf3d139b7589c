package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/keyscope/internal/ipc"
)

// handleIPC serves one control-socket request. All ops answer on the
// connection goroutine; only reload does real work, and it holds the
// application lock for its duration.
func (a *Application) handleIPC(_ context.Context, req *ipc.Request) string {
	a.logger.Debug("ipc %s", req.Op)

	switch req.Op {
	case ipc.OpPing:
		return ipc.OkResponse(map[string]any{"pong": true})

	case ipc.OpStatus:
		return ipc.OkResponse(a.statusData())

	case ipc.OpScope:
		return ipc.OkResponse(map[string]any{"scope": a.dispatcher.ActiveScope()})

	case ipc.OpScopeSet:
		name := req.Arg("scope")
		if name == "" {
			return ipc.ErrorResponse(errors.New("missing scope argument"))
		}
		a.SetScope(name)
		return ipc.OkResponse(map[string]any{"scope": name})

	case ipc.OpBindings:
		rows := a.BindingRows()
		list := make([]map[string]any, 0, len(rows))
		for _, r := range rows {
			list = append(list, map[string]any{
				"pattern": r.Pattern,
				"scope":   r.Scope,
				"action":  r.Action,
			})
		}
		return ipc.OkResponse(map[string]any{"count": len(list), "bindings": list})

	case ipc.OpInject:
		keys := req.Arg("keys")
		if keys == "" {
			return ipc.ErrorResponse(errors.New("missing keys argument"))
		}
		n := a.Inject(keys)
		return ipc.OkResponse(map[string]any{"events": n})

	case ipc.OpReload:
		if err := a.Reload(); err != nil {
			return ipc.ErrorResponse(err)
		}
		return ipc.OkResponse(map[string]any{"bindings": a.dispatcher.BindingCount()})

	case ipc.OpStop:
		a.Quit()
		return ipc.OkResponse(map[string]any{"stopping": true})
	}

	return ipc.ErrorResponse(fmt.Errorf("%w: %s", ipc.ErrUnknownOp, req.Op))
}

// statusData assembles the status payload: identity, live dispatcher
// state, and the counter snapshot.
func (a *Application) statusData() map[string]any {
	a.mu.RLock()
	sourceType := a.cfg.Source.Type
	a.mu.RUnlock()

	m := a.dispatcher.Metrics()
	return map[string]any{
		"scope":           a.dispatcher.ActiveScope(),
		"scopes":          a.dispatcher.Scopes(),
		"bindings":        a.dispatcher.BindingCount(),
		"source":          sourceType,
		"held":            a.dispatcher.HeldKeys(),
		"pending":         a.dispatcher.Pending(),
		"uptime_s":        int64(time.Since(a.started).Seconds()),
		"keys":            m.KeyDowns,
		"matches":         m.Matches,
		"partials":        m.Partials,
		"misses":          m.Misses,
		"idle_resets":     m.IdleResets,
		"repeats_ignored": m.RepeatsIgnored,
		"hook_consumed":   m.HookConsumed,
		"panics":          m.CallbackPanics,
	}
}
