package ipc

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Standard operations understood by the daemon.
const (
	OpPing     = "ping"
	OpStatus   = "status"
	OpScope    = "scope"
	OpScopeSet = "scope.set"
	OpBindings = "bindings"
	OpInject   = "inject"
	OpReload   = "reload"
	OpStop     = "stop"
)

// MaxLineBytes bounds a single request line.
const MaxLineBytes = 64 * 1024

// Protocol errors.
var (
	// ErrInvalidRequest indicates a malformed request line.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnknownOp indicates an unrecognized operation.
	ErrUnknownOp = errors.New("unknown op")
)

// Request is one parsed request line.
type Request struct {
	// Op is the operation name.
	Op string

	// Args holds the operation arguments, possibly absent.
	Args gjson.Result

	// Raw is the original request line.
	Raw string
}

// Arg returns a string argument by name, empty if absent.
func (r *Request) Arg(name string) string {
	return r.Args.Get(name).String()
}

// ParseRequest parses a request line.
func ParseRequest(line string) (*Request, error) {
	if !gjson.Valid(line) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrInvalidRequest)
	}

	op := gjson.Get(line, "op").String()
	if op == "" {
		return nil, fmt.Errorf("%w: missing op", ErrInvalidRequest)
	}

	return &Request{
		Op:   op,
		Args: gjson.Get(line, "args"),
		Raw:  line,
	}, nil
}

// BuildRequest builds a request line for the given op and arguments.
func BuildRequest(op string, args map[string]any) string {
	out, err := sjson.Set(`{}`, "op", op)
	if err != nil {
		return `{}`
	}
	for k, v := range args {
		out, _ = sjson.Set(out, "args."+k, v)
	}
	return out
}

// OkResponse builds a success response line. The data map becomes the
// response's data object and may be nil.
func OkResponse(data map[string]any) string {
	out, err := sjson.Set(`{}`, "ok", true)
	if err != nil {
		return `{"ok":true}`
	}
	for k, v := range data {
		out, _ = sjson.Set(out, "data."+k, v)
	}
	return out
}

// ErrorResponse builds a failure response line.
func ErrorResponse(err error) string {
	out, serr := sjson.Set(`{}`, "ok", false)
	if serr != nil {
		return `{"ok":false}`
	}
	out, _ = sjson.Set(out, "error", err.Error())
	return out
}

// Response is a parsed response line, as seen by clients.
type Response struct {
	// OK reports whether the operation succeeded.
	OK bool

	// Data holds the response payload, possibly absent.
	Data gjson.Result

	// Err is the error message for failed operations.
	Err string

	// Raw is the original response line.
	Raw string
}

// ParseResponse parses a response line.
func ParseResponse(line string) (*Response, error) {
	if !gjson.Valid(line) {
		return nil, fmt.Errorf("invalid response: not valid JSON")
	}
	return &Response{
		OK:   gjson.Get(line, "ok").Bool(),
		Data: gjson.Get(line, "data"),
		Err:  gjson.Get(line, "error").String(),
		Raw:  line,
	}, nil
}
