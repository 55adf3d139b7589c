package ipc

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"time"
)

// DefaultClientTimeout bounds a full request/response exchange.
const DefaultClientTimeout = 5 * time.Second

// Send delivers one request line to the daemon and returns the parsed
// response. A zero timeout uses DefaultClientTimeout.
func Send(socketPath, line string, timeout time.Duration) (*Response, error) {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}

	conn, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(timeout))

	if _, err := fmt.Fprintln(conn, line); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	reader := bufio.NewReaderSize(conn, MaxLineBytes)
	reply, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return ParseResponse(strings.TrimRight(reply, "\n"))
}

// Call builds a request from op and args and sends it.
func Call(socketPath, op string, args map[string]any, timeout time.Duration) (*Response, error) {
	return Send(socketPath, BuildRequest(op, args), timeout)
}
