package client

import (
	"fmt"
	"net/http"
	"strings"
)

// StatusError is a response outside the 2xx range.
type StatusError struct {
	Code   int
	Status string // status line, e.g. "404 Not Found"
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return e.Status
	}
	return e.Status + "\n" + body
}

// ConnectionError is a request that never produced a response.
type ConnectionError struct {
	Addr string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("unable to contact conductor at %s: %v", e.Addr, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// CheckStatus returns a *StatusError unless the reply is a 2xx. Call it after every request.
func CheckStatus(reply *Reply) error {
	if reply.StatusCode >= 200 && reply.StatusCode < 300 {
		return nil
	}
	status := reply.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", reply.StatusCode, http.StatusText(reply.StatusCode))
	}
	return &StatusError{Code: reply.StatusCode, Status: status, Body: string(reply.Body)}
}
