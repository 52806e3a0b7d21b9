package hapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrLinkNotFound = errors.New("hapi: link not found")
	ErrCircuitOpen  = errors.New("hapi: circuit open")
)

// Error is a non-2xx answer from the API.
type Error struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("hapi: status=%d body=%s", e.StatusCode, e.Body)
}

// APIMessage extracts the structured {"message","code"} body, if any.
func (e *Error) APIMessage() (message, code string, ok bool) {
	if e == nil || strings.TrimSpace(e.Body) == "" {
		return "", "", false
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(e.Body)))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return "", "", false
	}
	message, _ = body["message"].(string)
	if message == "" {
		return "", "", false
	}
	switch c := body["code"].(type) {
	case string:
		code = c
	case json.Number:
		code = c.String()
	}
	return message, code, true
}

func (e *Error) NotFound() bool {
	return e != nil && e.StatusCode == http.StatusNotFound
}

// Temporary reports server-side or throttling failures.
func (e *Error) Temporary() bool {
	return e != nil && (e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests)
}

// AsError unwraps err into an *Error.
func AsError(err error) (*Error, bool) {
	var he *Error
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}
