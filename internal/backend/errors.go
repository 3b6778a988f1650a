package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotFound matches StatusError values carrying a 404 response.
	ErrNotFound = errors.New("backend: not found")
	// ErrProgramNotFound indicates no listed product matches the requested id or slug.
	ErrProgramNotFound = errors.New("program not found")
	// ErrFetchFailed indicates the product list or detail request itself failed.
	ErrFetchFailed = errors.New("failed to fetch program detail")
)

// StatusError carries the method, URL, status and a body snippet of a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("backend: %s %s status=%d", e.Method, e.URL, e.StatusCode)
	if e.Body != "" {
		msg += " body=" + e.Body
	}
	return msg
}

// Is reports 404 responses as ErrNotFound.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func (e *StatusError) retryable() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout, http.StatusTooEarly, http.StatusTooManyRequests:
		return true
	}
	return e.StatusCode >= 500 && e.StatusCode <= 599
}

// snippet shortens b to at most max bytes without splitting a UTF-8 sequence.
func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
