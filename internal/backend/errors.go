package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches responses with status 401.
	ErrUnauthorized = errors.New("backend: unauthorized")
	// ErrNotFound matches responses with status 404.
	ErrNotFound = errors.New("backend: not found")
)

// APIError is a non-2xx response. Message is the backend's optional
// human-readable "message" body field.
type APIError struct {
	Status   int
	Message  string
	Method   string
	Resource string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s %s: status %d: %s", e.Method, e.Resource, e.Status, e.Message)
	}
	return fmt.Sprintf("backend %s %s: status %d", e.Method, e.Resource, e.Status)
}

// Is lets errors.Is match ErrUnauthorized and ErrNotFound by status.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	default:
		return false
	}
}

func readAPIError(resp *http.Response, cl call) *APIError {
	apiErr := &APIError{Status: resp.StatusCode, Method: cl.method, Resource: cl.resource}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	var body struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &body) == nil {
		apiErr.Message = strings.TrimSpace(body.Message)
	}
	return apiErr
}
