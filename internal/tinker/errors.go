package tinker

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnauthorized = errors.New("tinker: unauthorized")
	ErrNotFound     = errors.New("tinker: not found")
	ErrEmptySample  = errors.New("tinker: sample returned no sequences")
	ErrRunFailed    = errors.New("tinker: training run failed")
)

// APIError is a non-retryable error answer from the service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tinker: status %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("tinker: status %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// FutureError is reported by retrieve_future when the sampling job itself failed.
type FutureError struct {
	RequestID string
	Category  string
	Message   string
}

func (e *FutureError) Error() string {
	return fmt.Sprintf("tinker: request %s failed (%s): %s", e.RequestID, e.Category, e.Message)
}

type errorPayload struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail string `json:"detail"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var payload errorPayload
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != nil:
			apiErr.Code = payload.Error.Code
			apiErr.Message = payload.Error.Message
		case payload.Detail != "":
			apiErr.Message = payload.Detail
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
