package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// RateLimit carries the X-RateLimit-* headers captured from a response.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Error is the single error shape for every non-2xx response. The calling
// layer displays Message; Status and Code let it branch without string
// matching.
type Error struct {
	Status    int
	Code      string
	Message   string
	Details   json.RawMessage
	RateLimit *RateLimit
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// IsClientError reports whether the backend rejected the request (4xx).
func (e *Error) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// IsServerError reports whether the backend itself failed (5xx).
func (e *Error) IsServerError() bool {
	return e.Status >= 500
}

// newError builds an Error from a failed response. The body may follow
// several envelope shapes; the message is resolved in priority order:
// message, error.message, error (string), data.message, then a synthesized
// fallback.
func newError(status int, body map[string]json.RawMessage, header http.Header) *Error {
	apiErr := &Error{
		Status:  status,
		Message: fmt.Sprintf("request failed with status %d", status),
	}

	if msg, ok := stringField(body, "message"); ok {
		apiErr.Message = msg
	} else if raw, ok := body["error"]; ok {
		var nested struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
			apiErr.Message = nested.Message
			apiErr.Code = nested.Code
		} else {
			var flat string
			if err := json.Unmarshal(raw, &flat); err == nil && flat != "" {
				apiErr.Message = flat
			}
		}
	} else if raw, ok := body["data"]; ok {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
			apiErr.Message = nested.Message
		}
	}

	if apiErr.Code == "" {
		if code, ok := stringField(body, "code"); ok {
			apiErr.Code = code
		}
	}
	if details, ok := body["details"]; ok {
		apiErr.Details = details
	}
	apiErr.RateLimit = parseRateLimit(header)

	return apiErr
}

func stringField(body map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := body[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func parseRateLimit(header http.Header) *RateLimit {
	limitHeader := header.Get("X-RateLimit-Limit")
	if limitHeader == "" {
		return nil
	}

	rl := &RateLimit{}
	rl.Limit, _ = strconv.Atoi(limitHeader)
	rl.Remaining, _ = strconv.Atoi(header.Get("X-RateLimit-Remaining"))
	if reset, err := strconv.ParseInt(header.Get("X-RateLimit-Reset"), 10, 64); err == nil {
		rl.Reset = time.Unix(reset, 0)
	}
	return rl
}
