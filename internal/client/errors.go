package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/simp-lee/backoffice/internal/domain"
)

// maxPlainMessage bounds how much of a non-JSON error body is shown.
const maxPlainMessage = 200

// APIError is a non-2xx response. Kind carries the domain error code the
// status maps to, so domain.IsNotFound and friends work on it.
type APIError struct {
	Status  int
	Kind    int
	Message string
	Fields  map[string]string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.Status)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Unwrap exposes the matching domain error.
func (e *APIError) Unwrap() error {
	return domain.NewAppError(e.Kind, e.Message, nil)
}

func newAPIError(status int, body []byte) *APIError {
	msg, fields := extractMessage(body)
	return &APIError{
		Status:  status,
		Kind:    kindForStatus(status),
		Message: msg,
		Fields:  fields,
		Body:    body,
	}
}

func kindForStatus(status int) int {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.CodeValidation
	case http.StatusUnauthorized:
		return domain.CodeUnauthorized
	case http.StatusForbidden:
		return domain.CodeForbidden
	case http.StatusNotFound:
		return domain.CodeNotFound
	case http.StatusConflict:
		return domain.CodeConflict
	default:
		return domain.CodeInternal
	}
}

// extractMessage pulls a display string out of an error body whose shape
// varies: a bare JSON string, {message}, {errors: {field: msg}},
// {error: "..."}, {error: {message}} or plain text.
func extractMessage(body []byte) (string, map[string]string) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return plainText(body), nil
	}

	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), nil
	case map[string]any:
		fields := fieldErrors(t["errors"])
		if msg := stringAt(t, "message"); msg != "" {
			return msg, fields
		}
		switch e := t["error"].(type) {
		case string:
			return strings.TrimSpace(e), fields
		case map[string]any:
			if msg := stringAt(e, "message"); msg != "" {
				return msg, fields
			}
		}
		if msg := stringAt(t, "detail"); msg != "" {
			return msg, fields
		}
		return "", fields
	}
	return "", nil
}

func stringAt(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// fieldErrors accepts {field: "msg"}, {field: ["msg", ...]} and
// {field: {message}} members.
func fieldErrors(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok || len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for field, raw := range m {
		switch e := raw.(type) {
		case string:
			out[field] = e
		case []any:
			if len(e) > 0 {
				if s, ok := e[0].(string); ok {
					out[field] = s
				}
			}
		case map[string]any:
			if s := stringAt(e, "message"); s != "" {
				out[field] = s
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// plainText keeps short single-line text bodies and drops HTML pages and
// stack dumps.
func plainText(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" || len(s) > maxPlainMessage || strings.ContainsAny(s, "<\n") {
		return ""
	}
	return s
}

var kindTitles = map[int]string{
	domain.CodeNotFound:          "Not found",
	domain.CodeConflict:          "Conflict",
	domain.CodeValidation:        "Please check the form",
	domain.CodeInvalidTransition: "Action not allowed",
	domain.CodeUnauthorized:      "Please sign in",
	domain.CodeForbidden:         "Access denied",
	domain.CodeInternal:          "Something went wrong, please try again",
}

// DisplayMessage turns any error from this package into a short toast text.
// Server internals and transport details are never shown.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return compose(apiErr.Kind, apiErr.Message, apiErr.Fields)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return "The server took too long to respond"
	}
	if errors.Is(err, context.Canceled) {
		return "Request cancelled"
	}
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return compose(appErr.Code, appErr.Message, nil)
	}
	return "Could not reach the server"
}

func compose(kind int, msg string, fields map[string]string) string {
	title, ok := kindTitles[kind]
	if !ok || kind == domain.CodeInternal {
		return kindTitles[domain.CodeInternal]
	}

	detail := msg
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+fields[k])
		}
		detail = strings.Join(parts, "; ")
	}
	if detail == "" {
		return title
	}
	return title + ": " + detail
}
