package board

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBusy is returned by Submit while a signup is already in flight.
var ErrBusy = errors.New("signup already in progress")

// ErrNoControl is returned when a delete click names a participant that
// is not on the rendered board.
var ErrNoControl = errors.New("no such delete control")

// ApplicationError is a non-2xx API reply that carried a readable body.
type ApplicationError struct {
	Status int
	Detail string
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("Error (%d): %s", e.Status, e.Detail)
}

// AnomalyError means a non-empty catalog rendered no cards.
type AnomalyError struct {
	Activities int
}

func (e *AnomalyError) Error() string {
	return fmt.Sprintf("loaded %d activities but rendered none", e.Activities)
}

const genericDetail = "An error occurred"

// ErrorDetail picks the text shown for an API error body. The order is
// fixed: "detail", then "message", then the whole body serialized, then a
// generic string. Empty strings, null, false and any zero number count as
// absent. Arrays are present even when empty and render as their elements
// joined by commas; objects render as compact JSON.
func ErrorDetail(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"detail", "message"} {
			if s, ok := present(fields[key]); ok {
				return s
			}
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err == nil && compact.Len() > 0 {
		return compact.String()
	}
	if s := string(bytes.TrimSpace(body)); s != "" {
		return s
	}
	return genericDetail
}

// present reports whether raw holds a truthy value and, if so, its text.
func present(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		s := jsonText(raw)
		return s, s != ""
	case 'n', 'f':
		return "", false
	case '[', '{', 't':
		return jsonText(raw), true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && f == 0 {
		return "", false
	}
	return jsonText(raw), true
}

// jsonText renders a JSON value for display.
func jsonText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	case 'n':
		return ""
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err == nil {
			parts := make([]string, len(items))
			for i, item := range items {
				parts[i] = jsonText(item)
			}
			return strings.Join(parts, ",")
		}
	case '{', 't', 'f':
	default:
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return string(raw)
	}
	return compact.String()
}
