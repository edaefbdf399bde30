package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// fromMap walks nested objects, returning nil on any missing link
func fromMap(m any, keys ...string) any {
	cur := m
	for _, k := range keys {
		obj, ok := asObject(cur)
		if !ok {
			return nil
		}
		cur = obj[k]
	}
	return cur
}

func asObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return obj, obj != nil
	default:
		return nil, false
	}
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asInt accepts JSON numbers in any decoded form; everything else is 0
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil {
			return int(f)
		}
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return parsed
		}
	}
	return 0
}

// parseTimestamp parses an ISO-8601 UTC timestamp such as "2024-01-01T00:00:00Z".
// The trailing Z is rewritten to a fixed +00:00 offset before parsing.
func parseTimestamp(v any) (time.Time, error) {
	s, ok := asString(v)
	if !ok {
		return time.Time{}, fmt.Errorf("expected a timestamp string, got %T", v)
	}
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// optionalTimestamp returns nil for absent or null values
func optionalTimestamp(raw map[string]any, key string) (*time.Time, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, nil
	}
	if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
		return nil, nil
	}

	t, err := parseTimestamp(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

// joinNames extracts field from each object in a list, dropping empty names
func joinNames(list any, field string) string {
	entries, ok := list.([]any)
	if !ok {
		return ""
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if name, ok := asString(fromMap(entry, field)); ok && name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}
