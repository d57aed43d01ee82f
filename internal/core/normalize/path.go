// Package normalize reconciles the inconsistent record shapes returned by the
// content backend. Depending on endpoint and populate depth the same field may
// arrive flat, under "attributes", or under "data.attributes"; file references
// come in five different shapes. Every function here is pure and total: a
// shape that matches nothing degrades to a zero value, never to an error.
package normalize

import (
	"strconv"
	"strings"
)

// Lookup resolves a dotted path through a possibly-nil object graph,
// short-circuiting to nil the moment any segment is missing or not an object.
func Lookup(obj any, path string) any {
	return LookupOr(obj, path, nil)
}

// LookupOr is Lookup with an explicit fallback value.
func LookupOr(obj any, path string, fallback any) any {
	cur := obj
	if path != "" {
		for _, part := range strings.Split(path, ".") {
			m, ok := cur.(map[string]any)
			if !ok {
				return fallback
			}
			cur, ok = m[part]
			if !ok {
				return fallback
			}
		}
	}
	if cur == nil {
		return fallback
	}
	return cur
}

// String returns the value at path if it is a non-empty string.
func String(obj any, path string) string {
	s, _ := Lookup(obj, path).(string)
	return s
}

// Number coerces v into a float64 when it is a JSON number or a non-empty
// string that parses as one.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || n == "" {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
