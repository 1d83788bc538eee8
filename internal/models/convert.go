package models

import (
	"encoding/json"
	"math"
	"strconv"
)

// The helpers below read loosely-typed values out of decoded JSON maps.
// Values may come from encoding/json with or without UseNumber, so every
// numeric reader accepts float64, json.Number and the native Go integer kinds.
// A missing key or an unexpected type yields the zero value.

func getString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}

func getBool(m map[string]any, key string) bool {
	if b, ok := m[key].(bool); ok {
		return b
	}
	return false
}

func getInt(m map[string]any, key string) int64 {
	n, _ := toInt(m[key])
	return n
}

func getFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return 0
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(math.Round(n)), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(math.Round(f)), true
		}
	}
	return 0, false
}

func getMap(m map[string]any, key string) map[string]any {
	if sub, ok := m[key].(map[string]any); ok {
		return sub
	}
	return map[string]any{}
}

func getStringSlice(m map[string]any, key string) []string {
	out := []string{}
	switch v := m[key].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

func getMapSlice(m map[string]any, key string) []map[string]any {
	out := []map[string]any{}
	switch v := m[key].(type) {
	case []map[string]any:
		out = append(out, v...)
	case []any:
		for _, item := range v {
			if sub, ok := item.(map[string]any); ok {
				out = append(out, sub)
			}
		}
	}
	return out
}
