// Package jsonx holds small helpers for loosely typed JSON members.
package jsonx

import "encoding/json"

// Text returns the display text of a JSON member: the contents of a string,
// the literal encoding of any other value, and "" for null or an absent
// member.
func Text(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
