// Package check inspects response bodies for diagnostic output. Nothing in
// this package affects pass/fail determination.
package check

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Summarize returns a short structural description of a JSON body: the
// element count for arrays, the key list for objects, and a truncated raw
// preview for anything else (including invalid JSON).
func Summarize(body []byte, maxLen int) string {
	if !gjson.ValidBytes(body) {
		return Truncate(string(body), maxLen)
	}

	parsed := gjson.ParseBytes(body)
	switch {
	case parsed.IsArray():
		return fmt.Sprintf("list with %d items", len(parsed.Array()))
	case parsed.IsObject():
		keys := make([]string, 0)
		parsed.ForEach(func(key, _ gjson.Result) bool {
			keys = append(keys, key.String())
			return true
		})
		sort.Strings(keys)
		return fmt.Sprintf("object with keys [%s]", strings.Join(keys, ", "))
	default:
		return Truncate(parsed.Raw, maxLen)
	}
}

// FirstListingID extracts the id of the first element from a JSON array of
// listings. Returns "" when the body is not an array, is empty, or the first
// element has no id.
func FirstListingID(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "0.id").String()
}

// Truncate shortens s to at most maxLen characters, appending an ellipsis
// marker when anything was cut.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
