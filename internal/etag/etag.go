// Package etag computes strong entity tags from resource representations.
// A tag is the SHA-256 of the resource's canonical JSON form: keys sorted
// lexicographically, no insignificant whitespace, null fields excluded,
// timestamps as UTC RFC 3339 with a trailing "Z". The same field values
// always produce the same tag, so the tag doubles as a content version.
package etag

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Compute returns the strong ETag for v, a quoted hex SHA-256 digest like
// "9f86d08...". v is any JSON-serializable representation; time.Time fields
// must already be in UTC so they render with the "Z" suffix.
func Compute(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	// Round-trip through a generic value so the final marshal emits keys in
	// sorted order regardless of struct field order, then drop nulls to
	// match the exclude-absent rule.
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", err
	}
	canonical, err := json.Marshal(withoutNulls(decoded))
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return `"` + hex.EncodeToString(sum[:]) + `"`, nil
}

// withoutNulls removes null-valued object members at every nesting level.
func withoutNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if val == nil {
				delete(t, k)
				continue
			}
			t[k] = withoutNulls(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = withoutNulls(val)
		}
		return t
	default:
		return v
	}
}
