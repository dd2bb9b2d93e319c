package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ToString formats scalar values the way they appear on the wire.
func ToString(value any) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// IsNull reports whether the value represents null: nil, or a string
// spelling "null" or "None".
func IsNull(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	return s == "null" || s == "None"
}
