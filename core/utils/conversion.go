package utils

import (
	"fmt"
	"strconv"
)

// ToString converts decoded JSON scalars to their string form.
// Integral float64 values (how encoding/json decodes numbers) render without
// a fraction, and nil renders as the empty string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
