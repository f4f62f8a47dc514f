package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedLayout is returned when a primary layout definition is missing,
// is not valid JSON, or has no string TargetName.
var ErrMalformedLayout = errors.New("malformed layout definition")

// ArchiveSuffix is stripped from TargetName to form the target.
const ArchiveSuffix = ".szs"

// TargetFromLayout extracts TargetName from a primary layout definition and
// strips a trailing archive suffix.
func TargetFromLayout(baseLayout string) (string, error) {
	if !gjson.Valid(baseLayout) {
		return "", fmt.Errorf("%w: invalid JSON", ErrMalformedLayout)
	}

	res := gjson.Get(baseLayout, "TargetName")
	if res.Type != gjson.String {
		return "", fmt.Errorf("%w: TargetName is missing or not a string", ErrMalformedLayout)
	}

	return TrimArchiveSuffix(res.Str), nil
}

// TrimArchiveSuffix removes a trailing ArchiveSuffix, ignoring case.
func TrimArchiveSuffix(name string) string {
	n := len(name) - len(ArchiveSuffix)
	if n >= 0 && strings.EqualFold(name[n:], ArchiveSuffix) {
		return name[:n]
	}
	return name
}

// OptionName derives a piece option name from its directory name: a leading
// "_"-separated segment (usually an ordering prefix) is dropped.
func OptionName(dir string) string {
	parts := strings.Split(dir, "_")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	return strings.Join(parts, "_")
}
