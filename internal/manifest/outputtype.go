package manifest

import "strings"

// ParseOutputType parses an output-type string case-insensitively, accepting
// the aliases from spec.md §4.B. An unrecognized value defaults to
// Executable rather than failing, matching the spec's stated behavior.
func ParseOutputType(s string) OutputType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "executable", "exe":
		return Executable
	case "library", "lib":
		return Library
	case "static", "static-library", "staticlib":
		return StaticLibrary
	case "dynamic", "dynamic-library", "dylib":
		return DynamicLibrary
	default:
		return Executable
	}
}
