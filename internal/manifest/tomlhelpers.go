package manifest

// Dependency tables are polymorphic — either a bare version string or an
// inline table ({ path = ... } / { git = ..., tag = ... }) — which does not
// map cleanly onto one static Go struct. Rather than fight go-toml/v2's
// Unmarshaler contract for that one polymorphic shape, the whole document is
// decoded into a generic map[string]any and walked with these small
// accessors, strongly-shaped tables included; there is no typed decoding
// pass. This mirrors the teacher's "tagged variant, not subclass"
// design note applied to parsing itself.

func asTable(v any) map[string]any {
	t, _ := v.(map[string]any)
	return t
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func asInt(v any, def int) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

func asStringSlice(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func getString(table map[string]any, key string) string {
	s, _ := asString(table[key])
	return s
}

func getTable(table map[string]any, key string) map[string]any {
	return asTable(table[key])
}
