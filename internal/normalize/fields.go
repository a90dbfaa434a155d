package normalize

// Tolerant field accessors for untrusted decoded JSON. Every accessor
// returns a zero value when the key is absent or the wrong shape.

func getMap(obj map[string]interface{}, key string) map[string]interface{} {
	if obj == nil {
		return nil
	}
	if m, ok := obj[key].(map[string]interface{}); ok {
		return m
	}
	return nil
}

func getSlice(obj map[string]interface{}, key string) []interface{} {
	if obj == nil {
		return nil
	}
	if s, ok := obj[key].([]interface{}); ok {
		return s
	}
	return nil
}

func getString(obj map[string]interface{}, key string) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj[key].(string); ok {
		return s
	}
	return ""
}

func getStrings(obj map[string]interface{}, key string) []string {
	raw := getSlice(obj, key)
	if raw == nil {
		return nil
	}
	var out []string
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getFloat(obj map[string]interface{}, key string) float64 {
	if obj == nil {
		return 0
	}
	switch v := obj[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}

func getInt(obj map[string]interface{}, key string) int {
	return int(getFloat(obj, key))
}

func getBool(obj map[string]interface{}, key string) (bool, bool) {
	if obj == nil {
		return false, false
	}
	b, ok := obj[key].(bool)
	return b, ok
}
