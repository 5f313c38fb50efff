package commandstructure

import (
	"fmt"
	"strconv"
	"strings"
)

// Command parameters come straight from YAML, so numbers may arrive as int, int64
// or float64 and quoted values as strings. The helpers fall back to defaultValue
// when a key is missing or cannot be interpreted.

func GetStringParam(params map[string]any, key string, defaultValue string) string {
	if s, ok := params[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return defaultValue
}

func GetIntParam(params map[string]any, key string, defaultValue int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultValue
}

func GetBoolParam(params map[string]any, key string, defaultValue bool) bool {
	switch v := params[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v))); err == nil {
			return b
		}
	}
	return defaultValue
}

// ValidateRequiredParams reports every missing key at once
func ValidateRequiredParams(params map[string]any, required []string) error {
	var missing []string
	for _, key := range required {
		if _, ok := params[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required parameters: %s", strings.Join(missing, ", "))
	}
	return nil
}
