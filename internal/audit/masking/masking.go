package masking

import "strings"

const maskToken = "****"

// MaskEmail keeps the first two characters of the local part and the domain.
func MaskEmail(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	at := strings.LastIndex(trimmed, "@")
	if at <= 0 {
		return maskToken
	}
	local, domain := trimmed[:at], trimmed[at:]
	if len(local) <= 2 {
		return maskToken + domain
	}
	return local[:2] + maskToken + domain
}

// MaskJSON returns a copy of input with values under email-like keys masked.
func MaskJSON(input map[string]any) map[string]any {
	if len(input) == 0 {
		return nil
	}

	masked := make(map[string]any, len(input))
	for key, value := range input {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			continue
		}
		masked[trimmedKey] = maskValue(trimmedKey, value)
	}

	if len(masked) == 0 {
		return nil
	}
	return masked
}

func maskValue(key string, value any) any {
	switch cast := value.(type) {
	case string:
		if strings.Contains(strings.ToLower(key), "email") {
			return MaskEmail(cast)
		}
		return cast
	case map[string]any:
		return MaskJSON(cast)
	default:
		return value
	}
}
