package logger

import (
	"log/slog"
	"strings"
)

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"token",
	"credential",
	"authorization",
	"bearer",
	"otp",
	"code",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// redactSensitive checks if an attribute contains sensitive data and
// redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()

		// Bearer header values are sensitive regardless of key name.
		if strings.HasPrefix(strVal, "Bearer ") {
			return slog.String(a.Key, "Bearer "+redactedValue)
		}

		keyLower := strings.ToLower(a.Key)
		for _, pattern := range sensitiveKeyPatterns {
			if strings.Contains(keyLower, pattern) {
				if strVal != "" {
					return slog.String(a.Key, redactedValue)
				}
				break
			}
		}
	}

	// Handle nested groups recursively.
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
