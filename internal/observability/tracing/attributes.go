package tracing

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

var forbiddenKeys = []string{"email", "authorization", "token", "comments"}

// ExtractContext reads upstream trace headers into ctx.
func ExtractContext(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// SafeAttributes drops attributes whose key looks like personal data or credentials.
func SafeAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if isForbiddenKey(string(attr.Key)) {
			continue
		}
		out = append(out, attr)
	}
	return out
}

// SafeError returns an error safe to attach to a span: the message is kept
// only when it carries no email address.
func SafeError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "@") {
		return errors.New("redacted error")
	}
	return err
}

func isForbiddenKey(key string) bool {
	key = strings.ToLower(key)
	for _, forbidden := range forbiddenKeys {
		if strings.Contains(key, forbidden) {
			return true
		}
	}
	return false
}
