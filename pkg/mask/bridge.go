package mask

import (
	"fmt"
	"strings"
)

// Mask renders a single value with sensitive fields masked. It is the
// entry point for explicit masking in log statements:
//
//	slog.Info("user updated", "user", engine.Mask(user))
func (e *Engine) Mask(v any) string {
	return e.Render(v)
}

// MaskAll renders each value independently, preserving order.
func (e *Engine) MaskAll(values ...any) []string {
	masked := make([]string, len(values))
	for i, v := range values {
		masked[i] = e.Render(v)
	}
	return masked
}

// MaskMessage formats a message the way fmt.Sprintf would, then
// replaces the plain text of every argument whose type carries
// sensitive fields with its masked rendering.
//
// The substitution is textual: when a custom verb (%+v, %q, width
// flags) changes how an argument appears, its plain text is not found
// in the message and that argument is left untouched. This is a
// best-effort scrub for format-style call sites; the bridges in
// pkg/logging give guaranteed coverage for structured attrs.
func (e *Engine) MaskMessage(format string, args ...any) string {
	message := fmt.Sprintf(format, args...)
	for _, arg := range args {
		if arg == nil || !e.HasSensitiveFields(arg) {
			continue
		}
		plain := fmt.Sprintf("%v", arg)
		if plain == "" || !strings.Contains(message, plain) {
			continue
		}
		message = strings.ReplaceAll(message, plain, e.Render(arg))
	}
	return message
}
