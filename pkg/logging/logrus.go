package logging

import (
	"github.com/sirupsen/logrus"

	"github.com/codeready-toolchain/sensmask/pkg/mask"
)

// MaskingFormatter wraps a logrus.Formatter and masks entry fields
// whose types carry sensitive data before the inner formatter
// serializes them.
type MaskingFormatter struct {
	// Inner produces the final output. Nil defaults to
	// logrus.TextFormatter.
	Inner logrus.Formatter

	Engine *mask.Engine

	// Enabled is consulted per entry; nil means always on.
	Enabled func() bool
}

func (f *MaskingFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	inner := f.Inner
	if inner == nil {
		inner = &logrus.TextFormatter{}
	}
	if f.Enabled != nil && !f.Enabled() {
		return inner.Format(entry)
	}

	masked := entry.Dup()
	masked.Level = entry.Level
	masked.Message = entry.Message
	masked.Buffer = entry.Buffer
	for key, value := range entry.Data {
		if f.Engine.HasSensitiveFields(value) {
			masked.Data[key] = f.Engine.Mask(value)
		}
	}
	return inner.Format(masked)
}
