// Package logging bridges the masking engine into the two logging
// stacks used here: log/slog handlers and logrus formatters. Both
// bridges rewrite sensitive attribute values before the inner
// backend serializes them, so call sites log domain objects directly.
package logging

import (
	"context"
	"log/slog"

	"github.com/codeready-toolchain/sensmask/pkg/mask"
)

// MaskingHandler wraps a slog.Handler and masks every attribute value
// whose type carries sensitive fields. Attributes of other types pass
// through untouched, as does the record when masking is disabled.
type MaskingHandler struct {
	inner   slog.Handler
	engine  *mask.Engine
	enabled func() bool
}

// NewMaskingHandler wraps inner with masking by engine. The enabled
// callback is consulted per record; a nil callback means always on.
func NewMaskingHandler(inner slog.Handler, engine *mask.Engine, enabled func() bool) *MaskingHandler {
	return &MaskingHandler{inner: inner, engine: engine, enabled: enabled}
}

func (h *MaskingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *MaskingHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.enabled != nil && !h.enabled() {
		return h.inner.Handle(ctx, r)
	}
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.inner.Handle(ctx, masked)
}

func (h *MaskingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &MaskingHandler{
		inner:   h.inner.WithAttrs(maskedAttrs),
		engine:  h.engine,
		enabled: h.enabled,
	}
}

func (h *MaskingHandler) WithGroup(name string) slog.Handler {
	return &MaskingHandler{
		inner:   h.inner.WithGroup(name),
		engine:  h.engine,
		enabled: h.enabled,
	}
}

// maskAttr rewrites a single attribute. Group attrs are walked
// recursively; Any attrs over sensitive types are replaced with their
// masked text. Scalar kinds carry no field structure and pass through.
func (h *MaskingHandler) maskAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		maskedGroup := make([]slog.Attr, len(group))
		for i, ga := range group {
			maskedGroup[i] = h.maskAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedGroup...)}
	case slog.KindAny:
		v := a.Value.Any()
		if h.engine.HasSensitiveFields(v) {
			return slog.String(a.Key, h.engine.Mask(v))
		}
	}
	return a
}
