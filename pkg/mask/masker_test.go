package mask

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("ssn")
	assert.False(t, ok)

	r.Register("ssn", MaskerFunc(func(value string, maskChar rune) string {
		return strings.Repeat(string(maskChar), len(value))
	}))

	m, ok := r.Get("ssn")
	require.True(t, ok)
	assert.Equal(t, "***", m.Mask("123", '*'))
}

func TestRegistryRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register("m", MaskerFunc(func(string, rune) string { return "first" }))
	r.Register("m", MaskerFunc(func(string, rune) string { return "second" }))

	m, ok := r.Get("m")
	require.True(t, ok)
	assert.Equal(t, "second", m.Mask("x", '*'))
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	assert.Empty(t, r.Names())

	noop := MaskerFunc(func(value string, _ rune) string { return value })
	r.Register("zeta", noop)
	r.Register("alpha", noop)
	r.Register("mid", noop)

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, r.Names())
}

func TestMaskerFuncAdapts(t *testing.T) {
	f := MaskerFunc(func(value string, maskChar rune) string {
		return string(maskChar) + value
	})
	assert.Equal(t, "#abc", f.Mask("abc", '#'))
}
