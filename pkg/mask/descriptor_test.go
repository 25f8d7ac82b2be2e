package mask

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tagged struct {
	Plain    string
	Password string `mask:"full"`
	Email    string `mask:"first_last"`
	Card     string `mask:"last_four,char=#"`
	SSN      string `mask:"custom=ssn"`
	Bare     string `mask:"char=#"`
	Broken   string `mask:"shuffle"`
}

func TestTagResolverResolve(t *testing.T) {
	fields := NewTagResolver().Resolve(reflect.TypeOf(tagged{}))
	require.Len(t, fields, 7)

	t.Run("declaration order preserved", func(t *testing.T) {
		names := make([]string, len(fields))
		for i, d := range fields {
			names[i] = d.Name
		}
		assert.Equal(t, []string{"Plain", "Password", "Email", "Card", "SSN", "Bare", "Broken"}, names)
	})

	t.Run("untagged field is not sensitive", func(t *testing.T) {
		assert.False(t, fields[0].Sensitive)
	})

	t.Run("strategy tokens parsed", func(t *testing.T) {
		assert.True(t, fields[1].Sensitive)
		assert.Equal(t, StrategyFull, fields[1].Strategy)
		assert.Equal(t, StrategyFirstLast, fields[2].Strategy)
		assert.Equal(t, StrategyLastFour, fields[3].Strategy)
	})

	t.Run("char option overrides default", func(t *testing.T) {
		assert.Equal(t, '#', fields[3].MaskChar)
		assert.Equal(t, '*', fields[1].MaskChar)
	})

	t.Run("custom strategy carries masker name", func(t *testing.T) {
		assert.Equal(t, StrategyCustom, fields[4].Strategy)
		assert.Equal(t, "ssn", fields[4].Masker)
	})

	t.Run("bare option list implies full", func(t *testing.T) {
		assert.True(t, fields[5].Sensitive)
		assert.Equal(t, StrategyFull, fields[5].Strategy)
		assert.Equal(t, '#', fields[5].MaskChar)
	})

	t.Run("unknown strategy degrades to full", func(t *testing.T) {
		assert.True(t, fields[6].Sensitive)
		assert.Equal(t, StrategyFull, fields[6].Strategy)
	})
}

func TestTagResolverSkipsUnexportedUnmarked(t *testing.T) {
	type mixed struct {
		Public string
		hidden string
	}
	_ = mixed{hidden: "x"}

	fields := NewTagResolver().Resolve(reflect.TypeOf(mixed{}))
	require.Len(t, fields, 1)
	assert.Equal(t, "Public", fields[0].Name)
}

func TestTagResolverMarksTaggedUnexportedUnreadable(t *testing.T) {
	type creds struct {
		User   string
		secret string `mask:"full"`
	}
	_ = creds{secret: "x"}

	fields := NewTagResolver().Resolve(reflect.TypeOf(creds{}))
	require.Len(t, fields, 2)
	assert.Equal(t, "secret", fields[1].Name)
	assert.True(t, fields[1].Sensitive)
	assert.True(t, fields[1].Unreadable)
}

type Audit struct {
	CreatedBy string
	Token     string `mask:"full"`
}

func TestTagResolverFlattensEmbedded(t *testing.T) {
	type record struct {
		Audit
		Name string
	}

	fields := NewTagResolver().Resolve(reflect.TypeOf(record{}))
	require.Len(t, fields, 3)

	assert.Equal(t, "CreatedBy", fields[0].Name)
	assert.Equal(t, []int{0, 0}, fields[0].Index)
	assert.Equal(t, "Token", fields[1].Name)
	assert.Equal(t, []int{0, 1}, fields[1].Index)
	assert.True(t, fields[1].Sensitive)
	assert.Equal(t, "Name", fields[2].Name)
	assert.Equal(t, []int{1}, fields[2].Index)
}

func TestTagResolverFlattensEmbeddedPointer(t *testing.T) {
	type record struct {
		*Audit
		Name string
	}

	fields := NewTagResolver().Resolve(reflect.TypeOf(record{}))
	require.Len(t, fields, 3)
	assert.Equal(t, "Token", fields[1].Name)
	assert.True(t, fields[1].Sensitive)
}

func TestTagResolverTaggedEmbeddedIsLeaf(t *testing.T) {
	type record struct {
		Audit `mask:"full"`
		Name  string
	}

	fields := NewTagResolver().Resolve(reflect.TypeOf(record{}))
	require.Len(t, fields, 2)
	assert.Equal(t, "Audit", fields[0].Name)
	assert.True(t, fields[0].Sensitive)
}

func TestTagResolverCachesPerType(t *testing.T) {
	r := NewTagResolver()
	typ := reflect.TypeOf(tagged{})

	first := r.Resolve(typ)
	second := r.Resolve(typ)
	assert.Equal(t, first, second)

	// Same backing array proves the cache hit.
	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &second[0])
}

func TestTagResolverConcurrentResolve(t *testing.T) {
	r := NewTagResolver()
	typ := reflect.TypeOf(tagged{})

	done := make(chan []FieldDescriptor, 8)
	for i := 0; i < 8; i++ {
		go func() { done <- r.Resolve(typ) }()
	}
	reference := r.Resolve(typ)
	for i := 0; i < 8; i++ {
		assert.Equal(t, reference, <-done)
	}
}
