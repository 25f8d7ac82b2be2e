package mask

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleResolverMarksUntaggedFields(t *testing.T) {
	type login struct {
		Username string
		Password string
	}
	r := NewRuleResolver(map[string]FieldDescriptor{
		"password": {Strategy: StrategyFull},
	})
	e := NewEngine(r, nil)

	rendered := e.Render(login{Username: "john", Password: "hunter2"})
	assert.Equal(t, "login{Username=john, Password=*******}", rendered)
}

func TestRuleResolverNameMatchIsCaseInsensitive(t *testing.T) {
	type account struct {
		APIKey string
	}
	r := NewRuleResolver(map[string]FieldDescriptor{
		"ApiKey": {Strategy: StrategyLastFour, MaskChar: '#'},
	})
	e := NewEngine(r, nil)

	assert.Equal(t, "account{APIKey=#######3412}", e.Render(account{APIKey: "ak-91273412"}))
}

func TestRuleResolverTagWins(t *testing.T) {
	type login struct {
		Password string `mask:"first_last"`
	}
	// A rule for the same name must not override the explicit tag.
	r := NewRuleResolver(map[string]FieldDescriptor{
		"password": {Strategy: StrategyLastFour, MaskChar: '#'},
	})
	e := NewEngine(r, nil)

	assert.Equal(t, "login{Password=h*****2}", e.Render(login{Password: "hunter2"}))
}

func TestRuleResolverNormalizesEntries(t *testing.T) {
	r := NewRuleResolver(map[string]FieldDescriptor{
		"secret": {}, // no strategy, no char
	})

	d, ok := r.ResolveKey("secret")
	require.True(t, ok)
	assert.True(t, d.Sensitive)
	assert.Equal(t, StrategyFull, d.Strategy)
	assert.Equal(t, DefaultMaskChar, d.MaskChar)
}

func TestRuleResolverResolveKey(t *testing.T) {
	r := NewRuleResolver(map[string]FieldDescriptor{
		"email": {Strategy: StrategyFirstLast},
	})

	d, ok := r.ResolveKey("Email")
	require.True(t, ok)
	assert.Equal(t, "Email", d.Name)
	assert.Equal(t, StrategyFirstLast, d.Strategy)

	_, ok = r.ResolveKey("username")
	assert.False(t, ok)
}

func TestRuleResolverMasksMapEntries(t *testing.T) {
	r := NewRuleResolver(map[string]FieldDescriptor{
		"password": {Strategy: StrategyFull},
		"email":    {Strategy: StrategyFirstLast},
	})
	e := NewEngine(r, nil)

	payload := map[string]any{
		"username": "john",
		"password": "secret123",
		"email":    "john@example.com",
	}
	rendered := e.Render(payload)
	assert.Equal(t,
		"{email=j**************m, password=*********, username=john}",
		rendered)
}

func TestRuleResolverMasksDecodedJSON(t *testing.T) {
	r := NewRuleResolver(map[string]FieldDescriptor{
		"password":    {Strategy: StrategyFull},
		"card_number": {Strategy: StrategyLastFour},
	})
	e := NewEngine(r, nil)

	var payload any
	body := `{"user":"john","password":"hunter2","card_number":"4111111111111111","items":[{"password":"inner"}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &payload))

	rendered := e.Render(payload)
	assert.Equal(t,
		"{card_number=************1111, items=[{password=*****}], password=*******, user=john}",
		rendered)
	assert.NotContains(t, rendered, "hunter2")
	assert.NotContains(t, rendered, "4111111111111111")
}

func TestRuleResolverHasSensitiveFields(t *testing.T) {
	r := NewRuleResolver(map[string]FieldDescriptor{
		"password": {Strategy: StrategyFull},
	})
	e := NewEngine(r, nil)

	// A key-aware resolver can mask into any map or interface, so
	// those types must be routed through masked substitution even
	// though their static type declares no sensitive field.
	assert.True(t, e.HasSensitiveFields(map[string]any{"password": "hunter2"}))
	assert.True(t, e.HasSensitiveFields(map[string]string{}))
	assert.True(t, e.HasSensitiveFields([]any{}))

	type envelope struct {
		Meta map[string]string
	}
	assert.True(t, e.HasSensitiveFields(envelope{}))

	type plain struct {
		Name  string
		Count int
	}
	assert.False(t, e.HasSensitiveFields(plain{}))
	assert.False(t, e.HasSensitiveFields("text"))
	assert.False(t, e.HasSensitiveFields(42))
	assert.False(t, e.HasSensitiveFields([]string{"a"}))
}

func TestRuleResolverDoesNotMutateTagCache(t *testing.T) {
	type login struct {
		Username string
		Password string
	}
	r := NewRuleResolver(map[string]FieldDescriptor{
		"password": {Strategy: StrategyFull},
	})

	first := r.Resolve(reflect.TypeOf(login{}))
	require.Len(t, first, 2)
	assert.True(t, first[1].Sensitive)

	// The underlying tag layer must stay untouched.
	plain := r.tags.Resolve(reflect.TypeOf(login{}))
	assert.False(t, plain[1].Sensitive)
}
