package mask

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// nullLiteral is emitted for absent values.
	nullLiteral = "null"
	// inaccessibleLiteral marks fields whose values cannot be read.
	inaccessibleLiteral = "inaccessible"
	// circularLiteral marks the re-entry point of a cyclic value graph.
	circularLiteral = "<circular>"
)

var timeType = reflect.TypeOf(time.Time{})

// Engine renders arbitrary values as text with sensitive fields
// masked. It performs no I/O, retains nothing between calls beyond
// descriptor caches, and is safe for concurrent use without locking.
//
// Rendering grammar: nil -> "null", primitives and strings render
// plain, sequences -> "[a, b]", maps -> "{k=v}" with entries sorted by
// key text, composites -> "Type{field=value, ...}" in resolver order.
// A sensitive field is stringified first and then masked, so a
// sensitive composite is obscured as a whole rather than recursed into.
type Engine struct {
	resolver Resolver
	maskers  *Registry

	// keyAware records whether the resolver classifies map keys, in
	// which case any map or interface value may hold sensitive data.
	keyAware  bool
	sensitive sync.Map // reflect.Type -> bool
}

// NewEngine creates an engine backed by the given resolver and custom
// masker registry. A nil resolver defaults to a fresh TagResolver and
// a nil registry to an empty one.
func NewEngine(resolver Resolver, maskers *Registry) *Engine {
	if resolver == nil {
		resolver = NewTagResolver()
	}
	if maskers == nil {
		maskers = NewRegistry()
	}
	_, keyAware := resolver.(KeyResolver)
	return &Engine{resolver: resolver, maskers: maskers, keyAware: keyAware}
}

// Render returns the textual form of v with every sensitive field
// masked. It never fails: cyclic values terminate at a circular
// marker, custom masker failures degrade to full masking, and any
// other internal panic degrades to a fixed placeholder. No error path
// ever carries the original text, so a logging call site can use the
// result unconditionally.
func (e *Engine) Render(v any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = fallbackLiteral(v)
		}
	}()
	return e.render(reflect.ValueOf(v), make(renderStack))
}

// fallbackLiteral is the safe output for values the engine could not
// walk. It names only the type, never the content.
func fallbackLiteral(v any) string {
	if v == nil {
		return nullLiteral
	}
	return fmt.Sprintf("<unrenderable %T>", v)
}

// renderStack tracks the identities (pointer words) of pointers, maps,
// and slices on the active render path. Re-entering an identity means
// the value graph is cyclic. Value structs cannot form a cycle without
// one of these kinds in between, so guarding them bounds recursion by
// the number of distinct reachable identities.
type renderStack map[uintptr]struct{}

func (e *Engine) render(v reflect.Value, stack renderStack) string {
	if !v.IsValid() {
		return nullLiteral
	}
	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nullLiteral
		}
		return e.render(v.Elem(), stack)
	case reflect.Pointer:
		if v.IsNil() {
			return nullLiteral
		}
		ptr := v.Pointer()
		if _, active := stack[ptr]; active {
			return circularLiteral
		}
		stack[ptr] = struct{}{}
		defer delete(stack, ptr)
		return e.render(v.Elem(), stack)
	case reflect.String:
		return v.String()
	case reflect.Slice:
		if v.Len() == 0 {
			return "[]"
		}
		ptr := v.Pointer()
		if _, active := stack[ptr]; active {
			return circularLiteral
		}
		stack[ptr] = struct{}{}
		defer delete(stack, ptr)
		return e.renderSequence(v, stack)
	case reflect.Array:
		if v.Len() == 0 {
			return "[]"
		}
		return e.renderSequence(v, stack)
	case reflect.Map:
		if v.Len() == 0 {
			return "{}"
		}
		ptr := v.Pointer()
		if _, active := stack[ptr]; active {
			return circularLiteral
		}
		stack[ptr] = struct{}{}
		defer delete(stack, ptr)
		return e.renderMap(v, stack)
	case reflect.Struct:
		if v.Type() == timeType {
			return v.Interface().(time.Time).String()
		}
		return e.renderComposite(v, stack)
	default:
		return plainString(v)
	}
}

func (e *Engine) renderSequence(v reflect.Value, stack renderStack) string {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.render(v.Index(i), stack))
	}
	b.WriteString("]")
	return b.String()
}

// renderMap renders entries sorted by key text: Go randomizes map
// iteration order and the output must be deterministic per input.
// When the resolver classifies key names, entries with sensitive keys
// have their values stringified and masked; the keys stay plain.
func (e *Engine) renderMap(v reflect.Value, stack renderStack) string {
	type entry struct {
		key string
		val string
	}
	keyResolver, _ := e.resolver.(KeyResolver)

	entries := make([]entry, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		key := plainKey(iter.Key())
		if keyResolver != nil {
			if d, ok := keyResolver.ResolveKey(key); ok && d.Sensitive {
				entries = append(entries, entry{key, e.maskLeaf(iter.Value(), d, stack)})
				continue
			}
		}
		entries = append(entries, entry{key, e.render(iter.Value(), stack)})
	}
	// Distinct keys can render to the same text (int 1 and "1" under
	// an any key type); tie-break on the value so output stays
	// deterministic even then.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].key != entries[j].key {
			return entries[i].key < entries[j].key
		}
		return entries[i].val < entries[j].val
	})

	var b strings.Builder
	b.WriteString("{")
	for i, en := range entries {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(en.key)
		b.WriteString("=")
		b.WriteString(en.val)
	}
	b.WriteString("}")
	return b.String()
}

func (e *Engine) renderComposite(v reflect.Value, stack renderStack) string {
	t := v.Type()
	name := t.Name()
	if name == "" {
		name = "struct"
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("{")
	for i, d := range e.resolver.Resolve(t) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Name)
		b.WriteString("=")
		b.WriteString(e.renderField(v, d, stack))
	}
	b.WriteString("}")
	return b.String()
}

func (e *Engine) renderField(v reflect.Value, d FieldDescriptor, stack renderStack) string {
	if d.Unreadable {
		return inaccessibleLiteral
	}
	fv, ok := fieldByIndex(v, d.Index)
	if !ok {
		// A nil embedded pointer on the path: the promoted field has
		// no value.
		return nullLiteral
	}
	if d.Sensitive {
		return e.maskLeaf(fv, d, stack)
	}
	return e.render(fv, stack)
}

// fieldByIndex walks an index path the way reflect.Value.FieldByIndex
// does, but reports nil embedded pointers instead of panicking.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, bool) {
	for n, i := range index {
		if n > 0 {
			if v.Kind() == reflect.Pointer {
				if v.IsNil() {
					return reflect.Value{}, false
				}
				v = v.Elem()
			}
		}
		v = v.Field(i)
	}
	return v, true
}

// maskLeaf stringifies a sensitive value and masks the resulting
// text. Masking always operates on text: a sensitive composite or
// collection is stringified through the engine's own cycle-guarded
// traversal and obscured as a whole. fmt must not be used here, its
// printer has no cycle detection and a self-referential value would
// overflow the stack unrecoverably.
func (e *Engine) maskLeaf(v reflect.Value, d FieldDescriptor, stack renderStack) string {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nullLiteral
		}
		if v.Kind() == reflect.Pointer {
			// The pointer must join the guard here too, or a field
			// pointing back at its own enclosing value would recurse
			// through maskLeaf forever.
			ptr := v.Pointer()
			if _, active := stack[ptr]; active {
				return e.maskText(circularLiteral, d)
			}
			stack[ptr] = struct{}{}
			defer delete(stack, ptr)
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return nullLiteral
	}
	if !v.CanInterface() {
		return inaccessibleLiteral
	}
	return e.maskText(e.render(v, stack), d)
}

func (e *Engine) maskText(text string, d FieldDescriptor) string {
	if d.Strategy == StrategyCustom {
		return e.maskCustom(text, d)
	}
	return d.Strategy.Apply(text, d.MaskChar)
}

// maskCustom invokes the named custom masker. Any failure, whether an
// unregistered name or a panicking implementation, falls back to full
// masking with the field's mask char, so the sensitive text cannot
// escape through an error path.
func (e *Engine) maskCustom(text string, d FieldDescriptor) (out string) {
	m, ok := e.maskers.Get(d.Masker)
	if !ok {
		return StrategyFull.Apply(text, d.MaskChar)
	}
	defer func() {
		if r := recover(); r != nil {
			out = StrategyFull.Apply(text, d.MaskChar)
		}
	}()
	return m.Mask(text, d.MaskChar)
}

// plainString renders a primitive leaf in its plain text form.
func plainString(v reflect.Value) string {
	if !v.CanInterface() {
		return inaccessibleLiteral
	}
	return fmt.Sprint(v.Interface())
}

// plainKey renders a map key. Keys are identification, not payload,
// and are never masked.
func plainKey(v reflect.Value) string {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nullLiteral
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.String {
		return v.String()
	}
	return plainString(v)
}

// HasSensitiveFields reports whether v's masked rendering could
// differ from its plain form: its type declares a sensitive field, or
// a type reachable from it through exported fields, collections, or
// pointers does. When the resolver classifies map keys, any reachable
// map or interface counts too, since values under rule-matched keys
// are masked regardless of their static type. The logging bridges use
// this to decide which arguments need masked substitution. Results
// are cached per type.
func (e *Engine) HasSensitiveFields(v any) bool {
	if v == nil {
		return false
	}
	t := reflect.TypeOf(v)
	if cached, ok := e.sensitive.Load(t); ok {
		return cached.(bool)
	}
	result := e.typeHasSensitive(t, make(map[reflect.Type]bool))
	e.sensitive.Store(t, result)
	return result
}

func (e *Engine) typeHasSensitive(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true
	switch t.Kind() {
	case reflect.Interface:
		// An interface can hold anything, including a map a key-aware
		// resolver would mask into.
		return e.keyAware
	case reflect.Map:
		if e.keyAware {
			return true
		}
		// Keys are never masked, so only the element type matters.
		return e.typeHasSensitive(t.Elem(), seen)
	case reflect.Pointer, reflect.Slice, reflect.Array:
		return e.typeHasSensitive(t.Elem(), seen)
	case reflect.Struct:
		if t == timeType {
			return false
		}
		for _, d := range e.resolver.Resolve(t) {
			if d.Sensitive {
				return true
			}
		}
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			if e.typeHasSensitive(f.Type, seen) {
				return true
			}
		}
	}
	return false
}
