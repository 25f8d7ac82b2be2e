package mask

import (
	"log/slog"
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag consulted for field markings.
//
// Grammar: an optional strategy token (full, first_last, last_four,
// custom=<registry name>) followed by comma-separated options
// (char=<rune>). A bare option list implies full masking.
//
//	Password string `mask:"full"`
//	Email    string `mask:"first_last"`
//	Card     string `mask:"last_four,char=#"`
//	SSN      string `mask:"custom=ssn"`
const TagName = "mask"

// FieldDescriptor describes how one field of a composite type
// participates in rendering. Descriptors are immutable once resolved.
type FieldDescriptor struct {
	// Name is the field name as it appears in the rendered output.
	Name string
	// Index is the reflect field index path; embedded structs are
	// flattened, so the path may span more than one level.
	Index []int
	// Sensitive marks the field's value for masking.
	Sensitive bool
	// Strategy selects the text transformation for sensitive fields.
	Strategy Strategy
	// MaskChar is the replacement character for masked positions.
	MaskChar rune
	// Masker names the Registry entry used by StrategyCustom.
	Masker string
	// Unreadable marks a tag-carrying field whose value the engine
	// cannot read; it renders as the literal "inaccessible".
	Unreadable bool
}

// Resolver produces the ordered field descriptors for a composite
// type. Implementations must be deterministic, return fields in
// declaration order, and be safe for concurrent use.
type Resolver interface {
	Resolve(t reflect.Type) []FieldDescriptor
}

// KeyResolver is optionally implemented by resolvers that classify
// map keys by name. The engine masks the stringified value of any map
// entry whose key resolves to a sensitive descriptor; keys themselves
// are always rendered plain.
type KeyResolver interface {
	ResolveKey(name string) (FieldDescriptor, bool)
}

// TagResolver discovers field descriptors from `mask` struct tags.
// Resolution happens once per type and is cached in a concurrent
// read-optimized map, so repeated renders never re-reflect.
//
// Anonymous embedded structs (and pointers to them) are flattened so
// promoted fields appear inline, mirroring how an inheritance chain
// contributes fields. Unexported fields are skipped unless they carry
// a mask tag; a tag-marked unexported field is kept in the output as
// "inaccessible" because its value cannot be read reflectively.
type TagResolver struct {
	cache sync.Map // reflect.Type -> []FieldDescriptor
}

// NewTagResolver creates a tag-based resolver with an empty cache.
func NewTagResolver() *TagResolver {
	return &TagResolver{}
}

// Resolve returns the descriptors for t, computing and caching them on
// first use.
func (r *TagResolver) Resolve(t reflect.Type) []FieldDescriptor {
	if cached, ok := r.cache.Load(t); ok {
		return cached.([]FieldDescriptor)
	}
	fields := resolveStruct(t, nil)
	cached, _ := r.cache.LoadOrStore(t, fields)
	return cached.([]FieldDescriptor)
}

// resolveStruct walks t's fields in declaration order, flattening
// untagged anonymous embedded structs. index is the path prefix for
// nested resolution.
func resolveStruct(t reflect.Type, index []int) []FieldDescriptor {
	fields := make([]FieldDescriptor, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		path := append(append([]int(nil), index...), i)
		tag, tagged := f.Tag.Lookup(TagName)

		if f.Anonymous && !tagged && f.IsExported() {
			embedded := f.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				fields = append(fields, resolveStruct(embedded, path)...)
				continue
			}
		}

		if !f.IsExported() {
			if !tagged {
				// Unexported and unmarked: not part of the data surface.
				continue
			}
			d := parseTag(f.Name, tag)
			d.Index = path
			d.Unreadable = true
			fields = append(fields, d)
			continue
		}

		d := FieldDescriptor{
			Name:     f.Name,
			Strategy: StrategyFull,
			MaskChar: DefaultMaskChar,
		}
		if tagged {
			d = parseTag(f.Name, tag)
		}
		d.Index = path
		fields = append(fields, d)
	}
	return fields
}

// parseTag parses a mask tag value into a sensitive descriptor.
// Invalid strategy tokens are logged and degrade to full masking;
// degrading tighter can never expose data. Resolution is cached per
// type, so each bad tag warns only once per process in practice.
func parseTag(fieldName, tag string) FieldDescriptor {
	d := FieldDescriptor{
		Name:      fieldName,
		Sensitive: true,
		Strategy:  StrategyFull,
		MaskChar:  DefaultMaskChar,
	}
	for i, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(part, "char="):
			runes := []rune(strings.TrimPrefix(part, "char="))
			if len(runes) != 1 {
				slog.Warn("Invalid mask char in tag, keeping default",
					"field", fieldName, "tag", tag)
				continue
			}
			d.MaskChar = runes[0]
		case strings.HasPrefix(part, "custom="):
			name := strings.TrimPrefix(part, "custom=")
			if name == "" {
				slog.Warn("Custom masker name missing in tag, using full masking",
					"field", fieldName, "tag", tag)
				continue
			}
			d.Strategy = StrategyCustom
			d.Masker = name
		case i == 0:
			s := Strategy(part)
			if !s.IsValid() || s == StrategyCustom {
				// Bare "custom" has nothing to look up; unknown names
				// are typos. Both fall back to full.
				slog.Warn("Unknown mask strategy in tag, using full masking",
					"field", fieldName, "strategy", part)
				continue
			}
			d.Strategy = s
		default:
			slog.Warn("Unknown mask tag option, ignoring",
				"field", fieldName, "option", part)
		}
	}
	return d
}
