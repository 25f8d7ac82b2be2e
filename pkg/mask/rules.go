package mask

import (
	"reflect"
	"strings"
)

// RuleResolver layers a name-keyed sensitivity table over tag
// discovery. A rule matching a field's name (case-insensitively)
// marks the field sensitive when its tag does not already; explicit
// tags always win. RuleResolver also implements KeyResolver, so the
// engine masks map entries by key name. That is how data decoded
// from JSON, which carries no Go types or tags, gets masked.
//
// The rule table is immutable after construction, which keeps the
// resolver safe for concurrent use without locking.
type RuleResolver struct {
	tags  *TagResolver
	rules map[string]FieldDescriptor // lower-cased name -> descriptor
}

// NewRuleResolver builds a resolver from a name->descriptor table.
// Each entry is normalized: it is forced sensitive, and missing
// strategy or mask char fall back to full masking with the default
// character.
func NewRuleResolver(rules map[string]FieldDescriptor) *RuleResolver {
	normalized := make(map[string]FieldDescriptor, len(rules))
	for name, d := range rules {
		d.Sensitive = true
		if !d.Strategy.IsValid() {
			d.Strategy = StrategyFull
		}
		if d.MaskChar == 0 {
			d.MaskChar = DefaultMaskChar
		}
		normalized[strings.ToLower(name)] = d
	}
	return &RuleResolver{tags: NewTagResolver(), rules: normalized}
}

// Resolve returns t's descriptors with rule-matched fields marked
// sensitive. The tag layer is cached; the overlay is a cheap copy.
func (r *RuleResolver) Resolve(t reflect.Type) []FieldDescriptor {
	fields := r.tags.Resolve(t)
	out := make([]FieldDescriptor, len(fields))
	copy(out, fields)
	for i := range out {
		if out[i].Sensitive {
			continue
		}
		if d, ok := r.rules[strings.ToLower(out[i].Name)]; ok {
			d.Name = out[i].Name
			d.Index = out[i].Index
			out[i] = d
		}
	}
	return out
}

// ResolveKey looks up the rule for a map key name.
func (r *RuleResolver) ResolveKey(name string) (FieldDescriptor, bool) {
	d, ok := r.rules[strings.ToLower(name)]
	if !ok {
		return FieldDescriptor{}, false
	}
	d.Name = name
	return d, true
}
