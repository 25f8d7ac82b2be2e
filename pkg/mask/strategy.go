// Package mask renders arbitrary Go values as text with sensitive
// fields obscured, for safe inclusion in logs and diagnostic output.
//
// Fields are marked with the `mask` struct tag (or matched by name
// through a RuleResolver); the Engine walks the value graph and
// applies the configured strategy to every marked field. Render never
// fails and never lets the original text escape through an error path.
package mask

import (
	"strings"
	"unicode/utf8"
)

// Strategy identifies the text transformation applied to a sensitive
// field's stringified value.
type Strategy string

const (
	// StrategyFull replaces every character with the mask character.
	StrategyFull Strategy = "full"
	// StrategyFirstLast keeps the first and last character and masks
	// the interior. Text of length <= 2 is returned unchanged.
	StrategyFirstLast Strategy = "first_last"
	// StrategyLastFour keeps the last four characters and masks the
	// rest. Text of length <= 4 is returned unchanged.
	StrategyLastFour Strategy = "last_four"
	// StrategyCustom delegates to a named Masker from the registry.
	StrategyCustom Strategy = "custom"
)

// DefaultMaskChar is the mask character used when a marking does not
// override it.
const DefaultMaskChar = '*'

// IsValid checks if the strategy is one of the known kinds.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyFull, StrategyFirstLast, StrategyLastFour, StrategyCustom:
		return true
	default:
		return false
	}
}

// Strategies returns the names of all built-in strategies.
func Strategies() []string {
	return []string{
		string(StrategyFull),
		string(StrategyFirstLast),
		string(StrategyLastFour),
		string(StrategyCustom),
	}
}

// Apply transforms text according to the strategy. It is pure and
// total: an unknown strategy, and StrategyCustom when applied directly,
// degrade to full masking, the tightest behavior. Lengths are measured
// in Unicode code points so multi-byte characters are never split.
func (s Strategy) Apply(text string, maskChar rune) string {
	switch s {
	case StrategyFirstLast:
		return maskFirstLast(text, maskChar)
	case StrategyLastFour:
		return maskLastFour(text, maskChar)
	default:
		return maskFull(text, maskChar)
	}
}

func maskFull(text string, maskChar rune) string {
	if text == "" {
		return text
	}
	return strings.Repeat(string(maskChar), utf8.RuneCountInString(text))
}

func maskFirstLast(text string, maskChar rune) string {
	runes := []rune(text)
	if len(runes) <= 2 {
		return text
	}
	interior := strings.Repeat(string(maskChar), len(runes)-2)
	return string(runes[0]) + interior + string(runes[len(runes)-1])
}

func maskLastFour(text string, maskChar rune) string {
	runes := []rune(text)
	if len(runes) <= 4 {
		return text
	}
	return strings.Repeat(string(maskChar), len(runes)-4) + string(runes[len(runes)-4:])
}
