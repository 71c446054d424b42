// Package naming provides the relationship-name pluralization used when a
// related object is expanded into a subquery.
package naming

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// Pluralizer turns a related-object name into its relationship path name.
// Implementations must be pure string transforms.
type Pluralizer interface {
	Pluralize(name string) string
}

// PluralizerFunc adapts an ordinary function to the Pluralizer interface.
type PluralizerFunc func(string) string

// Pluralize calls f(name).
func (f PluralizerFunc) Pluralize(name string) string {
	return f(name)
}

// Inflect pluralizes with English inflection rules.
type Inflect struct {
	rules *inflect.Ruleset
}

// NewInflect returns an English pluralizer. Irregular forms are registered
// as singular/plural pairs and take precedence over the default rules.
func NewInflect(irregular map[string]string) *Inflect {
	rules := inflect.NewDefaultRuleset()
	for singular, plural := range irregular {
		rules.AddIrregular(singular, plural)
	}
	return &Inflect{rules: rules}
}

// Pluralize implements Pluralizer.
func (i *Inflect) Pluralize(name string) string {
	if name == "" {
		return name
	}
	return i.rules.Pluralize(name)
}

// Suffix appends a fixed suffix to every name.
type Suffix string

// Pluralize implements Pluralizer.
func (s Suffix) Pluralize(name string) string {
	if name == "" {
		return name
	}
	return name + string(s)
}

// ForName returns the pluralizer registered under name ("inflect" or
// "suffix"). The suffix defaults to "s".
func ForName(name, suffix string) (Pluralizer, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "inflect":
		return NewInflect(nil), true
	case "suffix":
		if suffix == "" {
			suffix = "s"
		}
		return Suffix(suffix), true
	default:
		return nil, false
	}
}

// WithOverrides returns a Pluralizer that answers from overrides first,
// matching names case-insensitively, and falls back to p.
func WithOverrides(p Pluralizer, overrides map[string]string) Pluralizer {
	if len(overrides) == 0 {
		return p
	}
	folded := make(map[string]string, len(overrides))
	for name, plural := range overrides {
		folded[Fold(name)] = plural
	}
	return PluralizerFunc(func(name string) string {
		if plural, ok := folded[Fold(name)]; ok {
			return plural
		}
		return p.Pluralize(name)
	})
}
