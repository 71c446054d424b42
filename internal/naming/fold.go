package naming

import "golang.org/x/text/cases"

// Fold returns the case-folded form of an object name. Object names are
// compared case-insensitively everywhere they are used as lookup keys.
func Fold(name string) string {
	// A Caser is stateful; build one per call.
	return cases.Fold().String(name)
}
