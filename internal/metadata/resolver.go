// Package metadata resolves the field lists of remote objects.
//
// The grammar consults a Resolver when it expands a relationship into a
// subquery. Resolvers compose: a Memo in front of a Cached describe cache
// in front of a Static schema is the usual CLI stack.
package metadata

import (
	"context"
	"errors"
	"fmt"
)

// Wildcard is the subset marker meaning "all fields".
const Wildcard = "*"

// ErrUnknownObject reports that a resolver has no description for an object.
var ErrUnknownObject = errors.New("unknown object")

// Resolver answers which fields to project for an object. subset is either
// the wildcard (["*"]) or an explicit field list. Answers must be
// deterministic for a given object and subset.
type Resolver interface {
	Fields(ctx context.Context, object string, subset []string) ([]string, error)
}

// ResolverFunc adapts an ordinary function to the Resolver interface.
type ResolverFunc func(ctx context.Context, object string, subset []string) ([]string, error)

// Fields calls f(ctx, object, subset).
func (f ResolverFunc) Fields(ctx context.Context, object string, subset []string) ([]string, error) {
	return f(ctx, object, subset)
}

// IsWildcard reports whether subset requests all fields. An empty subset is
// treated as the wildcard.
func IsWildcard(subset []string) bool {
	if len(subset) == 0 {
		return true
	}
	return len(subset) == 1 && subset[0] == Wildcard
}

// NotFoundError is returned when an object cannot be described.
type NotFoundError struct {
	Object string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("unknown object %q", e.Object)
}

// Is makes errors.Is(err, ErrUnknownObject) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrUnknownObject
}

// project answers a subset request from a full field list: the wildcard
// returns a copy of all fields, an explicit subset is returned as requested.
func project(all, subset []string) []string {
	if IsWildcard(subset) {
		out := make([]string, len(all))
		copy(out, all)
		return out
	}
	out := make([]string, len(subset))
	copy(out, subset)
	return out
}
