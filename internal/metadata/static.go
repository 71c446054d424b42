package metadata

import (
	"context"

	"github.com/roach88/soql/internal/naming"
	"github.com/roach88/soql/internal/schema"
)

// Static resolves from an in-memory object→fields map. Object names match
// case-insensitively. A Static is read-only after construction.
type Static struct {
	objects map[string][]string
}

// NewStatic builds a Static resolver. Field order is preserved.
func NewStatic(objects map[string][]string) *Static {
	s := &Static{objects: make(map[string][]string, len(objects))}
	for name, fields := range objects {
		cp := make([]string, len(fields))
		copy(cp, fields)
		s.objects[naming.Fold(name)] = cp
	}
	return s
}

// FromSchema builds a Static resolver from loaded object definitions.
func FromSchema(objects []schema.Object) *Static {
	m := make(map[string][]string, len(objects))
	for _, obj := range objects {
		m[obj.Name] = obj.Fields
	}
	return NewStatic(m)
}

// Fields implements Resolver.
func (s *Static) Fields(_ context.Context, object string, subset []string) ([]string, error) {
	all, ok := s.objects[naming.Fold(object)]
	if !ok {
		return nil, &NotFoundError{Object: object}
	}
	return project(all, subset), nil
}

// Len returns the number of described objects.
func (s *Static) Len() int {
	return len(s.objects)
}
