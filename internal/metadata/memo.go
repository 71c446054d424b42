package metadata

import (
	"context"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/roach88/soql/internal/naming"
)

// DefaultMemoSize bounds a Memo when no size is given.
const DefaultMemoSize = 256

// Memo is a bounded in-memory memo in front of another Resolver.
// It is safe for concurrent compilations. Errors are never memoized.
type Memo struct {
	next  Resolver
	cache *lru.Cache[string, []string]
}

// NewMemo wraps next with an LRU of the given size (DefaultMemoSize when
// size <= 0).
func NewMemo(next Resolver, size int) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	return &Memo{next: next, cache: cache}, nil
}

// Fields implements Resolver.
func (m *Memo) Fields(ctx context.Context, object string, subset []string) ([]string, error) {
	key := memoKey(object, subset)
	if fields, ok := m.cache.Get(key); ok {
		return project(fields, nil), nil
	}

	fields, err := m.next.Fields(ctx, object, subset)
	if err != nil {
		return nil, err
	}

	m.cache.Add(key, project(fields, nil))
	return fields, nil
}

// Purge drops every memoized answer.
func (m *Memo) Purge() {
	m.cache.Purge()
}

// Len returns the number of memoized answers.
func (m *Memo) Len() int {
	return m.cache.Len()
}

func memoKey(object string, subset []string) string {
	if IsWildcard(subset) {
		return naming.Fold(object) + "\x00" + Wildcard
	}
	return naming.Fold(object) + "\x00" + strings.Join(subset, "\x00")
}
