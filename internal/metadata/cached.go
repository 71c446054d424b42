package metadata

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/soql/internal/store"
)

// Cached is a read-through resolver over the SQLite describe cache.
// A miss asks Next for the full field list and stores it.
type Cached struct {
	Store  *store.Store
	Next   Resolver
	Logger *slog.Logger
}

// NewCached returns a Cached resolver. next may be nil, in which case
// misses are reported as unknown objects.
func NewCached(st *store.Store, next Resolver) *Cached {
	return &Cached{Store: st, Next: next}
}

func (c *Cached) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// Fields implements Resolver.
func (c *Cached) Fields(ctx context.Context, object string, subset []string) ([]string, error) {
	all, ok, err := c.Store.GetFields(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("describe cache: %w", err)
	}
	if ok {
		c.logger().Debug("describe cache hit", "object", object, "fields", len(all))
		return project(all, subset), nil
	}

	if c.Next == nil {
		return nil, &NotFoundError{Object: object}
	}

	c.logger().Debug("describe cache miss", "object", object)
	all, err = c.Next.Fields(ctx, object, []string{Wildcard})
	if err != nil {
		return nil, err
	}

	if err := c.Store.PutFields(ctx, object, all); err != nil {
		return nil, fmt.Errorf("describe cache: %w", err)
	}

	return project(all, subset), nil
}

// Warm describes every object in names through Next and stores the result.
func (c *Cached) Warm(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := c.Fields(ctx, name, []string{Wildcard}); err != nil {
			return fmt.Errorf("warm %s: %w", name, err)
		}
	}
	return nil
}
