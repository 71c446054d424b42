package metadata

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/soql/internal/schema"
	"github.com/roach88/soql/internal/store"
)

var fixture = map[string][]string{
	"Account": {"Id", "Name", "Industry"},
	"Contact": {"Id", "FirstName", "Email"},
}

// countingResolver counts calls to the wrapped resolver.
type countingResolver struct {
	next  Resolver
	calls atomic.Int64
}

func (c *countingResolver) Fields(ctx context.Context, object string, subset []string) ([]string, error) {
	c.calls.Add(1)
	return c.next.Fields(ctx, object, subset)
}

func TestIsWildcard(t *testing.T) {
	assert.True(t, IsWildcard(nil))
	assert.True(t, IsWildcard([]string{}))
	assert.True(t, IsWildcard([]string{"*"}))
	assert.False(t, IsWildcard([]string{"Id"}))
	assert.False(t, IsWildcard([]string{"*", "Id"}))
}

func TestNotFoundError(t *testing.T) {
	var err error = &NotFoundError{Object: "Lead"}
	assert.Equal(t, `unknown object "Lead"`, err.Error())
	assert.True(t, errors.Is(err, ErrUnknownObject))

	wrapped := errors.Join(errors.New("ctx"), err)
	assert.ErrorIs(t, wrapped, ErrUnknownObject)
}

func TestStatic_Fields(t *testing.T) {
	r := NewStatic(fixture)
	ctx := context.Background()

	tests := []struct {
		name   string
		object string
		subset []string
		want   []string
	}{
		{"wildcard", "Contact", []string{"*"}, []string{"Id", "FirstName", "Email"}},
		{"nil subset", "Contact", nil, []string{"Id", "FirstName", "Email"}},
		{"explicit subset keeps request order", "Contact", []string{"Email", "Id"}, []string{"Email", "Id"}},
		{"case-insensitive object", "CONTACT", []string{"*"}, []string{"Id", "FirstName", "Email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Fields(ctx, tt.object, tt.subset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatic_UnknownObject(t *testing.T) {
	_, err := NewStatic(fixture).Fields(context.Background(), "Lead", []string{"*"})
	require.Error(t, err)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "Lead", nf.Object)
}

func TestStatic_ReturnsCopies(t *testing.T) {
	r := NewStatic(fixture)
	got, err := r.Fields(context.Background(), "Account", []string{"*"})
	require.NoError(t, err)
	got[0] = "mutated"

	again, err := r.Fields(context.Background(), "Account", []string{"*"})
	require.NoError(t, err)
	assert.Equal(t, "Id", again[0])
}

func TestFromSchema(t *testing.T) {
	r := FromSchema([]schema.Object{
		{Name: "Case", Fields: []string{"Id", "Subject"}},
	})
	assert.Equal(t, 1, r.Len())

	got, err := r.Fields(context.Background(), "case", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "Subject"}, got)
}

func TestResolverFunc(t *testing.T) {
	var r Resolver = ResolverFunc(func(_ context.Context, object string, _ []string) ([]string, error) {
		return []string{object + ".Id"}, nil
	})
	got, err := r.Fields(context.Background(), "Owner", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Owner.Id"}, got)
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestCached_ReadThrough(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	next := &countingResolver{next: NewStatic(fixture)}
	r := NewCached(st, next)

	got, err := r.Fields(ctx, "Contact", []string{"*"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Id", "FirstName", "Email"}, got)
	assert.Equal(t, int64(1), next.calls.Load())

	// Second lookup is served from the describe cache.
	got, err = r.Fields(ctx, "contact", []string{"Email"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Email"}, got)
	assert.Equal(t, int64(1), next.calls.Load())

	cached, ok, err := st.GetFields(ctx, "Contact")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"Id", "FirstName", "Email"}, cached)
}

func TestCached_MissWithoutNext(t *testing.T) {
	r := NewCached(openStore(t), nil)

	_, err := r.Fields(context.Background(), "Account", nil)
	assert.ErrorIs(t, err, ErrUnknownObject)
}

func TestCached_PropagatesNextError(t *testing.T) {
	r := NewCached(openStore(t), NewStatic(fixture))

	_, err := r.Fields(context.Background(), "Lead", nil)
	assert.ErrorIs(t, err, ErrUnknownObject)
}

func TestCached_Warm(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	r := NewCached(st, NewStatic(fixture))

	require.NoError(t, r.Warm(ctx, []string{"Account", "Contact"}))

	entries, err := st.Objects(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	err = r.Warm(ctx, []string{"Lead"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warm Lead")
}

func TestMemo_ServesRepeatLookups(t *testing.T) {
	next := &countingResolver{next: NewStatic(fixture)}
	m, err := NewMemo(next, 0)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := m.Fields(ctx, "Account", []string{"*"})
		require.NoError(t, err)
		assert.Equal(t, []string{"Id", "Name", "Industry"}, got)
	}
	assert.Equal(t, int64(1), next.calls.Load())

	// Different subset is a different key.
	_, err = m.Fields(ctx, "ACCOUNT", []string{"Name"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.calls.Load())
	assert.Equal(t, 2, m.Len())

	m.Purge()
	assert.Equal(t, 0, m.Len())
}

func TestMemo_DoesNotMemoizeErrors(t *testing.T) {
	next := &countingResolver{next: NewStatic(fixture)}
	m, err := NewMemo(next, 4)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := m.Fields(context.Background(), "Lead", nil)
		assert.ErrorIs(t, err, ErrUnknownObject)
	}
	assert.Equal(t, int64(2), next.calls.Load())
}

func TestMemo_Evicts(t *testing.T) {
	m, err := NewMemo(NewStatic(fixture), 1)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = m.Fields(ctx, "Account", nil)
	require.NoError(t, err)
	_, err = m.Fields(ctx, "Contact", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
}

func TestMemo_Concurrent(t *testing.T) {
	m, err := NewMemo(NewStatic(fixture), 8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := m.Fields(context.Background(), "Contact", []string{"*"})
			assert.NoError(t, err)
			assert.Len(t, got, 3)
		}()
	}
	wg.Wait()
}
