package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/roach88/soql/internal/metadata"
)

// Lookup is one call observed by a RecordingResolver.
type Lookup struct {
	Seq    int64    `json:"seq"`
	Object string   `json:"object"`
	Subset []string `json:"subset,omitempty"`
	Err    string   `json:"error,omitempty"`
}

// RecordingResolver wraps a resolver and records every lookup in call
// order with a monotonic sequence number starting at 1.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type RecordingResolver struct {
	next metadata.Resolver

	mu      sync.Mutex
	seq     int64
	lookups []Lookup
}

// NewRecordingResolver creates a recorder in front of next.
func NewRecordingResolver(next metadata.Resolver) *RecordingResolver {
	return &RecordingResolver{next: next}
}

// Fields implements metadata.Resolver.
func (r *RecordingResolver) Fields(ctx context.Context, object string, subset []string) ([]string, error) {
	fields, err := r.next.Fields(ctx, object, subset)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	l := Lookup{Seq: r.seq, Object: object, Subset: slices.Clone(subset)}
	if err != nil {
		l.Err = err.Error()
	}
	r.lookups = append(r.lookups, l)

	return fields, err
}

// Lookups returns a copy of the recorded lookups.
func (r *RecordingResolver) Lookups() []Lookup {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.lookups)
}

// Reset clears recorded lookups. The next lookup gets Seq 1.
func (r *RecordingResolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq = 0
	r.lookups = nil
}
