package testutil

// FixedIDGenerator generates the same trace ID every time.
//
// This enables deterministic CLI output and golden snapshot comparison.
// The same command run with the same FixedIDGenerator produces
// byte-identical JSON responses.
//
// Thread-safety: FixedIDGenerator is stateless and safe for concurrent use.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a new fixed trace ID generator.
//
// If id is empty, Generate() returns "test-trace-default".
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed trace ID.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
