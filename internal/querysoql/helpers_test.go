package querysoql

import (
	"io"
	"log/slog"

	"github.com/roach88/soql/internal/ir"
	"github.com/roach88/soql/internal/metadata"
	"github.com/roach88/soql/internal/queryir"
)

var testObjects = map[string][]string{
	"Account":     {"Id", "Name", "Industry"},
	"Contact":     {"Id", "FirstName", "Email"},
	"Opportunity": {"Id", "Name", "Amount", "StageName"},
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestCompiler returns a compiler over the static test objects.
func newTestCompiler(opts ...Option) *Compiler {
	base := []Option{
		WithResolver(metadata.NewStatic(testObjects)),
		WithLogger(discardLogger()),
	}
	return New(append(base, opts...)...)
}

func param(v ir.Value) queryir.Param {
	return queryir.Param{Value: v}
}
