package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/soql/internal/config"
	"github.com/roach88/soql/internal/metadata"
	"github.com/roach88/soql/internal/naming"
	"github.com/roach88/soql/internal/queryfile"
	"github.com/roach88/soql/internal/queryir"
	"github.com/roach88/soql/internal/schema"
	"github.com/roach88/soql/internal/store"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric   = "E001" // Generic/unknown error
	ErrCodeQueryFile = "E002" // Query file unreadable or invalid
	ErrCodeNoFiles   = "E003" // No CUE files found
	ErrCodeLoad      = "E004" // Schema load failed
	ErrCodeNotFound  = "E005" // Path not found
	ErrCodeConfig    = "E006" // Config file invalid
	ErrCodeCache     = "E007" // Describe cache failure

	// Compilation (E01x)
	ErrCodeCompile  = "E010" // Compile failed
	ErrCodeMetadata = "E011" // Relationship metadata unresolved
	ErrCodeBind     = "E012" // Binding substitution failed
	ErrCodeLint     = "E013" // Query lint warnings
	ErrCodeScenario = "E014" // Scenario run had failures
)

// LoadError represents an error that occurred while loading command inputs.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Env is the metadata environment shared by commands: the object catalog,
// the resolver chain over it, and the pluralizer.
type Env struct {
	Objects    []schema.Object
	Resolver   metadata.Resolver
	Cache      *metadata.Cached // nil without a cache path
	Pluralizer naming.Pluralizer

	store *store.Store
}

// Close releases the describe cache, if open.
func (e *Env) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// LoadEnv builds the resolver chain:
//
//	Memo → Cached (SQLite) → Static (CUE schema)
//
// schemaDir may be empty, leaving only objects already in the cache.
// cachePath may be empty, skipping the cache layer.
func LoadEnv(cfg *config.Config, schemaDir, cachePath string, logger *slog.Logger) (*Env, error) {
	env := &Env{}

	if schemaDir != "" {
		objects, err := LoadSchema(schemaDir)
		if err != nil {
			return nil, err
		}
		env.Objects = objects
	}

	var next metadata.Resolver
	if len(env.Objects) > 0 {
		next = metadata.FromSchema(env.Objects)
	}

	if cachePath != "" {
		st, err := store.Open(cachePath)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeCache, Message: fmt.Sprintf("opening describe cache %s", cachePath), Err: err}
		}
		env.store = st
		env.Cache = metadata.NewCached(st, next)
		env.Cache.Logger = logger
		next = env.Cache
	}

	if next == nil {
		next = metadata.NewStatic(nil)
	}

	memo, err := metadata.NewMemo(next, memoSize(cfg))
	if err != nil {
		env.Close()
		return nil, &LoadError{Code: ErrCodeConfig, Message: "building metadata memo", Err: err}
	}
	env.Resolver = memo

	p, err := cfg.NewPluralizer(schema.Plurals(env.Objects))
	if err != nil {
		env.Close()
		return nil, &LoadError{Code: ErrCodeConfig, Message: "building pluralizer", Err: err}
	}
	env.Pluralizer = p

	return env, nil
}

func memoSize(cfg *config.Config) int {
	if cfg.MemoSize > 0 {
		return cfg.MemoSize
	}
	return metadata.DefaultMemoSize
}

// LoadSchema loads and validates the CUE objects in dir. The first
// validation error is returned.
func LoadSchema(dir string) ([]schema.Object, error) {
	objects, err := loadSchemaObjects(dir)
	if err != nil {
		return nil, err
	}
	if errs := schema.Validate(objects); len(errs) > 0 {
		return nil, &LoadError{Code: errs[0].Code, Message: errs[0].Error()}
	}
	return objects, nil
}

func loadSchemaObjects(dir string) ([]schema.Object, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := schema.FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoad, Message: "scanning schema directory", Err: err}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	objects, err := schema.LoadDir(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoad, Message: "loading schema", Err: err}
	}
	return objects, nil
}

// LoadQuery reads a query file and builds the query.
func LoadQuery(path string) (queryir.Query, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return queryir.Query{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("query file not found: %s", path)}
	}

	f, err := queryfile.Load(path)
	if err != nil {
		return queryir.Query{}, &LoadError{Code: ErrCodeQueryFile, Message: "invalid query file", Err: err}
	}

	q, err := f.Query()
	if err != nil {
		var qe *queryfile.Error
		if errors.As(err, &qe) {
			qe.Path = path
		}
		return queryir.Query{}, &LoadError{Code: ErrCodeQueryFile, Message: "invalid query file", Err: err}
	}
	return q, nil
}

// loadFailure splits err into an output code and message. A LoadError
// supplies its own code; anything else gets fallback.
func loadFailure(err error, fallback string) (string, string) {
	var le *LoadError
	if !errors.As(err, &le) {
		return fallback, err.Error()
	}
	if le.Err != nil {
		return le.Code, fmt.Sprintf("%s: %v", le.Message, le.Err)
	}
	return le.Code, le.Message
}

// commandError reports err through the formatter and returns it as a
// command error (exit code 2).
func commandError(formatter *OutputFormatter, err error, fallback string) error {
	code, message := loadFailure(err, fallback)
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
