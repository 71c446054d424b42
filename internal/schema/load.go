package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// LoadDir loads every object definition from the CUE package in dir.
// Objects are returned sorted by name. The first compile error aborts.
func LoadDir(dir string) ([]Object, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schema directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schema directory: not a directory: %s", dir)
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no CUE files found in %s", dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", inst.Err)
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	return Extract(value)
}

// LoadString compiles CUE source text and extracts its objects.
func LoadString(src, filename string) ([]Object, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return Extract(value)
}

// Extract compiles every entry under the top-level "object" struct.
func Extract(value cue.Value) ([]Object, error) {
	objectsVal := value.LookupPath(cue.ParsePath("object"))
	if !objectsVal.Exists() {
		return []Object{}, nil
	}

	iter, err := objectsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	objects := []Object{}
	for iter.Next() {
		obj, err := CompileObject(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("object.%s: %w", iter.Selector().Unquoted(), err)
		}
		objects = append(objects, *obj)
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Name < objects[j].Name
	})
	return objects, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// Plurals returns the relationship-name overrides declared by objects,
// keyed by object name.
func Plurals(objects []Object) map[string]string {
	out := map[string]string{}
	for _, obj := range objects {
		if obj.Plural != "" {
			out[obj.Name] = obj.Plural
		}
	}
	return out
}
