package mapping

import (
	"fmt"
	"os"

	"github.com/syntrixbase/docsync/pkg/model"
	"gopkg.in/yaml.v3"
)

// FieldSpec is the file representation of one field map entry.
// Exactly one of Source, Expr or DBExpr must be set.
type FieldSpec struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Expr   string `yaml:"expr"`
	DBExpr string `yaml:"db_expr"`
}

// File represents a field map file.
//
//	fields:
//	  - name: title
//	    source: name
//	  - name: body
//	    expr: record.body.stripTags()
//	  - name: indexed_at
//	    db_expr: NOW()
type File struct {
	Fields []FieldSpec `yaml:"fields"`
}

// LoadFromFile loads a field map from a YAML file.
func LoadFromFile(path string, compiler *CELCompiler) (FieldMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FieldMap{}, fmt.Errorf("failed to read field map file: %w", err)
	}
	return LoadFromBytes(data, compiler)
}

// LoadFromBytes parses a field map from YAML bytes.
func LoadFromBytes(data []byte, compiler *CELCompiler) (FieldMap, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return FieldMap{}, fmt.Errorf("failed to parse field map: %v: %w", err, model.ErrConfig)
	}
	return Build(f.Fields, compiler)
}

// Build resolves every spec into its rule once, so events never re-inspect the configuration.
// A nil compiler is created on demand when an expression is present.
func Build(specs []FieldSpec, compiler *CELCompiler) (FieldMap, error) {
	entries := make([]Entry, 0, len(specs))
	for i, spec := range specs {
		set := 0
		for _, s := range []string{spec.Source, spec.Expr, spec.DBExpr} {
			if s != "" {
				set++
			}
		}
		if set != 1 {
			return FieldMap{}, fmt.Errorf("field %q (#%d): exactly one of source, expr or db_expr is required: %w", spec.Name, i, model.ErrConfig)
		}

		switch {
		case spec.Source != "":
			entries = append(entries, Copy(spec.Name, spec.Source))
		case spec.Expr != "":
			if compiler == nil {
				c, err := NewCELCompiler()
				if err != nil {
					return FieldMap{}, fmt.Errorf("failed to create CEL environment: %w", err)
				}
				compiler = c
			}
			fn, err := compiler.Compile(spec.Expr)
			if err != nil {
				return FieldMap{}, fmt.Errorf("field %q: %w", spec.Name, err)
			}
			entries = append(entries, Derive(spec.Name, fn))
		default:
			literal := spec.DBExpr
			entries = append(entries, Derive(spec.Name, func(model.Record) Value {
				return DBExpr(literal)
			}))
		}
	}
	return NewFieldMap(entries...)
}
