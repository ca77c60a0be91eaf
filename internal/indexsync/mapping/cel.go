package mapping

import (
	"fmt"
	"regexp"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
	"github.com/syntrixbase/docsync/pkg/model"
)

// CELCompiler turns CEL expressions over the `record` attributes (and its
// primary key as `key`) into derivations.
//
//	record.body.stripTags()
//	record.author.ucfirst()
//	record.title + " (" + string(record.year) + ")"
type CELCompiler struct {
	env        *cel.Env
	prgCache   map[string]cel.Program
	cacheMutex sync.RWMutex
}

// NewCELCompiler creates a compiler with the string extension library and the
// stripTags/ucfirst helpers.
func NewCELCompiler() (*CELCompiler, error) {
	env, err := cel.NewEnv(
		cel.Variable("record", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("key", cel.DynType),
		ext.Strings(),
		cel.Function("stripTags",
			cel.Overload("stripTags_string", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc(StripTags))),
			cel.MemberOverload("string_stripTags", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc(StripTags))),
		),
		cel.Function("ucfirst",
			cel.Overload("ucfirst_string", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc(UpperFirst))),
			cel.MemberOverload("string_ucfirst", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(stringFunc(UpperFirst))),
		),
	)
	if err != nil {
		return nil, err
	}

	return &CELCompiler{
		env:      env,
		prgCache: make(map[string]cel.Program),
	}, nil
}

// Compile checks expr and returns a derivation evaluating it against the record.
// Compilation problems are configuration errors; evaluation problems make the
// derived value invalid.
func (c *CELCompiler) Compile(expr string) (DeriveFunc, error) {
	prg, err := c.getProgram(expr)
	if err != nil {
		return nil, fmt.Errorf("expression %q: %v: %w", expr, err, model.ErrConfig)
	}

	return func(rec model.Record) Value {
		out, _, err := prg.Eval(map[string]interface{}{
			"record": recordInput(rec),
			"key":    rec.PrimaryKey(),
		})
		if err != nil {
			return Invalid(fmt.Errorf("CEL evaluation error: %w", err))
		}
		return ValueOf(out.Value())
	}, nil
}

func (c *CELCompiler) getProgram(expr string) (cel.Program, error) {
	c.cacheMutex.RLock()
	prg, ok := c.prgCache[expr]
	c.cacheMutex.RUnlock()
	if ok {
		return prg, nil
	}

	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	if prg, ok := c.prgCache[expr]; ok {
		return prg, nil
	}

	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}

	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, err
	}

	c.prgCache[expr] = prg
	return prg, nil
}

func recordInput(rec model.Record) map[string]interface{} {
	attrs := rec.Attributes()
	in := make(map[string]interface{}, len(attrs))
	for k, v := range attrs {
		in[k] = v
	}
	return in
}

func stringFunc(fn func(string) string) func(ref.Val) ref.Val {
	return func(v ref.Val) ref.Val {
		s, ok := v.(types.String)
		if !ok {
			return types.MaybeNoSuchOverloadErr(v)
		}
		return types.String(fn(string(s)))
	}
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML and XML tags from s.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}

// UpperFirst upper-cases the first letter of s.
func UpperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
