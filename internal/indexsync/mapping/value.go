package mapping

import "fmt"

// NowLiteral is the database expression that asks for the current wall-clock time.
const NowLiteral = "NOW()"

type valueKind int

const (
	kindInvalid valueKind = iota
	kindString
	kindExpression
)

// Value is the result of a derivation. It is one of:
//   - a string, indexed as-is;
//   - a database expression such as NOW(), resolved by the Resolver;
//   - an invalid value, which fails the projection.
type Value struct {
	kind valueKind
	text string
	raw  any
}

// String returns a Value holding s.
func String(s string) Value {
	return Value{kind: kindString, text: s}
}

// DBExpr returns a Value holding a database expression by its literal form.
func DBExpr(literal string) Value {
	return Value{kind: kindExpression, text: literal}
}

// Now returns the current-timestamp expression.
func Now() Value {
	return DBExpr(NowLiteral)
}

// Invalid returns a Value that can never be indexed. raw is kept for error reporting.
func Invalid(raw any) Value {
	return Value{kind: kindInvalid, raw: raw}
}

// Expression is a database expression returned by derivation code that works with raw values.
// ValueOf classifies it as DBExpr.
type Expression struct {
	Literal string
}

// ValueOf classifies an arbitrary derivation result.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case Value:
		return x
	case string:
		return String(x)
	case Expression:
		return DBExpr(x.Literal)
	case *Expression:
		if x == nil {
			return Invalid(v)
		}
		return DBExpr(x.Literal)
	default:
		return Invalid(v)
	}
}

// IsString reports whether the value is a plain string.
func (v Value) IsString() bool { return v.kind == kindString }

// IsExpression reports whether the value is a database expression.
func (v Value) IsExpression() bool { return v.kind == kindExpression }

func (v Value) String() string {
	switch v.kind {
	case kindString:
		return v.text
	case kindExpression:
		return "expr(" + v.text + ")"
	default:
		return fmt.Sprintf("invalid(%T)", v.raw)
	}
}
