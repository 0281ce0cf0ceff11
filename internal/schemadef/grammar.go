// Package schemadef parses schema-definition files: plain-text
// declarations of MessageType and EnumType values that FETCH TYPES
// registers in the planner catalog. Grounded on the shape visible in
// the dbuf grammar's type declarations — dependencies precede payload
// fields, and a `|`-separated list of variants turns the declaration
// into an enum — simplified to a single grammar participle can parse
// directly rather than reproducing the original's general-purpose
// dependent-expression language.
//
// Example:
//
//	Point(x: Int, y: Int)
//	Shape(sides: Unsigned | Circle: Float, Square: Float)
package schemadef

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// TypeRef names a scalar builtin or a previously declared type, with
// optional dependency arguments referencing earlier field names.
type TypeRef struct {
	Name string   `@Ident`
	Args []string `("(" @Ident ("," @Ident)* ")")?`
}

// FieldDecl is one `name: Type` declaration, used both for a message's
// columns and for an enum's dependencies.
type FieldDecl struct {
	Name string   `@Ident ":"`
	Type *TypeRef `@@`
}

// VariantDecl is one enum variant: a tag name and, in the common case
// visible in the source grammar, a single payload type.
type VariantDecl struct {
	Name string   `@Ident`
	Type *TypeRef `(":" @@)?`
}

// Definition is one top-level declaration. Fields holds the
// dependency/column list that appears before any `|`; a non-empty
// Variants makes this an enum declaration, otherwise it is a message
// declaration and Fields are its columns.
type Definition struct {
	Name     string         `@Ident "("`
	Fields   []*FieldDecl   `(@@ ("," @@)*)?`
	Variants []*VariantDecl `("|" @@ ("," @@)*)? ")"`
}

// File is a whole schema-definition file: a sequence of declarations.
type File struct {
	Definitions []*Definition `@@*`
}

var parser = participle.MustBuild[File](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Punct", Pattern: `[()|,:]`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	})),
	participle.Elide("Whitespace"),
)

// Parse parses the text of one schema-definition file.
func Parse(text string) (*File, error) {
	return parser.ParseString("", text)
}
