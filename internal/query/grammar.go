// Package query implements the surface syntax a dbuf session's
// top-level driver accepts (spec.md's query-surface table): FETCH
// TYPES, CREATE TABLE, DROP TABLE, INSERT INTO ... VALUES, and SELECT
// ... FROM ... [WHERE ...]. Built with participle/v2, the same parser
// combinator library the schema-definition grammar uses, following
// the shape of the original source's separate `ast`/`query` grammar
// (a distinct surface language from the schema-definition one, sharing
// only its expression shape).
package query

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Value is a parsed literal: exactly one of the scalar fields is set,
// or Message/Enum for composite literals.
type Value struct {
	Int     *int64      `  @Int`
	Float   *float64    `| @Float`
	String  *string     `| @String`
	Bool    *string     `| @("true" | "false")`
	Message *MessageLit `| @@`
	Enum    *EnumLit    `| @@`
}

// MessageLit is a `TypeName{field: value, ...}` composite literal.
type MessageLit struct {
	TypeName string    `@Ident "{"`
	Fields   []*FieldV `(@@ ("," @@)*)? "}"`
}

// FieldV is one `name: value` pair inside a MessageLit.
type FieldV struct {
	Name  string `@Ident ":"`
	Value *Value `@@`
}

// EnumLit is a `TypeName::Variant` or `TypeName::Variant(value)`
// composite literal.
type EnumLit struct {
	TypeName string `@Ident "::"`
	Variant  string `@Ident`
	Value    *Value `("(" @@ ")")?`
}

// Expr is the top of the expression grammar: logical Or.
type Expr struct {
	Left  *AndExpr `@@`
	Op    string   `( @"|"`
	Right *Expr    `  @@ )?`
}

// AndExpr is logical And.
type AndExpr struct {
	Left  *CmpExpr `@@`
	Op    string   `( @"&"`
	Right *AndExpr `  @@ )?`
}

// CmpExpr is a single comparison, non-associative.
type CmpExpr struct {
	Left  *AddExpr `@@`
	Op    string   `( @("<" | ">" | "=" | "!=")`
	Right *AddExpr `  @@ )?`
}

// AddExpr is left-associative + and -.
type AddExpr struct {
	Left  *MulExpr `@@`
	Op    string   `( @("+" | "-")`
	Right *AddExpr `  @@ )?`
}

// MulExpr is left-associative * and /.
type MulExpr struct {
	Left  *Unary   `@@`
	Op    string   `( @("*" | "/")`
	Right *MulExpr `  @@ )?`
}

// Unary is an optional prefix Negate/Not in front of a Postfix.
type Unary struct {
	Op      string   `( @("-" | "NOT") )?`
	Postfix *Postfix `@@`
}

// Postfix is a Primary with zero or more `.field` selections applied.
type Postfix struct {
	Primary *Primary `@@`
	Fields  []string `("." @Ident)*`
}

// Primary is a literal, a bare column reference, a MATCH expression,
// or a parenthesized expression.
type Primary struct {
	Match   *MatchExpr `  @@`
	Literal *Value     `| @@`
	Column  *string    `| @Ident`
	Sub     *Expr      `| "(" @@ ")"`
}

// MatchExpr is `MATCH expr WITH (arm, arm, ...)`: arms are positional,
// in the matched enum's variant-declaration order.
type MatchExpr struct {
	Operand *Expr   `"MATCH" @@ "WITH" "("`
	Arms    []*Expr `(@@ ("," @@)*)? ")"`
}

// ProjectionField is one `expr AS alias` item in a SELECT list.
type ProjectionField struct {
	Expression *Expr  `@@ "AS"`
	Alias      string `@Ident`
}

// Statement is one parsed top-level command.
type Statement struct {
	FetchTypes *FetchTypesStmt  `  @@`
	CreateTbl  *CreateTableStmt `| @@`
	DropTbl    *DropTableStmt   `| @@`
	Insert     *InsertStmt      `| @@`
	Select     *SelectStmt      `| @@`
}

type FetchTypesStmt struct {
	Path string `"FETCH" "TYPES" @String`
}

type CreateTableStmt struct {
	Table string `"CREATE" "TABLE" @Ident`
	Type  string `@Ident`
}

type DropTableStmt struct {
	Table string `"DROP" "TABLE" @Ident`
}

type InsertStmt struct {
	Table  string   `"INSERT" "INTO" @Ident "VALUES"`
	Values []*Value `"[" @@ "]" ("," "[" @@ "]")*`
}

type SelectStmt struct {
	Fields    []*ProjectionField `"SELECT" @@ ("," @@)*`
	Table     string             `"FROM" @Ident`
	Condition *Expr              `("WHERE" @@)?`
}

var parser = participle.MustBuild[Statement](
	participle.Lexer(lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Float", Pattern: `[0-9]+\.[0-9]+`},
		{Name: "Int", Pattern: `[0-9]+`},
		{Name: "String", Pattern: `"(\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Punct", Pattern: `::|!=|[-+*/<>=&|.,:;(){}\[\]]`},
		{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	})),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// Parse parses one statement's text.
func Parse(text string) (*Statement, error) {
	return parser.ParseString("", text)
}
