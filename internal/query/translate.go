package query

import (
	"fmt"
	"strings"

	"github.com/cuemby/dbuf/internal/catalog"
	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/planner"
)

// commandKind discriminates Command's cases.
type commandKind uint8

const (
	CommandFetchTypes commandKind = iota
	CommandCreateTable
	CommandDropTable
	CommandInsert
	CommandSelect
)

// Command is a translated Statement, with every enum literal already
// resolved against a planner catalog (needed to turn a surface variant
// name into a Choice index).
type Command struct {
	Kind commandKind

	FetchTypesPath string

	TableName string // CreateTable, DropTable, Insert target
	TypeName  string // CreateTable's registered type

	InsertRows []dbtype.Message // Insert's rows, one per bracketed literal

	SelectFields []SelectField
	SelectPlan   planner.RawPlan
}

// SelectField names one projected output column.
type SelectField struct {
	Alias      string
	Expression planner.RawExpression
}

// Translate turns one parsed Statement into a Command. types resolves
// enum literal type and variant names to Choice indices against the
// registered catalog; message literals only record their type name
// here and are not looked up. types may be nil for statements that
// carry no enum literals (FetchTypes, CreateTable, DropTable); an enum
// literal translated without a catalog gets Choice -1.
func Translate(stmt *Statement, types *catalog.PlannerCatalog) (*Command, error) {
	t := &translator{types: types}

	switch {
	case stmt.FetchTypes != nil:
		return &Command{Kind: CommandFetchTypes, FetchTypesPath: stmt.FetchTypes.Path}, nil

	case stmt.CreateTbl != nil:
		return &Command{Kind: CommandCreateTable, TableName: stmt.CreateTbl.Table, TypeName: stmt.CreateTbl.Type}, nil

	case stmt.DropTbl != nil:
		return &Command{Kind: CommandDropTable, TableName: stmt.DropTbl.Table}, nil

	case stmt.Insert != nil:
		rows := make([]dbtype.Message, len(stmt.Insert.Values))
		for i, v := range stmt.Insert.Values {
			dv, err := t.value(v)
			if err != nil {
				return nil, err
			}
			if dv.Kind != dbtype.KindMessage {
				return nil, fmt.Errorf("query: INSERT VALUES entries must be message literals")
			}
			rows[i] = *dv.Message
		}
		return &Command{Kind: CommandInsert, TableName: stmt.Insert.Table, InsertRows: rows}, nil

	case stmt.Select != nil:
		return t.selectStmt(stmt.Select)
	}

	panic("query: malformed statement")
}

// translator threads catalog access through expression/value
// translation, since resolving an enum literal's variant tag to a
// Choice index needs the registered EnumType's variant order.
type translator struct {
	types *catalog.PlannerCatalog
}

func (t *translator) selectStmt(sel *SelectStmt) (*Command, error) {
	fields := make([]SelectField, len(sel.Fields))
	items := make([]planner.ProjectionItem, len(sel.Fields))
	for i, f := range sel.Fields {
		expr, err := t.expr(f.Expression)
		if err != nil {
			return nil, err
		}
		fields[i] = SelectField{Alias: f.Alias, Expression: expr}
		items[i] = planner.ProjectionItem{Alias: f.Alias, Expression: expr}
	}

	plan := planner.ScanPlan(sel.Table)
	if sel.Condition != nil {
		cond, err := t.expr(sel.Condition)
		if err != nil {
			return nil, err
		}
		plan = planner.FilterPlan(cond, plan)
	}
	plan = planner.ProjectionPlan(items, plan)

	return &Command{Kind: CommandSelect, TableName: sel.Table, SelectFields: fields, SelectPlan: plan}, nil
}

func (t *translator) value(v *Value) (dbtype.DBValue, error) {
	switch {
	case v.Int != nil:
		return dbtype.NewInt(int32(*v.Int)), nil
	case v.Float != nil:
		return dbtype.NewDouble(float32(*v.Float)), nil
	case v.String != nil:
		return dbtype.NewString(*v.String), nil
	case v.Bool != nil:
		return dbtype.NewBool(*v.Bool == "true"), nil
	case v.Message != nil:
		return t.messageLit(v.Message)
	case v.Enum != nil:
		return t.enumLit(v.Enum)
	}
	return dbtype.DBValue{}, &UnboundColumnError{Text: "<empty literal>"}
}

func (t *translator) messageLit(m *MessageLit) (dbtype.DBValue, error) {
	typeName := m.TypeName
	fields := make([]dbtype.DBValue, len(m.Fields))
	for i, f := range m.Fields {
		fv, err := t.value(f.Value)
		if err != nil {
			return dbtype.DBValue{}, err
		}
		fields[i] = fv
	}
	return dbtype.NewMessage(dbtype.Message{TypeName: &typeName, Fields: fields}), nil
}

func (t *translator) enumLit(e *EnumLit) (dbtype.DBValue, error) {
	typeName := e.TypeName

	var fields []dbtype.DBValue
	if e.Value != nil {
		fv, err := t.value(e.Value)
		if err != nil {
			return dbtype.DBValue{}, err
		}
		fields = []dbtype.DBValue{fv}
	}

	choice := -1
	if t.types != nil {
		et, err := t.types.EnumType(typeName)
		if err != nil {
			return dbtype.DBValue{}, err
		}
		for i, variant := range et.Variants {
			if variant.Name == e.Variant {
				choice = i
				break
			}
		}
		if choice < 0 {
			return dbtype.DBValue{}, &planner.EnumVariantNotFoundError{Enum: typeName, Variant: e.Variant}
		}
	}

	return dbtype.NewEnumValue(dbtype.EnumValue{TypeName: &typeName, Choice: choice, Fields: fields}), nil
}

func (t *translator) expr(e *Expr) (planner.RawExpression, error) {
	left, err := t.andExpr(e.Left)
	if err != nil {
		return planner.RawExpression{}, err
	}
	if e.Right == nil {
		return left, nil
	}
	right, err := t.expr(e.Right)
	if err != nil {
		return planner.RawExpression{}, err
	}
	return planner.BinaryOpExpr(planner.Or, left, right), nil
}

func (t *translator) andExpr(e *AndExpr) (planner.RawExpression, error) {
	left, err := t.cmpExpr(e.Left)
	if err != nil {
		return planner.RawExpression{}, err
	}
	if e.Right == nil {
		return left, nil
	}
	right, err := t.andExpr(e.Right)
	if err != nil {
		return planner.RawExpression{}, err
	}
	return planner.BinaryOpExpr(planner.And, left, right), nil
}

func (t *translator) cmpExpr(e *CmpExpr) (planner.RawExpression, error) {
	left, err := t.addExpr(e.Left)
	if err != nil {
		return planner.RawExpression{}, err
	}
	if e.Right == nil {
		return left, nil
	}
	right, err := t.addExpr(e.Right)
	if err != nil {
		return planner.RawExpression{}, err
	}
	var op planner.BinaryOperator
	switch e.Op {
	case "<":
		op = planner.LessThan
	case ">":
		op = planner.GreaterThan
	case "=":
		op = planner.Equals
	case "!=":
		op = planner.NotEquals
	}
	return planner.BinaryOpExpr(op, left, right), nil
}

func (t *translator) addExpr(e *AddExpr) (planner.RawExpression, error) {
	acc, err := t.mulExpr(e.Left)
	if err != nil {
		return planner.RawExpression{}, err
	}
	// The grammar nests each further operand to the right; fold the
	// chain from the left so a - b - c means (a - b) - c.
	for cur := e; cur.Right != nil; cur = cur.Right {
		right, err := t.mulExpr(cur.Right.Left)
		if err != nil {
			return planner.RawExpression{}, err
		}
		op := planner.Add
		if cur.Op == "-" {
			op = planner.Subtract
		}
		acc = planner.BinaryOpExpr(op, acc, right)
	}
	return acc, nil
}

func (t *translator) mulExpr(e *MulExpr) (planner.RawExpression, error) {
	acc, err := t.unary(e.Left)
	if err != nil {
		return planner.RawExpression{}, err
	}
	// Folded from the left, as in addExpr: a / b / c means (a / b) / c.
	for cur := e; cur.Right != nil; cur = cur.Right {
		right, err := t.unary(cur.Right.Left)
		if err != nil {
			return planner.RawExpression{}, err
		}
		op := planner.Multiply
		if cur.Op == "/" {
			op = planner.Divide
		}
		acc = planner.BinaryOpExpr(op, acc, right)
	}
	return acc, nil
}

func (t *translator) unary(e *Unary) (planner.RawExpression, error) {
	inner, err := t.postfix(e.Postfix)
	if err != nil {
		return planner.RawExpression{}, err
	}
	switch e.Op {
	case "-":
		return planner.UnaryOpExpr(planner.RawNegate(), inner), nil
	case "NOT":
		return planner.UnaryOpExpr(planner.RawNot(), inner), nil
	default:
		return inner, nil
	}
}

func (t *translator) postfix(e *Postfix) (planner.RawExpression, error) {
	expr, err := t.primary(e.Primary)
	if err != nil {
		return planner.RawExpression{}, err
	}
	for _, field := range e.Fields {
		expr = planner.UnaryOpExpr(planner.RawMessageField(field), expr)
	}
	return expr, nil
}

func (t *translator) primary(e *Primary) (planner.RawExpression, error) {
	switch {
	case e.Match != nil:
		return t.match(e.Match)
	case e.Literal != nil:
		v, err := t.value(e.Literal)
		if err != nil {
			return planner.RawExpression{}, err
		}
		return planner.LiteralExpr(v), nil
	case e.Column != nil:
		return planner.ColumnRefExpr(*e.Column), nil
	case e.Sub != nil:
		return t.expr(e.Sub)
	}
	panic("query: malformed primary expression")
}

func (t *translator) match(m *MatchExpr) (planner.RawExpression, error) {
	operand, err := t.expr(m.Operand)
	if err != nil {
		return planner.RawExpression{}, err
	}
	arms := make([]planner.RawExpression, len(m.Arms))
	for i, a := range m.Arms {
		arm, err := t.expr(a)
		if err != nil {
			return planner.RawExpression{}, err
		}
		arms[i] = arm
	}
	return planner.UnaryOpExpr(planner.RawEnumMatch(arms), operand), nil
}

// ReadStatement accumulates lines from a source (one line at a time,
// via next) until a line ends with exactly one trailing semicolon, and
// returns the joined statement text with that semicolon stripped.
// Mirrors the original driver's read loop: a semicolon anywhere but
// the final character is rejected outright.
func ReadStatement(next func() (string, bool)) (string, bool, error) {
	var b strings.Builder
	for {
		line, ok := next()
		if !ok {
			if b.Len() == 0 {
				return "", false, nil
			}
			return "", false, &MultipleSemicolonsError{}
		}

		count := strings.Count(line, ";")
		switch {
		case count == 0:
			b.WriteString(line)
			b.WriteByte('\n')
		case count == 1 && strings.HasSuffix(strings.TrimRight(line, " \t\r\n"), ";"):
			b.WriteString(strings.TrimSuffix(strings.TrimRight(line, " \t\r\n"), ";"))
			return b.String(), true, nil
		default:
			return "", false, &MultipleSemicolonsError{}
		}
	}
}
