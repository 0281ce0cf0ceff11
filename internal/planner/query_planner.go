package planner

import (
	"github.com/cuemby/dbuf/internal/catalog"
	"github.com/cuemby/dbuf/internal/dbtype"
)

// QueryPlanner lowers RawPlan/RawExpression (name-resolved) into
// LogicalPlan/Expression (index-resolved, fully typed), consulting the
// table manager for table schemas and the planner catalog for
// registered type names.
type QueryPlanner struct {
	Tables *catalog.TableManager
	Types  *catalog.PlannerCatalog
}

// New constructs a QueryPlanner over an already-open table manager and
// planner catalog.
func New(tables *catalog.TableManager, types *catalog.PlannerCatalog) *QueryPlanner {
	return &QueryPlanner{Tables: tables, Types: types}
}

func columnIndex(name string, mt dbtype.MessageType) (int, error) {
	for i, col := range mt.Columns {
		if col.Name == name {
			return i, nil
		}
	}
	return 0, &ColumnNotFoundError{Name: name}
}

func isComplexType(t dbtype.DBType) bool {
	return t.Kind == dbtype.KindMessage || t.Kind == dbtype.KindEnum
}

// variantMessageType turns one enum variant's field list into the
// MessageType that expressions inside its EnumMatch arm are built
// against.
func variantMessageType(v dbtype.EnumVariantType) dbtype.MessageType {
	return v.MessageType()
}

// BuildExpression lowers a RawExpression against the schema of the row
// it will be evaluated over, resolving column and field names to
// indices along the way. Only MessageField and EnumMatch operands are
// type-checked here; the full check is DeduceExpressionType, which
// BuildLogicalPlan runs on every filter and projection expression.
func (qp *QueryPlanner) BuildExpression(raw RawExpression, mt dbtype.MessageType) (*Expression, error) {
	switch raw.Kind {
	case rawLiteral:
		return literalExpr(raw.Literal), nil

	case rawColumnRef:
		idx, err := columnIndex(raw.ColumnRef, mt)
		if err != nil {
			return nil, err
		}
		return columnRefExpr(idx), nil

	case rawBinaryOp:
		left, err := qp.BuildExpression(*raw.BinaryLeft, mt)
		if err != nil {
			return nil, err
		}
		right, err := qp.BuildExpression(*raw.BinaryRight, mt)
		if err != nil {
			return nil, err
		}
		return binaryOpExpr(raw.BinaryOp, left, right), nil

	case rawUnaryOp:
		return qp.buildUnaryExpression(raw, mt)
	}
	return nil, ErrWrongOperandTypes
}

func (qp *QueryPlanner) buildUnaryExpression(raw RawExpression, mt dbtype.MessageType) (*Expression, error) {
	inner, err := qp.BuildExpression(*raw.UnaryExpr, mt)
	if err != nil {
		return nil, err
	}

	switch raw.UnaryOp.Kind {
	case rawUnaryNegate:
		return unaryOpExpr(NegateOp(), inner), nil

	case rawUnaryNot:
		return unaryOpExpr(NotOp(), inner), nil

	case rawUnaryMessageField:
		deduced, err := qp.DeduceExpressionType(inner, mt)
		if err != nil {
			return nil, err
		}
		if deduced.Kind != dbtype.KindMessage {
			return nil, ErrWrongOperandTypes
		}
		idx, err := columnIndex(raw.UnaryOp.MessageFieldName, *deduced.Message)
		if err != nil {
			return nil, err
		}
		return unaryOpExpr(MessageFieldOp(idx), inner), nil

	case rawUnaryEnumMatch:
		deduced, err := qp.DeduceExpressionType(inner, mt)
		if err != nil {
			return nil, err
		}
		if deduced.Kind != dbtype.KindEnum {
			return nil, ErrWrongOperandTypes
		}
		if len(raw.UnaryOp.EnumMatchArms) == 0 {
			return nil, ErrEmptyMatchCases
		}
		if len(raw.UnaryOp.EnumMatchArms) != len(deduced.Enum.Variants) {
			return nil, ErrIllFormedMatchStatement
		}

		arms := make([]*Expression, len(raw.UnaryOp.EnumMatchArms))
		for i, rawArm := range raw.UnaryOp.EnumMatchArms {
			variantType := variantMessageType(deduced.Enum.Variants[i])
			arm, err := qp.BuildExpression(rawArm, variantType)
			if err != nil {
				return nil, err
			}
			arms[i] = arm
		}
		return unaryOpExpr(EnumMatchOp(arms), inner), nil
	}

	return nil, ErrWrongOperandTypes
}

// BuildLogicalPlan lowers a RawPlan to a LogicalPlan, resolving table
// schemas, type-checking every expression, and propagating composite
// column dependencies across Projection.
func (qp *QueryPlanner) BuildLogicalPlan(raw RawPlan) (*LogicalPlan, error) {
	switch raw.Kind {
	case PlanScan:
		mt, err := qp.Tables.Schema(raw.TableName)
		if err != nil {
			return nil, err
		}
		return &LogicalPlan{Kind: PlanScan, TableName: raw.TableName, MessageType: mt}, nil

	case PlanFilter:
		source, err := qp.BuildLogicalPlan(*raw.Source)
		if err != nil {
			return nil, err
		}
		mt := source.OutputType()
		expr, err := qp.BuildExpression(raw.FilterExpr, mt)
		if err != nil {
			return nil, err
		}
		deduced, err := qp.DeduceExpressionType(expr, mt)
		if err != nil {
			return nil, err
		}
		if deduced.Kind != dbtype.KindBool {
			return nil, ErrWrongOperandTypes
		}
		return &LogicalPlan{Kind: PlanFilter, FilterExpr: expr, Source: source, MessageType: mt}, nil

	case PlanProjection:
		return qp.buildProjection(raw)
	}
	return nil, ErrWrongOperandTypes
}

func (qp *QueryPlanner) buildProjection(raw RawPlan) (*LogicalPlan, error) {
	source, err := qp.BuildLogicalPlan(*raw.Source)
	if err != nil {
		return nil, err
	}
	sourceType := source.OutputType()

	items := make([]LogicalProjectionItem, len(raw.ProjectionItems))
	types := make([]dbtype.DBType, len(raw.ProjectionItems))
	refMap := map[int]int{}

	for i, raw := range raw.ProjectionItems {
		expr, err := qp.BuildExpression(raw.Expression, sourceType)
		if err != nil {
			return nil, err
		}
		items[i] = LogicalProjectionItem{Alias: raw.Alias, Expression: expr}

		if expr.Kind == exprColumnRef {
			refMap[expr.ColumnRefIndex] = i
		}

		deduced, err := qp.DeduceExpressionType(expr, sourceType)
		if err != nil {
			return nil, err
		}
		types[i] = deduced
	}

	deps := make([][]int, len(items))
	for i := range items {
		deps[i] = nil
		if !isComplexType(types[i]) {
			continue
		}

		srcIdx, ok := leafColumnRef(items[i].Expression)
		if !ok {
			continue
		}

		for _, dep := range sourceType.Columns[srcIdx].Dependencies {
			newIdx, ok := refMap[dep]
			if !ok {
				return nil, ErrDependencyDropped
			}
			deps[i] = append(deps[i], newIdx)
		}
	}

	columns := make([]dbtype.Column, len(items))
	for i, item := range items {
		columns[i] = dbtype.Column{Name: item.Alias, Type: types[i], Dependencies: deps[i]}
	}

	finalType := dbtype.MessageType{Name: "", Columns: columns}

	return &LogicalPlan{
		Kind:            PlanProjection,
		ProjectionItems: items,
		Source:          source,
		MessageType:     finalType,
	}, nil
}

// DeduceExpressionType computes the result type of a type-checked
// Expression evaluated against rows of shape mt.
func (qp *QueryPlanner) DeduceExpressionType(e *Expression, mt dbtype.MessageType) (dbtype.DBType, error) {
	switch e.Kind {
	case exprLiteral:
		return qp.DeduceLiteralType(e.Literal)

	case exprColumnRef:
		return mt.Columns[e.ColumnRefIndex].Type, nil

	case exprBinaryOp:
		leftType, err := qp.DeduceExpressionType(e.BinaryLeft, mt)
		if err != nil {
			return dbtype.DBType{}, err
		}
		rightType, err := qp.DeduceExpressionType(e.BinaryRight, mt)
		if err != nil {
			return dbtype.DBType{}, err
		}
		return qp.DeduceBinaryOpType(e.BinaryOp, leftType, rightType)

	case exprUnaryOp:
		innerType, err := qp.DeduceExpressionType(e.UnaryExpr, mt)
		if err != nil {
			return dbtype.DBType{}, err
		}
		return qp.DeduceUnaryOpType(e.UnaryOp, innerType)
	}
	return dbtype.DBType{}, ErrWrongOperandTypes
}

// DeduceLiteralType resolves a literal's declared composite type name
// against the planner catalog and checks the literal structurally
// against that type; scalar kinds are self-describing.
func (qp *QueryPlanner) DeduceLiteralType(v dbtype.DBValue) (dbtype.DBType, error) {
	switch v.Kind {
	case dbtype.KindBool:
		return dbtype.Bool(), nil
	case dbtype.KindDouble:
		return dbtype.Double(), nil
	case dbtype.KindInt:
		return dbtype.Int(), nil
	case dbtype.KindUInt:
		return dbtype.UInt(), nil
	case dbtype.KindString:
		return dbtype.String(), nil
	case dbtype.KindMessage:
		mt, err := qp.Types.MessageType(*v.Message.TypeName)
		if err != nil {
			return dbtype.DBType{}, err
		}
		if !dbtype.MatchMessage(mt, *v.Message) {
			return dbtype.DBType{}, &MismatchedFieldTypesError{TypeName: mt.Name}
		}
		return dbtype.MessageTypeOf(mt), nil
	case dbtype.KindEnum:
		et, err := qp.Types.EnumType(*v.Enum.TypeName)
		if err != nil {
			return dbtype.DBType{}, err
		}
		if !dbtype.MatchEnum(et, *v.Enum) {
			return dbtype.DBType{}, &MismatchedFieldTypesError{TypeName: et.Name}
		}
		return dbtype.EnumTypeOf(et), nil
	}
	return dbtype.DBType{}, ErrWrongOperandTypes
}

// DeduceBinaryOpType implements the typing table: arithmetic operators
// require matching numeric operands and preserve their type;
// comparisons require matching numeric-or-string operands and always
// yield Bool (including LessThan/GreaterThan — not left_type);
// equality accepts any matching pair and yields Bool; And/Or require
// Bool on both sides.
func (qp *QueryPlanner) DeduceBinaryOpType(op BinaryOperator, left, right dbtype.DBType) (dbtype.DBType, error) {
	if !left.Equal(right) {
		return dbtype.DBType{}, ErrWrongOperandTypes
	}

	switch op {
	case Add, Subtract, Multiply, Divide:
		if left.Kind == dbtype.KindDouble || left.Kind == dbtype.KindUInt || left.Kind == dbtype.KindInt {
			return left, nil
		}
		return dbtype.DBType{}, ErrWrongOperandTypes

	case Equals, NotEquals:
		return dbtype.Bool(), nil

	case LessThan, GreaterThan:
		switch left.Kind {
		case dbtype.KindDouble, dbtype.KindUInt, dbtype.KindInt, dbtype.KindString:
			return dbtype.Bool(), nil
		}
		return dbtype.DBType{}, ErrWrongOperandTypes

	case And, Or:
		if left.Kind == dbtype.KindBool {
			return dbtype.Bool(), nil
		}
		return dbtype.DBType{}, ErrWrongOperandTypes
	}

	return dbtype.DBType{}, ErrWrongOperandTypes
}

// DeduceUnaryOpType implements Negate/Not/MessageField/EnumMatch
// typing.
func (qp *QueryPlanner) DeduceUnaryOpType(op UnaryOperator, t dbtype.DBType) (dbtype.DBType, error) {
	switch op.Kind {
	case unaryNegate:
		if t.Kind == dbtype.KindDouble || t.Kind == dbtype.KindInt {
			return t, nil
		}
		return dbtype.DBType{}, ErrWrongOperandTypes

	case unaryNot:
		if t.Kind == dbtype.KindBool {
			return dbtype.Bool(), nil
		}
		return dbtype.DBType{}, ErrWrongOperandTypes

	case unaryMessageField:
		if t.Kind != dbtype.KindMessage {
			return dbtype.DBType{}, ErrWrongOperandTypes
		}
		if op.MessageFieldIndex >= len(t.Message.Columns) {
			return dbtype.DBType{}, ErrWrongOperandTypes
		}
		return t.Message.Columns[op.MessageFieldIndex].Type, nil

	case unaryEnumMatch:
		if t.Kind != dbtype.KindEnum {
			return dbtype.DBType{}, ErrWrongOperandTypes
		}
		if len(op.EnumMatchArms) == 0 {
			return dbtype.DBType{}, ErrEmptyMatchCases
		}
		if len(op.EnumMatchArms) != len(t.Enum.Variants) {
			return dbtype.DBType{}, ErrIllFormedMatchStatement
		}

		types := make([]dbtype.DBType, len(op.EnumMatchArms))
		for i, arm := range op.EnumMatchArms {
			variantType := variantMessageType(t.Enum.Variants[i])
			deduced, err := qp.DeduceExpressionType(arm, variantType)
			if err != nil {
				return dbtype.DBType{}, err
			}
			types[i] = deduced
		}

		first := types[0]
		for _, dt := range types[1:] {
			if !dt.Equal(first) {
				return dbtype.DBType{}, ErrAmbiguousMatchType
			}
		}
		return first, nil
	}

	return dbtype.DBType{}, ErrWrongOperandTypes
}
