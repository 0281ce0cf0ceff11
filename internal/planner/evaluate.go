package planner

import "github.com/cuemby/dbuf/internal/dbtype"

// Evaluate computes an Expression's value against a row. Because
// BuildLogicalPlan type-checks every expression it places in a plan
// with DeduceExpressionType, it is well-typed: evaluation errors here would
// indicate a planner bug, not a user-facing condition, so the
// operator table panics on a type combination the planner should
// never have produced.
func Evaluate(e *Expression, row dbtype.Message) dbtype.DBValue {
	switch e.Kind {
	case exprLiteral:
		return e.Literal

	case exprColumnRef:
		return row.Fields[e.ColumnRefIndex]

	case exprBinaryOp:
		left := Evaluate(e.BinaryLeft, row)
		right := Evaluate(e.BinaryRight, row)
		return applyBinary(e.BinaryOp, left, right)

	case exprUnaryOp:
		inner := Evaluate(e.UnaryExpr, row)
		return applyUnary(e.UnaryOp, inner)
	}

	panic("planner: malformed expression")
}

func applyBinary(op BinaryOperator, left, right dbtype.DBValue) dbtype.DBValue {
	switch op {
	case Add:
		return applyNumeric(left, right, func(a, b float64) float64 { return a + b }, func(a, b int64) int64 { return a + b }, func(a, b uint64) uint64 { return a + b })
	case Subtract:
		return applyNumeric(left, right, func(a, b float64) float64 { return a - b }, func(a, b int64) int64 { return a - b }, func(a, b uint64) uint64 { return a - b })
	case Multiply:
		return applyNumeric(left, right, func(a, b float64) float64 { return a * b }, func(a, b int64) int64 { return a * b }, func(a, b uint64) uint64 { return a * b })
	case Divide:
		return applyNumeric(left, right, func(a, b float64) float64 { return a / b }, func(a, b int64) int64 { return a / b }, func(a, b uint64) uint64 { return a / b })

	case Equals:
		return dbtype.NewBool(left.Equal(right))
	case NotEquals:
		return dbtype.NewBool(!left.Equal(right))

	case LessThan:
		return applyOrdered(left, right, -1)
	case GreaterThan:
		return applyOrdered(left, right, 1)

	case And:
		return dbtype.NewBool(left.Bool && right.Bool)
	case Or:
		return dbtype.NewBool(left.Bool || right.Bool)
	}

	panic("planner: malformed binary operator")
}

func applyNumeric(left, right dbtype.DBValue, f64 func(a, b float64) float64, i64 func(a, b int64) int64, u64 func(a, b uint64) uint64) dbtype.DBValue {
	switch {
	case left.Kind == dbtype.KindDouble && right.Kind == dbtype.KindDouble:
		return dbtype.NewDouble(float32(f64(float64(left.Double), float64(right.Double))))
	case left.Kind == dbtype.KindInt && right.Kind == dbtype.KindInt:
		return dbtype.NewInt(int32(i64(int64(left.Int), int64(right.Int))))
	case left.Kind == dbtype.KindUInt && right.Kind == dbtype.KindUInt:
		return dbtype.NewUInt(uint32(u64(uint64(left.UInt), uint64(right.UInt))))
	}
	panic("planner: malformed arithmetic operands")
}

// applyOrdered evaluates a LessThan (want=-1) or GreaterThan (want=1)
// comparison over numeric or string operands.
func applyOrdered(left, right dbtype.DBValue, want int) dbtype.DBValue {
	var cmp int
	switch {
	case left.Kind == dbtype.KindDouble && right.Kind == dbtype.KindDouble:
		cmp = compareFloat(float64(left.Double), float64(right.Double))
	case left.Kind == dbtype.KindInt && right.Kind == dbtype.KindInt:
		cmp = compareInt(int64(left.Int), int64(right.Int))
	case left.Kind == dbtype.KindUInt && right.Kind == dbtype.KindUInt:
		cmp = compareUint(uint64(left.UInt), uint64(right.UInt))
	case left.Kind == dbtype.KindString && right.Kind == dbtype.KindString:
		cmp = compareString(left.Str, right.Str)
	default:
		panic("planner: malformed comparison operands")
	}
	return dbtype.NewBool(cmp == want)
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func applyUnary(op UnaryOperator, v dbtype.DBValue) dbtype.DBValue {
	switch op.Kind {
	case unaryNegate:
		if v.Kind == dbtype.KindDouble {
			return dbtype.NewDouble(-v.Double)
		}
		return dbtype.NewInt(-v.Int)

	case unaryNot:
		return dbtype.NewBool(!v.Bool)

	case unaryMessageField:
		return v.Message.Fields[op.MessageFieldIndex]

	case unaryEnumMatch:
		arm := op.EnumMatchArms[v.Enum.Choice]
		synthesized := dbtype.Message{Fields: v.Enum.Fields}
		return Evaluate(arm, synthesized)
	}

	panic("planner: malformed unary operator")
}
