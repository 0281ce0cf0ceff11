package planner

import "github.com/cuemby/dbuf/internal/dbtype"

// PlanKind discriminates RawPlan/LogicalPlan's cases.
type PlanKind uint8

const (
	PlanScan PlanKind = iota
	PlanFilter
	PlanProjection
)

// ProjectionItem names one output column of a Projection by alias and
// defining expression.
type ProjectionItem struct {
	Alias      string
	Expression RawExpression
}

// RawPlan is a name-resolved, type-unchecked query plan: the shape the
// query grammar parses into.
type RawPlan struct {
	Kind PlanKind

	TableName string

	FilterExpr RawExpression

	ProjectionItems []ProjectionItem

	Source *RawPlan
}

func ScanPlan(table string) RawPlan {
	return RawPlan{Kind: PlanScan, TableName: table}
}

func FilterPlan(expr RawExpression, source RawPlan) RawPlan {
	return RawPlan{Kind: PlanFilter, FilterExpr: expr, Source: &source}
}

func ProjectionPlan(items []ProjectionItem, source RawPlan) RawPlan {
	return RawPlan{Kind: PlanProjection, ProjectionItems: items, Source: &source}
}

// LogicalProjectionItem is a Projection's alias paired with its
// type-checked expression.
type LogicalProjectionItem struct {
	Alias      string
	Expression *Expression
}

// LogicalPlan mirrors RawPlan but every node carries a resolved
// MessageType describing its output rows.
type LogicalPlan struct {
	Kind PlanKind

	TableName string

	FilterExpr *Expression

	ProjectionItems []LogicalProjectionItem

	Source *LogicalPlan

	MessageType dbtype.MessageType
}

// OutputType returns the schema of rows this plan node produces.
func (lp *LogicalPlan) OutputType() dbtype.MessageType {
	return lp.MessageType
}
