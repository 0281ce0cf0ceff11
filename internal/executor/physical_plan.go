package executor

import (
	"github.com/cuemby/dbuf/internal/catalog"
	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/planner"
)

// PhysicalPlan wraps a root operator so the driver can Open once and
// then pull rows without knowing the tree's shape.
type PhysicalPlan struct {
	root PhysicalOperator
}

// Build lowers a type-checked LogicalPlan into its physical operator
// tree, structurally: Scan becomes TableScan, Filter and Projection
// wrap their already-lowered source.
func Build(lp *planner.LogicalPlan, tables *catalog.TableManager) (*PhysicalPlan, error) {
	root, err := build(lp, tables)
	if err != nil {
		return nil, err
	}
	return &PhysicalPlan{root: root}, nil
}

func build(lp *planner.LogicalPlan, tables *catalog.TableManager) (PhysicalOperator, error) {
	switch lp.Kind {
	case planner.PlanScan:
		return NewTableScan(tables, lp.TableName), nil

	case planner.PlanFilter:
		source, err := build(lp.Source, tables)
		if err != nil {
			return nil, err
		}
		return NewFilter(lp.FilterExpr, source), nil

	case planner.PlanProjection:
		source, err := build(lp.Source, tables)
		if err != nil {
			return nil, err
		}
		expressions := make([]*planner.Expression, len(lp.ProjectionItems))
		for i, item := range lp.ProjectionItems {
			expressions[i] = item.Expression
		}
		return NewProjection(expressions, source), nil
	}

	panic("executor: malformed logical plan")
}

// Open materializes resources across the whole tree; must be called
// exactly once before the first Next.
func (p *PhysicalPlan) Open() error {
	return p.root.Open()
}

// Next pulls the next output row, or ok=false once the plan is
// exhausted.
func (p *PhysicalPlan) Next() (dbtype.Message, bool, error) {
	return p.root.Next()
}

// OutputSchema returns the schema of the rows a plan produces: the
// projected columns for a Projection, and the underlying table's own
// schema for a bare Scan/Filter.
func OutputSchema(lp *planner.LogicalPlan) dbtype.MessageType {
	return lp.OutputType()
}
