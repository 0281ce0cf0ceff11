// Package executor builds and drives the pull-based physical operator
// tree a LogicalPlan lowers to: TableScan, Filter, Projection. Every
// operator is opened exactly once before the first pull and owns its
// children; the driver only ever touches the root.
package executor

import (
	"github.com/cuemby/dbuf/internal/catalog"
	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/objectstore"
	"github.com/cuemby/dbuf/internal/planner"
)

// PhysicalOperator is a finite, pull-based row source. Open must be
// called exactly once before the first Next call.
type PhysicalOperator interface {
	Open() error
	Next() (dbtype.Message, bool, error)
}

// TableScan yields every row currently stored in one table, in
// insertion order.
type TableScan struct {
	tables    *catalog.TableManager
	tableName string
	iter      *objectstore.MessageIterator
}

func NewTableScan(tables *catalog.TableManager, tableName string) *TableScan {
	return &TableScan{tables: tables, tableName: tableName}
}

func (ts *TableScan) Open() error {
	iter, err := ts.tables.Iter(ts.tableName)
	if err != nil {
		return err
	}
	ts.iter = iter
	return nil
}

func (ts *TableScan) Next() (dbtype.Message, bool, error) {
	return ts.iter.Next()
}

// Filter drains its source, discarding rows for which expr does not
// evaluate to Bool(true), and returns the first row that passes.
type Filter struct {
	expr   *planner.Expression
	source PhysicalOperator
}

func NewFilter(expr *planner.Expression, source PhysicalOperator) *Filter {
	return &Filter{expr: expr, source: source}
}

func (f *Filter) Open() error {
	return f.source.Open()
}

func (f *Filter) Next() (dbtype.Message, bool, error) {
	for {
		row, ok, err := f.source.Next()
		if err != nil || !ok {
			return dbtype.Message{}, false, err
		}

		result := planner.Evaluate(f.expr, row)
		if result.Kind == dbtype.KindBool && result.Bool {
			return row, true, nil
		}
	}
}

// Projection pulls one row from its source and returns a new row whose
// fields are each expression evaluated against it.
type Projection struct {
	expressions []*planner.Expression
	source      PhysicalOperator
}

func NewProjection(expressions []*planner.Expression, source PhysicalOperator) *Projection {
	return &Projection{expressions: expressions, source: source}
}

func (p *Projection) Open() error {
	return p.source.Open()
}

func (p *Projection) Next() (dbtype.Message, bool, error) {
	row, ok, err := p.source.Next()
	if err != nil || !ok {
		return dbtype.Message{}, false, err
	}

	fields := make([]dbtype.DBValue, len(p.expressions))
	for i, expr := range p.expressions {
		fields[i] = planner.Evaluate(expr, row)
	}
	return dbtype.Message{Fields: fields}, true, nil
}
