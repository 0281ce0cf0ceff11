package query

import (
	"testing"

	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/planner"
)

func TestTranslateInsert(t *testing.T) {
	stmt, err := Parse(`INSERT INTO people VALUES [Person{name: "Ann", age: 30}]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	cmd, err := Translate(stmt, nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if cmd.Kind != CommandInsert || cmd.TableName != "people" || len(cmd.InsertRows) != 1 {
		t.Fatalf("unexpected command: %+v", cmd)
	}

	row := cmd.InsertRows[0]
	if len(row.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %+v", row.Fields)
	}
	if !row.Fields[0].Equal(dbtype.NewString("Ann")) {
		t.Fatalf("unexpected first field: %+v", row.Fields[0])
	}
	if !row.Fields[1].Equal(dbtype.NewInt(30)) {
		t.Fatalf("unexpected second field: %+v", row.Fields[1])
	}
}

func TestTranslateSelectBuildsFilterAndProjection(t *testing.T) {
	stmt, err := Parse(`SELECT age AS a FROM people WHERE age > 18`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	cmd, err := Translate(stmt, nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if cmd.Kind != CommandSelect {
		t.Fatalf("expected a select command")
	}

	plan := cmd.SelectPlan
	if plan.Kind != planner.PlanProjection {
		t.Fatalf("expected outermost node to be a projection, got %v", plan.Kind)
	}
	if plan.Source.Kind != planner.PlanFilter {
		t.Fatalf("expected a filter beneath the projection, got %v", plan.Source.Kind)
	}
	if plan.Source.Source.Kind != planner.PlanScan {
		t.Fatalf("expected a scan beneath the filter, got %v", plan.Source.Source.Kind)
	}
}

func TestTranslateSelectWithoutWhereSkipsFilter(t *testing.T) {
	stmt, err := Parse(`SELECT name AS n FROM people`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	cmd, err := Translate(stmt, nil)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if cmd.SelectPlan.Source.Kind != planner.PlanScan {
		t.Fatalf("expected a bare scan beneath the projection, got %v", cmd.SelectPlan.Source.Kind)
	}
}
