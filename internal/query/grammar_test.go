package query

import "testing"

func TestParseCreateTable(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE people Person`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stmt.CreateTbl == nil || stmt.CreateTbl.Table != "people" || stmt.CreateTbl.Type != "Person" {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
}

func TestParseDropTable(t *testing.T) {
	stmt, err := Parse(`DROP TABLE people`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stmt.DropTbl == nil || stmt.DropTbl.Table != "people" {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
}

func TestParseFetchTypes(t *testing.T) {
	stmt, err := Parse(`FETCH TYPES "schema.dbuf"`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stmt.FetchTypes == nil || stmt.FetchTypes.Path != "schema.dbuf" {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
}

func TestParseInsert(t *testing.T) {
	stmt, err := Parse(`INSERT INTO people VALUES [Person{name: "Ann", age: 30}]`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stmt.Insert == nil || stmt.Insert.Table != "people" || len(stmt.Insert.Values) != 1 {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
	msg := stmt.Insert.Values[0].Message
	if msg == nil || msg.TypeName != "Person" || len(msg.Fields) != 2 {
		t.Fatalf("unexpected message literal: %+v", msg)
	}
}

func TestParseSelectWithWhere(t *testing.T) {
	stmt, err := Parse(`SELECT age AS a FROM people WHERE age > 18`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stmt.Select == nil || stmt.Select.Table != "people" {
		t.Fatalf("unexpected statement: %+v", stmt)
	}
	if len(stmt.Select.Fields) != 1 || stmt.Select.Fields[0].Alias != "a" {
		t.Fatalf("unexpected fields: %+v", stmt.Select.Fields)
	}
	if stmt.Select.Condition == nil {
		t.Fatalf("expected a WHERE condition")
	}
}

func TestParseSelectWithoutWhere(t *testing.T) {
	stmt, err := Parse(`SELECT name AS n FROM people`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if stmt.Select.Condition != nil {
		t.Fatalf("expected no WHERE condition")
	}
}

func TestReadStatementAccumulatesLines(t *testing.T) {
	lines := []string{"SELECT a AS x", "FROM t;"}
	i := 0
	next := func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		line := lines[i]
		i++
		return line, true
	}

	text, ok, err := ReadStatement(next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected a statement to be read")
	}
	if _, err := Parse(text); err != nil {
		t.Fatalf("accumulated text failed to parse: %v (%q)", err, text)
	}
}

func TestReadStatementRejectsEmbeddedSemicolon(t *testing.T) {
	lines := []string{"SELECT a; AS x FROM t;"}
	i := 0
	next := func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		line := lines[i]
		i++
		return line, true
	}

	if _, _, err := ReadStatement(next); err == nil {
		t.Fatalf("expected embedded semicolon to be rejected")
	}
}

func TestReadStatementEOFWithNoInput(t *testing.T) {
	next := func() (string, bool) { return "", false }

	_, ok, err := ReadStatement(next)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no statement on immediate EOF")
	}
}
