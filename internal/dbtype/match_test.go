package dbtype

import "testing"

func sampleMessageType() MessageType {
	return MessageType{
		Name: "First",
		Columns: []Column{
			{Name: "First", Type: UInt()},
			{Name: "Second", Type: Bool()},
			{Name: "Third", Type: String()},
		},
	}
}

func TestMatchMessageAccepts(t *testing.T) {
	mt := sampleMessageType()
	m := Message{Fields: []DBValue{NewUInt(15), NewBool(true), NewString("hello")}}

	if !MatchMessage(mt, m) {
		t.Fatalf("expected message to match schema")
	}
}

func TestMatchMessageRejectsWrongFieldType(t *testing.T) {
	mt := sampleMessageType()
	m := Message{Fields: []DBValue{NewUInt(15), NewInt(1), NewString("hello")}}

	if MatchMessage(mt, m) {
		t.Fatalf("expected field-type mismatch to be rejected")
	}
}

func TestMatchMessageRejectsWrongArity(t *testing.T) {
	mt := sampleMessageType()
	m := Message{Fields: []DBValue{NewUInt(15)}}

	if MatchMessage(mt, m) {
		t.Fatalf("expected arity mismatch to be rejected")
	}
}

func TestValidateRejectsDuplicateColumnNames(t *testing.T) {
	mt := MessageType{
		Name: "Bad",
		Columns: []Column{
			{Name: "A", Type: Bool()},
			{Name: "A", Type: Int()},
		},
	}

	if err := mt.Validate(); err == nil {
		t.Fatalf("expected duplicate column name to be rejected")
	}
}

func TestValidateRejectsForwardDependency(t *testing.T) {
	mt := MessageType{
		Name: "Bad",
		Columns: []Column{
			{Name: "A", Type: Bool(), Dependencies: []int{1}},
			{Name: "B", Type: Int()},
		},
	}

	if err := mt.Validate(); err == nil {
		t.Fatalf("expected forward dependency to be rejected")
	}
}

func TestMatchEnum(t *testing.T) {
	et := EnumType{
		Name: "Maybe",
		Variants: []EnumVariantType{
			{Name: "None"},
			{Name: "Some", Fields: []NamedType{{Name: "value", Type: Int()}}},
		},
	}

	some := EnumValue{Choice: 1, Fields: []DBValue{NewInt(7)}}
	if !MatchEnum(et, some) {
		t.Fatalf("expected Some(7) to match")
	}

	none := EnumValue{Choice: 0}
	if !MatchEnum(et, none) {
		t.Fatalf("expected None to match")
	}

	outOfRange := EnumValue{Choice: 2}
	if MatchEnum(et, outOfRange) {
		t.Fatalf("expected out-of-range choice to be rejected")
	}
}

func TestDBValueEquality(t *testing.T) {
	a := NewMessage(Message{Fields: []DBValue{NewUInt(1), NewString("x")}})
	b := NewMessage(Message{Fields: []DBValue{NewUInt(1), NewString("x")}})
	c := NewMessage(Message{Fields: []DBValue{NewUInt(2), NewString("x")}})

	if !a.Equal(b) {
		t.Fatalf("expected structurally identical messages to be equal")
	}
	if a.Equal(c) {
		t.Fatalf("expected differing messages to be unequal")
	}
}
