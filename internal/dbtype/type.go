// Package dbtype implements dbuf's value model: primitive kinds,
// dependent-column message schemas, and dependent enum types, along
// with the structural type/value checking spec.md calls
// match_type_value.
//
// Go has no native sum type, so DBType and DBValue are modeled the
// way generated protobuf "oneof" code models them: a Kind
// discriminant plus the one payload field that kind uses. Every other
// field is the zero value and is ignored.
package dbtype

// Kind discriminates the cases of DBType and DBValue. The two enums
// share one set of tags because every DBType case has exactly one
// corresponding DBValue case.
type Kind uint8

const (
	KindBool Kind = iota
	KindDouble
	KindInt
	KindUInt
	KindString
	KindMessage
	KindEnum
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "Bool"
	case KindDouble:
		return "Double"
	case KindInt:
		return "Int"
	case KindUInt:
		return "UInt"
	case KindString:
		return "String"
	case KindMessage:
		return "Message"
	case KindEnum:
		return "Enum"
	default:
		return "Unknown"
	}
}

// DBType is one of {Bool, Double, Int, UInt, String, MessageType(T),
// EnumType(E)}. Message and Enum are only non-nil when Kind is
// KindMessage / KindEnum respectively.
type DBType struct {
	Kind    Kind
	Message *MessageType
	Enum    *EnumType
}

func Bool() DBType   { return DBType{Kind: KindBool} }
func Double() DBType { return DBType{Kind: KindDouble} }
func Int() DBType    { return DBType{Kind: KindInt} }
func UInt() DBType   { return DBType{Kind: KindUInt} }
func String() DBType { return DBType{Kind: KindString} }

func MessageTypeOf(mt MessageType) DBType {
	return DBType{Kind: KindMessage, Message: &mt}
}

func EnumTypeOf(et EnumType) DBType {
	return DBType{Kind: KindEnum, Enum: &et}
}

// Equal is structural equality over types: tags match and, for
// composite types, the nested schemas are themselves equal.
func (t DBType) Equal(other DBType) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KindMessage:
		return t.Message.Equal(*other.Message)
	case KindEnum:
		return t.Enum.Equal(*other.Enum)
	default:
		return true
	}
}

// Column is one field of a MessageType: a name, a declared type, and
// the indices (into the same MessageType, strictly less than the
// column's own index) of earlier columns whose runtime values
// parameterize this column's type.
type Column struct {
	Name         string
	Type         DBType
	Dependencies []int
}

func (c Column) Equal(other Column) bool {
	if c.Name != other.Name || len(c.Dependencies) != len(other.Dependencies) {
		return false
	}
	for i := range c.Dependencies {
		if c.Dependencies[i] != other.Dependencies[i] {
			return false
		}
	}
	return c.Type.Equal(other.Type)
}

// MessageType is a named, ordered schema of columns. Column names
// within one MessageType are unique and every dependency index is
// strictly less than the column's own index.
type MessageType struct {
	Name    string
	Columns []Column
}

func (mt MessageType) Equal(other MessageType) bool {
	if mt.Name != other.Name || len(mt.Columns) != len(other.Columns) {
		return false
	}
	for i := range mt.Columns {
		if !mt.Columns[i].Equal(other.Columns[i]) {
			return false
		}
	}
	return true
}

// ColumnIndex returns the index of the named column, if any.
func (mt MessageType) ColumnIndex(name string) (int, bool) {
	for i, c := range mt.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Validate checks the dependent-column invariant from spec.md §3:
// column names are unique and every dependency index is strictly less
// than the column's own index.
func (mt MessageType) Validate() error {
	seen := make(map[string]struct{}, len(mt.Columns))
	for i, c := range mt.Columns {
		if _, dup := seen[c.Name]; dup {
			return &DuplicateColumnError{MessageType: mt.Name, Column: c.Name}
		}
		seen[c.Name] = struct{}{}
		for _, dep := range c.Dependencies {
			if dep >= i {
				return &BadDependencyError{MessageType: mt.Name, Column: c.Name, Dependency: dep}
			}
		}
	}
	return nil
}

// NamedType is a (name, DBType) pair, used both for enum dependencies
// and for enum variant fields.
type NamedType struct {
	Name string
	Type DBType
}

// EnumVariantType is one variant of an EnumType: a name (unique within
// the enum) and an ordered list of typed fields.
type EnumVariantType struct {
	Name   string
	Fields []NamedType
}

func (v EnumVariantType) Equal(other EnumVariantType) bool {
	if v.Name != other.Name || len(v.Fields) != len(other.Fields) {
		return false
	}
	for i := range v.Fields {
		if v.Fields[i].Name != other.Fields[i].Name || !v.Fields[i].Type.Equal(other.Fields[i].Type) {
			return false
		}
	}
	return true
}

// MessageType synthesizes a MessageType whose columns are this
// variant's fields, in order, with no dependencies. The planner uses
// this to type-check an EnumMatch arm against the variant's fields as
// if they were ordinary columns.
func (v EnumVariantType) MessageType() MessageType {
	columns := make([]Column, len(v.Fields))
	for i, f := range v.Fields {
		columns[i] = Column{Name: f.Name, Type: f.Type}
	}
	return MessageType{Name: v.Name, Columns: columns}
}

// EnumType is a named tagged sum: an ordered list of dependencies that
// parameterize the overall shape, and an ordered list of variants.
type EnumType struct {
	Name         string
	Dependencies []NamedType
	Variants     []EnumVariantType
}

func (et EnumType) Equal(other EnumType) bool {
	if et.Name != other.Name || len(et.Dependencies) != len(other.Dependencies) || len(et.Variants) != len(other.Variants) {
		return false
	}
	for i := range et.Dependencies {
		if et.Dependencies[i].Name != other.Dependencies[i].Name || !et.Dependencies[i].Type.Equal(other.Dependencies[i].Type) {
			return false
		}
	}
	for i := range et.Variants {
		if !et.Variants[i].Equal(other.Variants[i]) {
			return false
		}
	}
	return true
}

// VariantIndex returns the index of the named variant, if any.
func (et EnumType) VariantIndex(name string) (int, bool) {
	for i, v := range et.Variants {
		if v.Name == name {
			return i, true
		}
	}
	return 0, false
}
