package dbtype

// DBValue is the tagged sum of runtime values: Bool, Double, Int,
// UInt, String, Message, EnumValue. Message and Enum are only
// non-nil when Kind is KindMessage / KindEnum respectively.
type DBValue struct {
	Kind    Kind
	Bool    bool
	Double  float32
	Int     int32
	UInt    uint32
	Str     string
	Message *Message
	Enum    *EnumValue
}

func NewBool(v bool) DBValue     { return DBValue{Kind: KindBool, Bool: v} }
func NewDouble(v float32) DBValue { return DBValue{Kind: KindDouble, Double: v} }
func NewInt(v int32) DBValue     { return DBValue{Kind: KindInt, Int: v} }
func NewUInt(v uint32) DBValue   { return DBValue{Kind: KindUInt, UInt: v} }
func NewString(v string) DBValue { return DBValue{Kind: KindString, Str: v} }

func NewMessage(m Message) DBValue {
	return DBValue{Kind: KindMessage, Message: &m}
}

func NewEnumValue(e EnumValue) DBValue {
	return DBValue{Kind: KindEnum, Enum: &e}
}

// Equal is structural equality: tags match and, for composite values,
// every nested field recursively matches. Strings compare by byte
// value, which Go's == already does for the string type.
func (v DBValue) Equal(other DBValue) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindBool:
		return v.Bool == other.Bool
	case KindDouble:
		return v.Double == other.Double
	case KindInt:
		return v.Int == other.Int
	case KindUInt:
		return v.UInt == other.UInt
	case KindString:
		return v.Str == other.Str
	case KindMessage:
		return v.Message.Equal(*other.Message)
	case KindEnum:
		return v.Enum.Equal(*other.Enum)
	default:
		return false
	}
}

// Message is an ordered tuple of DBValues, the unit of insertion and
// iteration. TypeName is populated only for literal messages built by
// the planner from the surface language; stored rows omit it.
type Message struct {
	TypeName *string
	Fields   []DBValue
}

func (m Message) Equal(other Message) bool {
	if len(m.Fields) != len(other.Fields) {
		return false
	}
	for i := range m.Fields {
		if !m.Fields[i].Equal(other.Fields[i]) {
			return false
		}
	}
	return true
}

// EnumValue carries the dependency values, the chosen variant index,
// and the chosen variant's field values.
type EnumValue struct {
	TypeName     *string
	Dependencies []DBValue
	Choice       int
	Fields       []DBValue
}

func (e EnumValue) Equal(other EnumValue) bool {
	if e.Choice != other.Choice || len(e.Dependencies) != len(other.Dependencies) || len(e.Fields) != len(other.Fields) {
		return false
	}
	for i := range e.Dependencies {
		if !e.Dependencies[i].Equal(other.Dependencies[i]) {
			return false
		}
	}
	for i := range e.Fields {
		if !e.Fields[i].Equal(other.Fields[i]) {
			return false
		}
	}
	return true
}
