package dbtype

// MatchType implements match_type_value from spec.md §3: true iff tags
// match and, for composite values, every nested field recursively
// matches the corresponding declared type.
func MatchType(t DBType, v DBValue) bool {
	if t.Kind != v.Kind {
		return false
	}
	switch t.Kind {
	case KindMessage:
		return v.Message != nil && MatchMessage(*t.Message, *v.Message)
	case KindEnum:
		return v.Enum != nil && MatchEnum(*t.Enum, *v.Enum)
	default:
		return true
	}
}

// MatchMessage checks a Message against a MessageType: same arity, and
// every field matches its column's declared type.
func MatchMessage(mt MessageType, m Message) bool {
	if len(mt.Columns) != len(m.Fields) {
		return false
	}
	for i, col := range mt.Columns {
		if !MatchType(col.Type, m.Fields[i]) {
			return false
		}
	}
	return true
}

// MatchEnum checks an EnumValue against an EnumType: dependencies
// match element-wise, choice is in range, and the variant payload
// matches the chosen variant's fields.
func MatchEnum(et EnumType, e EnumValue) bool {
	if len(et.Dependencies) != len(e.Dependencies) {
		return false
	}
	for i, dep := range et.Dependencies {
		if !MatchType(dep.Type, e.Dependencies[i]) {
			return false
		}
	}

	if e.Choice < 0 || e.Choice >= len(et.Variants) {
		return false
	}

	variant := et.Variants[e.Choice]
	if len(variant.Fields) != len(e.Fields) {
		return false
	}
	for i, field := range variant.Fields {
		if !MatchType(field.Type, e.Fields[i]) {
			return false
		}
	}
	return true
}
