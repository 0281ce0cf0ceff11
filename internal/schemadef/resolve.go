package schemadef

import "github.com/cuemby/dbuf/internal/dbtype"

// FetchedType is one resolved declaration: exactly one of Message or
// Enum is non-nil.
type FetchedType struct {
	Message *dbtype.MessageType
	Enum    *dbtype.EnumType
}

func builtins() map[string]dbtype.DBType {
	return map[string]dbtype.DBType{
		"Bool":     dbtype.Bool(),
		"Int":      dbtype.Int(),
		"Unsigned": dbtype.UInt(),
		"Float":    dbtype.Double(),
		"String":   dbtype.String(),
	}
}

// Resolve walks a parsed File in declaration order, resolving each
// field's type name against scalar builtins and previously resolved
// declarations (forward references are not supported, matching the
// source grammar's single left-to-right pass), and validating a
// message declaration's dependency arguments against earlier field
// names within the same declaration. Type arguments inside an enum
// declaration are neither checked nor recorded.
func Resolve(file *File) ([]FetchedType, error) {
	typeCache := builtins()
	var out []FetchedType

	for _, def := range file.Definitions {
		if _, exists := typeCache[def.Name]; exists {
			return nil, &DuplicateTypeNameError{Name: def.Name}
		}

		if len(def.Variants) == 0 {
			mt, err := resolveMessage(def, typeCache)
			if err != nil {
				return nil, err
			}
			typeCache[def.Name] = dbtype.MessageTypeOf(mt)
			out = append(out, FetchedType{Message: &mt})
			continue
		}

		et, err := resolveEnum(def, typeCache)
		if err != nil {
			return nil, err
		}
		typeCache[def.Name] = dbtype.EnumTypeOf(et)
		out = append(out, FetchedType{Enum: &et})
	}

	return out, nil
}

// resolveMessage turns a declaration's field list into MessageType
// columns, resolving each field's dependency arguments to the indices
// of earlier fields in the same declaration.
func resolveMessage(def *Definition, typeCache map[string]dbtype.DBType) (dbtype.MessageType, error) {
	mt := dbtype.MessageType{Name: def.Name}
	indices := map[string]int{}

	for i, field := range def.Fields {
		if _, dup := indices[field.Name]; dup {
			return dbtype.MessageType{}, &DuplicateFieldError{Field: field.Name}
		}

		fieldType, ok := typeCache[field.Type.Name]
		if !ok {
			return dbtype.MessageType{}, &UnknownTypeError{Name: field.Type.Name}
		}

		deps := make([]int, 0, len(field.Type.Args))
		for _, arg := range field.Type.Args {
			idx, ok := indices[arg]
			if !ok {
				return dbtype.MessageType{}, &FieldNotFoundError{Field: arg}
			}
			deps = append(deps, idx)
		}

		mt.Columns = append(mt.Columns, dbtype.Column{
			Name:         field.Name,
			Type:         fieldType,
			Dependencies: deps,
		})
		indices[field.Name] = i
	}

	return mt, nil
}

// resolveEnum turns a declaration's pre-"|" field list into the
// EnumType's dependencies, and its variants into EnumVariantTypes: a
// variant declared with a type carries a single payload field named
// "value", one declared without a type carries no fields.
func resolveEnum(def *Definition, typeCache map[string]dbtype.DBType) (dbtype.EnumType, error) {
	et := dbtype.EnumType{Name: def.Name}

	depNames := map[string]struct{}{}
	for _, field := range def.Fields {
		if _, dup := depNames[field.Name]; dup {
			return dbtype.EnumType{}, &DuplicateFieldError{Field: field.Name}
		}
		depNames[field.Name] = struct{}{}

		depType, ok := typeCache[field.Type.Name]
		if !ok {
			return dbtype.EnumType{}, &UnknownTypeError{Name: field.Type.Name}
		}
		et.Dependencies = append(et.Dependencies, dbtype.NamedType{Name: field.Name, Type: depType})
	}

	variantNames := map[string]struct{}{}
	for _, variant := range def.Variants {
		if _, dup := variantNames[variant.Name]; dup {
			return dbtype.EnumType{}, &DuplicateFieldError{Field: variant.Name}
		}
		variantNames[variant.Name] = struct{}{}

		vt := dbtype.EnumVariantType{Name: variant.Name}
		if variant.Type != nil {
			fieldType, ok := typeCache[variant.Type.Name]
			if !ok {
				return dbtype.EnumType{}, &UnknownTypeError{Name: variant.Type.Name}
			}
			vt.Fields = []dbtype.NamedType{{Name: "value", Type: fieldType}}
		}
		et.Variants = append(et.Variants, vt)
	}

	return et, nil
}
