package catalog

import (
	"fmt"

	"github.com/cuemby/dbuf/internal/codec"
	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/storage"
)

// plannerCatalogState is the persisted shape of the planner catalog.
type plannerCatalogState struct {
	MessageTypes map[string]dbtype.MessageType
	EnumTypes    map[string]dbtype.EnumType
}

// PlannerCatalog is the registry of named type definitions the query
// planner resolves table schemas and literal constructors against. It
// is independent of TableManager: a type may be registered and never
// backed by any table.
type PlannerCatalog struct {
	state plannerCatalogState
	st    *storage.Storage
}

// OpenPlannerCatalog loads (or initializes) the planner catalog from
// st.
func OpenPlannerCatalog(st *storage.Storage) (*PlannerCatalog, error) {
	pc := &PlannerCatalog{st: st}

	raw, err := st.ReadRaw(storage.PlannerStateIndex)
	if _, notFound := err.(*storage.PageNotFoundError); notFound {
		pc.state = plannerCatalogState{
			MessageTypes: map[string]dbtype.MessageType{},
			EnumTypes:    map[string]dbtype.EnumType{},
		}
		return pc, pc.save()
	}
	if err != nil {
		return nil, err
	}

	var state plannerCatalogState
	if err := codec.Decode(raw, &state); err != nil {
		return nil, fmt.Errorf("decode planner catalog: %w", err)
	}
	if state.MessageTypes == nil {
		state.MessageTypes = map[string]dbtype.MessageType{}
	}
	if state.EnumTypes == nil {
		state.EnumTypes = map[string]dbtype.EnumType{}
	}
	pc.state = state
	return pc, nil
}

func (pc *PlannerCatalog) save() error {
	encoded, err := codec.Encode(pc.state)
	if err != nil {
		return fmt.Errorf("encode planner catalog: %w", err)
	}
	return pc.st.WriteRaw(storage.PlannerStateIndex, encoded)
}

// RegisterMessageType adds mt under its own Name. Fails with
// DuplicateMessageTypeError if already registered.
func (pc *PlannerCatalog) RegisterMessageType(mt dbtype.MessageType) error {
	if _, ok := pc.state.MessageTypes[mt.Name]; ok {
		return &DuplicateMessageTypeError{Name: mt.Name}
	}
	pc.state.MessageTypes[mt.Name] = mt
	return pc.save()
}

// RegisterEnumType adds et under its own Name. Fails with
// DuplicateEnumTypeError if already registered.
func (pc *PlannerCatalog) RegisterEnumType(et dbtype.EnumType) error {
	if _, ok := pc.state.EnumTypes[et.Name]; ok {
		return &DuplicateEnumTypeError{Name: et.Name}
	}
	pc.state.EnumTypes[et.Name] = et
	return pc.save()
}

// MessageType looks up a registered MessageType by name.
func (pc *PlannerCatalog) MessageType(name string) (dbtype.MessageType, error) {
	mt, ok := pc.state.MessageTypes[name]
	if !ok {
		return dbtype.MessageType{}, &UnknownMessageTypeError{Name: name}
	}
	return mt, nil
}

// EnumType looks up a registered EnumType by name.
func (pc *PlannerCatalog) EnumType(name string) (dbtype.EnumType, error) {
	et, ok := pc.state.EnumTypes[name]
	if !ok {
		return dbtype.EnumType{}, &UnknownEnumTypeError{Name: name}
	}
	return et, nil
}
