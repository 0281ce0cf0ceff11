// Package engine wires storage, catalog, planner, and executor into
// the single open/close unit cmd/dbuf drives, mirroring the original
// driver's Executor struct that held a query_planner plus the catalogs
// it closed over.
package engine

import (
	"fmt"
	"os"

	"github.com/cuemby/dbuf/internal/blobstore"
	"github.com/cuemby/dbuf/internal/bufferpool"
	"github.com/cuemby/dbuf/internal/catalog"
	"github.com/cuemby/dbuf/internal/config"
	"github.com/cuemby/dbuf/internal/dbtype"
	"github.com/cuemby/dbuf/internal/executor"
	"github.com/cuemby/dbuf/internal/pagedstorage"
	"github.com/cuemby/dbuf/internal/planner"
	"github.com/cuemby/dbuf/internal/query"
	"github.com/cuemby/dbuf/internal/schemadef"
	"github.com/cuemby/dbuf/internal/storage"
	"github.com/cuemby/dbuf/pkg/log"
)

// Engine is an open database: every layer from the blob store up to
// the query planner, ready to execute Commands.
type Engine struct {
	blobs  blobstore.Store
	paged  *pagedstorage.PagedStorage
	Tables *catalog.TableManager
	Types  *catalog.PlannerCatalog
	Plan   *planner.QueryPlanner
}

// Open opens (or creates) an engine rooted at cfg.
func Open(cfg config.Config) (*Engine, error) {
	blobs, err := blobstore.Open(cfg.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	st, err := storage.Open(blobs, cfg.PageSize)
	if err != nil {
		_ = blobs.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	pool := bufferpool.NewBufferPool(st, cfg.BufferCapacity)
	paged := pagedstorage.New(pool)

	tables, err := catalog.OpenTableManager(paged)
	if err != nil {
		_ = blobs.Close()
		return nil, fmt.Errorf("open table catalog: %w", err)
	}

	types, err := catalog.OpenPlannerCatalog(st)
	if err != nil {
		_ = blobs.Close()
		return nil, fmt.Errorf("open planner catalog: %w", err)
	}

	return &Engine{
		blobs:  blobs,
		paged:  paged,
		Tables: tables,
		Types:  types,
		Plan:   planner.New(tables, types),
	}, nil
}

// Close flushes pending pages and releases the underlying blob store.
func (e *Engine) Close() error {
	if err := e.paged.Flush(); err != nil {
		return err
	}
	return e.blobs.Close()
}

// Execute runs one translated Command, writing any Select results as
// formatted rows to out.
func (e *Engine) Execute(cmd *query.Command, out func(string)) error {
	switch cmd.Kind {
	case query.CommandFetchTypes:
		return e.fetchTypes(cmd.FetchTypesPath)

	case query.CommandCreateTable:
		mt, err := e.Types.MessageType(cmd.TypeName)
		if err != nil {
			return err
		}
		return e.Tables.CreateTable(cmd.TableName, mt)

	case query.CommandDropTable:
		return e.Tables.DropTable(cmd.TableName)

	case query.CommandInsert:
		return e.Tables.InsertMessages(cmd.TableName, cmd.InsertRows)

	case query.CommandSelect:
		return e.execSelect(cmd, out)
	}

	panic("engine: malformed command")
}

func (e *Engine) fetchTypes(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read schema file: %w", err)
	}

	file, err := schemadef.Parse(string(data))
	if err != nil {
		return fmt.Errorf("parse schema file: %w", err)
	}

	fetched, err := schemadef.Resolve(file)
	if err != nil {
		return fmt.Errorf("resolve schema file: %w", err)
	}

	logger := log.WithComponent("fetch-types")
	for _, ft := range fetched {
		switch {
		case ft.Message != nil:
			if err := e.Types.RegisterMessageType(*ft.Message); err != nil {
				logger.Warn().Err(err).Str("type", ft.Message.Name).Msg("skipped type registration")
			}
		case ft.Enum != nil:
			if err := e.Types.RegisterEnumType(*ft.Enum); err != nil {
				logger.Warn().Err(err).Str("type", ft.Enum.Name).Msg("skipped type registration")
			}
		}
	}
	return nil
}

func (e *Engine) execSelect(cmd *query.Command, out func(string)) error {
	lp, err := e.Plan.BuildLogicalPlan(cmd.SelectPlan)
	if err != nil {
		return err
	}

	phys, err := executor.Build(lp, e.Tables)
	if err != nil {
		return err
	}
	if err := phys.Open(); err != nil {
		return err
	}

	for {
		row, ok, err := phys.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		out(FormatMessage(row))
	}
}

// FormatMessage renders a row as a flat, comma-separated list of its
// field values.
func FormatMessage(m dbtype.Message) string {
	parts := make([]string, len(m.Fields))
	for i, v := range m.Fields {
		parts[i] = FormatValue(v)
	}
	return "(" + joinStrings(parts, ", ") + ")"
}

// FormatValue renders a single value, recursing into Message/Enum
// payloads.
func FormatValue(v dbtype.DBValue) string {
	switch v.Kind {
	case dbtype.KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case dbtype.KindDouble:
		return fmt.Sprintf("%g", v.Double)
	case dbtype.KindInt:
		return fmt.Sprintf("%d", v.Int)
	case dbtype.KindUInt:
		return fmt.Sprintf("%d", v.UInt)
	case dbtype.KindString:
		return fmt.Sprintf("%q", v.Str)
	case dbtype.KindMessage:
		return FormatMessage(*v.Message)
	case dbtype.KindEnum:
		parts := make([]string, len(v.Enum.Fields))
		for i, f := range v.Enum.Fields {
			parts[i] = FormatValue(f)
		}
		return fmt.Sprintf("#%d(%s)", v.Enum.Choice, joinStrings(parts, ", "))
	default:
		return "?"
	}
}

func joinStrings(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}
