// Package entity declares the per-entity configuration consumed by the
// generic CRUD pipeline: table layout, joins, select shape, default
// ordering/filtering, the column and raw-expression whitelists, and the
// payload schema.
package entity

import (
	"encoding/json"

	"github.com/hkennandya-dev/morning-glory-test-go/internal/filter"
)

// Join is a trusted, server-defined left join applied to both the data and
// the count query.
type Join struct {
	Table string
	On    string
}

// Schema validates and coerces request payloads into column maps ready for
// the store. ValidateCreate emits a consistent column set (optional fields
// included as nulls/defaults) so bulk inserts share one statement.
// ValidateUpdate emits only the fields present in the payload.
type Schema interface {
	ValidateCreate(raw json.RawMessage) (map[string]any, error)
	ValidateUpdate(raw json.RawMessage) (map[string]any, error)
}

// Definition configures one entity for the generic handlers.
//
// Table is the driving table for reads; WriteTable is the table mutations
// target (they differ for stock, whose listing drives from item).
type Definition struct {
	Name       string
	BasePath   string
	Table      string
	WriteTable string
	IDColumn   string
	Select     string
	Joins      []Join

	DefaultOrderBy   string
	DefaultOrderType string

	// Columns lists every column reference addressable through order_by,
	// search_key, equal_key, and notin_key.
	Columns []string

	// OrderExprs lists additional trusted sort expressions accepted by
	// order_by beyond plain columns (coalesce over audit timestamps).
	OrderExprs []string

	// RawExprs is the trusted whitelist a request's raw_query may combine;
	// DefaultRaw applies when no override is sent; Static is always ANDed.
	RawExprs   []filter.Expr
	DefaultRaw filter.Expr
	Static     filter.Expr

	Schema Schema
}

// Rules projects the definition into what the filter assembler needs.
func (d Definition) Rules() filter.Rules {
	return filter.Rules{
		Columns:    d.Columns,
		RawExprs:   d.RawExprs,
		DefaultRaw: d.DefaultRaw,
		Static:     d.Static,
		IDColumn:   d.IDColumn,
	}
}
