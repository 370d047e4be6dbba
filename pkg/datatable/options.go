// Package datatable is a programmatic client for the admin listing
// endpoints. It mirrors the server's query surface: search over a
// configured column list, sort options, trusted filter expressions
// combined into raw_query, and infinite paging driven by the
// pagination envelope.
package datatable

// FilterOperator decides which boolean group a filter option joins.
type FilterOperator string

const (
	FilterOr  FilterOperator = "OR"
	FilterAnd FilterOperator = "AND"
)

// FilterOption is one selectable filter. Value must be an expression the
// server's entity whitelist admits; anything else is rejected with a 400.
type FilterOption struct {
	Label    string
	Value    string
	Operator FilterOperator
	Default  bool
}

// OrderOption is one selectable sort, stored as the query-string fragment
// it contributes ("order_by=...&order_type=...").
type OrderOption struct {
	Label   string
	Tooltip string
	Value   string
	Default bool
}

// PageSize is one selectable page size.
type PageSize struct {
	Label   string
	Value   int
	Default bool
}

// Options configures the controller for one entity.
type Options struct {
	QueryKey  string // cache key prefix, one per entity
	BasePath  string // listing endpoint, e.g. /api/item
	SearchKey string // comma-separated columns the search term matches
	Paginate  []PageSize
	OrderBy   []OrderOption
	Filter    []FilterOption // nil disables raw_query entirely
}

// DefaultPageSize returns the configured default page size, or 100 when the
// options carry none.
func (o Options) DefaultPageSize() int {
	for _, p := range o.Paginate {
		if p.Default {
			return p.Value
		}
	}
	return 100
}

// DefaultOrder returns the default sort fragment, falling back to the first
// option that carries a value.
func (o Options) DefaultOrder() string {
	for _, ord := range o.OrderBy {
		if ord.Default {
			return ord.Value
		}
	}
	for _, ord := range o.OrderBy {
		if ord.Value != "" {
			return ord.Value
		}
	}
	return ""
}

// DefaultFilter returns the values of the filter options selected by default.
func (o Options) DefaultFilter() []string {
	var selected []string
	for _, f := range o.Filter {
		if f.Default && f.Value != "" {
			selected = append(selected, f.Value)
		}
	}
	return selected
}
