package datatable

import "strings"

// BuildRawFilter composes the raw_query parameter from the filter options the
// user selected. OR-operator options form one parenthesized group, AND-operator
// options another; both groups join their members with "or" and the groups are
// ANDed together. An empty AND group degrades to emptyQuery ("false" when
// blank) so a table with filters but nothing selected shows no rows rather
// than everything.
func BuildRawFilter(options []FilterOption, selected []string, emptyQuery string) string {
	chosen := func(op FilterOperator) []string {
		var vals []string
		for _, opt := range options {
			if opt.Operator != op {
				continue
			}
			for _, sel := range selected {
				if opt.Value == sel {
					vals = append(vals, opt.Value)
					break
				}
			}
		}
		return vals
	}

	var b strings.Builder
	if or := chosen(FilterOr); len(or) > 0 {
		b.WriteString("(" + strings.Join(or, " or ") + ") and ")
	}
	if and := chosen(FilterAnd); len(and) > 0 {
		b.WriteString("(" + strings.Join(and, " or ") + ")")
	} else {
		if emptyQuery == "" {
			emptyQuery = "false"
		}
		b.WriteString(emptyQuery)
	}
	return b.String()
}
