// Package filter builds the parameterized WHERE clause shared by the list,
// single-read, and count queries. Filters are composed from a small
// expression tree: trusted, server-defined expressions render to raw SQL
// text, while every user-supplied value travels as a bound parameter.
package filter

import (
	"fmt"
	"strings"
)

// Expr is a boolean SQL expression rendered to parameterized text.
type Expr interface {
	SQL() (string, []any)
}

type trueExpr struct{}

func (trueExpr) SQL() (string, []any) { return "true", nil }

// True is the vacuous expression an absent fragment degrades to.
func True() Expr { return trueExpr{} }

type cmpExpr struct {
	col string
	op  string
	val any
}

func (e cmpExpr) SQL() (string, []any) {
	return fmt.Sprintf("%s %s ?", e.col, e.op), []any{e.val}
}

// Eq matches a column against a bound literal.
func Eq(col string, val any) Expr { return cmpExpr{col: col, op: "=", val: val} }

type unaryExpr struct {
	col    string
	suffix string
}

func (e unaryExpr) SQL() (string, []any) { return e.col + " " + e.suffix, nil }

func IsNull(col string) Expr  { return unaryExpr{col: col, suffix: "is null"} }
func NotNull(col string) Expr { return unaryExpr{col: col, suffix: "is not null"} }
func IsTrue(col string) Expr  { return unaryExpr{col: col, suffix: "is true"} }

type notInExpr struct {
	col  string
	vals []any
}

func (e notInExpr) SQL() (string, []any) {
	return e.col + " not in ?", []any{e.vals}
}

// NotIn excludes rows whose column matches any of the bound values.
func NotIn(col string, vals []any) Expr { return notInExpr{col: col, vals: vals} }

type containsExpr struct {
	cols []string
	term string
}

func (e containsExpr) SQL() (string, []any) {
	return fmt.Sprintf("concat(%s) ilike ?", strings.Join(e.cols, ", ")), []any{"%" + e.term + "%"}
}

// Contains concatenates the given columns and performs a case-insensitive
// substring match against the bound term.
func Contains(cols []string, term string) Expr { return containsExpr{cols: cols, term: term} }

type boolExpr struct {
	op    string
	exprs []Expr
}

func (e boolExpr) SQL() (string, []any) {
	parts := make([]string, 0, len(e.exprs))
	var args []any
	for _, sub := range e.exprs {
		s, a := sub.SQL()
		parts = append(parts, "("+s+")")
		args = append(args, a...)
	}
	return strings.Join(parts, " "+e.op+" "), args
}

func And(exprs ...Expr) Expr { return boolExpr{op: "and", exprs: exprs} }
func Or(exprs ...Expr) Expr  { return boolExpr{op: "or", exprs: exprs} }

type rawExpr struct{ text string }

func (e rawExpr) SQL() (string, []any) { return e.text, nil }

// Raw wraps server-defined SQL text. It must never be constructed from user
// input; request-supplied raw filters go through parseRaw, which only admits
// boolean combinations of the entity's declared expressions.
func Raw(text string) Expr { return rawExpr{text: text} }
