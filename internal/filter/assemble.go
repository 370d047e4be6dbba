package filter

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalid marks filter input the caller can fix: an unknown column
// reference or a raw expression outside the entity's whitelist. Handlers map
// it to a 400 response.
var ErrInvalid = errors.New("invalid filter")

// Params carries the optional request fragments. Every absent fragment
// degrades to a vacuously true expression so callers can omit any filter
// without affecting the others.
type Params struct {
	ID          *int64
	SearchKey   string // comma-separated column references
	SearchValue string
	EqualKey    string
	EqualValue  string
	NotInKey    string
	NotInValue  string // comma-separated value list
	RawQuery    string // overrides the default raw filter entirely when present
}

// Rules is the per-entity configuration the assembler needs: the addressable
// column references, the trusted raw expressions a request may combine, the
// default raw filter, the always-applied static filter, and the identifier
// column.
type Rules struct {
	Columns    []string
	RawExprs   []Expr
	DefaultRaw Expr
	Static     Expr
	IDColumn   string
}

// Assemble combines the request fragments with the entity rules into a
// single parameterized WHERE clause. Fragments are ANDed in the same order
// the original queries apply them: search, equality, not-in, raw override or
// default, static filter, id lookup.
func Assemble(p Params, r Rules) (string, []any, error) {
	allowed := make(map[string]bool, len(r.Columns))
	for _, c := range r.Columns {
		allowed[c] = true
	}

	search := True()
	if p.SearchKey != "" && p.SearchValue != "" {
		var cols []string
		for _, c := range strings.Split(p.SearchKey, ",") {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			if !allowed[c] {
				return "", nil, fmt.Errorf("%w: unknown search column %q", ErrInvalid, c)
			}
			cols = append(cols, c)
		}
		if len(cols) > 0 {
			search = Contains(cols, p.SearchValue)
		}
	}

	equal := True()
	if p.EqualKey != "" && p.EqualValue != "" {
		if !allowed[p.EqualKey] {
			return "", nil, fmt.Errorf("%w: unknown column %q", ErrInvalid, p.EqualKey)
		}
		equal = Eq(p.EqualKey, p.EqualValue)
	}

	notIn := True()
	if p.NotInKey != "" && p.NotInValue != "" {
		if !allowed[p.NotInKey] {
			return "", nil, fmt.Errorf("%w: unknown column %q", ErrInvalid, p.NotInKey)
		}
		var vals []any
		for _, v := range strings.Split(p.NotInValue, ",") {
			if v = strings.TrimSpace(v); v != "" {
				vals = append(vals, v)
			}
		}
		if len(vals) > 0 {
			notIn = NotIn(p.NotInKey, vals)
		}
	}

	raw := r.DefaultRaw
	if raw == nil {
		raw = True()
	}
	if p.RawQuery != "" {
		parsed, err := parseRaw(p.RawQuery, r.RawExprs)
		if err != nil {
			return "", nil, err
		}
		raw = parsed
	}

	static := r.Static
	if static == nil {
		static = True()
	}

	id := True()
	if p.ID != nil {
		id = Eq(r.IDColumn, *p.ID)
	}

	sql, args := And(search, equal, notIn, raw, static, id).SQL()
	return sql, args, nil
}

// parseRaw admits a caller-supplied raw filter only when it is a boolean
// combination (and/or/parentheses) of the entity's declared expressions.
// Anything else is rejected before it can reach the database.
func parseRaw(s string, allowed []Expr) (Expr, error) {
	if len(allowed) == 0 {
		return nil, fmt.Errorf("%w: raw filters are not enabled for this entity", ErrInvalid)
	}

	norm := collapse(strings.ToLower(s))

	// Longest atoms first so one whitelisted expression cannot mask part of
	// another during substitution.
	atoms := make([]string, 0, len(allowed))
	for _, e := range allowed {
		text, args := e.SQL()
		if len(args) > 0 {
			continue // parameterized expressions are not addressable by name
		}
		atoms = append(atoms, collapse(strings.ToLower(text)))
	}
	sort.Slice(atoms, func(i, j int) bool { return len(atoms[i]) > len(atoms[j]) })

	padded := collapse(strings.NewReplacer("(", " ( ", ")", " ) ").Replace(norm))
	for _, atom := range atoms {
		padded = strings.ReplaceAll(padded, atom, " @ ")
	}

	// Beyond the token whitelist the combination must also be well formed:
	// and/or sit between operands and parentheses balance. Adjacent atoms or
	// dangling operators never reach the database.
	toks := strings.Fields(padded)
	if len(toks) == 0 {
		return nil, fmt.Errorf("%w: empty raw filter", ErrInvalid)
	}
	depth := 0
	wantOperand := true
	for _, tok := range toks {
		switch tok {
		case "@":
			if !wantOperand {
				return nil, fmt.Errorf("%w: malformed raw filter %q", ErrInvalid, s)
			}
			wantOperand = false
		case "(":
			if !wantOperand {
				return nil, fmt.Errorf("%w: malformed raw filter %q", ErrInvalid, s)
			}
			depth++
		case ")":
			if wantOperand || depth == 0 {
				return nil, fmt.Errorf("%w: malformed raw filter %q", ErrInvalid, s)
			}
			depth--
		case "and", "or":
			if wantOperand {
				return nil, fmt.Errorf("%w: malformed raw filter %q", ErrInvalid, s)
			}
			wantOperand = true
		default:
			return nil, fmt.Errorf("%w: raw filter fragment %q is not allowed", ErrInvalid, tok)
		}
	}
	if wantOperand || depth != 0 {
		return nil, fmt.Errorf("%w: malformed raw filter %q", ErrInvalid, s)
	}
	return Raw(norm), nil
}

func collapse(s string) string { return strings.Join(strings.Fields(s), " ") }
