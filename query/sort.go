package query

import (
	"fmt"
	"strings"
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Normalize maps any spelling of asc/desc to a Direction; unknown values are ascending.
func (d Direction) Normalize() Direction {
	if strings.EqualFold(strings.TrimSpace(string(d)), string(Desc)) {
		return Desc
	}
	return Asc
}

// SortField is one user-requested ordering key.
type SortField struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// OrderTerm is a resolved ORDER BY expression.
type OrderTerm struct {
	Expr string
	Dir  Direction
}

// Sorter maps user sort fields through a fixed allow-list. Fields not in the
// list are dropped. The Tiebreak field is appended when the caller did not
// sort by it, and Identity always closes the ordering so pages never overlap.
type Sorter struct {
	Fields   map[string][]string
	Tiebreak string
	Identity string
}

func (s Sorter) Known(field string) bool {
	_, ok := s.Fields[field]
	return ok
}

// Terms resolves the requested fields into order terms.
func (s Sorter) Terms(fields []SortField) []OrderTerm {
	seen := make(map[string]bool, len(fields)+1)
	var terms []OrderTerm

	add := func(field string, dir Direction) {
		exprs, ok := s.Fields[field]
		if !ok || seen[field] {
			return
		}
		seen[field] = true
		for _, e := range exprs {
			terms = append(terms, OrderTerm{Expr: e, Dir: dir.Normalize()})
		}
	}

	for _, f := range fields {
		add(f.Field, f.Direction)
	}
	if s.Tiebreak != "" {
		add(s.Tiebreak, Asc)
	}
	if s.Identity != "" {
		terms = append(terms, OrderTerm{Expr: s.Identity, Dir: Asc})
	}
	return terms
}

func renderOrder(terms []OrderTerm) string {
	if len(terms) == 0 {
		return ""
	}
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		parts = append(parts, fmt.Sprintf("%s %s NULLS LAST", t.Expr, t.Dir.Normalize()))
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}
