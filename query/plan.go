package query

import (
	"fmt"
	"strings"
)

// Plan is a compiled statement with its positional arguments.
type Plan struct {
	SQL  string
	Args []any
}

// Select describes a listing over From filtered by Where. Count and Fetch
// compile the same predicate, so a zero count guarantees an empty fetch.
//
// Projections are extra joins used only by the row plans; they must be
// single-row (LEFT JOIN LATERAL ... LIMIT 1 or aggregates) and take no arguments.
type Select struct {
	From        string
	Columns     []string
	Projections []string
	Where       Predicate
	Order       []OrderTerm
	Page        Page
}

// Count compiles SELECT COUNT(*) over the predicate.
func (s Select) Count() Plan {
	b := &binder{}
	where := s.Where.compile(b)
	return Plan{
		SQL:  fmt.Sprintf("SELECT COUNT(*) FROM %s %s", s.From, where),
		Args: b.args,
	}
}

// Fetch compiles the ordered, windowed row query over the predicate.
func (s Select) Fetch() Plan {
	b := &binder{}
	where := s.Where.compile(b)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(s.Columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(s.From)
	for _, p := range s.Projections {
		sb.WriteString(" ")
		sb.WriteString(p)
	}
	sb.WriteString(" ")
	sb.WriteString(where)
	if order := renderOrder(s.Order); order != "" {
		sb.WriteString(" ")
		sb.WriteString(order)
	}

	page := s.Page.Normalize()
	sb.WriteString(fmt.Sprintf(" LIMIT %s", b.bind(page.Limit)))
	sb.WriteString(fmt.Sprintf(" OFFSET %s", b.bind(page.Skip)))

	return Plan{SQL: sb.String(), Args: b.args}
}

// All compiles the unwindowed row query, used when rows are aggregated in Go.
func (s Select) All() Plan {
	b := &binder{}
	where := s.Where.compile(b)
	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(s.Columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(s.From)
	for _, p := range s.Projections {
		sb.WriteString(" ")
		sb.WriteString(p)
	}
	sb.WriteString(" ")
	sb.WriteString(where)
	if order := renderOrder(s.Order); order != "" {
		sb.WriteString(" ")
		sb.WriteString(order)
	}
	return Plan{SQL: sb.String(), Args: b.args}
}
