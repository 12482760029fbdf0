// Package query composes parameterized Postgres predicates from sparse,
// optional criteria and compiles them into count and fetch plans that share
// a single WHERE clause.
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

// Clause is a node of the predicate tree. build returns an empty string when
// the clause imposes no restriction; it must then leave no arguments bound.
type Clause interface {
	build(b *binder) string
}

type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *binder) mark() int { return len(b.args) }

func (b *binder) reset(mark int) { b.args = b.args[:mark] }

type inClause struct {
	column string
	n      int
	value  any
}

func (c inClause) build(b *binder) string {
	if c.n == 0 {
		return ""
	}
	return fmt.Sprintf("%s = ANY(%s)", c.column, b.bind(c.value))
}

// In matches rows whose column is one of values. An empty list matches everything.
func In[T ~string](column string, values []T) Clause {
	s := make([]string, 0, len(values))
	for _, v := range values {
		s = append(s, string(v))
	}
	return inClause{column: column, n: len(s), value: pq.StringArray(s)}
}

// InInts is In for integer columns.
func InInts(column string, values []int) Clause {
	s := make([]int64, 0, len(values))
	for _, v := range values {
		s = append(s, int64(v))
	}
	return inClause{column: column, n: len(s), value: pq.Int64Array(s)}
}

type rangeClause struct {
	column   string
	min, max any
}

func (c rangeClause) build(b *binder) string {
	var parts []string
	if c.min != nil {
		parts = append(parts, fmt.Sprintf("%s >= %s", c.column, b.bind(c.min)))
	}
	if c.max != nil {
		parts = append(parts, fmt.Sprintf("%s <= %s", c.column, b.bind(c.max)))
	}
	return strings.Join(parts, " AND ")
}

// Range bounds an integer column; both bounds are inclusive and optional.
func Range(column string, min, max *int) Clause {
	c := rangeClause{column: column}
	if min != nil {
		c.min = *min
	}
	if max != nil {
		c.max = *max
	}
	return c
}

// DateRange bounds a date column; both bounds are inclusive and optional.
func DateRange(column string, from, to *time.Time) Clause {
	c := rangeClause{column: column}
	if from != nil {
		c.min = *from
	}
	if to != nil {
		c.max = *to
	}
	return c
}

type eqClause struct {
	column string
	value  any
	set    bool
}

func (c eqClause) build(b *binder) string {
	if !c.set {
		return ""
	}
	return fmt.Sprintf("%s = %s", c.column, b.bind(c.value))
}

// Eq matches column = *value when value is set.
func Eq[T any](column string, value *T) Clause {
	if value == nil {
		return eqClause{column: column}
	}
	return eqClause{column: column, value: *value, set: true}
}

type exprClause struct {
	sql  string
	args []any
}

func (c exprClause) build(b *binder) string {
	if c.sql == "" {
		return ""
	}
	var sb strings.Builder
	i := 0
	for _, r := range c.sql {
		if r == '?' && i < len(c.args) {
			sb.WriteString(b.bind(c.args[i]))
			i++
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// Expr is a fixed SQL fragment; each '?' is replaced by the next argument.
func Expr(sql string, args ...any) Clause {
	return exprClause{sql: sql, args: args}
}

// When returns c if cond holds, otherwise a clause that matches everything.
func When(cond bool, c Clause) Clause {
	if !cond {
		return exprClause{}
	}
	return c
}

type existsClause struct {
	from     string
	link     string
	inner    []Clause
	required bool
}

func (c existsClause) build(b *binder) string {
	mark := b.mark()
	inner := joinClauses(b, c.inner, " AND ")
	if inner == "" && !c.required {
		b.reset(mark)
		return ""
	}
	cond := c.link
	if inner != "" {
		cond += " AND " + inner
	}
	return fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s)", c.from, cond)
}

// Exists is a correlated sub-query used for relationships the filtered
// entity does not own. Unlike a join it cannot multiply rows. It is dropped
// when none of the inner clauses restricts anything.
func Exists(from, link string, inner ...Clause) Clause {
	return existsClause{from: from, link: link, inner: inner}
}

// MustExist is Exists that is kept even without inner restrictions.
func MustExist(from, link string, inner ...Clause) Clause {
	return existsClause{from: from, link: link, inner: inner, required: true}
}

type notClause struct{ c Clause }

func (n notClause) build(b *binder) string {
	s := n.c.build(b)
	if s == "" {
		return ""
	}
	return "NOT (" + s + ")"
}

// Not negates a restricting clause.
func Not(c Clause) Clause { return notClause{c} }

type allClause []Clause

func (a allClause) build(b *binder) string {
	return joinClauses(b, a, " AND ")
}

// All is the conjunction of its restricting children.
func All(clauses ...Clause) Clause { return allClause(clauses) }

type anyClause []Clause

func (a anyClause) build(b *binder) string {
	mark := b.mark()
	parts := make([]string, 0, len(a))
	for _, c := range a {
		s := c.build(b)
		if s == "" {
			// one unrestricted alternative makes the whole disjunction unrestricted
			b.reset(mark)
			return ""
		}
		parts = append(parts, "("+s+")")
	}
	return strings.Join(parts, " OR ")
}

// Any is the disjunction of its children.
func Any(clauses ...Clause) Clause { return anyClause(clauses) }

func joinClauses(b *binder, clauses []Clause, sep string) string {
	parts := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c == nil {
			continue
		}
		if s := c.build(b); s != "" {
			parts = append(parts, "("+s+")")
		}
	}
	return strings.Join(parts, sep)
}

// Predicate is the shared filter of a count plan and a fetch plan.
type Predicate struct {
	clauses []Clause
}

func Where(clauses ...Clause) Predicate {
	return Predicate{clauses: clauses}
}

// And returns a predicate with additional clauses.
func (p Predicate) And(clauses ...Clause) Predicate {
	merged := make([]Clause, 0, len(p.clauses)+len(clauses))
	merged = append(merged, p.clauses...)
	merged = append(merged, clauses...)
	return Predicate{clauses: merged}
}

// compile renders "WHERE 1=1 AND ..." and binds arguments into b.
func (p Predicate) compile(b *binder) string {
	cond := joinClauses(b, p.clauses, " AND ")
	if cond == "" {
		return "WHERE 1=1"
	}
	return "WHERE 1=1 AND " + cond
}

// SQL renders the predicate on its own, numbering arguments from $1.
func (p Predicate) SQL() (string, []any) {
	b := &binder{}
	where := p.compile(b)
	return where, b.args
}
