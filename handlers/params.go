package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/tennis-history/models"
	"github.com/Dosada05/tennis-history/query"
	"github.com/Dosada05/tennis-history/repositories"
	"github.com/Dosada05/tennis-history/validation"
)

// queryParams разбирает строку запроса и копит нарушения по полям,
// клиент получает их все одним ответом 422.
type queryParams struct {
	values url.Values
	vs     validation.Violations
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{values: r.URL.Query()}
}

// invalid is nil when every parameter parsed.
func (q *queryParams) invalid() *validation.Error {
	if len(q.vs) == 0 {
		return nil
	}
	return &validation.Error{Violations: q.vs}
}

func (q *queryParams) str(name string) string {
	return strings.TrimSpace(q.values.Get(name))
}

// list принимает и повторяющиеся параметры, и списки через запятую.
func (q *queryParams) list(name string) []string {
	var out []string
	for _, raw := range q.values[name] {
		for _, part := range strings.Split(raw, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

type enum interface {
	~string
	Valid() bool
}

// enumList keeps only members of the enumeration and records a violation
// for every other value.
func enumList[T enum](q *queryParams, name, allowed string) []T {
	values := q.list(name)
	if len(values) == 0 {
		return nil
	}
	out := make([]T, 0, len(values))
	for i, v := range values {
		e := T(v)
		if !e.Valid() {
			q.vs.Add(fmt.Sprintf("%s[%d]", name, i), "must be one of %s, got %q", allowed, v)
			continue
		}
		out = append(out, e)
	}
	return out
}

func enumValue[T enum](q *queryParams, name, allowed string) *T {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	e := T(raw)
	if !e.Valid() {
		q.vs.Add(name, "must be one of %s, got %q", allowed, raw)
		return nil
	}
	return &e
}

func (q *queryParams) ints(name string) []int {
	values := q.list(name)
	if len(values) == 0 {
		return nil
	}
	out := make([]int, 0, len(values))
	for i, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			q.vs.Add(fmt.Sprintf("%s[%d]", name, i), "must be an integer, got %q", v)
			continue
		}
		out = append(out, n)
	}
	return out
}

func (q *queryParams) intValue(name string) *int {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		q.vs.Add(name, "must be an integer, got %q", raw)
		return nil
	}
	return &n
}

func (q *queryParams) boolValue(name string) *bool {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		q.vs.Add(name, "must be true or false, got %q", raw)
		return nil
	}
	return &b
}

func (q *queryParams) date(name string) *time.Time {
	raw := q.str(name)
	if raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		q.vs.Add(name, "must be a date in YYYY-MM-DD format, got %q", raw)
		return nil
	}
	return &t
}

// sort разбирает sort=name:desc,min_year. Неизвестные поля отбрасывают сервисы.
func (q *queryParams) sort() []query.SortField {
	var fields []query.SortField
	for _, item := range q.list("sort") {
		field, dir, _ := strings.Cut(item, ":")
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		fields = append(fields, query.SortField{Field: field, Direction: query.Direction(dir).Normalize()})
	}
	return fields
}

func (q *queryParams) page() query.Page {
	var page query.Page
	if skip := q.intValue("skip"); skip != nil {
		page.Skip = *skip
	}
	if limit := q.intValue("limit"); limit != nil {
		page.Limit = *limit
	}
	return page.Normalize()
}

func (q *queryParams) playerFilter() repositories.PlayerFilter {
	return repositories.PlayerFilter{
		Tours:     enumList[models.Tour](q, "tours", "ATP, WTA"),
		Countries: q.list("countries"),
		Players:   q.list("players"),
		Coaches:   q.list("coaches"),
		MinYear:   q.intValue("min_year"),
		MaxYear:   q.intValue("max_year"),
		Active:    q.boolValue("active"),
	}
}

func (q *queryParams) statsFilter() repositories.StatsFilter {
	filter := repositories.StatsFilter{
		Years:      q.ints("years"),
		Levels:     enumList[models.Level](q, "levels", "Tour, Challenger, ITF"),
		Categories: q.list("categories"),
		Surfaces:   q.list("surfaces"),
		Draw:       enumValue[models.Draw](q, "draw", "Main, Qualifying"),
		MatchType:  enumValue[models.MatchType](q, "match_type", "Singles, Doubles"),
		From:       q.date("from"),
		To:         q.date("to"),
	}
	if filter.From != nil && filter.To != nil {
		q.vs.Check(!filter.To.Before(*filter.From), "to", "must not be before from")
	}
	return filter
}

func (q *queryParams) tournamentFilter() repositories.TournamentFilter {
	return repositories.TournamentFilter{
		Tours:       enumList[models.TournamentTour](q, "tours", "ATP, WTA, Men, Women"),
		Tournaments: q.ints("tournaments"),
		Established: q.intValue("established"),
		Abolished:   q.intValue("abolished"),
	}
}
