package doujin

import (
	"fmt"
	"strconv"
	"strings"
)

// The list query is assembled from a closed set of optional predicates.
// Filter values are only ever passed as bound arguments, never spliced into
// the SQL text.

type predicate interface {
	apply(b *clauseBuilder)
}

type textSearch struct{ term string }
type genreSuperset struct{ genres []string }
type circleEquals struct{ circle string }
type authorMembership struct{ author string }

type clauseBuilder struct {
	clauses []string
	args    []any
}

// bind registers a query argument and returns its placeholder.
func (b *clauseBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *clauseBuilder) add(clause string) {
	b.clauses = append(b.clauses, clause)
}

// escapeLike neutralizes LIKE metacharacters so a term containing % or _
// matches itself literally rather than acting as a wildcard.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (f textSearch) apply(b *clauseBuilder) {
	pattern := "%" + escapeLike(f.term) + "%"
	b.add(fmt.Sprintf(`(title ILIKE %s ESCAPE '\' OR circle ILIKE %s ESCAPE '\' OR %s = ANY(authors))`,
		b.bind(pattern), b.bind(pattern), b.bind(f.term)))
}

func (f genreSuperset) apply(b *clauseBuilder) {
	b.add(fmt.Sprintf("genres @> %s", b.bind(f.genres)))
}

func (f circleEquals) apply(b *clauseBuilder) {
	b.add(fmt.Sprintf("circle = %s", b.bind(f.circle)))
}

func (f authorMembership) apply(b *clauseBuilder) {
	b.add(fmt.Sprintf("%s = ANY(authors)", b.bind(f.author)))
}

func (q Query) predicates() []predicate {
	var ps []predicate
	if q.Search != "" {
		ps = append(ps, textSearch{term: q.Search})
	}
	if len(q.Genres) > 0 {
		ps = append(ps, genreSuperset{genres: q.Genres})
	}
	if q.Circle != "" {
		ps = append(ps, circleEquals{circle: q.Circle})
	}
	if q.Author != "" {
		ps = append(ps, authorMembership{author: q.Author})
	}
	return ps
}

const listColumns = `id, title, circle, authors, genres,
	       to_char(published_date, 'YYYY-MM-DD') AS published_date,
	       thumbnail_url, created_at, updated_at`

// buildListQuery folds the active predicates into one parameterized SELECT.
// seq is a monotonically increasing insert counter, so equal timestamps
// still order deterministically.
func buildListQuery(q Query) (string, []any) {
	b := &clauseBuilder{clauses: []string{"1=1"}}
	for _, p := range q.predicates() {
		p.apply(b)
	}

	sql := fmt.Sprintf(`
		SELECT %s
		FROM doujinshi
		WHERE %s
		ORDER BY created_at DESC, seq DESC`,
		listColumns, strings.Join(b.clauses, " AND "))

	return sql, b.args
}
