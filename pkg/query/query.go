// Package query filters an indexed collection with `field=keyword` text
// queries, the grammar the interactive shell and the find command share.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/scylladb/go-set/strset"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
)

/* Structs */

type Field string

const (
	// FieldAny searches title, artist and creator at once.
	FieldAny    Field = ""
	FieldSID    Field = "sid"
	FieldName   Field = "name"
	FieldArtist Field = "artist"
)

// Error reports a query that cannot be evaluated, as opposed to one
// that evaluates to no results.
type Error struct {
	Query  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("query %q: %s", e.Query, e.Reason)
}

type Query struct {
	Field   Field
	Keyword string

	sid     int
	pattern *regexp2.Regexp
}

// Match pairs a set with the charts that satisfied the query. Charts
// holds every chart of the set when the match is set wide, for example
// an empty keyword or a folder level id hit.
type Match struct {
	Set    *beatmap.Set
	Charts []beatmap.Chart
}

type Option func(*compileOptions)

type compileOptions struct {
	regex bool
}

/* Vars */

var fields = strset.New(string(FieldSID), string(FieldName), string(FieldArtist))

/* Public */

// WithRegex treats the keyword as a case insensitive regular expression
// instead of a substring. It does not apply to sid queries.
func WithRegex() Option {
	return func(o *compileOptions) {
		o.regex = true
	}
}

// Compile validates a `[field=]keyword` query. The field defaults to a
// free text search across title, artist and creator. An unknown field
// or a non numeric sid keyword is an *Error.
func Compile(text string, opts ...Option) (*Query, error) {
	o := &compileOptions{}
	for _, opt := range opts {
		opt(o)
	}

	text = strings.TrimSpace(text)

	q := &Query{
		Field:   FieldAny,
		Keyword: text,
	}

	if pos := strings.Index(text, "="); pos >= 0 {
		field := strings.ToLower(strings.TrimSpace(text[:pos]))
		if !fields.Has(field) {
			return nil, &Error{Query: text, Reason: fmt.Sprintf("unknown field %q", field)}
		}

		q.Field = Field(field)
		q.Keyword = strings.TrimSpace(text[pos+1:])
	}

	if q.Field == FieldSID {
		if o.regex {
			return nil, &Error{Query: text, Reason: "sid matches a numeric id exactly, not a pattern"}
		}

		if q.Keyword != "" {
			sid, err := strconv.Atoi(q.Keyword)
			if err != nil {
				return nil, &Error{Query: text, Reason: fmt.Sprintf("sid needs a numeric id, got %q", q.Keyword)}
			}

			q.sid = sid
		}

		return q, nil
	}

	if o.regex && q.Keyword != "" {
		pattern, err := regexp2.Compile(q.Keyword, regexp2.IgnoreCase)
		if err != nil {
			return nil, &Error{Query: text, Reason: fmt.Sprintf("invalid pattern: %v", err)}
		}

		q.pattern = pattern
	}

	return q, nil
}

// Run evaluates the query against every set in the index. Matches come
// back in path order, the order the index iterates in.
func (q *Query) Run(idx *beatmap.Index) ([]Match, error) {
	matches := make([]Match, 0)

	for _, set := range idx.Sets() {
		match, err := q.matchSet(set)
		if err != nil {
			return nil, err
		}

		if match != nil {
			matches = append(matches, *match)
		}
	}

	return matches, nil
}

/* Private */

func (q *Query) matchSet(set *beatmap.Set) (*Match, error) {
	// an empty keyword selects the whole collection
	if q.Keyword == "" {
		return &Match{Set: set, Charts: set.Charts}, nil
	}

	if q.Field == FieldSID {
		charts := make([]beatmap.Chart, 0)
		for _, chart := range set.Charts {
			if chart.SetID == q.sid {
				charts = append(charts, chart)
			}
		}

		// the folder id can hit even when no chart carries it,
		// and then the whole set is the match
		if len(charts) == 0 && set.SetID == q.sid {
			charts = set.Charts
		}

		if len(charts) == 0 {
			return nil, nil
		}

		return &Match{Set: set, Charts: charts}, nil
	}

	charts := make([]beatmap.Chart, 0)
	for _, chart := range set.Charts {
		ok, err := q.matchChart(chart)
		if err != nil {
			return nil, err
		}

		if ok {
			charts = append(charts, chart)
		}
	}

	if len(charts) == 0 {
		return nil, nil
	}

	return &Match{Set: set, Charts: charts}, nil
}

func (q *Query) matchChart(chart beatmap.Chart) (bool, error) {
	switch q.Field {
	case FieldName:
		return q.matchText(chart.Title)
	case FieldArtist:
		return q.matchText(chart.Artist)
	default:
		for _, text := range []string{chart.Title, chart.Artist, chart.Creator} {
			ok, err := q.matchText(text)
			if err != nil {
				return false, err
			}

			if ok {
				return true, nil
			}
		}

		return false, nil
	}
}

func (q *Query) matchText(text string) (bool, error) {
	if q.pattern != nil {
		return q.pattern.MatchString(text)
	}

	return strings.Contains(beatmap.Normalize(text), beatmap.Normalize(q.Keyword)), nil
}
