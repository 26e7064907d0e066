package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/phonedex/internal/db"
	"github.com/kailas-cloud/phonedex/internal/domain/search/facet"
	"github.com/kailas-cloud/phonedex/internal/domain/search/filter"
)

// maxStringBuckets caps the distinct values returned per string facet.
const maxStringBuckets = 10

// SearchList performs paginated search via FT.SEARCH.
func (s *Store) SearchList(
	ctx context.Context, index, query string, offset, limit int, fields []string,
) (*db.SearchResult, error) {
	args := []string{index, query, "LIMIT", strconv.Itoa(offset), strconv.Itoa(limit)}

	if len(fields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(fields)))
		args = append(args, fields...)
	}

	args = append(args, "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw)
}

// SearchCount returns document count via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, index, query string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, query, "LIMIT", "0", "0", "DIALECT", "2").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	return parseCount(raw)
}

// FacetSearch fetches one page of documents together with every facet count.
// The page query, one FT.AGGREGATE per string facet and one counting FT.SEARCH
// per numeric bucket go out in a single DoMulti round-trip.
func (s *Store) FacetSearch(ctx context.Context, q *db.FacetQuery) (*db.FacetResult, error) {
	if q.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if q.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative")
	}

	base := BuildQuery(q)
	plan := planFacets(q.Facets, base)

	cmds := make([]rueidis.Completed, 0, 1+len(plan))
	cmds = append(cmds, s.b().Arbitrary("FT.SEARCH").Args(
		q.Index, base,
		"LIMIT", strconv.Itoa(q.Offset), strconv.Itoa(q.Limit),
		"RETURN", "1", db.FieldDocument,
		"DIALECT", "2",
	).Build())
	for _, step := range plan {
		args := append([]string{q.Index}, step.args...)
		cmds = append(cmds, s.b().Arbitrary(step.op).Args(args...).Build())
	}

	results := s.client.DoMulti(ctx, cmds...)

	raw, err := results[0].ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}
	page, err := parseListResult(raw)
	if err != nil {
		return nil, err
	}

	facets, err := collectFacets(q.Facets, plan, results[1:])
	if err != nil {
		return nil, err
	}

	return &db.FacetResult{Total: page.Total, Entries: page.Entries, Facets: facets}, nil
}

// --- Query building ---

// BuildQuery renders the text match and filter clauses as one FT.SEARCH query.
// Terms are OR'ed; filters are AND'ed with the terms.
func BuildQuery(q *db.FacetQuery) string {
	parts := make([]string, 0, 1+len(q.Filters))

	if text := buildTerms(q.Terms, q.TextPath); text != "" {
		parts = append(parts, text)
	}
	for _, c := range q.Filters {
		parts = append(parts, buildClause(c))
	}

	if len(parts) == 0 {
		return "*"
	}
	return strings.Join(parts, " ")
}

func buildTerms(terms []string, path string) string {
	if len(terms) == 0 {
		return ""
	}
	if path != "" {
		return buildTagFilter(db.Alias(path), terms)
	}

	escaped := make([]string, 0, len(terms))
	for _, t := range terms {
		if e := escapeQuery(strings.TrimSpace(t)); e != "" {
			escaped = append(escaped, e)
		}
	}
	if len(escaped) == 0 {
		return ""
	}
	return "(" + strings.Join(escaped, "|") + ")"
}

func buildClause(c filter.Clause) string {
	alias := db.Alias(c.Path())
	if c.IsRange() {
		b := c.Bounds()
		return fmt.Sprintf("@%s:[%d %d]", alias, b.Low, b.High)
	}
	return buildTagFilter(alias, c.Values())
}

func buildTagFilter(alias string, values []string) string {
	return "@" + alias + ":" + db.TagValues(values...)
}

// --- Facet planning ---

// facetStep is one pipelined command contributing to a facet.
type facetStep struct {
	facet string
	op    string
	args  []string
	// bucket is the lower boundary of a numeric bucket; nil for the overflow bucket.
	bucket any
}

func planFacets(set facet.Set, base string) []facetStep {
	names := set.Names()
	sort.Strings(names)

	var plan []facetStep
	for _, name := range names {
		spec := set[name]
		alias := db.Alias(spec.Path)

		switch spec.Type {
		case facet.String:
			plan = append(plan, facetStep{
				facet: name,
				op:    "FT.AGGREGATE",
				args: []string{
					base,
					"GROUPBY", "1", "@" + alias,
					"REDUCE", "COUNT", "0", "AS", "count",
					"SORTBY", "2", "@count", "DESC",
					"MAX", strconv.Itoa(maxStringBuckets),
					"DIALECT", "2",
				},
			})

		case facet.Number:
			b := spec.Boundaries
			if len(b) < 2 {
				continue
			}
			for i := 0; i+1 < len(b); i++ {
				plan = append(plan, countStep(name, base, fmt.Sprintf("@%s:[%s (%s]", alias, num(b[i]), num(b[i+1])), b[i]))
			}
			if spec.Default != "" {
				plan = append(plan,
					countStep(name, base, fmt.Sprintf("@%s:[-inf (%s]", alias, num(b[0])), nil),
					countStep(name, base, fmt.Sprintf("@%s:[%s +inf]", alias, num(b[len(b)-1])), nil),
				)
			}
		}
	}
	return plan
}

func countStep(name, base, bucketQuery string, lower any) facetStep {
	return facetStep{
		facet:  name,
		op:     "FT.SEARCH",
		args:   []string{base + " " + bucketQuery, "LIMIT", "0", "0", "DIALECT", "2"},
		bucket: lower,
	}
}

func collectFacets(set facet.Set, plan []facetStep, results []rueidis.RedisResult) (map[string][]facet.Bucket, error) {
	out := make(map[string][]facet.Bucket, len(set))
	other := make(map[string]int64)

	for name := range set {
		out[name] = []facet.Bucket{}
	}

	for i, step := range plan {
		raw, err := results[i].ToArray()
		if err != nil {
			op := db.OpSearch
			if step.op == "FT.AGGREGATE" {
				op = db.OpAggregate
			}
			return nil, &db.Error{Op: op, Err: fmt.Errorf("facet %s: %w", step.facet, err)}
		}

		if step.op == "FT.AGGREGATE" {
			out[step.facet] = append(out[step.facet], parseGroups(raw, db.Alias(set[step.facet].Path))...)
			continue
		}

		count, err := parseCount(raw)
		if err != nil {
			return nil, fmt.Errorf("facet %s: %w", step.facet, err)
		}
		if step.bucket == nil {
			other[step.facet] += int64(count)
			continue
		}
		out[step.facet] = append(out[step.facet], facet.Bucket{ID: step.bucket, Count: int64(count)})
	}

	for name, count := range other {
		if count > 0 {
			out[name] = append(out[name], facet.Bucket{ID: set[name].Default, Count: count})
		}
	}

	return out, nil
}

// --- Result parsing ---

func parseCount(raw []rueidis.RedisMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, len(raw)/2)
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

// parseGroups reads FT.AGGREGATE rows: [groups, [alias, value, "count", n], ...].
// Rows without a value (documents missing the field) are skipped.
func parseGroups(raw []rueidis.RedisMessage, alias string) []facet.Bucket {
	buckets := make([]facet.Bucket, 0, len(raw))
	for i := 1; i < len(raw); i++ {
		row, err := raw[i].ToArray()
		if err != nil {
			continue
		}
		fields := parseFieldPairs(row)
		value, ok := fields[alias]
		if !ok || value == "" {
			continue
		}
		count, err := strconv.ParseInt(fields["count"], 10, 64)
		if err != nil {
			continue
		}
		buckets = append(buckets, facet.Bucket{ID: value, Count: count})
	}
	return buckets
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query helpers ---

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)
