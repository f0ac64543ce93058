package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"devcamper/internal/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  int64 = 1
	DefaultLimit int64 = 25
	// MaxLimit 單頁筆數上限
	MaxLimit int64 = 100

	// DefaultSortField 未指定 sort 時依建立時間由新到舊
	DefaultSortField = "createdAt"
)

// SortKey is one sort criterion.
type SortKey struct {
	Field string
	Desc  bool
}

// Query is the request-scoped descriptor of a list request.
type Query struct {
	Filter Filter
	Fields []string
	Sort   []SortKey
	Page   int64
	Limit  int64
}

// Parse builds a Query from the request's query parameters.
func Parse(values url.Values, schema Schema) (*Query, error) {
	filter, err := ParseFilter(values, schema)
	if err != nil {
		return nil, err
	}
	fields, err := parseFields(values.Get("select"), schema)
	if err != nil {
		return nil, err
	}
	sortKeys, err := parseSort(values.Get("sort"), schema)
	if err != nil {
		return nil, err
	}
	page, err := parsePositive(values, "page", DefaultPage)
	if err != nil {
		return nil, err
	}
	limit, err := parsePositive(values, "limit", DefaultLimit)
	if err != nil {
		return nil, err
	}
	if limit > MaxLimit {
		return nil, apperr.BadRequest("limit must not exceed %d", MaxLimit)
	}
	// page*limit 必須落在 int64 範圍內
	if page > math.MaxInt64/limit {
		return nil, apperr.BadRequest("page is out of range")
	}
	return &Query{
		Filter: filter,
		Fields: fields,
		Sort:   sortKeys,
		Page:   page,
		Limit:  limit,
	}, nil
}

func knownField(schema Schema, f string) bool {
	if f == "_id" {
		return true
	}
	_, ok := schema[f]
	return ok
}

func parseFields(raw string, schema Schema) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if !knownField(schema, f) {
			return nil, apperr.BadRequest("Unknown select field %q", f)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func parseSort(raw string, schema Schema) ([]SortKey, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var keys []SortKey
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		key := SortKey{Field: k}
		if strings.HasPrefix(k, "-") {
			key = SortKey{Field: k[1:], Desc: true}
		}
		if !knownField(schema, key.Field) {
			return nil, apperr.BadRequest("Unknown sort field %q", key.Field)
		}
		if schema[key.Field] == KindObject {
			return nil, apperr.BadRequest("Field %q cannot be sorted", key.Field)
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func parsePositive(values url.Values, key string, def int64) (int64, error) {
	raw := values.Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 1 {
		return 0, apperr.BadRequest("%s must be a positive integer", key)
	}
	return n, nil
}

// SortDoc returns the sort specification, defaulting to newest first.
func (q *Query) SortDoc() bson.D {
	if len(q.Sort) == 0 {
		return bson.D{{Key: DefaultSortField, Value: -1}}
	}
	d := make(bson.D, 0, len(q.Sort))
	for _, k := range q.Sort {
		dir := 1
		if k.Desc {
			dir = -1
		}
		d = append(d, bson.E{Key: k.Field, Value: dir})
	}
	return d
}

// Projection returns the projection document, or nil when all fields are
// returned. _id is always kept by MongoDB unless excluded.
func (q *Query) Projection() bson.D {
	if len(q.Fields) == 0 {
		return nil
	}
	d := make(bson.D, 0, len(q.Fields))
	for _, f := range q.Fields {
		d = append(d, bson.E{Key: f, Value: 1})
	}
	return d
}

// FindOptions shapes the query: projection, sort and the page window.
// Nothing is executed until the options are passed to a collection.
func (q *Query) FindOptions() *options.FindOptions {
	w, _ := Paginate(q.Page, q.Limit, 0)
	opts := options.Find().
		SetSort(q.SortDoc()).
		SetSkip(w.Start).
		SetLimit(q.Limit)
	if p := q.Projection(); p != nil {
		opts.SetProjection(p)
	}
	return opts
}
