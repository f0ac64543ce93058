// Package query 將 list 端點的 query string 轉為 MongoDB 查詢
// (過濾條件、欄位投影、排序、分頁)
package query

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"devcamper/internal/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Op is a comparison operator of a predicate.
type Op string

const (
	OpEq  Op = "eq"
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
	OpIn  Op = "in"
)

var mongoOps = map[Op]string{
	OpEq:  "$eq",
	OpGt:  "$gt",
	OpGte: "$gte",
	OpLt:  "$lt",
	OpLte: "$lte",
	OpIn:  "$in",
}

// 只有這些 suffix 可出現在 field[op] 中
var suffixOps = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
}

var reservedKeys = map[string]struct{}{
	"select": {},
	"sort":   {},
	"page":   {},
	"limit":  {},
}

var keyPattern = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)(?:\[([A-Za-z]+)\])?$`)

// Kind is the stored type of a filterable field; query values are coerced to it.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindObjectID
	KindTime
	// KindObject 巢狀文件，只能 select，不能 filter 或 sort
	KindObject
)

// Schema lists the fields of a resource that may be filtered, selected or sorted on.
type Schema map[string]Kind

// Predicate is one condition on one field. Value is a scalar, or []any for OpIn.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Filter is a conjunction of predicates. The zero value matches everything.
type Filter []Predicate

// ParseFilter translates query parameters into a Filter. Reserved control
// keys are skipped. Unknown fields, unknown operator suffixes and values that
// do not fit the field type are rejected.
func ParseFilter(values url.Values, schema Schema) (Filter, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		if _, ok := reservedKeys[k]; ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var f Filter
	for _, key := range keys {
		m := keyPattern.FindStringSubmatch(key)
		if m == nil {
			return nil, apperr.BadRequest("Invalid query parameter %q", key)
		}
		field, suffix := m[1], m[2]
		kind, ok := schema[field]
		if !ok {
			return nil, apperr.BadRequest("Unknown filter field %q", field)
		}
		if kind == KindObject {
			return nil, apperr.BadRequest("Field %q cannot be filtered", field)
		}

		op := OpEq
		if suffix != "" {
			op, ok = suffixOps[suffix]
			if !ok {
				return nil, apperr.BadRequest("Unsupported operator %q on field %q", suffix, field)
			}
		}

		raw := values[key]
		switch {
		case op == OpIn:
			var parts []string
			for _, r := range raw {
				parts = append(parts, strings.Split(r, ",")...)
			}
			items, err := coerceAll(field, parts, kind)
			if err != nil {
				return nil, err
			}
			if len(items) == 0 {
				return nil, apperr.BadRequest("Operator \"in\" on field %q needs at least one value", field)
			}
			f = append(f, Predicate{Field: field, Op: OpIn, Value: items})
		case op == OpEq && len(raw) > 1:
			// 重複的 key 視為 membership
			items, err := coerceAll(field, raw, kind)
			if err != nil {
				return nil, err
			}
			f = append(f, Predicate{Field: field, Op: OpIn, Value: items})
		default:
			if len(raw) != 1 {
				return nil, apperr.BadRequest("Operator %q on field %q takes a single value", op, field)
			}
			v, err := coerce(field, raw[0], kind)
			if err != nil {
				return nil, err
			}
			f = append(f, Predicate{Field: field, Op: op, Value: v})
		}
	}
	return f, nil
}

func coerceAll(field string, raw []string, kind Kind) ([]any, error) {
	items := make([]any, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		v, err := coerce(field, r, kind)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func coerce(field, raw string, kind Kind) (any, error) {
	switch kind {
	case KindNumber:
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return n, nil
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, apperr.BadRequest("Field %q expects a number, got %q", field, raw)
		}
		return n, nil
	case KindBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, apperr.BadRequest("Field %q expects true or false, got %q", field, raw)
		}
		return b, nil
	case KindObjectID:
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return nil, apperr.BadRequest("Field %q expects an object id, got %q", field, raw)
		}
		return id, nil
	case KindTime:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, apperr.BadRequest("Field %q expects a date, got %q", field, raw)
		}
		return t, nil
	default:
		return raw, nil
	}
}

// BSON renders the filter as a MongoDB query document. Predicates on the
// same field share one operator document.
func (f Filter) BSON() bson.M {
	out := bson.M{}
	for _, p := range f {
		ops, ok := out[p.Field].(bson.M)
		if !ok {
			ops = bson.M{}
			out[p.Field] = ops
		}
		ops[mongoOps[p.Op]] = p.Value
	}
	return out
}

// Matches evaluates the filter against a decoded document with MongoDB
// semantics: a missing field never matches, an array field matches when any
// element does.
func (f Filter) Matches(doc map[string]any) bool {
	for _, p := range f {
		if !p.Matches(doc) {
			return false
		}
	}
	return true
}

// Matches evaluates a single predicate against doc.
func (p Predicate) Matches(doc map[string]any) bool {
	v, ok := lookup(doc, p.Field)
	if !ok {
		return false
	}
	if arr, ok := asSlice(v); ok {
		for _, el := range arr {
			if p.matchValue(el) {
				return true
			}
		}
		return false
	}
	return p.matchValue(v)
}

func (p Predicate) matchValue(v any) bool {
	if p.Op == OpIn {
		items, _ := p.Value.([]any)
		for _, want := range items {
			if c, ok := compare(v, want); ok && c == 0 {
				return true
			}
		}
		return false
	}
	c, ok := compare(v, p.Value)
	if !ok {
		return false
	}
	switch p.Op {
	case OpEq:
		return c == 0
	case OpGt:
		return c > 0
	case OpGte:
		return c >= 0
	case OpLt:
		return c < 0
	case OpLte:
		return c <= 0
	}
	return false
}

func lookup(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		var (
			next any
			ok   bool
		)
		switch m := cur.(type) {
		case map[string]any:
			next, ok = m[part]
		case bson.M:
			next, ok = m[part]
		}
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case primitive.A:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	}
	return nil, false
}

// compare orders two scalars of compatible type. ok is false when the types
// cannot be compared, in which case no comparison predicate matches.
func compare(a, b any) (int, bool) {
	if x, ok := toFloat(a); ok {
		y, ok := toFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	}
	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	case primitive.ObjectID:
		y, ok := b.(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		return strings.Compare(x.Hex(), y.Hex()), true
	}
	if x, ok := toTime(a); ok {
		y, ok := toTime(b)
		if !ok {
			return 0, false
		}
		return x.Compare(y), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case primitive.DateTime:
		return t.Time(), true
	}
	return time.Time{}, false
}
