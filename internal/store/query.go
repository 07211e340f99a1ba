package store

import (
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Helpers partagés par les backends qui filtrent en mémoire (memory, scylla).

// materialize copie une valeur en profondeur et remplace ServerTimestamp par now.
func materialize(v any, now time.Time) any {
	switch val := v.(type) {
	case serverTimestamp:
		return now
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = materialize(item, now)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = materialize(item, now)
		}
		return out
	case *Ref:
		if val == nil {
			return nil
		}
		return *val
	}
	return v
}

func materializeFields(fields map[string]any, now time.Time) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	return materialize(fields, now).(map[string]any)
}

func cloneFields(fields map[string]any) map[string]any {
	return materializeFields(fields, time.Time{})
}

// valuesEqual compare deux valeurs de champ pour un filtre d'égalité.
func valuesEqual(a, b any) bool {
	if ra, ok := AsRef(a); ok {
		rb, ok := AsRef(b)
		return ok && ra == rb
	}
	if _, ok := b.(Ref); ok {
		return false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case nil:
		return b == nil
	}
	af, errA := cast.ToFloat64E(a)
	bf, errB := cast.ToFloat64E(b)
	if errA == nil && errB == nil {
		return af == bf
	}
	return false
}

func matches(data map[string]any, filters []Filter) bool {
	for _, f := range filters {
		v, ok := data[f.Field]
		if !ok || !valuesEqual(v, f.Value) {
			return false
		}
	}
	return true
}

func lessValues(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Before(bt)
		}
	}
	af, errA := cast.ToFloat64E(a)
	bf, errB := cast.ToFloat64E(b)
	if errA == nil && errB == nil {
		return af < bf
	}
	return strings.ToLower(cast.ToString(a)) < strings.ToLower(cast.ToString(b))
}

// applyQuery filtre, trie puis plafonne une liste de documents.
func applyQuery(docs []Document, q Query) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if matches(d.Data, q.Filters) {
			out = append(out, d)
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(out, func(i, j int) bool {
			return lessValues(out[i].Data[q.OrderBy], out[j].Data[q.OrderBy])
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	if len(out) > q.MaxDocs() {
		out = out[:q.MaxDocs()]
	}
	return out
}
