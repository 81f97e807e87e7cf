// Package normalize maps each source's raw listing JSON into flat,
// deduplicated job records.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go-campus-harvester/internal/artifact"
	"go-campus-harvester/internal/jsonutil"
)

const (
	isoLayout      = "2006-01-02T15:04:05-07:00"
	isoMicroLayout = "2006-01-02T15:04:05.000000-07:00"

	// epoch milliseconds of 0001-01-01T00:00:00Z and 9999-12-31T23:59:59.999Z
	minEpochMs = -62135596800000
	maxEpochMs = 253402300799999
)

// readRaw loads a raw artifact. Any read or parse failure is fatal for the transform.
func readRaw(path string) (any, error) {
	raw, err := artifact.Load(path)
	if err != nil {
		return nil, fmt.Errorf("read raw artifact: %w", err)
	}
	return raw, nil
}

// entries unwraps {"data": [...]} and keeps only the non-empty objects.
func entries(raw any) []map[string]any {
	if m, ok := raw.(map[string]any); ok {
		if list, ok := m["data"].([]any); ok {
			raw = list
		}
	}

	list, ok := raw.([]any)
	if !ok {
		return []map[string]any{}
	}

	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok || len(m) == 0 {
			continue
		}
		out = append(out, m)
	}
	return out
}

// stringify renders a raw scalar as text. Null has no text form.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t), true
		}
		return string(b), true
	}
}

// asString is the scalar coercion: stringify, trim, empty means absent.
func asString(v any) (string, bool) {
	s, ok := stringify(v)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

func optString(v any) *string {
	s, ok := asString(v)
	if !ok {
		return nil
	}
	return &s
}

// uniqStrings coerces every value, drops absent ones and keeps the first
// occurrence of each exact string.
func uniqStrings(values []any) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := asString(v)
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// listOrEmpty passes a raw array through and replaces anything else with [].
func listOrEmpty(v any) []any {
	if l, ok := v.([]any); ok {
		return l
	}
	return []any{}
}

// epochMillis extracts a finite millisecond value from a raw JSON number.
func epochMillis(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case float64:
		f = t
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < minEpochMs || f > maxEpochMs {
		return 0, false
	}
	return f, true
}

// msToISO converts a raw millisecond epoch into UTC ISO-8601 text with an
// explicit +00:00 offset. Anything that is not a usable number yields nil.
func msToISO(v any) *string {
	ms, ok := epochMillis(v)
	if !ok {
		return nil
	}

	var t time.Time
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			t = time.UnixMilli(i)
		}
	}
	if t.IsZero() {
		t = time.UnixMicro(int64(math.Round(ms * 1000)))
	}
	t = t.UTC()

	layout := isoLayout
	if t.Nanosecond()/1000 != 0 {
		layout = isoMicroLayout
	}
	s := t.Format(layout)
	return &s
}

// departmentIDs parses "288,194,166" into integers, skipping blank or
// non-numeric segments.
func departmentIDs(v any) []int {
	ids := []int{}
	raw, ok := asString(v)
	if !ok {
		return ids
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// dedupeBy keeps the first record per non-empty key, in input order.
func dedupeBy[T any](records []T, key func(T) string) []T {
	seen := make(map[string]bool, len(records))
	out := make([]T, 0, len(records))
	for _, r := range records {
		k := strings.TrimSpace(key(r))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// nameOf reads the "name" field of the object at path.
func nameOf(item map[string]any, path ...string) *string {
	v, _ := jsonutil.Get(item, append(path, "name")...)
	return optString(v)
}
