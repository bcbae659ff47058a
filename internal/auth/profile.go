package auth

import (
	"fmt"
	"strconv"
	"strings"
)

// Profile is the set of claims a provider returned for a login.
type Profile map[string]any

// Lookup resolves a dotted path with optional list indexes, e.g. "emails[0].value".
// Only scalar values resolve, they are returned as strings.
func (p Profile) Lookup(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	var cur any = map[string]any(p)

	for _, seg := range strings.Split(path, ".") {
		name, indexes, ok := splitIndexes(seg)
		if !ok {
			return "", false
		}

		if name != "" {
			if cur, ok = field(cur, name); !ok {
				return "", false
			}
		}

		for _, i := range indexes {
			if cur, ok = index(cur, i); !ok {
				return "", false
			}
		}
	}

	return scalar(cur)
}

// String returns the value at path or "".
func (p Profile) String(path string) string {
	s, _ := p.Lookup(path)

	return s
}

func splitIndexes(seg string) (string, []int, bool) {
	name, rest, found := strings.Cut(seg, "[")
	if !found {
		return seg, nil, true
	}

	var indexes []int

	rest = "[" + rest

	for rest != "" {
		if rest[0] != '[' {
			return "", nil, false
		}

		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return "", nil, false
		}

		i, err := strconv.Atoi(rest[1:end])
		if err != nil || i < 0 {
			return "", nil, false
		}

		indexes = append(indexes, i)
		rest = rest[end+1:]
	}

	return name, indexes, true
}

func field(v any, name string) (any, bool) {
	switch m := v.(type) {
	case map[string]any:
		val, ok := m[name]
		return val, ok
	case Profile:
		val, ok := m[name]
		return val, ok
	case map[string]string:
		val, ok := m[name]
		return val, ok
	}

	return nil, false
}

func index(v any, i int) (any, bool) {
	switch l := v.(type) {
	case []any:
		if i < len(l) {
			return l[i], true
		}
	case []string:
		if i < len(l) {
			return l[i], true
		}
	case []map[string]any:
		if i < len(l) {
			return l[i], true
		}
	}

	return nil, false
}

func scalar(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, s != ""
	case nil:
		return "", false
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool, int, int64:
		return fmt.Sprint(s), true
	}

	return "", false
}
