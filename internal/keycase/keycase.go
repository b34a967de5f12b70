// Package keycase converts JSON object keys between camelCase and snake_case.
package keycase

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tjfontaine/apicore/internal/json"
)

// ToSnake converts a camelCase key to snake_case. Runs of capitals are kept
// together as one word, so "myURLProperty" becomes "my_url_property".
// Leading and trailing underscores are preserved.
func ToSnake(key string) string {
	core, lead, trail := splitUnderscores(key)
	if core == "" {
		return key
	}

	runes := []rune(core)
	var b strings.Builder
	b.Grow(len(core) + 4)
	b.WriteString(lead)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prev != '_' && (!unicode.IsUpper(prev) || nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}

	b.WriteString(trail)
	return b.String()
}

// ToCamel converts a snake_case key to camelCase. The first word is kept as
// is; every following word is capitalized with the remainder lowercased.
// Leading and trailing underscores are preserved.
func ToCamel(key string) string {
	core, lead, trail := splitUnderscores(key)
	if !strings.Contains(core, "_") {
		return key
	}

	words := strings.Split(core, "_")
	var b strings.Builder
	b.Grow(len(key))
	b.WriteString(lead)
	b.WriteString(words[0])
	for _, w := range words[1:] {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		b.WriteRune(unicode.ToUpper(r))
		b.WriteString(strings.ToLower(w[size:]))
	}
	b.WriteString(trail)
	return b.String()
}

func splitUnderscores(key string) (core, lead, trail string) {
	start := 0
	for start < len(key) && key[start] == '_' {
		start++
	}
	if start == len(key) {
		return "", key, ""
	}
	end := len(key)
	for end > start && key[end-1] == '_' {
		end--
	}
	return key[start:end], key[:start], key[end:]
}

// Rewrite applies fn to every object key in the untyped tree v, recursing
// into nested objects and arrays. The input is not modified.
//
// When several keys map to the same name, a key that fn leaves unchanged
// wins; among converted keys the lexically last one wins.
func Rewrite(v any, fn func(string) string) any {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		out := make(map[string]any, len(t))
		kept := make(map[string]bool, len(t))
		for _, k := range keys {
			name := fn(k)
			if kept[name] {
				continue
			}
			out[name] = Rewrite(t[k], fn)
			kept[name] = name == k
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = Rewrite(val, fn)
		}
		return out
	default:
		return v
	}
}

// RewriteJSON decodes data, rewrites every object key with fn and encodes the
// result again. Number precision is preserved.
func RewriteJSON(data []byte, fn func(string) string) ([]byte, error) {
	tree, err := json.UnmarshalGeneric(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Rewrite(tree, fn))
}
