// Package formenc flattens a decoded JSON tree into URL form values using
// bracket notation: nested objects become "a[b]=1" and arrays "a[]=1".
package formenc

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"

	"github.com/tjfontaine/apicore/internal/json"
)

// Values flattens v into form values. v must be a JSON object tree as
// produced by json.UnmarshalGeneric; a nil tree yields empty values.
func Values(v any) (url.Values, error) {
	out := url.Values{}
	if v == nil {
		return out, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("form encoding requires an object, got %T", v)
	}
	for _, k := range sortedKeys(obj) {
		if err := appendValue(out, k, obj[k]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func appendValue(out url.Values, key string, v any) error {
	switch t := v.(type) {
	case nil:
		// JSON null has no form representation
		return nil
	case map[string]any:
		for _, k := range sortedKeys(t) {
			if err := appendValue(out, key+"["+k+"]", t[k]); err != nil {
				return err
			}
		}
	case []any:
		for _, item := range t {
			if err := appendValue(out, key+"[]", item); err != nil {
				return err
			}
		}
	case string:
		out.Add(key, t)
	case bool:
		out.Add(key, strconv.FormatBool(t))
	case json.Number:
		out.Add(key, t.String())
	case float64:
		out.Add(key, strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return fmt.Errorf("unsupported form value %T for key %q", v, key)
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
