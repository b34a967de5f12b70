package apiclient

import (
	"fmt"
	"net/url"

	"github.com/tjfontaine/apicore/internal/formenc"
	"github.com/tjfontaine/apicore/internal/json"
	"github.com/tjfontaine/apicore/internal/keycase"
	"github.com/tjfontaine/apicore/pkg/apiclient/transport"
)

// KeyEncoding controls how parameter field names are written outbound.
type KeyEncoding int

const (
	// KeyEncodingAsIs keeps field names as the parameter's JSON form has them.
	KeyEncodingAsIs KeyEncoding = iota
	// KeyEncodingSnakeCase converts camelCase field names to snake_case.
	KeyEncodingSnakeCase
)

// KeyDecoding controls how response field names are translated inbound.
type KeyDecoding int

const (
	// KeyDecodingAsIs decodes field names unchanged.
	KeyDecodingAsIs KeyDecoding = iota
	// KeyDecodingSnakeToCamel converts snake_case field names to camelCase
	// before decoding.
	KeyDecodingSnakeToCamel
)

func (k KeyDecoding) String() string {
	switch k {
	case KeyDecodingAsIs:
		return "as_is"
	case KeyDecodingSnakeToCamel:
		return "snake_to_camel"
	default:
		return fmt.Sprintf("KeyDecoding(%d)", int(k))
	}
}

// ParameterEncoder writes descriptor parameters into a wire request.
type ParameterEncoder interface {
	Encode(req *transport.Request, params any) error
}

// URLEncoding returns an encoder that writes parameters into the query
// string. Nested objects use bracket keys ("a[b]=1") and arrays repeat the
// key with a "[]" suffix. Existing query parameters on the target are kept.
func URLEncoding(keys KeyEncoding) ParameterEncoder {
	return urlEncoder{keys: keys}
}

// JSONEncoding returns an encoder that writes parameters as a JSON body.
func JSONEncoding(keys KeyEncoding) ParameterEncoder {
	return jsonEncoder{keys: keys}
}

type urlEncoder struct {
	keys KeyEncoding
}

func (e urlEncoder) Encode(req *transport.Request, params any) error {
	if params == nil {
		return nil
	}
	tree, err := parameterTree(params, e.keys)
	if err != nil {
		return err
	}
	values, err := formenc.Values(tree)
	if err != nil {
		return fmt.Errorf("encode query parameters: %w", err)
	}
	if len(values) == 0 {
		return nil
	}

	u, err := url.Parse(req.URL)
	if err != nil {
		return fmt.Errorf("parse target: %w", err)
	}
	q := u.Query()
	for k, vs := range values {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	req.URL = u.String()
	return nil
}

type jsonEncoder struct {
	keys KeyEncoding
}

func (e jsonEncoder) Encode(req *transport.Request, params any) error {
	if params == nil {
		return nil
	}

	var (
		body []byte
		err  error
	)
	if e.keys == KeyEncodingAsIs {
		body, err = json.Marshal(params)
	} else {
		var tree any
		if tree, err = parameterTree(params, e.keys); err == nil {
			body, err = json.Marshal(tree)
		}
	}
	if err != nil {
		return fmt.Errorf("encode body parameters: %w", err)
	}

	req.Body = body
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return nil
}

// parameterTree renders params through the JSON codec so both encodings see
// exactly the fields the parameter type serializes, then applies the key
// transform.
func parameterTree(params any, keys KeyEncoding) (any, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal parameters: %w", err)
	}
	tree, err := json.UnmarshalGeneric(raw)
	if err != nil {
		return nil, fmt.Errorf("read parameters: %w", err)
	}
	if keys == KeyEncodingSnakeCase {
		tree = keycase.Rewrite(tree, keycase.ToSnake)
	}
	return tree, nil
}

// decodeBody decodes data into out, translating keys first when asked to.
func decodeBody(data []byte, keys KeyDecoding, out any) error {
	if keys == KeyDecodingSnakeToCamel {
		rewritten, err := keycase.RewriteJSON(data, keycase.ToCamel)
		if err != nil {
			return err
		}
		data = rewritten
	}
	return json.Unmarshal(data, out)
}
