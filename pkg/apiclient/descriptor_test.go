package apiclient

import (
	"errors"
	"strings"
	"testing"

	"github.com/tjfontaine/apicore/pkg/apiclient/transport"
)

type searchParams struct {
	Query   string `json:"q"`
	PerPage int    `json:"perPage"`
	Page    int    `json:"page"`
}

type createParams struct {
	DisplayName string   `json:"displayName"`
	Tags        []string `json:"tags,omitempty"`
}

func TestNewDescriptor_Validation(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		target string
	}{
		{"bad method", Method("FETCH"), "https://api.example.com"},
		{"empty target", MethodGet, "  "},
		{"relative target", MethodGet, "/users"},
		{"unparsable target", MethodGet, "http://[::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDescriptor(tt.method, tt.target)
			if !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("NewDescriptor() error = %v, want ErrInvalidDescriptor", err)
			}
		})
	}
}

func TestMustDescriptor_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustDescriptor() did not panic")
		}
	}()
	MustDescriptor(MethodGet, "")
}

func TestDescriptor_Defaults(t *testing.T) {
	get := MustDescriptor(MethodGet, "https://api.example.com/items")
	if get.KeyDecoding() != KeyDecodingSnakeToCamel {
		t.Errorf("KeyDecoding() = %v, want snake_to_camel", get.KeyDecoding())
	}
	if _, ok := get.Encoder().(urlEncoder); !ok {
		t.Errorf("GET encoder = %T, want urlEncoder", get.Encoder())
	}

	post := MustDescriptor(MethodPost, "https://api.example.com/items")
	if _, ok := post.Encoder().(jsonEncoder); !ok {
		t.Errorf("POST encoder = %T, want jsonEncoder", post.Encoder())
	}
	if post.UseCache() {
		t.Error("UseCache() = true by default")
	}
}

func TestDescriptor_WireRequest_Query(t *testing.T) {
	d := MustDescriptor(MethodGet, "https://api.example.com/search?sort=stars",
		WithParameters(searchParams{Query: "language:swift", PerPage: 2, Page: 1}),
		WithHeader("Accept", "application/json"),
	)

	req, err := d.WireRequest()
	if err != nil {
		t.Fatalf("WireRequest() error = %v", err)
	}

	want := "https://api.example.com/search?page=1&per_page=2&q=language%3Aswift&sort=stars"
	if req.URL != want {
		t.Errorf("URL = %q, want %q", req.URL, want)
	}
	if req.Method != "GET" {
		t.Errorf("Method = %q, want GET", req.Method)
	}
	if req.Header.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", req.Header.Get("Accept"))
	}
	if req.Body != nil {
		t.Errorf("Body = %q, want nil", req.Body)
	}
}

func TestDescriptor_WireRequest_JSONBody(t *testing.T) {
	d := MustDescriptor(MethodPost, "https://api.example.com/items",
		WithParameters(createParams{DisplayName: "Widget", Tags: []string{"a"}}),
		WithAccessToken("tok"),
	)

	req, err := d.WireRequest()
	if err != nil {
		t.Fatalf("WireRequest() error = %v", err)
	}

	if string(req.Body) != `{"display_name":"Widget","tags":["a"]}` {
		t.Errorf("Body = %s", req.Body)
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
	if req.Header.Get("Authorization") != "Bearer tok" {
		t.Errorf("Authorization = %q", req.Header.Get("Authorization"))
	}
}

func TestDescriptor_WireRequest_Overrides(t *testing.T) {
	d := MustDescriptor(MethodPut, "https://api.example.com/items/1",
		WithParameters(createParams{DisplayName: "Widget"}),
		WithEncoder(JSONEncoding(KeyEncodingAsIs)),
		WithHeader("Content-Type", "application/json; charset=utf-8"),
		WithHeader("Authorization", "token explicit"),
		WithAccessToken("ignored"),
	)

	req, err := d.WireRequest()
	if err != nil {
		t.Fatalf("WireRequest() error = %v", err)
	}
	if string(req.Body) != `{"displayName":"Widget"}` {
		t.Errorf("Body = %s", req.Body)
	}
	if req.Header.Get("Content-Type") != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", req.Header.Get("Content-Type"))
	}
	if req.Header.Get("Authorization") != "token explicit" {
		t.Errorf("Authorization = %q, want explicit header", req.Header.Get("Authorization"))
	}
}

func TestDescriptor_WireRequest_Fresh(t *testing.T) {
	d := MustDescriptor(MethodGet, "https://api.example.com/items",
		WithParameters(map[string]any{"page": 1}),
		WithHeader("X-Trace", "1"),
	)

	first, err := d.WireRequest()
	if err != nil {
		t.Fatalf("WireRequest() error = %v", err)
	}
	first.Header.Set("X-Trace", "mutated")
	first.URL = "https://elsewhere.example.com"

	second, err := d.WireRequest()
	if err != nil {
		t.Fatalf("WireRequest() error = %v", err)
	}
	if second.Header.Get("X-Trace") != "1" || second.URL != "https://api.example.com/items?page=1" {
		t.Errorf("second request affected by mutation: %+v", second)
	}
}

func TestDescriptor_WireRequest_EncodeError(t *testing.T) {
	d := MustDescriptor(MethodGet, "https://api.example.com/items",
		WithParameters([]int{1, 2}),
	)
	if _, err := d.WireRequest(); err == nil {
		t.Error("WireRequest() should reject non-object query parameters")
	}
}

func TestDescriptor_HeadersAreCopied(t *testing.T) {
	headers := map[string]string{"Accept": "application/json"}
	d := MustDescriptor(MethodGet, "https://api.example.com", WithHeaders(headers))

	headers["Accept"] = "text/html"
	if d.Headers()["Accept"] != "application/json" {
		t.Error("descriptor observed caller's map mutation")
	}

	got := d.Headers()
	got["Accept"] = "text/plain"
	if d.Headers()["Accept"] != "application/json" {
		t.Error("Headers() exposed internal map")
	}
}

func TestDescriptor_String(t *testing.T) {
	d := MustDescriptor(MethodGet, "https://api.example.com/search",
		WithParameters(searchParams{Query: "go", PerPage: 1, Page: 2}),
		WithHeaders(map[string]string{
			"Authorization": "Bearer secret",
			"Accept":        "application/json",
		}),
	)

	s := d.String()
	for _, want := range []string{
		"GET https://api.example.com/search",
		`PARAMETERS: {"q":"go","perPage":1,"page":2}`,
		"Accept: application/json",
		"Authorization: [REDACTED]",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "secret") {
		t.Errorf("String() leaked the token:\n%s", s)
	}
	if strings.Index(s, "Accept") > strings.Index(s, "Authorization") {
		t.Errorf("String() headers not sorted:\n%s", s)
	}
}

type headerEncoder struct{}

func (headerEncoder) Encode(req *transport.Request, params any) error {
	req.Header.Set("X-Params", "custom")
	return nil
}

func TestDescriptor_CustomEncoder(t *testing.T) {
	d := MustDescriptor(MethodDelete, "https://api.example.com/items/1",
		WithParameters(struct{}{}),
		WithEncoder(headerEncoder{}),
	)
	req, err := d.WireRequest()
	if err != nil {
		t.Fatalf("WireRequest() error = %v", err)
	}
	if req.Header.Get("X-Params") != "custom" {
		t.Error("custom encoder was not used")
	}
}
