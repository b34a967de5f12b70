package apiclient

import "testing"

func TestDefaultClassify(t *testing.T) {
	if got := DefaultClassify(418, []byte(`{"message":"teapot"}`)); got != "unknown error (status 418)" {
		t.Errorf("DefaultClassify() = %q", got)
	}
}

func TestMessageField(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		body  string
		want  string
	}{
		{"default path", nil, `{"message":"Not Found"}`, "Not Found"},
		{"nested path", []string{"error.message"}, `{"error":{"message":"bad key"}}`, "bad key"},
		{"first non-empty wins", []string{"detail", "message"}, `{"detail":"  ","message":"fallback"}`, "fallback"},
		{"non-string ignored", nil, `{"message":42}`, "unknown error (status 400)"},
		{"missing field", nil, `{"error":"x"}`, "unknown error (status 400)"},
		{"malformed body", nil, `{"message":`, "unknown error (status 400)"},
		{"empty body", nil, ``, "unknown error (status 400)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn := MessageField(tt.paths...)
			if got := fn(400, []byte(tt.body)); got != tt.want {
				t.Errorf("MessageField() = %q, want %q", got, tt.want)
			}
		})
	}
}
