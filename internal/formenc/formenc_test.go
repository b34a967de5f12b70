package formenc

import (
	"testing"

	"github.com/tjfontaine/apicore/internal/json"
)

func TestValues(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"flat", `{"q":"language:swift","per_page":2,"page":1}`, "page=1&per_page=2&q=language%3Aswift", false},
		{"bool and float", `{"draft":true,"ratio":0.5}`, "draft=true&ratio=0.5", false},
		{"nested object", `{"filter":{"b":"2","a":"1"}}`, "filter%5Ba%5D=1&filter%5Bb%5D=2", false},
		{"array", `{"ids":[3,1]}`, "ids%5B%5D=3&ids%5B%5D=1", false},
		{"null skipped", `{"a":null,"b":"x"}`, "b=x", false},
		{"not an object", `[1,2]`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := json.UnmarshalGeneric([]byte(tt.input))
			if err != nil {
				t.Fatalf("UnmarshalGeneric() error = %v", err)
			}
			got, err := Values(tree)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Values() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if enc := got.Encode(); enc != tt.want {
				t.Errorf("Values().Encode() = %q, want %q", enc, tt.want)
			}
		})
	}
}

func TestValues_Nil(t *testing.T) {
	got, err := Values(nil)
	if err != nil {
		t.Fatalf("Values(nil) error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Values(nil) = %v, want empty", got)
	}
}

func TestValues_Unsupported(t *testing.T) {
	if _, err := Values(map[string]any{"ch": make(chan int)}); err == nil {
		t.Error("Values() should reject unsupported types")
	}
}
