package apiclient

import "testing"

func TestLogPolicy_Presets(t *testing.T) {
	def := DefaultLogPolicy()
	for _, o := range []LogOption{LogRequest, LogResponseStatus, LogResponseDecode, LogError} {
		if !def.Has(o) {
			t.Errorf("DefaultLogPolicy() missing %v", o)
		}
	}
	if def.Has(LogResponseBody) || def.Has(LogCache) {
		t.Errorf("DefaultLogPolicy() = %v, want no body or cache logging", def)
	}

	if len(NoLogging().Options()) != 0 {
		t.Errorf("NoLogging() = %v, want empty", NoLogging())
	}
	if NoLogging() != (LogPolicy{}) {
		t.Error("NoLogging() differs from the zero policy")
	}
	if got := len(FullLogging().Options()); got != int(numLogOptions) {
		t.Errorf("FullLogging() has %d options, want %d", got, numLogOptions)
	}
}

func TestLogPolicy_WithIsCopy(t *testing.T) {
	base := NewLogPolicy(LogError)
	more := base.With(LogRequest)

	if base.Has(LogRequest) {
		t.Error("With() modified the receiver")
	}
	if !more.Has(LogRequest) || !more.Has(LogError) {
		t.Errorf("With() = %v", more)
	}
	if more.String() != "request,error" {
		t.Errorf("String() = %q, want request,error", more.String())
	}
}

func TestLogPolicy_OutOfRange(t *testing.T) {
	p := NewLogPolicy(LogOption(-1), numLogOptions)
	if len(p.Options()) != 0 {
		t.Errorf("out of range options were added: %v", p)
	}
	if p.Has(LogOption(99)) {
		t.Error("Has(99) = true")
	}
	if LogOption(99).String() != "LogOption(99)" {
		t.Errorf("String() = %q", LogOption(99).String())
	}
}

func TestParseLogPolicy(t *testing.T) {
	tests := []struct {
		name    string
		names   []string
		want    LogPolicy
		wantErr bool
	}{
		{"empty is default", nil, DefaultLogPolicy(), false},
		{"none", []string{"none"}, NoLogging(), false},
		{"all", []string{"all"}, FullLogging(), false},
		{"explicit", []string{"Request", " error "}, NewLogPolicy(LogRequest, LogError), false},
		{"default plus body", []string{"default", "response_body"}, DefaultLogPolicy().With(LogResponseBody), false},
		{"unknown", []string{"verbose"}, LogPolicy{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLogPolicy(tt.names)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogPolicy() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogPolicy() = %v, want %v", got, tt.want)
			}
		})
	}
}
