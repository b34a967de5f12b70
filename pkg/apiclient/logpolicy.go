package apiclient

import (
	"fmt"
	"strings"
)

// LogOption names one pipeline stage that may emit diagnostics.
type LogOption int

const (
	// LogRequest logs a summary of the outgoing descriptor.
	LogRequest LogOption = iota
	// LogResponseStatus logs the status code and target of every response.
	LogResponseStatus
	// LogResponseBody logs a compacted preview of success-range bodies.
	LogResponseBody
	// LogResponseDecode logs the decoded value.
	LogResponseDecode
	// LogError logs classified failures.
	LogError
	// LogCache logs cache requests.
	LogCache

	numLogOptions
)

var logOptionNames = [numLogOptions]string{
	LogRequest:        "request",
	LogResponseStatus: "response_status",
	LogResponseBody:   "response_body",
	LogResponseDecode: "response_decode",
	LogError:          "error",
	LogCache:          "cache",
}

// String returns the configuration name of the option.
func (o LogOption) String() string {
	if o < 0 || o >= numLogOptions {
		return fmt.Sprintf("LogOption(%d)", int(o))
	}
	return logOptionNames[o]
}

// LogPolicy is the set of stages that emit diagnostics. It is a comparable
// value; the zero value logs nothing.
type LogPolicy struct {
	set [numLogOptions]bool
}

// NewLogPolicy returns a policy containing exactly opts.
func NewLogPolicy(opts ...LogOption) LogPolicy {
	var p LogPolicy
	for _, o := range opts {
		if o >= 0 && o < numLogOptions {
			p.set[o] = true
		}
	}
	return p
}

// DefaultLogPolicy logs the request, response status, decoded value and errors.
func DefaultLogPolicy() LogPolicy {
	return NewLogPolicy(LogRequest, LogResponseStatus, LogResponseDecode, LogError)
}

// NoLogging returns the empty policy.
func NoLogging() LogPolicy {
	return LogPolicy{}
}

// FullLogging returns a policy containing every option.
func FullLogging() LogPolicy {
	return NewLogPolicy(AllLogOptions()...)
}

// AllLogOptions lists every option in declaration order.
func AllLogOptions() []LogOption {
	opts := make([]LogOption, 0, numLogOptions)
	for o := LogOption(0); o < numLogOptions; o++ {
		opts = append(opts, o)
	}
	return opts
}

// Has reports whether o is in the policy.
func (p LogPolicy) Has(o LogOption) bool {
	return o >= 0 && o < numLogOptions && p.set[o]
}

// With returns a copy of p with opts added.
func (p LogPolicy) With(opts ...LogOption) LogPolicy {
	for _, o := range opts {
		if o >= 0 && o < numLogOptions {
			p.set[o] = true
		}
	}
	return p
}

// Options lists the members of p in declaration order.
func (p LogPolicy) Options() []LogOption {
	var opts []LogOption
	for o := LogOption(0); o < numLogOptions; o++ {
		if p.set[o] {
			opts = append(opts, o)
		}
	}
	return opts
}

// String renders the policy as a comma separated list of option names.
func (p LogPolicy) String() string {
	opts := p.Options()
	names := make([]string, len(opts))
	for i, o := range opts {
		names[i] = o.String()
	}
	return strings.Join(names, ",")
}

// ParseLogPolicy builds a policy from option names. The names "default",
// "none" and "all" expand to the corresponding presets. An empty list yields
// the default policy.
func ParseLogPolicy(names []string) (LogPolicy, error) {
	if len(names) == 0 {
		return DefaultLogPolicy(), nil
	}

	var p LogPolicy
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "":
			continue
		case "default":
			p = p.With(DefaultLogPolicy().Options()...)
		case "all":
			p = p.With(AllLogOptions()...)
		case "none":
		default:
			opt, ok := logOptionByName(name)
			if !ok {
				return LogPolicy{}, fmt.Errorf("unknown log option %q", raw)
			}
			p = p.With(opt)
		}
	}
	return p, nil
}

func logOptionByName(name string) (LogOption, bool) {
	for o, n := range logOptionNames {
		if n == name {
			return LogOption(o), true
		}
	}
	return 0, false
}
