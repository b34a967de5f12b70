package apiclient

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ClassifyFunc derives the user-facing message of a response whose status
// falls outside the success range. body is the raw response payload and may
// be empty or malformed.
type ClassifyFunc func(statusCode int, body []byte) string

// DefaultClassify returns a generic placeholder keyed by status code.
func DefaultClassify(statusCode int, _ []byte) string {
	return fmt.Sprintf("unknown error (status %d)", statusCode)
}

// MessageField returns a classifier that reads the first non-empty string
// found at one of paths (gjson syntax, e.g. "message" or "error.message").
// Bodies that are not JSON, or carry none of the paths, fall back to
// DefaultClassify.
func MessageField(paths ...string) ClassifyFunc {
	if len(paths) == 0 {
		paths = []string{"message"}
	}
	return func(statusCode int, body []byte) string {
		if len(body) == 0 || !gjson.ValidBytes(body) {
			return DefaultClassify(statusCode, body)
		}
		for _, p := range paths {
			res := gjson.GetBytes(body, p)
			if res.Type != gjson.String {
				continue
			}
			if msg := strings.TrimSpace(res.String()); msg != "" {
				return msg
			}
		}
		return DefaultClassify(statusCode, body)
	}
}
