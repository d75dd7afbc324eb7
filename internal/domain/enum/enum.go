package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// match returns the canonical spelling of s among values, ignoring case
// and surrounding whitespace.
func match[T ~string](values []T, s string) (T, bool) {
	s = strings.TrimSpace(s)
	for _, v := range values {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return "", false
}

func unmarshal[T ~string](data []byte, values []T, kind string, dst *T) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, ok := match(values, str)
	if !ok {
		return &invalidValueError{kind: kind, value: str}
	}
	*dst = v
	return nil
}

type invalidValueError struct {
	kind  string
	value string
}

func (e *invalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.kind, e.value)
}
