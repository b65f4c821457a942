package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnexpectedShape is returned when a reviewers or reviews payload is
// neither a string, an object, an array of those, nor null.
var ErrUnexpectedShape = errors.New("unexpected payload shape")

// DecodeReviewers decodes the reviewers payload variants:
//
//	"a, b"                  two reviewers by name
//	{"name": ...}           one reviewer
//	["a", {"name": ...}]    one reviewer per element
//	null or absent          nil
func DecodeReviewers(raw json.RawMessage) ([]Reviewer, error) {
	return decodeVariant(raw, "reviewers", splitNames, func(b []byte) (Reviewer, error) {
		var r Reviewer
		err := json.Unmarshal(b, &r)
		return r, err
	})
}

// DecodeReviews decodes the reviews payload variants. A bare string is a
// single review comment.
func DecodeReviews(raw json.RawMessage) ([]Review, error) {
	return decodeVariant(raw, "reviews", func(s string) []Review {
		if strings.TrimSpace(s) == "" {
			return []Review{}
		}
		return []Review{{Comments: s}}
	}, func(b []byte) (Review, error) {
		var r Review
		err := json.Unmarshal(b, &r)
		return r, err
	})
}

func decodeVariant[T any](raw json.RawMessage, field string, fromString func(string) []T, fromObject func([]byte) (T, error)) ([]T, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	raw = bytes.TrimSpace(raw)

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return fromString(s), nil
	case '{':
		item, err := fromObject(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		return []T{item}, nil
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, fmt.Errorf("%s: %w", field, err)
		}
		out := make([]T, 0, len(elems))
		for i, elem := range elems {
			elem = bytes.TrimSpace(elem)
			if len(elem) == 0 {
				return nil, fmt.Errorf("%s[%d]: %w", field, i, ErrUnexpectedShape)
			}
			switch elem[0] {
			case '"':
				var s string
				if err := json.Unmarshal(elem, &s); err != nil {
					return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
				}
				out = append(out, fromString(s)...)
			case '{':
				item, err := fromObject(elem)
				if err != nil {
					return nil, fmt.Errorf("%s[%d]: %w", field, i, err)
				}
				out = append(out, item)
			default:
				return nil, fmt.Errorf("%s[%d]: %w: %s", field, i, ErrUnexpectedShape, kindOf(elem))
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: %w: %s", field, ErrUnexpectedShape, kindOf(raw))
	}
}

func isAbsent(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func splitNames(s string) []Reviewer {
	parts := strings.Split(s, ",")
	out := make([]Reviewer, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, Reviewer{Name: p})
		}
	}
	return out
}

func kindOf(b []byte) string {
	switch {
	case len(b) == 0:
		return "empty"
	case b[0] == '[':
		return "array"
	case b[0] == 't' || b[0] == 'f':
		return "boolean"
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		return "number"
	default:
		return "unknown"
	}
}
