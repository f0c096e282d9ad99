package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	ErrParse             = errors.New("parse error")
	ErrProtocolViolation = errors.New("protocol violation")
	ErrStreamTruncated   = errors.New("event stream closed before end event")
)

// ParseError reports malformed input. Field is a dotted path into the
// document ("wrapper.mode"); it is empty when the whole document is at fault.
type ParseError struct {
	Subject  string
	Field    string
	Expected string
	Actual   string
	Err      error
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString("failed to parse ")
	sb.WriteString(e.Subject)
	if e.Field != "" {
		fmt.Fprintf(&sb, ": field %q", e.Field)
	}
	if e.Expected != "" {
		fmt.Fprintf(&sb, ": expected %s", e.Expected)
		if e.Actual != "" {
			fmt.Fprintf(&sb, ", got %s", e.Actual)
		}
	}
	if e.Err != nil {
		fmt.Fprintf(&sb, ": %v", e.Err)
	}
	return sb.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ProtocolViolationError is returned when a set event follows the end event.
type ProtocolViolationError struct {
	Index int
	Slug  string
}

func (e *ProtocolViolationError) Error() string {
	if e.Slug == "" {
		return fmt.Sprintf("protocol violation: event %d received after end", e.Index)
	}
	return fmt.Sprintf("protocol violation: set for %s (event %d) received after end", e.Slug, e.Index)
}

func (e *ProtocolViolationError) Unwrap() error {
	return ErrProtocolViolation
}

func newParseError(subject, field, expected string, actual gjson.Result) *ParseError {
	return &ParseError{
		Subject:  subject,
		Field:    field,
		Expected: expected,
		Actual:   jsonKind(actual),
	}
}

func jsonKind(r gjson.Result) string {
	if !r.Exists() {
		return "nothing"
	}
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	}
	if r.IsArray() {
		return "array"
	}
	return "object"
}
