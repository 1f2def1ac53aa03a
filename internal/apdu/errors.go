package apdu

import (
	"errors"
	"fmt"
	"strings"
)

// Decode error kinds. Every error returned by the decoder wraps exactly one
// of these so callers can branch with errors.Is.
var (
	ErrUnsupportedVersion = errors.New("unsupported protocol version")
	ErrTruncatedPayload   = errors.New("truncated payload")
	ErrTrailingBytes      = errors.New("trailing bytes after payload")
	ErrMalformedField     = errors.New("malformed field")
)

// DecodeError carries enough context to log a failure without re-parsing
// the payload. Field and Offset are set only when a single field is at fault;
// Offset is -1 otherwise.
type DecodeError struct {
	Kind    error
	Message string
	Version string
	Field   string
	Offset  int
	Got     int
	Want    int
}

func (e *DecodeError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Kind.Error())
	if e.Message != "" {
		buf.WriteString(": " + e.Message)
	}
	if e.Field != "" {
		fmt.Fprintf(&buf, " (field %s", e.Field)
		if e.Offset >= 0 {
			fmt.Fprintf(&buf, " at offset %d", e.Offset)
		}
		buf.WriteString(")")
	}
	if e.Version != "" {
		fmt.Fprintf(&buf, " [version %s]", e.Version)
	}
	return buf.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Kind
}

func errUnsupportedVersion(version, reason string) error {
	return &DecodeError{Kind: ErrUnsupportedVersion, Message: reason, Version: version, Offset: -1}
}

func errTruncated(version string, got, want int) error {
	return &DecodeError{
		Kind:    ErrTruncatedPayload,
		Message: fmt.Sprintf("%d bytes (need %d)", got, want),
		Version: version,
		Offset:  got,
		Got:     got,
		Want:    want,
	}
}

func errTrailing(version string, got, want int) error {
	return &DecodeError{
		Kind:    ErrTrailingBytes,
		Message: fmt.Sprintf("%d bytes (expected exactly %d)", got, want),
		Version: version,
		Offset:  want,
		Got:     got,
		Want:    want,
	}
}

func errMalformed(field string, offset int, format string, args ...any) error {
	return &DecodeError{
		Kind:    ErrMalformedField,
		Message: fmt.Sprintf(format, args...),
		Field:   field,
		Offset:  offset,
	}
}

// Kind returns a short machine-readable label for err's decode error kind,
// or "error" if err is not a decode error.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedVersion):
		return "unsupported_version"
	case errors.Is(err, ErrTruncatedPayload):
		return "truncated_payload"
	case errors.Is(err, ErrTrailingBytes):
		return "trailing_bytes"
	case errors.Is(err, ErrMalformedField):
		return "malformed_field"
	default:
		return "error"
	}
}
