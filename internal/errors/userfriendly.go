package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/tturner/meshdiag/internal/apdu"
)

// UserFriendlyError provides user-friendly error messages with context and hints
type UserFriendlyError struct {
	Message string
	Reason  string
	Hint    string
	Try     string
	Err     error
}

func (e UserFriendlyError) Error() string {
	var buf strings.Builder
	buf.WriteString(e.Message)
	if e.Reason != "" {
		buf.WriteString("\n  Reason: " + e.Reason)
	}
	if e.Hint != "" {
		buf.WriteString("\n  Hint: " + e.Hint)
	}
	if e.Try != "" {
		buf.WriteString("\n  Try: " + e.Try)
	}
	if e.Err != nil {
		buf.WriteString("\n  Details: " + e.Err.Error())
	}
	return buf.String()
}

func (e UserFriendlyError) Unwrap() error {
	return e.Err
}

// WrapDecodeError wraps payload decode errors with a reason and hint per
// error kind.
func WrapDecodeError(err error, version string) error {
	if err == nil {
		return nil
	}

	ufe := UserFriendlyError{
		Message: fmt.Sprintf("Failed to decode payload as protocol version %s", version),
		Err:     err,
	}
	var de *apdu.DecodeError
	hasDetail := stderrors.As(err, &de)

	switch {
	case stderrors.Is(err, apdu.ErrUnsupportedVersion):
		ufe.Reason = "No payload layout is registered for this protocol version"
		ufe.Hint = "Supported versions are listed by the layouts command"
		ufe.Try = "meshdiag layouts"
	case stderrors.Is(err, apdu.ErrTruncatedPayload):
		ufe.Reason = "Payload is shorter than the layout requires"
		if hasDetail {
			ufe.Reason = fmt.Sprintf("Payload has %d bytes, layout requires %d", de.Got, de.Want)
		}
		ufe.Hint = "The payload may have been cut by the transport or belong to another message type"
	case stderrors.Is(err, apdu.ErrTrailingBytes):
		ufe.Reason = "Payload is longer than the layout allows"
		if hasDetail {
			ufe.Reason = fmt.Sprintf("Payload has %d bytes, layout expects exactly %d", de.Got, de.Want)
		}
		ufe.Hint = "The message may be misidentified; if the firmware is known to pad, trailing bytes can be tolerated"
		ufe.Try = "meshdiag decode --allow-trailing ..."
	case stderrors.Is(err, apdu.ErrMalformedField):
		ufe.Reason = "A field value is invalid for its declared type"
		if hasDetail && de.Field != "" {
			ufe.Reason = fmt.Sprintf("Field %s is invalid", de.Field)
		}
	default:
		ufe.Reason = "Decode failed"
	}
	return ufe
}

// WrapConfigError wraps configuration errors with user-friendly context
func WrapConfigError(err error, configPath string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Configuration error in %s", configPath),
		Reason:  "Configuration is invalid",
		Hint:    "A commented default configuration can be generated",
		Try:     "meshdiag config init --output meshdiag.yaml",
		Err:     err,
	}
}

// WrapInputError wraps errors reading payload input (hex text or capture files).
func WrapInputError(err error, source string) error {
	if err == nil {
		return nil
	}

	return UserFriendlyError{
		Message: fmt.Sprintf("Cannot read payload input from %s", source),
		Reason:  extractInputReason(err),
		Hint:    "Payloads are given as hex (spaces allowed) or as a libpcap capture file",
		Err:     err,
	}
}

func extractInputReason(err error) string {
	errStr := err.Error()

	if strings.Contains(errStr, "even number") || strings.Contains(errStr, "invalid byte") {
		return "Hex input is malformed"
	}
	if strings.Contains(errStr, "no such file") {
		return "File does not exist"
	}
	if strings.Contains(errStr, "Unknown magic") || strings.Contains(errStr, "pcap") {
		return "File is not a libpcap capture"
	}

	return "Input could not be read"
}
