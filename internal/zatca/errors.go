package zatca

import "fmt"

// Error codes for TLV encoding and decoding
const (
	ErrCodeValueTooLong  = "VALUE_TOO_LONG"
	ErrCodeInvalidTag    = "INVALID_TAG"
	ErrCodeInvalidUTF8   = "INVALID_UTF8"
	ErrCodeMissingField  = "MISSING_FIELD"
	ErrCodeTruncated     = "TRUNCATED"
	ErrCodeUnexpectedTag = "UNEXPECTED_TAG"
	ErrCodeInvalidBase64 = "INVALID_BASE64"
)

// EncodingError is returned when a payload cannot be encoded or decoded
type EncodingError struct {
	Code    string
	Tag     byte
	Message string
	Cause   error
}

func (e *EncodingError) Error() string {
	if e.Tag != 0 && e.Cause != nil {
		return fmt.Sprintf("[%s] tag %d: %s (%v)", e.Code, e.Tag, e.Message, e.Cause)
	}
	if e.Tag != 0 {
		return fmt.Sprintf("[%s] tag %d: %s", e.Code, e.Tag, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s (%v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// NewEncodingError creates a new encoding error
func NewEncodingError(code string, tag byte, message string, cause error) *EncodingError {
	return &EncodingError{
		Code:    code,
		Tag:     tag,
		Message: message,
		Cause:   cause,
	}
}

// ErrValueTooLong returns error when a value does not fit a one-byte length
func ErrValueTooLong(tag byte, length int) *EncodingError {
	return NewEncodingError(ErrCodeValueTooLong, tag,
		fmt.Sprintf("value is %d bytes, at most %d allowed", length, MaxValueLength), nil)
}

// ErrInvalidTag returns error for tag 0
func ErrInvalidTag(tag byte) *EncodingError {
	return NewEncodingError(ErrCodeInvalidTag, tag, "tag must be between 1 and 255", nil)
}

// ErrInvalidUTF8 returns error when a value is not valid UTF-8
func ErrInvalidUTF8(tag byte) *EncodingError {
	return NewEncodingError(ErrCodeInvalidUTF8, tag, "value is not valid UTF-8", nil)
}

// ErrMissingField returns error when a mandatory field is empty
func ErrMissingField(tag byte, field string) *EncodingError {
	return NewEncodingError(ErrCodeMissingField, tag, fmt.Sprintf("%s is required", field), nil)
}

// ErrTruncated returns error when the input ends inside a record
func ErrTruncated(offset int) *EncodingError {
	return NewEncodingError(ErrCodeTruncated, 0, fmt.Sprintf("input truncated at offset %d", offset), nil)
}

// ErrUnexpectedTag returns error when a record arrives out of order
func ErrUnexpectedTag(got, want byte) *EncodingError {
	return NewEncodingError(ErrCodeUnexpectedTag, got, fmt.Sprintf("expected tag %d", want), nil)
}

// ErrInvalidBase64 returns error when a QR payload is not standard Base64
func ErrInvalidBase64(cause error) *EncodingError {
	return NewEncodingError(ErrCodeInvalidBase64, 0, "payload is not valid base64", cause)
}
