package wire

import (
	"bytes"
	"strconv"
)

// Field is one scalar value formatted for a hardware command payload.
// Fields are joined by a single 0x00 separator when built into a
// payload; see FieldWriter.
type Field struct {
	raw string
}

// Char formats a single-byte character field.
func Char(v byte) Field { return Field{string([]byte{v})} }

// Bool formats a boolean field as the literal "true"/"false".
func Bool(v bool) Field { return Field{strconv.FormatBool(v)} }

// Int formats a signed integer field.
func Int(v int64) Field { return Field{strconv.FormatInt(v, 10)} }

// Uint formats an unsigned integer field.
func Uint(v uint64) Field { return Field{strconv.FormatUint(v, 10)} }

// Float formats a floating-point field with 7 digits of precision,
// matching the original "%.7f" wire convention.
func Float(v float64) Field { return Field{strconv.FormatFloat(v, 'f', 7, 64)} }

// String copies a raw string field verbatim.
func String(v string) Field { return Field{v} }

// FieldWriter incrementally builds a Blynk command payload: consecutive
// fields are separated by a single 0x00 byte, and the result is capped
// at MaxPayloadSize bytes. This is the typed builder the design notes
// call for in place of a printf-style variadic format string.
type FieldWriter struct {
	buf bytes.Buffer
}

// NewFieldWriter returns an empty FieldWriter.
func NewFieldWriter() *FieldWriter {
	return &FieldWriter{}
}

// Append adds fields to the payload in order, inserting a 0x00
// separator before each field after the first.
func (w *FieldWriter) Append(fields ...Field) *FieldWriter {
	for _, f := range fields {
		if w.buf.Len() > 0 {
			w.buf.WriteByte(0)
		}
		w.buf.WriteString(f.raw)
	}
	return w
}

// Bytes returns the built payload, truncated to MaxPayloadSize.
func (w *FieldWriter) Bytes() []byte {
	b := w.buf.Bytes()
	if len(b) > MaxPayloadSize {
		b = b[:MaxPayloadSize]
	}
	return b
}

// SplitArgs splits a hardware command payload on 0x00 separators into
// an argument vector: the first element is the command name, the rest
// are its arguments. Capped at 32 elements.
func SplitArgs(payload []byte) []string {
	const maxArgs = 32
	if len(payload) == 0 {
		return nil
	}
	parts := bytes.SplitN(payload, []byte{0}, maxArgs)
	args := make([]string, len(parts))
	for i, p := range parts {
		args[i] = string(p)
	}
	return args
}
