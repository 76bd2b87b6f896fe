package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Framing constants.
const (
	// HeaderSize is the size of the fixed frame header in bytes.
	HeaderSize = 5

	// MaxPayloadSize is the largest payload a frame may carry.
	MaxPayloadSize = 512
)

// Frame is one Blynk protocol unit: a 5-byte header plus an optional
// payload. For CommandResponse frames, Length carries a status code
// and Payload is always empty.
type Frame struct {
	Command Command
	ID      uint16
	Length  uint16
	Payload []byte
}

// Frame errors.
var (
	// ErrPayloadTooLarge indicates the payload exceeds MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("wire: payload exceeds maximum frame size")
)

// StatusCode returns Length interpreted as a response status. Only
// meaningful when Command == CommandResponse.
func (f Frame) StatusCode() Status {
	return Status(f.Length)
}

// NewResponse builds a CommandResponse frame carrying status as the
// length field, per spec: RESPONSE framing is the only site that
// stuffs a status into Length directly.
func NewResponse(id uint16, status Status) Frame {
	return Frame{Command: CommandResponse, ID: id, Length: uint16(status)}
}

// Encode serializes f into buf as
// [cmd][id_hi][id_lo][len_hi][len_lo][payload...] and returns the
// number of bytes written. Oversize payloads are truncated to
// MaxPayloadSize and to whatever room remains in buf; CommandResponse
// frames never carry a payload regardless of Length.
func (f Frame) Encode(buf []byte) (int, error) {
	if len(buf) < HeaderSize {
		return 0, fmt.Errorf("wire: encode buffer too small: %d < %d", len(buf), HeaderSize)
	}

	payload := f.Payload
	if f.Command == CommandResponse {
		payload = nil
	} else if len(payload) > MaxPayloadSize {
		payload = payload[:MaxPayloadSize]
	}

	length := f.Length
	if f.Command != CommandResponse {
		length = uint16(len(payload))
	}

	buf[0] = byte(f.Command)
	binary.BigEndian.PutUint16(buf[1:3], f.ID)
	binary.BigEndian.PutUint16(buf[3:5], length)

	n := HeaderSize
	if len(payload) > 0 {
		room := len(buf) - HeaderSize
		if room < len(payload) {
			payload = payload[:room]
		}
		n += copy(buf[HeaderSize:], payload)
	}
	return n, nil
}

// EncodedSize returns the total wire size of f, including the header.
func (f Frame) EncodedSize() int {
	if f.Command == CommandResponse {
		return HeaderSize
	}
	size := len(f.Payload)
	if size > MaxPayloadSize {
		size = MaxPayloadSize
	}
	return HeaderSize + size
}
