// Package wire defines the Blynk binary wire format: the frame header,
// the command/status enumerations, the byte-wise streaming parser, and
// the payload field builder.
//
// # Frame Layout
//
// Every frame is a fixed 5-byte header followed by an optional payload:
//
//	[cmd: 1B][id: 2B big-endian][length: 2B big-endian][payload: 0..512B]
//
// For CommandResponse frames, the length field carries a 16-bit status
// code instead of a payload length, and no payload bytes follow.
//
// # Streaming Parse
//
// Frames arrive over a TCP stream with no guarantee of chunk
// boundaries, so decoding is driven byte-by-byte through Parser rather
// than by a single Decode call: see Parser.Feed.
package wire
