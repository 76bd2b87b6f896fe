package wire

// parserState is the four-state receive machine of Parser.
type parserState uint8

const (
	stateCmd parserState = iota
	stateID
	stateLen
	statePayload
)

// Parser is a byte-wise streaming decoder for Blynk frames. It never
// allocates on the hot path beyond the frame's own payload buffer, and
// it tolerates being fed one byte, or a thousand, at a time: the
// decoded frame sequence is identical regardless of how the input
// bytes are chunked.
//
// A Parser is not safe for concurrent use; the runtime owns one
// Parser per connection and drives it from a single goroutine.
type Parser struct {
	state     parserState
	byteCount int

	cmd     Command
	id      uint16
	length  uint16
	payload []byte
}

// NewParser returns a Parser ready to decode a fresh frame stream.
func NewParser() *Parser {
	return &Parser{state: stateCmd}
}

// Reset returns the parser to its initial state, discarding any
// partially-received frame. The runtime itself does not call it: it
// builds a new Parser for every connection, so a half-received frame
// from the old connection never leaks into the new one.
func (p *Parser) Reset() {
	p.state = stateCmd
	p.byteCount = 0
	p.cmd = 0
	p.id = 0
	p.length = 0
	p.payload = nil
}

// Feed advances the state machine by one byte. It returns the
// completed frame and true when b is the byte that completes a frame;
// otherwise it returns the zero Frame and false.
func (p *Parser) Feed(b byte) (Frame, bool) {
	switch p.state {
	case stateCmd:
		p.cmd = Command(b)
		p.byteCount = 0
		p.id = 0
		p.state = stateID

	case stateID:
		p.id = (p.id << 8) | uint16(b)
		p.byteCount++
		if p.byteCount == 2 {
			p.byteCount = 0
			p.length = 0
			p.state = stateLen
		}

	case stateLen:
		p.length = (p.length << 8) | uint16(b)
		p.byteCount++
		if p.byteCount == 2 {
			if p.cmd == CommandResponse || p.length == 0 {
				f := Frame{Command: p.cmd, ID: p.id, Length: p.length}
				p.state = stateCmd
				return f, true
			}
			p.byteCount = 0
			p.payload = make([]byte, 0, min(int(p.length), MaxPayloadSize))
			p.state = statePayload
		}

	case statePayload:
		if p.byteCount < MaxPayloadSize {
			p.payload = append(p.payload, b)
		}
		p.byteCount++
		if p.byteCount >= int(p.length) {
			length := p.length
			if int(length) > MaxPayloadSize {
				length = MaxPayloadSize
			}
			f := Frame{Command: p.cmd, ID: p.id, Length: length, Payload: p.payload}
			p.payload = nil
			p.state = stateCmd
			return f, true
		}
	}

	return Frame{}, false
}
