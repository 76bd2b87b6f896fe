// Package testutil provides a minimal in-memory Blynk server for
// exercising the connection runtime end to end, in place of TLS and a
// real cloud backend. It speaks the fixed 5-byte frame header directly,
// matching the wire protocol under test.
package testutil

import (
	"net"
	"sync"
	"testing"

	"github.com/blynkkk/blynk-go/pkg/wire"
)

// ConnHandler scripts one accepted connection's behavior: read and
// write wire.Frame values directly on conn. The handler owns the
// connection's lifetime and must close it when done.
type ConnHandler func(t *testing.T, conn net.Conn)

// Server is a bare TCP listener that hands every accepted connection
// to a test-supplied ConnHandler, modeled on the accept-loop shape of
// a production TLS server but stripped of TLS and the server-side
// connection registry, which this fake has no use for.
type Server struct {
	t        *testing.T
	listener net.Listener
	handle   ConnHandler

	wg sync.WaitGroup
}

// NewServer starts listening on 127.0.0.1:0 and accepting connections
// in the background, each handed to handle on its own goroutine. The
// server is closed automatically via t.Cleanup.
func NewServer(t *testing.T, handle ConnHandler) *Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("testutil: listen: %v", err)
	}

	s := &Server{t: t, listener: ln, handle: handle}
	s.wg.Add(1)
	go s.acceptLoop()

	t.Cleanup(s.Close)
	return s
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(s.t, conn)
		}()
	}
}

// Addr returns the "host:port" address to dial.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Close stops accepting new connections. In-flight handler goroutines
// are not waited on, since most close their own connection and return
// well before the test itself ends.
func (s *Server) Close() {
	s.listener.Close()
}

// ReadFrame reads one frame from conn byte-by-byte through a fresh
// Parser, for handlers that only need to read a single request before
// replying (login, a heartbeat ping, a hardware command).
func ReadFrame(conn net.Conn) (wire.Frame, error) {
	p := wire.NewParser()
	buf := make([]byte, 1)
	for {
		if _, err := conn.Read(buf); err != nil {
			return wire.Frame{}, err
		}
		if frame, ok := p.Feed(buf[0]); ok {
			return frame, nil
		}
	}
}

// WriteFrame encodes and writes f to conn.
func WriteFrame(conn net.Conn, f wire.Frame) error {
	buf := make([]byte, wire.HeaderSize+wire.MaxPayloadSize)
	n, err := f.Encode(buf)
	if err != nil {
		return err
	}
	_, err = conn.Write(buf[:n])
	return err
}
