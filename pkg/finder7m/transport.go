package finder7m

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"
)

// maxResponseLength bounds the MBAP length field of a response: unit id,
// function code, byte count and up to MaxReadWords registers.
const maxResponseLength = 3 + 2*MaxReadWords

// Session is one TCP connection to the RS485/TCP gateway. It carries no
// retry logic: one session serves exactly one poll and is closed by its
// owner on every exit path.
type Session struct {
	conn    net.Conn
	timeout time.Duration
}

// Connect opens a TCP connection to the gateway, failing fast when the host
// is unreachable or refuses the connection.
func Connect(host string, port uint, timeout time.Duration) (*Session, error) {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", host, port), timeout)
	if err != nil {
		return nil, fmt.Errorf("finder7m: connect %s:%d: %w", host, port, err)
	}
	return &Session{conn: conn, timeout: timeout}, nil
}

// Request writes one request ADU and reads exactly one response ADU. The
// MBAP length field marks the frame boundary; partial reads are accumulated
// until the boundary is reached or the deadline fires.
func (s *Session) Request(adu []byte) ([]byte, error) {
	if err := s.conn.SetDeadline(time.Now().Add(s.timeout)); err != nil {
		return nil, fmt.Errorf("finder7m: set deadline: %w", err)
	}

	n, err := s.conn.Write(adu)
	if err != nil {
		return nil, ioError("write", err)
	}
	if n < len(adu) {
		return nil, fmt.Errorf("finder7m: short write: %d of %d bytes", n, len(adu))
	}

	header := make([]byte, 6)
	if _, err := io.ReadFull(s.conn, header); err != nil {
		return nil, ioError("read header", err)
	}
	length := int(binary.BigEndian.Uint16(header[4:6]))
	if length < 2 || length > maxResponseLength {
		return nil, fmt.Errorf("finder7m: implausible MBAP length %d", length)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(s.conn, body); err != nil {
		return nil, ioError("read body", err)
	}
	return append(header, body...), nil
}

// Close releases the connection. Safe to call on every exit path.
func (s *Session) Close() error {
	return s.conn.Close()
}

func ioError(op string, err error) error {
	var ne net.Error
	if errors.Is(err, os.ErrDeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return fmt.Errorf("finder7m: %s: %w", op, ErrTimeout)
	}
	return fmt.Errorf("finder7m: %s: %w", op, err)
}
