// Package dap implements the Debug Adapter Protocol wire layer for the
// replay adapter: message vocabulary, Content-Length framing, and a
// request-serving loop.
package dap

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Transport represents a DAP transport layer.
type Transport interface {
	// Send sends a message to the host.
	Send(msg *Message) error

	// Receive receives a message from the host.
	Receive() (*Message, error)

	// Close closes the transport.
	Close() error
}

// Message represents a DAP message with headers and content.
type Message struct {
	// ContentLength is the length of the content.
	ContentLength int

	// ContentType is the MIME type (optional).
	ContentType string

	// Content is the JSON content.
	Content json.RawMessage
}

// StdioTransport serves the protocol over this process's stdin/stdout.
// The adapter is the subprocess here; the host owns the pipes.
type StdioTransport struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewStdioTransport creates a transport over os.Stdin and os.Stdout.
func NewStdioTransport() *StdioTransport {
	return &StdioTransport{
		in:     os.Stdin,
		out:    os.Stdout,
		reader: bufio.NewReader(os.Stdin),
	}
}

// Send sends a message to the host.
func (t *StdioTransport) Send(msg *Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return writeMessage(t.out, msg)
}

// Receive receives a message from the host.
func (t *StdioTransport) Receive() (*Message, error) {
	return readMessage(t.reader)
}

// Close is a no-op: the process does not own stdin/stdout.
func (t *StdioTransport) Close() error {
	return nil
}

// SocketTransport serves the protocol over an accepted TCP connection.
type SocketTransport struct {
	conn   net.Conn
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewSocketTransport creates a socket transport from an accepted connection.
func NewSocketTransport(conn net.Conn) *SocketTransport {
	return &SocketTransport{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}
}

// Send sends a message to the host.
func (t *SocketTransport) Send(msg *Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return writeMessage(t.conn, msg)
}

// Receive receives a message from the host.
func (t *SocketTransport) Receive() (*Message, error) {
	return readMessage(t.reader)
}

// Close closes the connection.
func (t *SocketTransport) Close() error {
	return t.conn.Close()
}

// RawTransport wraps any io.ReadWriteCloser as a Transport.
type RawTransport struct {
	rwc    io.ReadWriteCloser
	reader *bufio.Reader
	mu     sync.Mutex
}

// NewRawTransport creates a transport from any ReadWriteCloser.
func NewRawTransport(rwc io.ReadWriteCloser) *RawTransport {
	return &RawTransport{
		rwc:    rwc,
		reader: bufio.NewReader(rwc),
	}
}

// Send sends a message.
func (t *RawTransport) Send(msg *Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return writeMessage(t.rwc, msg)
}

// Receive receives a message.
func (t *RawTransport) Receive() (*Message, error) {
	return readMessage(t.reader)
}

// Close closes the underlying connection.
func (t *RawTransport) Close() error {
	return t.rwc.Close()
}

// MaxContentLength is the maximum allowed content length for DAP messages (10MB).
const MaxContentLength = 10 * 1024 * 1024

// writeMessage writes a DAP message to the writer.
func writeMessage(w io.Writer, msg *Message) error {
	headers := fmt.Sprintf("Content-Length: %d\r\n", len(msg.Content))
	if msg.ContentType != "" {
		headers += fmt.Sprintf("Content-Type: %s\r\n", msg.ContentType)
	}
	headers += "\r\n"

	if _, err := w.Write([]byte(headers)); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	if _, err := w.Write(msg.Content); err != nil {
		return fmt.Errorf("write content: %w", err)
	}

	return nil
}

// readMessage reads a DAP message from the reader.
func readMessage(r *bufio.Reader) (*Message, error) {
	var contentLength int
	var contentType string

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break // End of headers
		}

		parts := strings.SplitN(line, ": ", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid header: %s", line)
		}

		switch strings.ToLower(parts[0]) {
		case "content-length":
			length, err := strconv.Atoi(parts[1])
			if err != nil {
				return nil, fmt.Errorf("invalid content-length: %w", err)
			}
			if length < 0 || length > MaxContentLength {
				return nil, fmt.Errorf("content-length %d exceeds maximum allowed %d", length, MaxContentLength)
			}
			contentLength = length
		case "content-type":
			contentType = parts[1]
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	content := make([]byte, contentLength)
	if _, err := io.ReadFull(r, content); err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	return &Message{
		ContentLength: contentLength,
		ContentType:   contentType,
		Content:       content,
	}, nil
}
