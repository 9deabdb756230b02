package dap

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestWriteReadMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	content := json.RawMessage(`{"seq":1,"type":"request","command":"initialize"}`)

	if err := writeMessage(&buf, &Message{Content: content}); err != nil {
		t.Fatalf("writeMessage: %v", err)
	}

	wire := buf.String()
	if !strings.HasPrefix(wire, "Content-Length: ") {
		t.Errorf("missing Content-Length header: %q", wire)
	}
	if !strings.Contains(wire, "\r\n\r\n") {
		t.Errorf("missing header terminator: %q", wire)
	}

	msg, err := readMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readMessage: %v", err)
	}
	if msg.ContentLength != len(content) {
		t.Errorf("ContentLength = %d, want %d", msg.ContentLength, len(content))
	}
	if !bytes.Equal(msg.Content, content) {
		t.Errorf("Content = %s, want %s", msg.Content, content)
	}
}

func TestWriteMessageContentType(t *testing.T) {
	var buf bytes.Buffer
	err := writeMessage(&buf, &Message{
		ContentType: "application/vscode-jsonrpc; charset=utf-8",
		Content:     json.RawMessage(`{}`),
	})
	if err != nil {
		t.Fatalf("writeMessage: %v", err)
	}

	msg, err := readMessage(bufio.NewReader(&buf))
	if err != nil {
		t.Fatalf("readMessage: %v", err)
	}
	if msg.ContentType != "application/vscode-jsonrpc; charset=utf-8" {
		t.Errorf("ContentType = %q", msg.ContentType)
	}
}

func TestReadMessageMissingContentLength(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("Content-Type: application/json\r\n\r\n{}"))
	if _, err := readMessage(r); err == nil {
		t.Error("expected error for missing Content-Length")
	}
}

func TestReadMessageRejectsOversize(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("Content-Length: 999999999\r\n\r\n"))
	if _, err := readMessage(r); err == nil {
		t.Error("expected error for oversize Content-Length")
	}
}

func TestReadMessageInvalidHeader(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("garbage header\r\n\r\n"))
	if _, err := readMessage(r); err == nil {
		t.Error("expected error for malformed header")
	}
}

type closableBuffer struct {
	bytes.Buffer
}

func (c *closableBuffer) Close() error { return nil }

func TestRawTransport(t *testing.T) {
	buf := &closableBuffer{}
	tr := NewRawTransport(buf)

	content := json.RawMessage(`{"seq":2,"type":"event","event":"stopped"}`)
	if err := tr.Send(&Message{Content: content}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msg, err := tr.Receive()
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if !bytes.Equal(msg.Content, content) {
		t.Errorf("Content = %s, want %s", msg.Content, content)
	}
	if err := tr.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
