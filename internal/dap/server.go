package dap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/dshills/rewind/internal/logging"
)

// QueuedEvent is an event the handler wants sent after its response.
type QueuedEvent struct {
	Name string
	Body any
}

// HandlerResult is what a handler produces for one request: the response
// body plus any events to send once the response has been written.
type HandlerResult struct {
	Body   any
	Events []QueuedEvent
}

// Handler processes DAP requests. A returned error becomes a failure
// response; the connection stays up.
type Handler interface {
	HandleRequest(ctx context.Context, req *Request) (*HandlerResult, error)
}

// ErrStop signals the server loop to exit cleanly after the current
// request's response and events have been sent. Handlers wrap it when a
// disconnect-style request should end the connection.
var ErrStop = errors.New("dap: stop serving")

// Server reads requests off a transport, dispatches them to a Handler, and
// writes responses and events. Requests are served one at a time; the replay
// engine is single-threaded by design.
type Server struct {
	transport Transport
	handler   Handler
	log       *logging.Logger
	seq       int64
	done      chan struct{}
	closeOnce sync.Once
}

// NewServer creates a server over the given transport and handler. A nil
// logger disables logging.
func NewServer(transport Transport, handler Handler, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Nop()
	}
	return &Server{
		transport: transport,
		handler:   handler,
		log:       log.WithComponent("dap"),
		done:      make(chan struct{}),
	}
}

// Close closes the server and its transport.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	return s.transport.Close()
}

// Serve processes requests until the transport fails, the context is
// canceled, or a handler asks to stop.
func (s *Server) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		default:
		}

		msg, err := s.transport.Receive()
		if err != nil {
			select {
			case <-s.done:
				return nil
			default:
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}

		var base ProtocolMessage
		if err := json.Unmarshal(msg.Content, &base); err != nil {
			s.log.Warn("discarding unparseable message: %v", err)
			continue
		}
		if base.Type != "request" {
			s.log.Debug("ignoring non-request message type %q", base.Type)
			continue
		}

		var req Request
		if err := json.Unmarshal(msg.Content, &req); err != nil {
			s.log.Warn("discarding malformed request: %v", err)
			continue
		}

		stop, err := s.dispatch(ctx, &req)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

// dispatch runs the handler for one request and writes the response plus
// any queued events. The returned bool reports whether serving should stop.
func (s *Server) dispatch(ctx context.Context, req *Request) (bool, error) {
	s.log.Debug("request %d %s", req.Seq, req.Command)

	result, handleErr := s.handler.HandleRequest(ctx, req)

	stop := errors.Is(handleErr, ErrStop)
	if stop {
		handleErr = nil
	}

	resp := Response{
		ProtocolMessage: ProtocolMessage{
			Seq:  s.nextSeq(),
			Type: "response",
		},
		RequestSeq: req.Seq,
		Command:    req.Command,
		Success:    handleErr == nil,
	}
	if handleErr != nil {
		resp.Message = handleErr.Error()
	} else if result != nil && result.Body != nil {
		body, err := json.Marshal(result.Body)
		if err != nil {
			return false, fmt.Errorf("marshal %s response body: %w", req.Command, err)
		}
		resp.Body = body
	}

	if err := s.send(resp); err != nil {
		return false, fmt.Errorf("send %s response: %w", req.Command, err)
	}

	if result != nil {
		for _, evt := range result.Events {
			if err := s.SendEvent(evt.Name, evt.Body); err != nil {
				return false, fmt.Errorf("send %s event: %w", evt.Name, err)
			}
		}
	}

	return stop, nil
}

// SendEvent sends an event to the host.
func (s *Server) SendEvent(event string, body any) error {
	evt := Event{
		ProtocolMessage: ProtocolMessage{
			Seq:  s.nextSeq(),
			Type: "event",
		},
		Event: event,
	}
	if body != nil {
		content, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal event body: %w", err)
		}
		evt.Body = content
	}

	return s.send(evt)
}

// send marshals and writes one protocol message.
func (s *Server) send(v any) error {
	content, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	return s.transport.Send(&Message{
		ContentLength: len(content),
		Content:       content,
	})
}

func (s *Server) nextSeq() int {
	return int(atomic.AddInt64(&s.seq, 1))
}
