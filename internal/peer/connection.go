package peer

import (
	"bufio"
	"bytes"
	"context"
	"ctchen222/Rock-Paper-Scissors/pkg/proto"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// connection is one open socket owned by the session.
type connection struct {
	id        string
	conn      net.Conn
	writeMu   sync.Mutex
	closeOnce sync.Once
}

func (c *connection) write(line []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_, err := c.conn.Write(line)
	return err
}

func (c *connection) close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}

// readPump accumulates bytes from the connection and hands every complete
// line to handleLine, in arrival order, until the stream ends or the session
// shuts down.
func (s *Session) readPump(ctx context.Context, c *connection) {
	ctx, span := tracer.Start(ctx, "peer.readPump", trace.WithAttributes(
		attribute.String("conn.id", c.id),
		attribute.String("conn.remote", c.conn.RemoteAddr().String()),
	))
	defer span.End()

	defer s.wg.Done()
	defer s.removeConnection(ctx, c)

	reader := bufio.NewReaderSize(c.conn, s.bufferSize)
	for {
		if ctx.Err() != nil {
			return
		}

		line, err := reader.ReadBytes(proto.Delimiter)
		if err == nil && len(bytes.TrimSpace(line)) > 0 {
			s.handleLine(ctx, c, line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && ctx.Err() == nil {
				slog.WarnContext(ctx, "Peer connection error", "conn.id", c.id, "error", err)
				span.RecordError(err)
				span.SetStatus(codes.Error, "Peer connection error")
			}
			return
		}
	}
}

// handleLine decodes one message and dispatches it. Bad input never closes
// the connection; the host answers it with an error message.
func (s *Session) handleLine(ctx context.Context, c *connection, line []byte) {
	msg, err := proto.Decode(line)
	if err != nil {
		slog.WarnContext(ctx, "Invalid message format", "conn.id", c.id, "error", err)
		if s.Role() == RoleHost {
			s.reply(ctx, c, proto.TypeError, proto.ErrorData{Reason: err.Error()})
		}
		return
	}

	if s.messages != nil {
		s.messages.Add(ctx, 1, metric.WithAttributes(
			attribute.String("message.direction", "in"),
			attribute.String("message.type", string(msg.Type)),
		))
	}

	handler, ok := s.handlers[msg.Type]
	if !ok {
		slog.DebugContext(ctx, "No handler for message, dropping", "conn.id", c.id, "message.type", msg.Type)
		return
	}
	handler(ctx, Delivery{ConnID: c.id, Message: msg})
}

func (s *Session) reply(ctx context.Context, c *connection, t proto.MessageType, data any) {
	line, err := encode(t, data)
	if err != nil {
		slog.ErrorContext(ctx, "Error encoding reply", "conn.id", c.id, "error", err)
		return
	}
	if err := c.write(line); err != nil {
		slog.WarnContext(ctx, "Error writing reply", "conn.id", c.id, "error", err)
	}
}

func encode(t proto.MessageType, data any) ([]byte, error) {
	msg, err := proto.NewMessage(t, data)
	if err != nil {
		return nil, err
	}
	return proto.Encode(msg)
}
