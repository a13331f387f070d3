// Package engine implements the Connection Engine from spec.md §4.E: a
// per-connection state machine that accumulates bytes under timeouts,
// repeatedly invokes the parser, dispatches each request to either the
// static file server or the CGI runner, and writes the response, looping
// while the connection is kept alive. Grounded on
// original_source/src/child.c's per-connection main loop, redesigned from
// epoll-driven edge-triggered I/O into a goroutine blocking on
// net.Conn.Read with deadlines, per spec.md §9's direction that a Go
// rewrite should use "whatever mechanism is idiomatic for that runtime".
package engine

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Z1ni/zhttpd/internal/config"
	"github.com/Z1ni/zhttpd/internal/httpmsg"
	"github.com/Z1ni/zhttpd/internal/httpparse"
	"github.com/Z1ni/zhttpd/internal/zlog"
)

// readChunkSize bounds a single Read call into the accumulator.
const readChunkSize = 64 * 1024

// Engine serves accepted connections per the dispatch policy in dispatch.go.
// It implements supervisor.Handler.
type Engine struct {
	cfg    config.Config
	logger *zlog.Logger
	detect httpmsg.MimeDetector
}

// New builds an Engine bound to cfg, logging to logger, and sniffing
// bodies with detect (internal/mimedetect.Detect in production).
func New(cfg config.Config, logger *zlog.Logger, detect httpmsg.MimeDetector) *Engine {
	return &Engine{cfg: cfg, logger: logger, detect: detect}
}

// Serve runs the connection loop from spec.md §4.E over conn until the
// peer closes, a timeout fires, ctx is cancelled, or a non-recoverable
// parse error ends the connection. It always closes conn before returning.
func (e *Engine) Serve(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	remoteAddr := conn.RemoteAddr().String()

	var buf []byte
	keepAlive := false
	firstRequestSeen := false

	for {
		if ctx.Err() != nil {
			return
		}

		var deadline time.Duration
		if !firstRequestSeen {
			deadline = e.cfg.RequestTimeout
		} else {
			deadline = e.cfg.KeepAliveTimeout
		}
		_ = conn.SetReadDeadline(time.Now().Add(deadline))

		result := httpparse.Parse(buf)
		for result.NeedMore {
			chunk := make([]byte, readChunkSize)
			n, err := conn.Read(chunk)
			if n > 0 {
				buf = append(buf, chunk[:n]...)
			}
			if err != nil {
				if isTimeout(err) {
					if !firstRequestSeen {
						e.writeError(conn, 408, nil, false)
					}
					return
				}
				// EOF or any other read failure: peer is gone.
				return
			}
			result = httpparse.Parse(buf)
		}

		if result.Err != nil {
			recoverable := result.Err.Kind == httpparse.ErrUnsupportedFormEncoding && result.Request != nil && result.Request.KeepAlive
			status := statusForParseError(result.Err.Kind)
			e.writeError(conn, status, result.Request, recoverable)
			if !recoverable {
				return
			}
			buf = nil
			firstRequestSeen = true
			keepAlive = true
			continue
		}

		req := result.Request
		firstRequestSeen = true
		keepAlive = req.KeepAlive

		start := time.Now()
		resp := e.dispatch(ctx, req)
		if err := e.write(conn, resp); err != nil {
			return
		}

		e.logger.Access(zlog.AccessLogEntry{
			ConnectionID: connID,
			RemoteAddr:   remoteAddr,
			Method:       string(req.Method),
			Path:         req.Path,
			Status:       resp.Status,
			BodyBytes:    len(resp.Body),
			Duration:     time.Since(start).Seconds(),
		})
		e.logger.Debug("response body size",
			zap.String("conn_id", connID),
			zap.String("human_size", humanize.Bytes(uint64(len(resp.Body)))),
		)

		buf = buf[result.Consumed:]
		if !keepAlive {
			return
		}
	}
}

// statusForParseError maps a parser failure kind to the HTTP status the
// engine responds with, per spec.md §7's propagation policy.
func statusForParseError(kind httpparse.ErrorKind) int {
	switch kind {
	case httpparse.ErrInvalidMethod:
		return 405
	case httpparse.ErrURITooLong:
		return 414
	case httpparse.ErrUnsupportedProtocol:
		return 505
	case httpparse.ErrUnsupportedFormEncoding:
		return 501
	case httpparse.ErrMissingHost, httpparse.ErrMalformedRequest:
		return 400
	default:
		return 400
	}
}

func (e *Engine) writeError(conn net.Conn, status int, req *httpmsg.Request, keepAlive bool) {
	resp := e.errorResponse(status, req)
	resp.KeepAlive = keepAlive
	_ = e.write(conn, resp)
}

// write serializes resp and sends it with a bounded send-all loop, the
// idiomatic equivalent of spec.md §5's "retries on would-block/interrupted
// until the full buffer is drained or the socket fails" — bufio.Writer
// plus net.Conn's own blocking-write-with-deadline semantics cover that.
func (e *Engine) write(conn net.Conn, resp *httpmsg.Response) error {
	data, err := resp.Serialize(e.cfg.ServerIdent, e.cfg.ListenPort, time.Now(), e.detect)
	if err != nil {
		e.logger.Error("serializing response", zap.Error(err))
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(e.cfg.RequestTimeout))
	w := bufio.NewWriter(conn)
	if _, err := w.Write(data); err != nil {
		return err
	}
	return w.Flush()
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
