// Package supervisor accepts connections off a listener and hands each one
// to a Handler under a bounded concurrency limit, the Go-native redesign of
// spec.md §5's "one process per accepted connection, one address space per
// connection" external supervisor. Grounded on
// original_source/src/main.c's accept loop, restructured per spec.md §9's
// own direction to promote the supervisor into the same process.
package supervisor

import (
	"context"
	"errors"
	"net"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/Z1ni/zhttpd/internal/zlog"
)

// Handler serves one accepted connection to completion. Implementations
// must close conn before returning.
type Handler interface {
	Serve(ctx context.Context, conn net.Conn)
}

// Serve accepts connections from ln until ctx is cancelled or the listener
// fails, dispatching each to a goroutine running handler.Serve under a
// semaphore capped at maxConnections. On ctx cancellation it stops
// accepting and waits for in-flight connections to finish, matching
// spec.md §5's "stop after current write" cancellation contract.
func Serve(ctx context.Context, ln net.Listener, maxConnections int, logger *zlog.Logger, handler Handler) error {
	sem := semaphore.NewWeighted(int64(maxConnections))

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			logger.Error("accept failed", zap.Error(err))
			return err
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			_ = conn.Close()
			break
		}

		go func(c net.Conn) {
			defer sem.Release(1)
			handler.Serve(ctx, c)
		}(conn)
	}

	// Wait for every in-flight handler to release its slot before
	// returning, so the caller can rely on Serve's return meaning
	// "no more connections are being served".
	_ = sem.Acquire(context.Background(), int64(maxConnections))
	return nil
}
