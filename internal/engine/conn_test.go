package engine

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Z1ni/zhttpd/internal/config"
	"github.com/Z1ni/zhttpd/internal/zlog"
)

func TestServeRespondsAndClosesWithoutKeepAlive(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte("hi"), 0o644))

	cfg := config.Default()
	cfg.Webroot = dir
	cfg.RequestTimeout = 2 * time.Second
	cfg.KeepAliveTimeout = 2 * time.Second
	detect := func(body []byte) (string, bool) { return "text/plain", true }
	e := New(cfg, zlog.New(zlog.Options{}), detect)

	serverConn, clientConn := net.Pipe()
	done := make(chan struct{})
	go func() {
		e.Serve(context.Background(), serverConn)
		close(done)
	}()

	_, err := clientConn.Write([]byte("GET /a.html HTTP/1.1\r\nHost: x\r\n\r\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(clientConn)
	status, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "HTTP/1.1 200 OK\r\n", status)

	_ = clientConn.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after connection close")
	}
}

func TestServeHandlesKeepAlivePipelining(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte("hi"), 0o644))

	cfg := config.Default()
	cfg.Webroot = dir
	cfg.RequestTimeout = 2 * time.Second
	cfg.KeepAliveTimeout = 2 * time.Second
	detect := func(body []byte) (string, bool) { return "text/plain", true }
	e := New(cfg, zlog.New(zlog.Options{}), detect)

	serverConn, clientConn := net.Pipe()
	go e.Serve(context.Background(), serverConn)

	req := "GET /a.html HTTP/1.1\r\nHost: x\r\nConnection: keep-alive\r\n\r\n"
	_, err := clientConn.Write([]byte(req + req))
	require.NoError(t, err)

	reader := bufio.NewReader(clientConn)
	for i := 0; i < 2; i++ {
		status, err := reader.ReadString('\n')
		require.NoError(t, err)
		require.Equal(t, "HTTP/1.1 200 OK\r\n", status)
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if line == "\r\n" {
				break
			}
		}
		bodyBuf := make([]byte, 2)
		_, err = reader.Read(bodyBuf)
		require.NoError(t, err)
	}

	_ = clientConn.Close()
}
