// SPDX-License-Identifier: MIT

// Package echo implements the lab's TCP and UDP echo servers. They are small
// on purpose: every byte read is written back, connections are independent,
// and shutdown is driven entirely by the caller's context.
package echo

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nvoronin/golab/internal/log"
	"github.com/nvoronin/golab/internal/metrics"
)

const readBufferSize = 64 * 1024

// bufPool recycles read buffers across connections and datagrams.
var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, readBufferSize)
		return &b
	},
}

// TCPConfig tunes the TCP echo server.
type TCPConfig struct {
	Addr string
	// ReadsPerSecond limits read iterations per connection. Zero disables
	// the limiter.
	ReadsPerSecond float64
}

// TCPServer echoes every byte received on accepted connections.
type TCPServer struct {
	cfg      TCPConfig
	listener net.Listener

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

// NewTCPServer returns an unstarted server for cfg.
func NewTCPServer(cfg TCPConfig) *TCPServer {
	return &TCPServer{
		cfg:   cfg,
		conns: make(map[net.Conn]struct{}),
	}
}

// Addr returns the bound address once Serve has started listening.
func (s *TCPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve listens on the configured address and blocks until ctx is cancelled.
// On cancellation the listener closes, open connections are closed and all
// per-connection goroutines are awaited.
func (s *TCPServer) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	logger := log.WithComponent("echo-tcp")
	logger.Info().Str(log.FieldAddr, ln.Addr().String()).Msg("listening")

	// Close the listener when the context ends so Accept unblocks.
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			// A requested shutdown surfaces as net.ErrClosed; report it as
			// a clean exit.
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			logger.Warn().Err(err).Msg("accept failed")
			continue
		}

		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(ctx, conn)
		}()
	}

	s.closeAll()
	s.wg.Wait()
	logger.Info().Msg("stopped")
	return nil
}

func (s *TCPServer) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	metrics.EchoConnOpened()
}

func (s *TCPServer) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	metrics.EchoConnClosed()
}

func (s *TCPServer) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
}

// handle echoes reads back to conn until EOF, error or shutdown.
func (s *TCPServer) handle(ctx context.Context, conn net.Conn) {
	defer func() {
		_ = conn.Close()
		s.untrack(conn)
	}()

	logger := log.WithComponent("echo-tcp")
	logger.Debug().Str(log.FieldRemoteAddr, conn.RemoteAddr().String()).Msg("connection opened")

	var limiter *rate.Limiter
	if s.cfg.ReadsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.ReadsPerSecond), int(s.cfg.ReadsPerSecond)+1)
	}

	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	buf := *bufp

	for {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
		}

		n, err := conn.Read(buf)
		if n > 0 {
			if _, werr := conn.Write(buf[:n]); werr != nil {
				logger.Debug().Err(werr).Str(log.FieldRemoteAddr, conn.RemoteAddr().String()).Msg("write failed")
				return
			}
			metrics.EchoBytes("tcp", n)
		}
		if err != nil {
			if err != io.EOF && !errors.Is(err, net.ErrClosed) {
				logger.Debug().Err(err).Str(log.FieldRemoteAddr, conn.RemoteAddr().String()).Msg("read failed")
			}
			return
		}
	}
}

// Dial connects to a TCP echo server, sends msg and returns the echoed
// reply. It exists for tests and smoke checks.
func Dial(ctx context.Context, addr string, msg []byte) ([]byte, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	}

	if _, err := conn.Write(msg); err != nil {
		return nil, err
	}
	reply := make([]byte, len(msg))
	if _, err := io.ReadFull(conn, reply); err != nil {
		return nil, err
	}
	return reply, nil
}
