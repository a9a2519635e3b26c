package echo

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/nvoronin/golab/internal/log"
	"github.com/nvoronin/golab/internal/metrics"
)

// UDPConfig tunes the UDP echo server.
type UDPConfig struct {
	Addr string
}

// UDPServer echoes every datagram back to its sender.
type UDPServer struct {
	cfg UDPConfig

	mu   sync.Mutex
	conn net.PacketConn
}

// NewUDPServer returns an unstarted server for cfg.
func NewUDPServer(cfg UDPConfig) *UDPServer {
	return &UDPServer{cfg: cfg}
}

// Addr returns the bound address once Serve has started listening.
func (s *UDPServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Serve binds the socket and echoes datagrams until ctx is cancelled.
func (s *UDPServer) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	conn, err := lc.ListenPacket(ctx, "udp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	logger := log.WithComponent("echo-udp")
	logger.Info().Str(log.FieldAddr, conn.LocalAddr().String()).Msg("listening")

	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	bufp := bufPool.Get().(*[]byte)
	defer bufPool.Put(bufp)
	buf := *bufp

	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				logger.Info().Msg("stopped")
				return nil
			}
			logger.Warn().Err(err).Msg("read failed")
			continue
		}

		if _, err := conn.WriteTo(buf[:n], addr); err != nil {
			logger.Debug().Err(err).Str(log.FieldRemoteAddr, addr.String()).Msg("write failed")
			continue
		}
		metrics.EchoBytes("udp", n)
	}
}

// Send sends one datagram to a UDP echo server and returns the reply.
func Send(ctx context.Context, addr string, msg []byte) ([]byte, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", addr)
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
	reply := make([]byte, readBufferSize)
	n, err := conn.Read(reply)
	if err != nil {
		return nil, err
	}
	return reply[:n], nil
}
