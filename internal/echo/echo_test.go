package echo

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

// startTCP runs a TCP echo server on an ephemeral port and returns its
// address plus a shutdown func that waits for Serve to return.
func startTCP(t *testing.T, cfg TCPConfig) (string, func()) {
	t.Helper()
	cfg.Addr = "127.0.0.1:0"

	srv := NewTCPServer(cfg)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	waitForAddr(t, func() bool { return srv.Addr() != nil })
	return srv.Addr().String(), func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Serve returned %v after shutdown", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("TCP server did not stop")
		}
	}
}

func waitForAddr(t *testing.T, ready func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !ready() {
		if time.Now().After(deadline) {
			t.Fatal("server did not bind in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTCPEcho(t *testing.T) {
	defer goleak.VerifyNone(t)

	addr, stop := startTCP(t, TCPConfig{})
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	msg := []byte("hello, echo")
	reply, err := Dial(ctx, addr, msg)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if !bytes.Equal(reply, msg) {
		t.Errorf("reply = %q, want %q", reply, msg)
	}
}

func TestTCPEchoConcurrentConnections(t *testing.T) {
	defer goleak.VerifyNone(t)

	addr, stop := startTCP(t, TCPConfig{})
	defer stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			msg := bytes.Repeat([]byte{byte('a' + i)}, 128)
			reply, err := Dial(ctx, addr, msg)
			if err != nil {
				t.Errorf("conn %d: %v", i, err)
				return
			}
			if !bytes.Equal(reply, msg) {
				t.Errorf("conn %d: reply mismatch", i)
			}
		}(i)
	}
	wg.Wait()
}

func TestTCPEchoWithRateLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	addr, stop := startTCP(t, TCPConfig{ReadsPerSecond: 100})
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	reply, err := Dial(ctx, addr, []byte("limited"))
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if string(reply) != "limited" {
		t.Errorf("reply = %q", reply)
	}
}

func TestUDPEchoLargeDatagram(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := NewUDPServer(UDPConfig{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	waitForAddr(t, func() bool { return srv.Addr() != nil })
	defer func() {
		cancel()
		<-done
	}()

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer reqCancel()

	// A datagram close to the 64 KiB buffer must survive intact.
	msg := bytes.Repeat([]byte{0x5a}, 60*1024)
	reply, err := Send(reqCtx, srv.Addr().String(), msg)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(reply) != len(msg) {
		t.Fatalf("reply length = %d, want %d", len(reply), len(msg))
	}
	if !bytes.Equal(reply, msg) {
		t.Error("reply payload mismatch")
	}
}

func TestUDPEcho(t *testing.T) {
	defer goleak.VerifyNone(t)

	srv := NewUDPServer(UDPConfig{Addr: "127.0.0.1:0"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	waitForAddr(t, func() bool { return srv.Addr() != nil })

	reqCtx, reqCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer reqCancel()

	msg := []byte("datagram")
	reply, err := Send(reqCtx, srv.Addr().String(), msg)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !bytes.Equal(reply, msg) {
		t.Errorf("reply = %q, want %q", reply, msg)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v after shutdown", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("UDP server did not stop")
	}
}
