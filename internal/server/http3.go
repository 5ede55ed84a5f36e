package server

import (
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	http3 "github.com/quic-go/quic-go/http3"
)

// HTTP3Server wraps the http3.Server lifecycle.
type HTTP3Server struct {
	srv  *http3.Server
	addr string

	mu    sync.Mutex
	pc    net.PacketConn
	done  chan struct{}
	bound string
}

// NewHTTP3Server creates a server bound to addr with the given TLS config
// and handler.
func NewHTTP3Server(addr string, tlsCfg *tls.Config, h http.Handler) *HTTP3Server {
	s := &http3.Server{Addr: addr, TLSConfig: tlsCfg, Handler: h}
	return &HTTP3Server{srv: s, addr: addr}
}

// Start begins serving in the background and returns the bound address. An
// addr ending in ":0" picks an ephemeral UDP port.
func (s *HTTP3Server) Start() (string, error) {
	pc, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.pc = pc
	s.done = make(chan struct{})
	s.bound = pc.LocalAddr().String()
	done := s.done
	s.mu.Unlock()

	go func() {
		_ = s.srv.Serve(pc)
		close(done)
	}()
	return s.bound, nil
}

// Addr returns the bound address, or "" before Start.
func (s *HTTP3Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// Done is closed once the serve loop has returned.
func (s *HTTP3Server) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Stop closes the server and waits up to a second for the serve loop.
func (s *HTTP3Server) Stop() error {
	s.mu.Lock()
	pc, done := s.pc, s.done
	s.pc = nil
	s.mu.Unlock()
	if pc == nil {
		return nil
	}

	err := s.srv.Close()
	_ = pc.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return err
}

// HTTP3Client returns an http.Client using an HTTP/3 round tripper.
func HTTP3Client(tlsCfg *tls.Config, timeout time.Duration) *http.Client {
	tr := &http3.RoundTripper{TLSClientConfig: tlsCfg}
	return &http.Client{Transport: tr, Timeout: timeout}
}

// CloseClient releases the client's QUIC connections.
func CloseClient(c *http.Client) {
	if tr, ok := c.Transport.(*http3.RoundTripper); ok {
		_ = tr.Close()
	}
}
