// Package eventbus is the network's event-emission seam: an in-process
// publish/subscribe Bus fed by the payment and clearing engines, and a
// gRPC Server streaming it out to external subscribers. It is
// generalized from the teacher's internal/grpc package — the same
// ServerConfig shape, the same Start/StartAsync/Stop/StopNow lifecycle
// — pointed at a streaming event feed instead of an XRPL ledger-query
// service.
package eventbus

import (
	"errors"
	"net"
	"sync"

	"google.golang.org/grpc"
)

// Server wraps a gRPC server exposing the Bus's Subscribe stream.
type Server struct {
	mu sync.RWMutex

	grpcServer *grpc.Server
	bus        *Bus
	config     Config
	listener   net.Listener
	running    bool
}

// NewServer creates a new event bus gRPC server publishing bus's
// events, validating cfg the same way the teacher's NewServer does.
func NewServer(cfg Config, bus *Bus) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []grpc.ServerOption{
		grpc.MaxRecvMsgSize(cfg.MaxRecvMsgSize),
		grpc.MaxSendMsgSize(cfg.MaxSendMsgSize),
	}
	grpcServer := grpc.NewServer(opts...)
	grpcServer.RegisterService(&serviceDesc, &subscribeService{bus: bus})

	return &Server{
		grpcServer: grpcServer,
		bus:        bus,
		config:     cfg,
	}, nil
}

// Start starts the server and blocks until it is stopped or an error
// occurs.
func (s *Server) Start() error {
	listener, err := s.listen()
	if err != nil {
		return err
	}
	return s.grpcServer.Serve(listener)
}

// StartAsync starts the server in a goroutine and returns immediately.
func (s *Server) StartAsync() error {
	listener, err := s.listen()
	if err != nil {
		return err
	}
	go func() {
		_ = s.grpcServer.Serve(listener)
	}()
	return nil
}

func (s *Server) listen() (net.Listener, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil, errors.New("eventbus: server is already running")
	}
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return nil, err
	}
	s.listener = listener
	s.running = true
	return listener, nil
}

// Stop gracefully stops the server, waiting for in-flight streams to
// drain.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.grpcServer.GracefulStop()
	s.running = false
}

// StopNow stops the server immediately, dropping in-flight streams.
func (s *Server) StopNow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.grpcServer.Stop()
	s.running = false
}

// Address returns the address the server is listening on, or "" if
// not running.
func (s *Server) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// IsRunning reports whether the server is currently serving.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}
