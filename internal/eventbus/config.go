package eventbus

import (
	"fmt"
	"net"
)

// Config holds the event bus's gRPC server configuration, the same
// shape as the teacher's grpc.ServerConfig.
type Config struct {
	// Address is the address to listen on (e.g., "127.0.0.1:50061").
	Address string

	// MaxRecvMsgSize is the maximum message size in bytes the server can receive.
	MaxRecvMsgSize int

	// MaxSendMsgSize is the maximum message size in bytes the server can send.
	MaxSendMsgSize int
}

// DefaultConfig returns sane defaults: 4MB message sizes, matching the
// teacher's gRPC defaults.
func DefaultConfig() Config {
	return Config{
		Address:        "127.0.0.1:50061",
		MaxRecvMsgSize: 4 * 1024 * 1024,
		MaxSendMsgSize: 4 * 1024 * 1024,
	}
}

func (c Config) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("eventbus: address is required")
	}
	host, port, err := net.SplitHostPort(c.Address)
	if err != nil {
		return fmt.Errorf("eventbus: invalid address format: %w", err)
	}
	if port == "" {
		return fmt.Errorf("eventbus: port cannot be empty")
	}
	_ = host
	if c.MaxRecvMsgSize <= 0 {
		return fmt.Errorf("eventbus: max_recv_msg_size must be positive")
	}
	if c.MaxSendMsgSize <= 0 {
		return fmt.Errorf("eventbus: max_send_msg_size must be positive")
	}
	return nil
}
