//go:build nng
// +build nng

package stream

import (
	"fmt"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// nngPublisher binds an NNG PUB socket and fans frames out to any
// number of SUB clients
type nngPublisher struct {
	sock mangos.Socket
	addr string
}

func newNNGPublisher(addr string) (Publisher, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("stream: failed to create PUB socket: %w", err)
	}
	if err := sock.Listen(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("stream: failed to bind PUB socket to %s: %w", addr, err)
	}
	return &nngPublisher{sock: sock, addr: addr}, nil
}

func (p *nngPublisher) Name() string {
	return "nng"
}

func (p *nngPublisher) Publish(data []byte) error {
	return p.sock.Send(data)
}

func (p *nngPublisher) Close() error {
	return p.sock.Close()
}
