//go:build zmq
// +build zmq

package stream

import (
	"fmt"

	zmq "github.com/pebbe/zmq4"
)

// zmqPublisher binds a ZeroMQ PUB socket and fans frames out to any
// number of SUB clients
type zmqPublisher struct {
	sock *zmq.Socket
	addr string
}

func newZMQPublisher(addr string) (Publisher, error) {
	sock, err := zmq.NewSocket(zmq.PUB)
	if err != nil {
		return nil, fmt.Errorf("stream: failed to create PUB socket: %w", err)
	}
	if err := sock.Bind(addr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("stream: failed to bind PUB socket to %s: %w", addr, err)
	}
	return &zmqPublisher{sock: sock, addr: addr}, nil
}

func (p *zmqPublisher) Name() string {
	return "zmq"
}

func (p *zmqPublisher) Publish(data []byte) error {
	_, err := p.sock.SendBytes(data, zmq.DONTWAIT)
	return err
}

func (p *zmqPublisher) Close() error {
	return p.sock.Close()
}
