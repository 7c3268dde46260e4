//go:build !zmq
// +build !zmq

package stream

import "fmt"

func newZMQPublisher(addr string) (Publisher, error) {
	return nil, fmt.Errorf("stream: zmq transport not compiled in (build with -tags zmq)")
}
