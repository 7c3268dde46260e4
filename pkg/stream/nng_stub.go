//go:build !nng
// +build !nng

package stream

import "fmt"

func newNNGPublisher(addr string) (Publisher, error) {
	return nil, fmt.Errorf("stream: nng transport not compiled in (build with -tags nng)")
}
