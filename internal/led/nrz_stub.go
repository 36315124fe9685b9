//go:build !linux

package led

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

type NRZ struct{}

func NewNRZ(count int, freq physic.Frequency) (*NRZ, error) {
	return nil, fmt.Errorf("nrz driver not supported on this platform")
}

func (n *NRZ) Write(rgb []byte) error {
	return fmt.Errorf("nrz driver not supported on this platform")
}

func (n *NRZ) Close() error { return nil }
