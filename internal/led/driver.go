// Package led contains the physical output sinks for the 128-ball strip:
// a WS2812-over-spidev encoder, a periph.io NRZ driver and a headless sim.
package led

// Driver pushes finished frames to hardware.
type Driver interface {
	// Write sends one RGB frame. len(rgb) must be 3*N.
	Write(rgb []byte) error
	// Close releases the underlying port.
	Close() error
}
