//go:build linux

package led

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"unsafe"
)

// Minimal spidev ioctl bindings. The NRZ driver (periph.io) is the nicer
// path; this one needs nothing beyond /dev/spidevX.Y.

const (
	spiIOCWriteMode        = 0x40016b01
	spiIOCWriteBitsPerWord = 0x40016b03
	spiIOCWriteMaxSpeedHz  = 0x40046b04
)

// SPI encodes WS2812 frames as an SPI bitstream: every data bit expands to
// three SPI bits, 0b110 for one and 0b100 for zero, so a 2.4–3.2 MHz clock
// lands inside the strip's timing window.
type SPI struct {
	mu       sync.Mutex
	f        *os.File
	count    int
	colorOrd [3]byte
	resetUs  int
	// byte -> 24 encoded bits
	enc [256][3]byte
}

// NewSPI opens a spidev device for a strip of count pixels. colorOrder is
// the strip's channel order ("GRB" for WS2812); resetUs is the latch time,
// 300–400us is safe.
func NewSPI(dev string, count int, colorOrder string, speedHz, resetUs int) (*SPI, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if speedHz <= 0 {
		speedHz = 2400000
	}
	if resetUs <= 0 {
		resetUs = 300
	}
	f, err := os.OpenFile(dev, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open spidev: %w", err)
	}
	mode := byte(0)
	if _, _, e := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), spiIOCWriteMode, uintptr(unsafe.Pointer(&mode))); e != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("spi set mode: %v", e)
	}
	bpw := byte(8)
	if _, _, e := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), spiIOCWriteBitsPerWord, uintptr(unsafe.Pointer(&bpw))); e != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("spi set bits-per-word: %v", e)
	}
	if _, _, e := syscall.Syscall(syscall.SYS_IOCTL, f.Fd(), spiIOCWriteMaxSpeedHz, uintptr(unsafe.Pointer(&speedHz))); e != 0 {
		_ = f.Close()
		return nil, fmt.Errorf("spi set speed: %v", e)
	}

	s := &SPI{
		f:        f,
		count:    count,
		resetUs:  resetUs,
		colorOrd: [3]byte{'G', 'R', 'B'},
	}
	if len(colorOrder) == 3 {
		s.colorOrd = [3]byte{colorOrder[0], colorOrder[1], colorOrder[2]}
	}

	for v := 0; v < 256; v++ {
		out := uint32(0)
		for i := 7; i >= 0; i-- {
			if (v>>i)&1 == 1 {
				out = out<<3 | 0b110
			} else {
				out = out<<3 | 0b100
			}
		}
		s.enc[v] = [3]byte{byte(out >> 16), byte(out >> 8), byte(out)}
	}
	return s, nil
}

func (s *SPI) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

func (s *SPI) Write(rgb []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.f == nil {
		return fmt.Errorf("spi closed")
	}
	if len(rgb) != s.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), s.count)
	}

	// 3 encoded bytes per color channel, 9 per pixel
	out := make([]byte, s.count*9)
	for i := 0; i < s.count; i++ {
		s.encodePixel(rgb[i*3], rgb[i*3+1], rgb[i*3+2], out[i*9:i*9+9])
	}
	if _, err := s.f.Write(out); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}

	// latch: hold the line low. One byte is ~3.3us at 2.4MHz; 128 zero
	// bytes covers any sane resetUs.
	zeros := make([]byte, max(128, s.resetUs/3+1))
	if _, err := s.f.Write(zeros); err != nil {
		return fmt.Errorf("spi latch: %w", err)
	}
	return nil
}

func (s *SPI) encodePixel(r, g, b byte, dst []byte) {
	var chans [3]byte
	for i, ord := range s.colorOrd {
		switch ord {
		case 'R':
			chans[i] = r
		case 'B':
			chans[i] = b
		default:
			chans[i] = g
		}
	}
	for i, v := range chans {
		copy(dst[i*3:i*3+3], s.enc[v][:])
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
