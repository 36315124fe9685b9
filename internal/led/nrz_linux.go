//go:build linux

package led

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/host/v3"
)

// NRZ drives the strip through periph.io's nrzled device on the first
// available SPI port.
type NRZ struct {
	port  spi.PortCloser
	dev   *nrzled.Dev
	img   *image.NRGBA
	count int
}

// NewNRZ initializes the host, opens the default SPI port and binds an
// NRZ encoder for count pixels at the given bit frequency (0 picks
// 2.5MHz, fine for WS2812).
func NewNRZ(count int, freq physic.Frequency) (*NRZ, error) {
	if count <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", count)
	}
	if freq == 0 {
		freq = 2500 * physic.KiloHertz
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	port, err := spireg.Open("")
	if err != nil {
		return nil, fmt.Errorf("open spi port: %w", err)
	}
	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: count,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("nrzled init: %w", err)
	}
	return &NRZ{
		port:  port,
		dev:   dev,
		img:   image.NewNRGBA(image.Rect(0, 0, count, 1)),
		count: count,
	}, nil
}

func (n *NRZ) Write(rgb []byte) error {
	if len(rgb) != n.count*3 {
		return fmt.Errorf("rgb length %d does not match count %d", len(rgb), n.count)
	}
	for i := 0; i < n.count; i++ {
		n.img.SetNRGBA(i, 0, color.NRGBA{
			R: rgb[i*3],
			G: rgb[i*3+1],
			B: rgb[i*3+2],
			A: 255,
		})
	}
	return n.dev.Draw(n.dev.Bounds(), n.img, image.Point{})
}

func (n *NRZ) Close() error {
	_ = n.dev.Halt()
	return n.port.Close()
}
