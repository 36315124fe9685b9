package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. /dev/spidev0.0
	SpeedHz int    `yaml:"speed_hz"` // e.g. 2400000
	ResetUs int    `yaml:"reset_us"` // e.g. 300
}

type Layer struct {
	Mode  string `yaml:"mode"`
	Color string `yaml:"color"`
	Slant bool   `yaml:"slant,omitempty"`
}

type Config struct {
	Driver     string  `yaml:"driver"` // "spi" | "nrz" | "sim"
	ColorOrder string  `yaml:"color_order"`
	RefreshHz  int     `yaml:"refresh_hz"`
	Brightness int     `yaml:"brightness"` // 0..255
	WhiteCap   float64 `yaml:"white_cap"`  // 0 disables

	Foreground Layer `yaml:"foreground"`
	Background Layer `yaml:"background"`
	Frame      Layer `yaml:"frame"`

	SPI SPI `yaml:"spi,omitempty"`
}

// Default mirrors the power-on state of the display.
func Default() *Config {
	return &Config{
		Driver:     "sim",
		ColorOrder: "GRB",
		RefreshHz:  20,
		Brightness: 100,
		Foreground: Layer{Mode: "time", Color: "snow"},
		Background: Layer{Mode: "solid", Color: "darkblue"},
		Frame:      Layer{Mode: "none", Color: "darkorange"},
		SPI:        SPI{Dev: "/dev/spidev0.0", SpeedHz: 2400000, ResetUs: 300},
	}
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
