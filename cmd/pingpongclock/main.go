package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mazzolab/pingpongclock/internal/config"
	"github.com/mazzolab/pingpongclock/internal/geometry"
	"github.com/mazzolab/pingpongclock/internal/led"
	"github.com/mazzolab/pingpongclock/internal/render"
	"github.com/mazzolab/pingpongclock/internal/ws"
)

func main() {
	// ---- Flags (config.yaml can override most) ----
	var (
		driver     = flag.String("driver", "sim", "driver: spi | nrz | sim")
		colorOrder = flag.String("color", "GRB", "LED color order (e.g. GRB, RGB)")
		refreshHz  = flag.Int("refresh-hz", render.DefaultRefreshHz, "display refresh rate")
		brightness = flag.Int("brightness", 100, "global brightness 0..255")
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Load config.yaml (optional) ----
	var cfg *config.Config
	if c, err := config.Load(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	} else {
		cfg = c
	}

	// ---- Effective params (config overrides flags where available) ----
	eHz, eBright := *refreshHz, *brightness
	eColor := *colorOrder
	if cfg != nil {
		if cfg.RefreshHz > 0 {
			eHz = cfg.RefreshHz
		}
		if cfg.Brightness > 0 {
			eBright = cfg.Brightness
		}
		if cfg.ColorOrder != "" {
			eColor = cfg.ColorOrder
		}
	}
	if eBright < 0 {
		eBright = 0
	}
	if eBright > 255 {
		eBright = 255
	}

	// ---- Driver selection: -sim-only overrides; otherwise config.driver then -driver ----
	selected := *driver
	if cfg != nil && cfg.Driver != "" {
		selected = cfg.Driver
	}
	if *simOnly {
		selected = "sim"
	}

	var drv led.Driver
	switch selected {
	case "sim":
		drv = led.NewSim(uint64(eHz) * 10)

	case "spi":
		spiDev := "/dev/spidev0.0"
		speedHz := 2400000
		resetUs := 300
		if cfg != nil {
			if cfg.SPI.Dev != "" {
				spiDev = cfg.SPI.Dev
			}
			if cfg.SPI.SpeedHz != 0 {
				speedHz = cfg.SPI.SpeedHz
			}
			if cfg.SPI.ResetUs != 0 {
				resetUs = cfg.SPI.ResetUs
			}
		}
		d, err := led.NewSPI(spiDev, geometry.NumLEDs, eColor, speedHz, resetUs)
		if err != nil {
			log.Warn().Err(err).
				Str("driver", "spi").
				Str("dev", spiDev).
				Int("speed_hz", speedHz).
				Msg("SPI init failed; falling back to SIM")
			selected = "sim"
			drv = led.NewSim(uint64(eHz) * 10)
		} else {
			drv = d
		}

	case "nrz":
		d, err := led.NewNRZ(geometry.NumLEDs, 0)
		if err != nil {
			log.Warn().Err(err).Str("driver", "nrz").Msg("NRZ init failed; falling back to SIM")
			selected = "sim"
			drv = led.NewSim(uint64(eHz) * 10)
		} else {
			drv = d
		}

	default:
		log.Warn().Str("driver", selected).Msg("unknown driver; using SIM")
		selected = "sim"
		drv = led.NewSim(uint64(eHz) * 10)
	}

	// ---- Engine ----
	eng := render.New(drv,
		render.WithRefreshRate(eHz),
		render.WithWhiteCap(whiteCap(cfg)),
	)
	eng.SetBrightness(uint8(eBright))
	if cfg != nil {
		applyLayer(cfg.Foreground, "foreground",
			func(m string, slant bool) bool {
				mode, ok := render.ParseForegroundMode(m)
				if ok {
					eng.SetForegroundMode(mode, slant)
				}
				return ok
			},
			func(c render.Color) { eng.SetForegroundColor(c) })
		applyLayer(cfg.Background, "background",
			func(m string, _ bool) bool {
				mode, ok := render.ParseBackgroundMode(m)
				if ok {
					eng.SetBackgroundMode(mode)
				}
				return ok
			},
			func(c render.Color) { eng.SetBackgroundColor(c) })
		applyLayer(cfg.Frame, "frame",
			func(m string, _ bool) bool {
				mode, ok := render.ParseFrameMode(m)
				if ok {
					eng.SetFrameMode(mode)
				}
				return ok
			},
			func(c render.Color) { eng.SetFrameColor(c) })
	}

	// ---- State ----
	state := ws.NewState(eng, drv, eHz, eBright)
	state.ConfigPath = *configPath
	state.CurrentDriver = selected

	// ---- HTTP routes ----
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", state.HandleFramesWS)
	mux.HandleFunc("/diag", state.HandleDiagWS)
	mux.HandleFunc("/control", state.HandleControlWS)
	mux.HandleFunc("/health", state.HandleHealth)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      withCORS(mux),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ---- Run render loop & server ----
	go state.RunRenderLoop()
	go func() {
		log.Info().Str("addr", *addr).Str("driver", selected).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server crashed")
		}
	}()

	// ---- Graceful shutdown ----
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	s := <-ch
	log.Info().Str("signal", s.String()).Msg("shutting down")

	_ = srv.Close()
	if drv != nil {
		_ = drv.Close()
	}
}

// applyLayer parses one layer section of the config, warning on values
// it cannot parse instead of failing startup.
func applyLayer(l config.Layer, name string, setMode func(string, bool) bool, setColor func(render.Color)) {
	if l.Mode != "" && !setMode(l.Mode, l.Slant) {
		log.Warn().Str("layer", name).Str("mode", l.Mode).Msg("unknown mode in config")
	}
	if l.Color != "" {
		if c, ok := render.ParseColor(l.Color); ok {
			setColor(c)
		} else {
			log.Warn().Str("layer", name).Str("color", l.Color).Msg("unknown color in config")
		}
	}
}

func whiteCap(cfg *config.Config) float64 {
	if cfg == nil {
		return 0
	}
	return cfg.WhiteCap
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
