package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/mazzolab/pingpongclock/internal/config"
	diag "github.com/mazzolab/pingpongclock/internal/diagnostics"
	"github.com/mazzolab/pingpongclock/internal/geometry"
	"github.com/mazzolab/pingpongclock/internal/led"
	"github.com/mazzolab/pingpongclock/internal/render"
	"github.com/mazzolab/pingpongclock/internal/selftest"
)

// State owns the render loop and the websocket endpoints. Clients on
// /ws/frames receive every flushed frame; /ws/control accepts JSON
// commands that map onto the engine's setter API; /ws/diag streams
// structured events.
type State struct {
	mu     sync.RWMutex
	Engine *render.Engine
	Driver led.Driver

	ConfigPath    string
	CurrentDriver string
	RefreshHz     int
	Brightness    int

	frameID     uint64
	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool

	testRunner *selftest.Runner
	testBuf    []byte
}

func NewState(eng *render.Engine, drv led.Driver, refreshHz, brightness int) *State {
	s := &State{
		Engine:      eng,
		Driver:      drv,
		RefreshHz:   refreshHz,
		Brightness:  brightness,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		testBuf:     make([]byte, geometry.NumLEDs*3),
	}
	eng.SetFrameTap(s.onFrame)
	return s
}

// RunRenderLoop ticks faster than the engine's refresh rate; the engine
// drops updates that arrive inside its frame window, so the ticker only
// needs to be frequent enough not to starve it.
func (s *State) RunRenderLoop() {
	hz := s.RefreshHz
	if hz < 1 {
		hz = 1
	}
	ticker := time.NewTicker(time.Second / time.Duration(2*hz))
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		runner := s.testRunner
		s.mu.Unlock()

		if runner != nil {
			// Self-tests bypass the engine and drive the strip
			// directly, one pattern frame per engine frame.
			if !runner.Step(s.testBuf) {
				s.mu.Lock()
				s.testRunner = nil
				s.mu.Unlock()
				s.pushDiag(diag.Infof("TEST.DONE", "Self-test complete"))
				continue
			}
			if s.Driver != nil {
				_ = s.Driver.Write(s.testBuf)
			}
			s.onFrame(s.testBuf)
			time.Sleep(time.Second / time.Duration(hz))
			continue
		}

		if _, err := s.Engine.Update(); err != nil {
			log.Warn().Err(err).Msg("frame write failed")
		}
	}
}

// onFrame is installed as the engine's frame tap.
func (s *State) onFrame(rgb []byte) {
	s.mu.Lock()
	s.frameID++
	id := s.frameID
	s.mu.Unlock()
	s.broadcastFrame(id, rgb)
}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()
	s.sendState(conn)

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.mu.Unlock()
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.diagClients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.applyControl(msg)
		s.sendState(conn)
	}
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id":   s.frameID,
		"uptime_s":   time.Since(s.startTime).Seconds(),
		"count":      geometry.NumLEDs,
		"refresh_hz": s.RefreshHz,
		"brightness": s.Brightness,
		"driver":     s.CurrentDriver,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *State) applyControl(msg map[string]any) {
	if v, ok := msg["foreground"].(map[string]any); ok {
		slanted := false
		if sl, ok2 := v["slant"].(bool); ok2 {
			slanted = sl
		}
		if m, ok2 := v["mode"].(string); ok2 {
			if mode, ok3 := render.ParseForegroundMode(m); ok3 {
				s.Engine.SetForegroundMode(mode, slanted)
			} else {
				s.pushUnknown("foreground mode", m)
			}
		}
		if c, ok2 := v["color"].(string); ok2 {
			if col, ok3 := render.ParseColor(c); ok3 {
				s.Engine.SetForegroundColor(col)
			} else {
				s.pushUnknown("color", c)
			}
		}
	}
	if v, ok := msg["background"].(map[string]any); ok {
		if m, ok2 := v["mode"].(string); ok2 {
			if mode, ok3 := render.ParseBackgroundMode(m); ok3 {
				s.Engine.SetBackgroundMode(mode)
			} else {
				s.pushUnknown("background mode", m)
			}
		}
		if c, ok2 := v["color"].(string); ok2 {
			if col, ok3 := render.ParseColor(c); ok3 {
				s.Engine.SetBackgroundColor(col)
			} else {
				s.pushUnknown("color", c)
			}
		}
	}
	if v, ok := msg["frame"].(map[string]any); ok {
		if m, ok2 := v["mode"].(string); ok2 {
			if mode, ok3 := render.ParseFrameMode(m); ok3 {
				s.Engine.SetFrameMode(mode)
			} else {
				s.pushUnknown("frame mode", m)
			}
		}
		if c, ok2 := v["color"].(string); ok2 {
			if col, ok3 := render.ParseColor(c); ok3 {
				s.Engine.SetFrameColor(col)
			} else {
				s.pushUnknown("color", c)
			}
		}
	}
	if v, ok := msg["brightness"].(float64); ok {
		b := int(v)
		if b < 0 {
			b = 0
		}
		if b > 255 {
			b = 255
		}
		s.Engine.SetBrightness(uint8(b))
		s.mu.Lock()
		s.Brightness = b
		s.mu.Unlock()
	}
	if v, ok := msg["warning"].(map[string]any); ok {
		slot, _ := v["slot"].(float64)
		okFlag := true
		if o, ok2 := v["ok"].(bool); ok2 {
			okFlag = o
		}
		level := render.SevWarning
		if l, ok2 := v["level"].(float64); ok2 && int(l) == 2 {
			level = render.SevError
		}
		s.Engine.SetWarning(int(slot), okFlag, level)
	}
	if v, ok := msg["runTest"].(string); ok {
		switch selftest.Kind(v) {
		case selftest.IndexSweep, selftest.RGBChannels, selftest.RowSweep:
			s.pushDiag(diag.Diagnostic{Severity: diag.Info, Code: "TEST.RUNNING", Summary: "Running self-test", Detail: v})
			s.mu.Lock()
			s.testRunner = selftest.NewRunner(selftest.Kind(v))
			s.mu.Unlock()
		default:
			s.pushUnknown("test name", v)
		}
	}

	// Persist after any change
	s.saveConfig()
}

func (s *State) pushUnknown(what, value string) {
	d := diag.Warnf("CONTROL.UNKNOWN", "Unknown "+what)
	d.Evidence = map[string]any{"value": value}
	s.pushDiag(d)
}

func (s *State) saveConfig() {
	s.mu.RLock()
	path := s.ConfigPath
	drv := s.CurrentDriver
	hz := s.RefreshHz
	s.mu.RUnlock()
	if path == "" {
		return
	}
	fg, fr, bg, brightness := s.Engine.Config()
	cfg := config.Default()
	cfg.Driver = drv
	cfg.RefreshHz = hz
	cfg.Brightness = int(brightness)
	cfg.Foreground = config.Layer{Mode: fg.Mode.String(), Color: fg.Color.Hex(), Slant: fg.Slanted}
	cfg.Background = config.Layer{Mode: bg.Mode.String(), Color: bg.Color.Hex()}
	cfg.Frame = config.Layer{Mode: fr.Mode.String(), Color: fr.Color.Hex()}
	if err := config.Save(path, cfg); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("persist config")
	}
}

// sendState pushes the current display state to one client.
func (s *State) sendState(conn *websocket.Conn) {
	fg, fr, bg, brightness := s.Engine.Config()
	s.mu.RLock()
	state := map[string]any{
		"count":      geometry.NumLEDs,
		"rows":       geometry.Rows,
		"cols":       geometry.Cols,
		"driver":     s.CurrentDriver,
		"refresh_hz": s.RefreshHz,
		"brightness": brightness,
		"foreground": map[string]any{"mode": fg.Mode.String(), "color": fg.Color.Hex(), "slant": fg.Slanted},
		"background": map[string]any{"mode": bg.Mode.String(), "color": bg.Color.Hex()},
		"frame":      map[string]any{"mode": fr.Mode.String(), "color": fr.Color.Hex()},
	}
	s.mu.RUnlock()
	b, _ := json.Marshal(state)
	_ = conn.WriteMessage(websocket.TextMessage, b)
}

func (s *State) broadcastFrame(id uint64, rgb []byte) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.clients) == 0 {
		return
	}
	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	b, _ := json.Marshal(frame{T: time.Now().UnixNano(), FrameID: id, RGB: rgb})
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

func (s *State) pushDiag(d diag.Diagnostic) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, _ := json.Marshal(d)
	for c := range s.diagClients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}
