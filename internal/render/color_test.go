package render

import "testing"

func TestHSVPrimaries(t *testing.T) {
	if c := HSV(HueRed, 255, 255); c.R != 255 || c.G != 0 || c.B != 0 {
		t.Errorf("red hue = %+v", c)
	}
	if c := HSV(HueBlue, 255, 255); c.B != 255 || c.R != 0 {
		t.Errorf("blue hue = %+v", c)
	}
	if c := HSV(HueGreen, 255, 255); c.G != 255 {
		t.Errorf("green hue = %+v", c)
	}
	// zero saturation is gray at the value level
	if c := HSV(123, 0, 190); c != (Color{190, 190, 190}) {
		t.Errorf("desaturated = %+v", c)
	}
}

func TestScale(t *testing.T) {
	if c := White.Scale(255); c != White {
		t.Errorf("identity scale = %+v", c)
	}
	if c := White.Scale(0); c != Black {
		t.Errorf("zero scale = %+v", c)
	}
	if c := (Color{200, 100, 50}).Scale(128); c.R != 100 || c.G != 50 || c.B != 25 {
		t.Errorf("half scale = %+v", c)
	}
}

func TestParseColor(t *testing.T) {
	cases := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#ff8c00", DarkOrange, true},
		{"FF8C00", DarkOrange, true},
		{"darkblue", DarkBlue, true},
		{" Snow ", Snow, true},
		{"#12345", Color{}, false},
		{"notacolor", Color{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseColor(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseColor(%q) = %+v,%v want %+v,%v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseModes(t *testing.T) {
	if m, ok := ParseBackgroundMode("W"); !ok || m != BGThunderstorm {
		t.Errorf("legacy letter W = %v,%v", m, ok)
	}
	if m, ok := ParseForegroundMode("rainbow"); !ok || m != FGTimeRainbow {
		t.Errorf("rainbow = %v,%v", m, ok)
	}
	if m, ok := ParseFrameMode("time"); !ok || m != FRTime {
		t.Errorf("time = %v,%v", m, ok)
	}
	if _, ok := ParseBackgroundMode("bogus"); ok {
		t.Error("bogus mode accepted")
	}
}
