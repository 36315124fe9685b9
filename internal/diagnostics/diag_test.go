package diagnostics

import "testing"

func TestConstructorsGradeSeverity(t *testing.T) {
	d := Infof("TEST.DONE", "Self-test complete")
	if d.Severity != Info || d.Code != "TEST.DONE" || d.Summary != "Self-test complete" {
		t.Fatalf("Infof built %+v", d)
	}

	w := Warnf("CONTROL.UNKNOWN", "Unknown color")
	if w.Severity != Warn || w.Code != "CONTROL.UNKNOWN" {
		t.Fatalf("Warnf built %+v", w)
	}
	if w.Evidence != nil || w.Detail != "" {
		t.Fatalf("Warnf should leave optional fields empty, got %+v", w)
	}
}
