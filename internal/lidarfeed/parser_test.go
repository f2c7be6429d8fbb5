package lidarfeed

import "testing"

func TestParseMeasurement(t *testing.T) {
	cases := []struct {
		line      string
		wantTheta uint16
		wantDist  uint32
		wantOK    bool
	}{
		{"theta: 12.34 Dist: 5678", 1234, 5678, true},
		{"S theta: 0.50 Dist: 100", 50, 100, true},
		{"theta: 1.00 Dist: 200.5", 100, 200, true},
		{"theta: 10.00 Dist: 500 Q: 15", 1000, 500, true},
		{"theta: 0.00 Dist: 0", 0, 0, false}, // degenerate all-zero sample is noise
		{"garbage line", 0, 0, false},
		{"", 0, 0, false},
	}

	for _, c := range cases {
		m, ok := Parse(c.line)
		if ok != c.wantOK {
			t.Errorf("Parse(%q) ok = %v, want %v", c.line, ok, c.wantOK)
			continue
		}
		if !ok {
			continue
		}
		if m.ThetaCenti != c.wantTheta || m.DistMM != c.wantDist {
			t.Errorf("Parse(%q) = %+v, want theta=%d dist=%d", c.line, m, c.wantTheta, c.wantDist)
		}
	}
}

func TestIsBoundary(t *testing.T) {
	if !IsBoundary("S theta: 1.00 Dist: 10") {
		t.Error("expected line with S prefix to be a boundary")
	}
	if !IsBoundary("START") {
		t.Error("expected any line containing S to be a boundary")
	}
	if IsBoundary("theta: 1.00 Dist: 10") {
		t.Error("did not expect a plain measurement line to be a boundary")
	}
}
