package lidarmonitor

import (
	"bytes"
	"fmt"
	"math"
	"net/http"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/lidarrelay/internal/lidarproto"
)

// LastRotationPlotter renders the most recently accepted rotation as a
// polar scatter PNG, for human sanity-checking of the segmenter's output.
// Grounded on internal/lidar/monitor/gridplotter.go's plot.New/plotter
// usage, applied here to a live operational debug view rather than offline
// analysis.
type LastRotationPlotter struct {
	mu      sync.Mutex
	samples []lidarproto.DecodedSample
}

// NewLastRotationPlotter returns an empty plotter.
func NewLastRotationPlotter() *LastRotationPlotter {
	return &LastRotationPlotter{}
}

// Record stores the most recently accepted rotation's samples, replacing
// whatever was previously recorded.
func (p *LastRotationPlotter) Record(samples []lidarproto.DecodedSample) {
	p.mu.Lock()
	p.samples = append([]lidarproto.DecodedSample(nil), samples...)
	p.mu.Unlock()
}

// ServeHTTP renders the most recently recorded rotation as a polar scatter
// PNG (distance vs. theta, converted to Cartesian for plotting).
func (p *LastRotationPlotter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	samples := append([]lidarproto.DecodedSample(nil), p.samples...)
	p.mu.Unlock()

	if len(samples) == 0 {
		http.Error(w, "no rotation recorded yet", http.StatusNotFound)
		return
	}

	pts := make(plotter.XYs, len(samples))
	for i, s := range samples {
		rad := s.ThetaDeg * math.Pi / 180.0
		pts[i].X = float64(s.DistMM) * math.Cos(rad)
		pts[i].Y = float64(s.DistMM) * math.Sin(rad)
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Last accepted rotation (%d samples)", len(samples))
	pl.X.Label.Text = "X (mm)"
	pl.Y.Label.Text = "Y (mm)"

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to build scatter: %v", err), http.StatusInternalServerError)
		return
	}
	pl.Add(scatter)

	writer, err := pl.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to render plot: %v", err), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if _, err := writer.WriteTo(&buf); err != nil {
		http.Error(w, fmt.Sprintf("failed to encode plot: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(buf.Bytes())
}
