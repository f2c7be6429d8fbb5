package lidarmonitor

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/lidarrelay/internal/lidarvalidate"
)

// dashboardHistoryLimit bounds how many rotations the live chart keeps, so
// the dashboard stays a recent-activity view rather than an unbounded log.
const dashboardHistoryLimit = 200

// Dashboard tracks received/deleted counts and accepted-distance statistics
// across recent rotations and renders them as ECharts line charts (grounded
// on internal/lidar/monitor/echarts_handlers.go), here applied to the ingest
// server's own live ops view rather than offline grid analysis.
type Dashboard struct {
	mu       sync.Mutex
	received []int
	deleted  []int
	meanMM   []float64
	stddevMM []float64
}

// NewDashboard returns an empty Dashboard.
func NewDashboard() *Dashboard {
	return &Dashboard{}
}

// RecordRotation appends one rotation's received/deleted counts and
// accepted-distance mean/stddev, trimming the oldest entry once
// dashboardHistoryLimit is exceeded.
func (d *Dashboard) RecordRotation(received, deleted int, stats lidarvalidate.RotationStats) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.received = append(d.received, received)
	d.deleted = append(d.deleted, deleted)
	d.meanMM = append(d.meanMM, stats.MeanMM)
	d.stddevMM = append(d.stddevMM, stats.StdDevMM)
	if len(d.received) > dashboardHistoryLimit {
		d.received = d.received[1:]
		d.deleted = d.deleted[1:]
		d.meanMM = d.meanMM[1:]
		d.stddevMM = d.stddevMM[1:]
	}
}

// ServeHTTP renders the current history as an HTML page with two ECharts
// line charts: received/deleted counts, and accepted-distance mean/stddev.
func (d *Dashboard) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	received := append([]int(nil), d.received...)
	deleted := append([]int(nil), d.deleted...)
	meanMM := append([]float64(nil), d.meanMM...)
	stddevMM := append([]float64(nil), d.stddevMM...)
	d.mu.Unlock()

	labels := make([]string, len(received))
	receivedData := make([]opts.LineData, len(received))
	deletedData := make([]opts.LineData, len(deleted))
	meanData := make([]opts.LineData, len(meanMM))
	stddevData := make([]opts.LineData, len(stddevMM))
	for i := range received {
		labels[i] = fmt.Sprintf("%d", i)
		receivedData[i] = opts.LineData{Value: received[i]}
		deletedData[i] = opts.LineData{Value: deleted[i]}
		meanData[i] = opts.LineData{Value: meanMM[i]}
		stddevData[i] = opts.LineData{Value: stddevMM[i]}
	}

	counts := charts.NewLine()
	counts.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "LiDAR Ingest", Theme: "dark", Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Received / Deleted per rotation"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "rotation"}),
	)
	counts.SetXAxis(labels).
		AddSeries("received", receivedData).
		AddSeries("deleted", deletedData)

	dist := charts.NewLine()
	dist.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: "dark", Width: "900px", Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: "Accepted distance mean / stddev (mm)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "rotation"}),
	)
	dist.SetXAxis(labels).
		AddSeries("mean_mm", meanData).
		AddSeries("stddev_mm", stddevData)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_ = counts.Render(w)
	_ = dist.Render(w)
}
