package lidarmonitor

import (
	"fmt"
	"net/http"
	"sync"

	"tailscale.com/tsweb"

	"github.com/banshee-data/lidarrelay/internal/httputil"
)

// rejectionHistoryLimit bounds the ring buffer of recent rejected-rotation
// reasons kept for the admin surface.
const rejectionHistoryLimit = 50

// RejectionLog is a small ring buffer of recent rotation-rejection reasons,
// surfaced on the admin debug routes.
type RejectionLog struct {
	mu      sync.Mutex
	reasons []string
}

// NewRejectionLog returns an empty RejectionLog.
func NewRejectionLog() *RejectionLog {
	return &RejectionLog{}
}

// Record appends a rejection reason, trimming the oldest once
// rejectionHistoryLimit is exceeded.
func (l *RejectionLog) Record(reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reasons = append(l.reasons, reason)
	if len(l.reasons) > rejectionHistoryLimit {
		l.reasons = l.reasons[1:]
	}
}

func (l *RejectionLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.reasons...)
}

// AttachAdminRoutes attaches /debug/ admin routes reporting subscriber
// counts and recent rejection reasons, grounded directly on
// internal/serialmux.AttachAdminRoutes's tsweb.Debugger pattern. This is
// gated the same way: bind to a loopback/debug listener, never the public
// monitor data path.
func (s *Server) AttachAdminRoutes(mux *http.ServeMux, rejections *RejectionLog) {
	debug := tsweb.Debugger(mux)

	debug.HandleFunc("lidar-subscribers", "data/status subscriber counts", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "data subscribers: %d\nstatus subscribers: %d\n", s.Data.Len(), s.Status.Len())
	})

	debug.HandleFunc("lidar-rejections", "recent rejected-rotation reasons", func(w http.ResponseWriter, r *http.Request) {
		for _, reason := range rejections.snapshot() {
			fmt.Fprintln(w, reason)
		}
	})

	mux.HandleFunc("/debug/lidar-subscribers.json", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSONOK(w, map[string]int{
			"data_subscribers":   s.Data.Len(),
			"status_subscribers": s.Status.Len(),
		})
	})
}
