package lidarmonitor

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/banshee-data/lidarrelay/internal/lidarlog"
	"github.com/banshee-data/lidarrelay/internal/lidarproto"
)

// Server runs the two independent monitor TCP acceptors, data port and
// status port, each owning its own Registry.
type Server struct {
	Data   *Registry
	Status *Registry
	log    lidarlog.Loggers
}

// NewServer returns a Server with fresh, empty registries.
func NewServer(log lidarlog.Loggers) *Server {
	return &Server{Data: NewRegistry(), Status: NewRegistry(), log: log}
}

// ListenAndServeData accepts connections on addr and registers each as a
// data-port subscriber until ctx is canceled.
func (s *Server) ListenAndServeData(ctx context.Context, addr string) error {
	return s.acceptLoop(ctx, addr, s.Data, "data")
}

// ListenAndServeStatus accepts connections on addr and registers each as a
// status-port subscriber until ctx is canceled.
func (s *Server) ListenAndServeStatus(ctx context.Context, addr string) error {
	return s.acceptLoop(ctx, addr, s.Status, "status")
}

func (s *Server) acceptLoop(ctx context.Context, addr string, reg *Registry, name string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("lidarmonitor: listen on %s port %s: %w", name, addr, err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.log.Info.Printf("monitor %s port listening on %s", name, addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.log.Error.Printf("monitor %s port accept error: %v", name, err)
			continue
		}
		reg.Add(conn)
	}
}

// BroadcastSamples renders each accepted sample as a data-port record,
// "Theta: <f>.<2 digits>, Distance: <u32>\n", and broadcasts it.
func (s *Server) BroadcastSamples(samples []lidarproto.DecodedSample) {
	for _, sample := range samples {
		s.Data.Broadcast(fmt.Sprintf("Theta: %.2f, Distance: %d\n", sample.ThetaDeg, sample.DistMM))
	}
}

// BroadcastStatus renders and broadcasts one status record:
//
//	\nReceived data count: <N>
//	\nDelete data count: <D>
//	\nTime: HH:MM:SS.mmm Delay: <S.sss>sec
//
// delay is frameTimestampUS's age relative to now, floored at zero.
func (s *Server) BroadcastStatus(receivedCount, deletedCount int, frameTimestampUS uint64) {
	now := time.Now()
	delay := now.Sub(time.UnixMicro(int64(frameTimestampUS))).Seconds()
	if delay < 0 {
		delay = 0
	}

	record := fmt.Sprintf(
		"\nReceived data count: %d\nDelete data count: %d\nTime: %s Delay: %.3fsec\n",
		receivedCount, deletedCount, now.Format("15:04:05.000"), delay,
	)
	s.Status.Broadcast(record)
}
