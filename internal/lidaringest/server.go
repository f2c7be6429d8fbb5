package lidaringest

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/banshee-data/lidarrelay/internal/lidarlog"
	"github.com/banshee-data/lidarrelay/internal/lidarmonitor"
	"github.com/banshee-data/lidarrelay/internal/lidarproto"
	"github.com/banshee-data/lidarrelay/internal/lidarvalidate"
)

// readChunkSize is the per-read buffer size the handler accumulates into.
const readChunkSize = 8 * 1024

// RotationSink receives each decoded-and-validated rotation. The monitor
// fan-out server implements this; it is an interface here so the handler
// stays independently testable.
type RotationSink interface {
	BroadcastSamples(samples []lidarproto.DecodedSample)
	BroadcastStatus(receivedCount, deletedCount int, frameTimestampUS uint64)
}

// Server accepts sensor connections on a single TCP port and decodes each
// frame it receives, handing the validated result to Sink.
type Server struct {
	Sink         RotationSink
	Dashboard    *lidarmonitor.Dashboard   // optional
	Plotter      *lidarmonitor.LastRotationPlotter // optional
	Rejections   *lidarmonitor.RejectionLog        // optional
	Log          lidarlog.Loggers
}

// ListenAndServe accepts connections on addr until ctx is canceled. At
// most one sensor connection is expected at a time, but each accepted
// connection gets its own handler goroutine regardless.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("lidaringest: listen on %s: %w", addr, err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	s.Log.Info.Printf("ingest server listening on %s", addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.Log.Error.Printf("ingest accept error: %v", err)
			continue
		}
		go s.handle(conn)
	}
}

// handle implements a buffer-accumulate-then-decode-or-retain loop
// matching the original's handle_lidar_client: after each read it tries to
// decode the whole buffer; a successful decode consumes the buffer, and a
// truncation error retains it for the next chunk. Frames carry no length,
// so a buffer holding only part of a frame, or more than one frame, can
// also decode without error; correct framing depends on the client's
// one-frame-per-write discipline.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	var buf []byte
	chunk := make([]byte, readChunkSize)

	for {
		n, err := conn.Read(chunk)
		if err != nil {
			if len(buf) > 0 {
				s.Log.Error.Printf("ingest handler: transport recv error with %d bytes buffered: %v", len(buf), err)
			}
			return
		}
		buf = append(buf, chunk[:n]...)

		timestampUS, samples, decodeErr := lidarproto.Decode(buf)
		switch {
		case decodeErr == nil:
			s.process(timestampUS, samples)
			buf = buf[:0]
		case errors.Is(decodeErr, lidarproto.ErrFrameTooShort),
			errors.Is(decodeErr, lidarproto.ErrUnexpectedEndOfFrame):
			// Truncation: more bytes are still in flight. Retain the
			// buffer for the next read.
		}
	}
}

func (s *Server) process(timestampUS uint64, samples []lidarproto.DecodedSample) {
	result := lidarvalidate.Filter(samples)
	stats := lidarvalidate.Stats(result.Accepted)

	if s.Plotter != nil {
		s.Plotter.Record(result.Accepted)
	}
	if s.Dashboard != nil {
		s.Dashboard.RecordRotation(len(result.Accepted), result.Dropped, stats)
	}

	if !result.Empty {
		s.Sink.BroadcastSamples(result.Accepted)
	} else if s.Rejections != nil {
		s.Rejections.Record(fmt.Sprintf("rotation flagged empty: %d surviving samples", len(result.Accepted)))
	}

	s.Sink.BroadcastStatus(len(result.Accepted), result.Dropped, timestampUS)
}
