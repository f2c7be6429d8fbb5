// Package lidaringest implements the TCP ingest client and server: the
// sensor-side connect/retry/send loop and the server-side
// accept/decode/hand-off loop.
package lidaringest

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/banshee-data/lidarrelay/internal/lidarfeed"
	"github.com/banshee-data/lidarrelay/internal/lidarlog"
	"github.com/banshee-data/lidarrelay/internal/lidarproto"
	"github.com/banshee-data/lidarrelay/internal/timeutil"
)

// connectTimeout bounds each connection attempt.
const connectTimeout = 10 * time.Second

// reconnectBackoff paces outer-loop retries so a refused or unreachable
// server doesn't spin the loop hot.
const reconnectBackoff = 2 * time.Second

// Client drives a LineSource through the parser and segmenter, encodes
// each accepted rotation, and sends it over a reconnecting TCP connection
// to the ingest server.
type Client struct {
	ServerAddr string
	NewSource  func() (lidarfeed.LineSource, error)
	Clock      timeutil.Clock
	Log        lidarlog.Loggers
}

// Run drives the outer reconnect loop forever until ctx is canceled. The
// loop is intentionally unbounded: it is meant for long-running field
// deployment, not a fixed number of retries.
func (c *Client) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.runOnce(ctx); err != nil {
			c.Log.Error.Printf("ingest client: %v", err)
			c.clock().Sleep(reconnectBackoff)
		}
	}
}

func (c *Client) clock() timeutil.Clock {
	if c.Clock != nil {
		return c.Clock
	}
	return timeutil.RealClock{}
}

func (c *Client) nowUS() uint64 {
	return uint64(c.clock().Now().UnixMicro())
}

// runOnce spawns a line source, connects once, and streams frames until
// either the source or the connection fails, at which point both are torn
// down so the caller can retry with a fresh driver process.
func (c *Client) runOnce(ctx context.Context) error {
	source, err := c.NewSource()
	if err != nil {
		return fmt.Errorf("start line source: %w", err)
	}
	defer source.Close()

	conn, err := net.DialTimeout("tcp", c.ServerAddr, connectTimeout)
	if err != nil {
		return fmt.Errorf("connect timeout: %w", err)
	}
	defer conn.Close()

	c.Log.Info.Printf("ingest client connected to %s", c.ServerAddr)

	seg := lidarfeed.NewSegmenter(c.nowUS)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-source.Lines():
			if !ok {
				return fmt.Errorf("sensor driver exit: %w", source.Err())
			}

			result := seg.Feed(line)
			if result == nil {
				continue
			}
			if !result.Accepted {
				c.Log.Info.Printf("rotation rejected: %s (count=%d)", result.RejectReason, result.SampleCount)
				continue
			}

			frame, err := lidarproto.Encode(result.Rotation)
			if err != nil {
				c.Log.Info.Printf("rotation discarded: %v (count=%d)", err, result.SampleCount)
				continue
			}

			if _, err := conn.Write(frame); err != nil {
				return fmt.Errorf("transport send error: %w", err)
			}
		}
	}
}
