package lidarmonitor

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/banshee-data/lidarrelay/internal/lidarlog"
	"github.com/banshee-data/lidarrelay/internal/lidarproto"
)

func TestServerBroadcastSamplesToDataSubscriber(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer(lidarlog.Discard())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ln.Close() // release the port, reuse its address for the real listener below

	addr := ln.Addr().String()
	go srv.ListenAndServeData(ctx, addr)

	// Give the acceptor a moment to bind.
	var conn net.Conn
	require.Eventually(t, func() bool {
		var dialErr error
		conn, dialErr = net.Dial("tcp", addr)
		return dialErr == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer conn.Close()

	// Let the registry register this connection before broadcasting.
	require.Eventually(t, func() bool { return srv.Data.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	srv.BroadcastSamples([]lidarproto.DecodedSample{
		{ThetaDeg: 12.34, DistMM: 5678},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "Theta: 12.34, Distance: 5678\n", line)
}

func TestServerBroadcastStatusFormat(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer(lidarlog.Discard())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ln.Close()
	addr := ln.Addr().String()
	go srv.ListenAndServeStatus(ctx, addr)

	var conn net.Conn
	require.Eventually(t, func() bool {
		var dialErr error
		conn, dialErr = net.Dial("tcp", addr)
		return dialErr == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer conn.Close()

	require.Eventually(t, func() bool { return srv.Status.Len() == 1 }, 2*time.Second, 10*time.Millisecond)

	srv.BroadcastStatus(640, 5, uint64(time.Now().UnixMicro()))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(conn)

	line1, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "\n", line1)

	line2, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "Received data count: 640\n", line2)

	line3, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "Delete data count: 5\n", line3)

	line4, err := reader.ReadString('\n')
	require.NoError(t, err)
	require.Contains(t, line4, "Time: ")
	require.Contains(t, line4, "Delay: ")
}
