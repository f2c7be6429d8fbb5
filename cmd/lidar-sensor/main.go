// Command lidar-sensor is the ingest client: it drives the sensor line
// source through the parser, segmenter, and codec, and pushes encoded
// rotations to a lidar-server over TCP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/banshee-data/lidarrelay/internal/lidarfeed"
	"github.com/banshee-data/lidarrelay/internal/lidaringest"
	"github.com/banshee-data/lidarrelay/internal/lidarlog"
	"github.com/banshee-data/lidarrelay/internal/timeutil"
	"github.com/banshee-data/lidarrelay/internal/version"
)

var (
	server      = flag.String("server", "localhost:8000", "ingest server host:port")
	driver      = flag.String("driver", "lidar-driver", "sensor driver subprocess command line")
	serialPort  = flag.String("serial", "", "serial device path (switches to a direct serial LineSource instead of the driver subprocess)")
	baud        = flag.Int("baud", 115200, "serial baud rate, used only with -serial")
	showVersion = flag.Bool("version", false, "print the build version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	logs := lidarlog.Default()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &lidaringest.Client{
		ServerAddr: *server,
		NewSource:  newLineSource,
		Clock:      timeutil.RealClock{},
		Log:        logs,
	}

	logs.Info.Printf("lidar-sensor starting, server=%s", *server)
	client.Run(ctx)
	logs.Info.Print("lidar-sensor shutting down")
}

func newLineSource() (lidarfeed.LineSource, error) {
	if *serialPort != "" {
		return lidarfeed.NewSerialLineSource(*serialPort, *baud)
	}

	parts := strings.Fields(*driver)
	if len(parts) == 0 {
		return nil, errors.New("lidar-sensor: -driver must not be empty")
	}
	return lidarfeed.NewProcessLineSource(context.Background(), parts[0], parts[1:]...)
}
