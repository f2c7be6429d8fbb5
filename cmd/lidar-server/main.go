// Command lidar-server is the ingest server: it accepts the sensor TCP
// connection, decodes and validates rotations, and fans the result out to
// monitor subscribers on two independent ports.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/lidarrelay/internal/lidaringest"
	"github.com/banshee-data/lidarrelay/internal/lidarlog"
	"github.com/banshee-data/lidarrelay/internal/lidarmonitor"
	"github.com/banshee-data/lidarrelay/internal/version"
)

var (
	lidarPort     = flag.Int("lidar-port", 8000, "TCP port the sensor ingest client connects to")
	dataPort      = flag.Int("data-port", 8001, "TCP port monitor data subscribers connect to")
	statusPort    = flag.Int("status-port", 8002, "TCP port monitor status subscribers connect to")
	debugAddr     = flag.String("debug-addr", "", "optional loopback address for the /debug/ admin surface (empty disables it)")
	dashboardAddr = flag.String("dashboard-addr", "", "optional address for the live dashboard and debug plot (empty disables it)")
	showVersion   = flag.Bool("version", false, "print the build version and exit")
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

	monitorSrv := lidarmonitor.NewServer(logs)
	dashboard := lidarmonitor.NewDashboard()
	plotter := lidarmonitor.NewLastRotationPlotter()
	rejections := lidarmonitor.NewRejectionLog()

	ingestSrv := &lidaringest.Server{
		Sink:       monitorSrv,
		Dashboard:  dashboard,
		Plotter:    plotter,
		Rejections: rejections,
		Log:        logs,
	}

	var wg sync.WaitGroup
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil && ctx.Err() == nil {
				logs.Error.Printf("%s exited: %v", name, err)
			}
		}()
	}

	run("ingest", func(ctx context.Context) error {
		return ingestSrv.ListenAndServe(ctx, fmt.Sprintf(":%d", *lidarPort))
	})
	run("monitor-data", func(ctx context.Context) error {
		return monitorSrv.ListenAndServeData(ctx, fmt.Sprintf(":%d", *dataPort))
	})
	run("monitor-status", func(ctx context.Context) error {
		return monitorSrv.ListenAndServeStatus(ctx, fmt.Sprintf(":%d", *statusPort))
	})

	if *debugAddr != "" {
		mux := http.NewServeMux()
		monitorSrv.AttachAdminRoutes(mux, rejections)
		srv := &http.Server{Addr: *debugAddr, Handler: mux}
		run("debug-admin", func(ctx context.Context) error {
			go func() { <-ctx.Done(); srv.Close() }()
			err := srv.ListenAndServe()
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		})
	}

	if *dashboardAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/dashboard", dashboard)
		mux.Handle("/plot", plotter)
		srv := &http.Server{Addr: *dashboardAddr, Handler: mux}
		run("dashboard", func(ctx context.Context) error {
			go func() { <-ctx.Done(); srv.Close() }()
			err := srv.ListenAndServe()
			if err == http.ErrServerClosed {
				return nil
			}
			return err
		})
	}

	logs.Info.Printf("lidar-server starting: lidar=:%d data=:%d status=:%d", *lidarPort, *dataPort, *statusPort)
	wg.Wait()
	logs.Info.Print("lidar-server shutting down")
}
