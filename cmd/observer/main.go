// Command observer wires a UDP capture loop, the InnerNet Observer core,
// and the optional capture/replay and websocket fan-out collaborators into
// one runnable reference harness. The UDP capture, command-line flag
// parsing, and collaborator wiring here are the "external collaborators"
// spec.md §1 declares out of scope for the core itself; this binary exists
// to demonstrate the boundary, not to extend it.
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"crewwire/internal/broadcast"
	"crewwire/internal/capturelog"
	"crewwire/internal/config"
	"crewwire/internal/logging"
	"crewwire/internal/observer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize structured logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	obs := observer.New(logger)

	hub := broadcast.NewHub(logger.With(logging.String("component", "broadcast")))
	obs.Subscribe(hub.Publish)

	var capture *capturelog.Writer
	if cfg.CaptureEnabled {
		capture, err = capturelog.NewWriter(cfg.CaptureDir, cfg.CaptureMaxSizeMB, logger.With(logging.String("component", "capturelog")))
		if err != nil {
			logger.Fatal("failed to initialise datagram capture", logging.Error(err))
		}
		defer func() {
			if err := capture.Close(); err != nil {
				logger.Warn("capturelog close failed", logging.Error(err))
			}
		}()
		logger.Info("datagram capture enabled", logging.String("dir", cfg.CaptureDir))
	}

	go serveBroadcastHub(cfg.BroadcastAddr, hub, logger)

	conn, err := net.ListenPacket("udp", cfg.ListenAddr)
	if err != nil {
		logger.Fatal("failed to bind UDP listen address", logging.Error(err), logging.String("addr", cfg.ListenAddr))
	}
	logger.Info("observer listening", logging.String("addr", cfg.ListenAddr))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down")
		_ = conn.Close()
	}()

	buf := make([]byte, cfg.MaxDatagramBytes)
	for {
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			logger.Info("udp listener closed", logging.Error(err))
			return
		}
		payload := append([]byte(nil), buf[:n]...)
		if capture != nil {
			if err := capture.Append(payload); err != nil {
				logger.Warn("capturelog append failed", logging.Error(err))
			}
		}
		obs.ProcessDatagram(payload)
	}
}

func serveBroadcastHub(addr string, hub *broadcast.Hub, logger *logging.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/", hub)
	logger.Info("broadcast hub listening", logging.String("addr", addr))
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Warn("broadcast hub stopped", logging.Error(err))
	}
}
