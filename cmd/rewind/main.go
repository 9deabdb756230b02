// Package main is the entry point for the rewind debug adapter.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/dap"
	"github.com/dshills/rewind/internal/fixture"
	"github.com/dshills/rewind/internal/logging"
	"github.com/dshills/rewind/internal/replay"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		transport   string
		listen      string
		fixtureDir  string
		logLevel    string
		showVersion bool
	)
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&transport, "transport", "", "Transport: stdio or socket")
	flag.StringVar(&listen, "listen", "", "Listen address for socket transport")
	flag.StringVar(&fixtureDir, "fixtures", "", "Directory fixture files are resolved against")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("rewind %s (%s)\n", version, commit)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	// Flags win over file and environment.
	if transport != "" {
		cfg.Transport = transport
	}
	if listen != "" {
		cfg.Listen = listen
	}
	if fixtureDir != "" {
		cfg.FixtureDir = fixtureDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Stdout may carry the protocol; logs always go to stderr.
	log := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		cancel()
	}()

	switch cfg.Transport {
	case "socket":
		err = serveSocket(ctx, cfg, log)
	default:
		err = serveStdio(ctx, cfg, log)
	}
	if err != nil && ctx.Err() == nil {
		log.Error("serve failed: %v", err)
		return 1
	}
	return 0
}

// serveStdio runs a single session over stdin/stdout and exits with the
// host.
func serveStdio(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	session, err := newSession(cfg, log)
	if err != nil {
		return err
	}
	server := dap.NewServer(dap.NewStdioTransport(), session, log)
	defer server.Close()

	log.Info("rewind %s serving on stdio", version)
	return server.Serve(ctx)
}

// serveSocket accepts host connections on a TCP listener, one session per
// connection.
func serveSocket(ctx context.Context, cfg *config.Config, log *logging.Logger) error {
	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Listen, err)
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	log.Info("rewind %s listening on %s", version, ln.Addr())

	registry := replay.NewRegistry()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}

		session, err := newSession(cfg, log)
		if err != nil {
			log.Error("session setup failed: %v", err)
			conn.Close()
			continue
		}
		registry.Add(session)

		go func() {
			defer registry.Remove(session.ID())

			server := dap.NewServer(dap.NewSocketTransport(conn), session, log)
			defer server.Close()

			if err := server.Serve(ctx); err != nil {
				log.Warn("session %s ended: %v", session.ID(), err)
			}
		}()
	}
}

// newSession wires a fixture-backed replay session from configuration.
func newSession(cfg *config.Config, log *logging.Logger) (*replay.Session, error) {
	loader := fixture.NewLoader(cfg.FixtureDir, log)

	skip, err := replay.NewGlobSkipPolicy(cfg.SkipFrames)
	if err != nil {
		return nil, err
	}
	deemph, err := replay.NewGlobDeemphasisPolicy(cfg.DeemphasizeFrames)
	if err != nil {
		return nil, err
	}

	return replay.NewSession(replay.Options{
		Traces:      loader,
		Variables:   loader,
		Skip:        skip,
		Deemphasize: deemph,
		Logger:      log,
	}), nil
}
