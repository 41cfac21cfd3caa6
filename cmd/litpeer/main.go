// Command litpeer serves in-memory elements and attached widgets over gRPC.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/anoideaopen/litbridge/core/element/grpcpeer"
	"github.com/anoideaopen/litbridge/core/element/wspeer"
	"github.com/anoideaopen/litbridge/core/logger"
	"github.com/anoideaopen/litbridge/core/metrics"
	"github.com/anoideaopen/litbridge/core/telemetry"
	"github.com/anoideaopen/litbridge/internal/config"
	"github.com/anoideaopen/litbridge/version"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

var (
	configFile  = flag.String("config", "litpeer.yaml", "Path to the litpeer configuration YAML file")
	showVersion = flag.Bool("version", false, "Print build information and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Summary())
		return
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Logger().WithError(err).Fatal("litpeer cannot start")
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("litpeer stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) error {
	shutdownTracing, err := telemetry.InstallTraceProvider(&telemetry.CollectorEndpoint{
		Endpoint: cfg.Telemetry.Endpoint,
		CACerts:  cfg.Telemetry.CACerts,
	}, version.ServiceName())
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.WithError(err).Warn("flushing traces")
		}
	}()

	collector := metrics.NewCollector(metrics.Config{
		Namespace: cfg.Metrics.Namespace,
		Subsystem: cfg.Metrics.Subsystem,
	})

	srv := grpcpeer.NewServer(grpcpeer.WithServerLogger(log), grpcpeer.WithServerMetrics(collector))
	for _, ec := range cfg.Elements {
		el, err := buildElement(ec)
		if err != nil {
			return err
		}
		srv.Add(ec.Name, el)
	}

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.GRPC.Address, err)
	}

	gs := grpc.NewServer()
	grpcpeer.RegisterElementServer(gs, srv)

	errCh := make(chan error, 2)
	go func() { errCh <- gs.Serve(lis) }()
	defer gs.GracefulStop()

	if cfg.HTTP.Address != "" {
		hub := wspeer.NewHub(
			wspeer.WithHubLogger(log),
			wspeer.WithHubMetrics(collector),
			wspeer.WithCheckOrigin(originChecker(cfg.HTTP.AllowedOrigins)),
			wspeer.OnAttach(
				func(p *wspeer.Peer) { srv.Add(p.Name(), p) },
				func(p *wspeer.Peer) { srv.Remove(p.Name()) },
			),
		)
		defer hub.Close()

		mux := http.NewServeMux()
		mux.Handle(cfg.HTTP.MetricsPath, collector.Handler())
		mux.Handle(cfg.HTTP.WebsocketPath, hub)

		httpSrv := &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           otelhttp.NewHandler(mux, version.ServiceName()),
			ReadHeaderTimeout: shutdownTimeout,
		}
		go func() {
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = httpSrv.Shutdown(shutdownCtx)
		}()
	}

	log.WithFields(logrus.Fields{
		"grpc":     cfg.GRPC.Address,
		"http":     cfg.HTTP.Address,
		"elements": len(cfg.Elements),
	}).Info("litpeer started")

	select {
	case <-ctx.Done():
		log.Info("litpeer shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}

// originChecker returns nil, the same-origin check, when no origins are listed.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}

	return func(r *http.Request) bool {
		return slices.Contains(allowed, r.Header.Get("Origin"))
	}
}
