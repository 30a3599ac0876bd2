package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/danielpatrickdp/unify-journey/go-controller/internal/config"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/gate"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/journey"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/model"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/state"
	"github.com/danielpatrickdp/unify-journey/go-controller/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("journeyd exited", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// #region params
	params := model.MustDefault()
	if cfg.BundlePath != "" {
		var err error
		params, err = model.LoadOrDefault(cfg.BundlePath)
		if err != nil {
			return err
		}
	}

	var opts []transport.ServerOption
	if cfg.DBPath != "" {
		store, err := state.NewStore(cfg.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		rec, err := store.EnsureActive(params)
		if err != nil {
			return err
		}
		if cfg.BundlePath != "" && !rec.Params.Equal(params) {
			decision := gate.NewGate(gate.DefaultGateConfig()).Evaluate(rec.Params, params)
			if decision.Action == "commit" {
				rec, err = store.Commit(rec.VersionID, params, "loaded from "+cfg.BundlePath)
				if err != nil {
					return err
				}
				logger.Info("committed parameter version",
					zap.String("version", rec.VersionID), zap.Float64("soft_score", decision.SoftScore))
			} else {
				logger.Warn("bundle rejected, keeping active version",
					zap.String("bundle", cfg.BundlePath), zap.String("reason", decision.Reason))
			}
		}
		params = rec.Params
		opts = append(opts, transport.WithAuditLog(store.DB(), rec.VersionID))
		logger.Info("parameter store ready", zap.String("db", cfg.DBPath), zap.String("active_version", rec.VersionID))
	}
	// #endregion params

	// #region engine
	engineOpts := []journey.Option{journey.WithLogger(logger.Named("engine"))}
	if cfg.Seeded() {
		engineOpts = append(engineOpts, journey.WithSeed(cfg.Seed))
	}
	engine, err := journey.NewEngine(params, engineOpts...)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := transport.NewMetrics(reg)
	if err != nil {
		return err
	}
	opts = append(opts, transport.WithLogger(logger.Named("transport")), transport.WithMetrics(metrics))
	// #endregion engine

	// #region serve
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return err
	}
	gs := grpc.NewServer()
	hs := transport.NewServer(engine, opts...).Register(gs)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("grpc listening", zap.String("addr", lis.Addr().String()))
		errCh <- gs.Serve(lis)
	}()
	go func() {
		logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serveErr = err
		}
	}

	hs.Shutdown()
	gs.GracefulStop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
	// #endregion serve
}
