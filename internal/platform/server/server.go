package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ogurasousui/codex-employee-api/internal/platform/config"
	pgdb "github.com/ogurasousui/codex-employee-api/internal/platform/db/postgres"
	"github.com/ogurasousui/codex-employee-api/internal/platform/logger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService は gRPC ヘルスチェックで公開するサービス名です。
const HealthService = "employee.v1.EmployeeAPI"

const (
	readHeaderTimeout = 10 * time.Second
	probeTimeout      = 3 * time.Second
)

// Server は HTTP API と gRPC ヘルスチェックのライフサイクルを管理します。
type Server struct {
	httpAddr        string
	healthAddr      string
	shutdownTimeout time.Duration
	probeInterval   time.Duration

	httpServer *http.Server
	grpcServer *grpc.Server
	health     *health.Server
	db         pgdb.Pinger

	ready     chan struct{}
	readyOnce sync.Once
	httpLis   net.Listener
	healthLis net.Listener
}

// New はサーバーを構築します。db が nil の場合ヘルスチェックは常に SERVING です。
// cfg.HealthAddr が空の場合 gRPC ヘルスチェックは起動しません。
func New(cfg config.ServerConfig, handler http.Handler, db pgdb.Pinger, opts ...grpc.ServerOption) *Server {
	grpcServer := grpc.NewServer(opts...)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		httpAddr:        cfg.ListenAddr,
		healthAddr:      cfg.HealthAddr,
		shutdownTimeout: cfg.ShutdownTimeout,
		probeInterval:   cfg.ProbeInterval,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		grpcServer: grpcServer,
		health:     healthServer,
		db:         db,
		ready:      make(chan struct{}),
	}
}

// Run はサーバーを起動し、コンテキストがキャンセルされると graceful shutdown します。
func (s *Server) Run(ctx context.Context) error {
	httpLis, err := net.Listen("tcp", s.httpAddr)
	if err != nil {
		return fmt.Errorf("listen http on %s: %w", s.httpAddr, err)
	}

	var healthLis net.Listener
	if s.healthAddr != "" {
		healthLis, err = net.Listen("tcp", s.healthAddr)
		if err != nil {
			_ = httpLis.Close()
			return fmt.Errorf("listen health on %s: %w", s.healthAddr, err)
		}
	}

	s.probe(ctx)
	s.markReady(httpLis, healthLis)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(gctx, "http server listening on %s", httpLis.Addr())
		if err := s.httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	if healthLis != nil {
		g.Go(func() error {
			logger.Info(gctx, "grpc health server listening on %s", healthLis.Addr())
			if err := s.grpcServer.Serve(healthLis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("serve grpc health: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		s.probeLoop(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown()
	})

	return g.Wait()
}

// Ready は待ち受け開始後に close されるチャネルを返します。
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// HTTPAddr は HTTP の待ち受けアドレスを返します。Ready 前は nil です。
func (s *Server) HTTPAddr() net.Addr {
	select {
	case <-s.ready:
		return s.httpLis.Addr()
	default:
		return nil
	}
}

// HealthAddr は gRPC ヘルスチェックの待ち受けアドレスを返します。無効または Ready 前は nil です。
func (s *Server) HealthAddr() net.Addr {
	select {
	case <-s.ready:
		if s.healthLis == nil {
			return nil
		}
		return s.healthLis.Addr()
	default:
		return nil
	}
}

func (s *Server) markReady(httpLis, healthLis net.Listener) {
	s.readyOnce.Do(func() {
		s.httpLis = httpLis
		s.healthLis = healthLis
		close(s.ready)
	})
}

func (s *Server) probeLoop(ctx context.Context) {
	if s.probeInterval <= 0 {
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(s.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

// probe はデータベースへの疎通結果をヘルスステータスに反映します。
func (s *Server) probe(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if s.db != nil {
		if err := pgdb.Ping(ctx, s.db, probeTimeout); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn(ctx, err, "database probe failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(HealthService, status)
}

func (s *Server) shutdown() error {
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	logger.Info(ctx, "shutting down servers (timeout %s)", s.shutdownTimeout)

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http: %w", err))
	}

	select {
	case <-stopped:
	case <-ctx.Done():
		s.grpcServer.Stop()
		errs = append(errs, fmt.Errorf("shutdown grpc: %w", ctx.Err()))
	}

	return errors.Join(errs...)
}
