// Package grpc exposes the member directory over gRPC, with Prometheus
// metrics and a health endpoint served over HTTP.
package grpc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/directoryapi"
	"github.com/dmitrijs2005/memberportal/internal/logging"
	"github.com/dmitrijs2005/memberportal/internal/server/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

const shutdownTimeout = 5 * time.Second

// MemberService is the business layer the handlers call.
type MemberService interface {
	FindByEmail(ctx context.Context, email string) (*models.Member, error)
	Create(ctx context.Context, m *models.Member) (*models.Member, error)
	Patch(ctx context.Context, id string, p models.ProfilePatch) (*models.Member, error)
	Ping(ctx context.Context) error
}

type DirectoryServer struct {
	address        string
	metricsAddress string
	members        MemberService
	logger         logging.Logger
	jwtSecret      []byte
	registry       *prometheus.Registry
	metrics        *Metrics
}

var _ directoryapi.DirectoryServer = (*DirectoryServer)(nil)

// NewDirectoryServer builds the server. An empty metricsAddr disables the
// HTTP listener.
func NewDirectoryServer(addr, metricsAddr string, l logging.Logger, members MemberService, secretKey string) *DirectoryServer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &DirectoryServer{
		address:        addr,
		metricsAddress: metricsAddr,
		members:        members,
		logger:         l.With("module", "grpc_server"),
		jwtSecret:      []byte(secretKey),
		registry:       reg,
		metrics:        NewMetrics(reg),
	}
}

func (s *DirectoryServer) newGRPCServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metrics.unaryInterceptor, s.accessTokenInterceptor))
	directoryapi.RegisterDirectoryServer(srv, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *DirectoryServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newGRPCServer()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())
		return srv.Serve(listen)
	})

	var httpSrv *http.Server
	if s.metricsAddress != "" {
		httpSrv = &http.Server{
			Addr:              s.metricsAddress,
			Handler:           NewHTTPHandler(s.registry, s.members.Ping),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			s.logger.Info(ctx, "Starting metrics server", "address", s.metricsAddress)
			if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()

		if httpSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		}
		return nil
	})

	return g.Wait()
}
