package grpcserver

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/chrissnell/moondash/internal/log"
	"github.com/chrissnell/moondash/pkg/config"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
)

// Controller represents the gRPC controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	GRPCConfig config.GRPCServerData
	Server     *grpc.Server
	Health     *health.Server
	Service    *Service
}

// NewController creates a new gRPC controller instance
func NewController(ctx context.Context, wg *sync.WaitGroup, grpcConfig config.GRPCServerData, logger *zap.SugaredLogger, now func() time.Time) (*Controller, error) {
	if grpcConfig.ListenAddr == "" {
		grpcConfig.ListenAddr = config.DefaultListenAddr
	}
	if grpcConfig.Port == 0 {
		logger.Infof("grpc.port not provided; defaulting to %d", config.DefaultGRPCPort)
		grpcConfig.Port = config.DefaultGRPCPort
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		GRPCConfig: grpcConfig,
		Health:     health.NewServer(),
		Service:    NewService(now),
	}

	opts := []grpc.ServerOption{grpc.ChainUnaryInterceptor(LoggingInterceptor(logger))}

	// Create gRPC server with optional TLS
	if grpcConfig.Cert != "" && grpcConfig.Key != "" {
		creds, err := credentials.NewServerTLSFromFile(grpcConfig.Cert, grpcConfig.Key)
		if err != nil {
			return nil, fmt.Errorf("could not create TLS server from keypair: %v", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}
	ctrl.Server = grpc.NewServer(opts...)

	// Register the lunar, health and reflection services
	RegisterLunarServer(ctrl.Server, ctrl.Service)
	healthpb.RegisterHealthServer(ctrl.Server, ctrl.Health)
	ctrl.Health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(ctrl.Server)

	return ctrl, nil
}

// StartController starts the gRPC controller
func (c *Controller) StartController() error {
	log.Info("Starting gRPC controller...")

	listenAddr := net.JoinHostPort(c.GRPCConfig.ListenAddr, fmt.Sprint(c.GRPCConfig.Port))
	l, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("gRPC controller could not create listener: %v", err)
	}
	return c.Serve(l)
}

// Serve runs the server on l until the controller's context is cancelled
func (c *Controller) Serve(l net.Listener) error {
	c.wg.Add(2)

	go func() {
		defer c.wg.Done()
		log.Infof("gRPC controller listening on %s", l.Addr())
		if err := c.Server.Serve(l); err != nil {
			log.Errorf("gRPC controller serve error: %v", err)
		}
	}()

	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		c.StopController()
	}()

	return nil
}

// StopController marks the service not serving and drains in-flight calls
func (c *Controller) StopController() {
	log.Info("Stopping gRPC controller...")
	c.Health.Shutdown()
	c.Server.GracefulStop()
}

// LoggingInterceptor logs each unary call with its status code and duration
func LoggingInterceptor(logger *zap.SugaredLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		fields := []interface{}{
			"method", info.FullMethod,
			"code", code.String(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			logger.Warnw("grpc request failed", append(fields, "error", err)...)
		} else {
			logger.Infow("grpc request", fields...)
		}
		return resp, err
	}
}
