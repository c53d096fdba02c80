package gateway

import (
	"context"
	"log/slog"
	"net"
	"net/url"
	"strconv"

	"quill/config"
	"quill/internal/delivery"
	deliverymiddleware "quill/internal/delivery/middleware"
	"quill/internal/domain/lifecycle"
	"quill/internal/domain/service"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type gatewayServer struct {
	cfg    *config.Config
	logger *slog.Logger
	server *echo.Echo
}

// ServerParams holds dependencies for the gateway server
type ServerParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    *config.Config
	Logger *slog.Logger
	Codec  service.TokenCodec
}

// NewServer creates the edge gateway: the token filter in front of a set of
// prefix-routed reverse proxies.
func NewServer(params ServerParams) (delivery.Delivery, error) {
	if params.Cfg.Gateway == nil || len(params.Cfg.Gateway.Routes) == 0 {
		return nil, errors.New("gateway routes must be configured")
	}

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())

	requestIDMiddleware := deliverymiddleware.NewRequestIDMiddleware(params.Logger)
	e.Use(requestIDMiddleware.Process)

	loggerMiddleware := deliverymiddleware.NewLoggerMiddleware(params.Logger, params.Cfg)
	e.Use(loggerMiddleware.Handle)

	e.Use(blockInternal)

	filter := NewEdgeFilter(params.Codec, params.Cfg, params.Logger)
	e.Use(filter.Filter)

	if err := registerProxies(e, params.Cfg.Gateway, params.Logger); err != nil {
		return nil, err
	}

	srv := &gatewayServer{
		cfg:    params.Cfg,
		logger: params.Logger,
		server: e,
	}

	params.Lc.Append(fx.Hook{
		OnStop: srv.stop,
	})

	return srv, nil
}

// registerProxies mounts one reverse proxy per configured route prefix.
func registerProxies(e *echo.Echo, cfg *config.GatewayConfig, logger *slog.Logger) error {
	for _, route := range cfg.Routes {
		target, err := url.Parse(route.Target)
		if err != nil {
			return errors.Wrapf(err, "invalid gateway target %q", route.Target)
		}

		balancer := echomiddleware.NewRoundRobinBalancer([]*echomiddleware.ProxyTarget{
			{URL: target},
		})

		group := e.Group(route.Prefix)
		group.Use(echomiddleware.ProxyWithConfig(echomiddleware.ProxyConfig{
			Balancer: balancer,
		}))

		logger.Info("Gateway route registered",
			slog.String("prefix", route.Prefix),
			slog.String("target", route.Target),
		)
	}

	return nil
}

// Serve starts the gateway HTTP server
func (s *gatewayServer) Serve(ctx context.Context) error {
	hostPort := net.JoinHostPort("0.0.0.0", strconv.Itoa(s.cfg.HTTP.Port))
	s.logger.Info("Starting Gateway HTTP server", slog.String("hostPort", hostPort))
	if err := s.server.Start(hostPort); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// stop gracefully shuts down the gateway server
func (s *gatewayServer) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("Shutting down Gateway HTTP server")

	return errors.WithStack(s.server.Shutdown(shutdownCtx))
}
