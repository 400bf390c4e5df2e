package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taxihub/config"
	"taxihub/internal/adapter/http/handler"
	"taxihub/internal/adapter/http/middleware"
	"taxihub/pkg/logger"
	wrap "taxihub/pkg/logger/wrapper"
)

const serviceName = "booking"

type API struct {
	mux    *http.ServeMux
	server *http.Server
	routes *handlers
	m      *middleware.Middleware

	addr string
	log  logger.Logger
}

type handlers struct {
	booking  *handler.Booking
	observer *handler.ObserverWS
	health   *handler.Health
}

func New(
	cfg config.Config,
	flow handler.BookingFlow,
	lifecycle handler.Lifecycle,
	locations handler.Locations,
	ratings handler.Ratings,
	chat handler.ChatLog,
	history handler.History,
	observer *handler.ObserverWS,
	log logger.Logger,
) *API {
	routes := &handlers{
		booking:  handler.NewBooking(flow, lifecycle, locations, ratings, chat, history, log),
		observer: observer,
		health:   handler.NewHealth(serviceName, log),
	}

	api := &API{
		mux:    http.NewServeMux(),
		routes: routes,
		m:      middleware.NewMiddleware(log),
		addr:   fmt.Sprintf("0.0.0.0:%s", cfg.Server.Port),
		log:    log,
	}

	api.setupRoutes()

	api.server = &http.Server{
		Addr:    api.addr,
		Handler: api.withMiddleware(),
	}

	return api
}

func (a *API) Run(ctx context.Context, errCh chan<- error) {
	go func() {
		ctx = wrap.WithAction(ctx, "http_server_start")
		a.log.Info(ctx, "started http server", "address", a.addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("failed to start HTTP server: %w", err)
			return
		}
	}()
}

func (a *API) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ctx = wrap.WithAction(ctx, "http_server_stop")

	a.log.Debug(ctx, "shutting down HTTP server...", "address", a.addr)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	a.log.Debug(ctx, "shutting down HTTP server completed")

	return nil
}

// withMiddleware applies the middleware chain to the mux.
func (a *API) withMiddleware() http.Handler {
	return a.m.Recover(a.m.RequestID(a.m.Metrics(serviceName)(a.m.Logging(a.mux))))
}
