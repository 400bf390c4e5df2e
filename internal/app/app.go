package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"taxihub/config"
	"taxihub/internal/adapter/http/handler"
	"taxihub/internal/adapter/http/server"
	wshandler "taxihub/internal/adapter/http/ws"
	adapterpg "taxihub/internal/adapter/postgres"
	adapterrabbit "taxihub/internal/adapter/rabbit"
	"taxihub/internal/billing"
	"taxihub/internal/booking"
	"taxihub/internal/chat"
	"taxihub/internal/dispatch"
	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
	"taxihub/internal/hub"
	"taxihub/internal/location"
	"taxihub/internal/rating"
	"taxihub/internal/users"
	"taxihub/pkg/logger"
	wrap "taxihub/pkg/logger/wrapper"
	"taxihub/pkg/postgres"
	"taxihub/pkg/rabbit"
	ws "taxihub/pkg/wsHub"

	_ "taxihub/docs"
)

// The broker observer needs a stable identity so its subscription can
// never collide with a real party.
var (
	brokerSubscriberID   = uuid.MustParse("00000000-0000-0000-0000-000000b20c3a")
	brokerSubscriberRole = types.RoleOperator
)

// App owns every long-lived component of the booking service and wires
// them together.
type App struct {
	cfg config.Config
	log logger.Logger

	db            *postgres.PostgreDB
	broker        *rabbit.RabbitMQ
	bookingBroker *adapterrabbit.BookingBroker

	notifications *hub.Hub
	connections   *ws.ConnectionHub
	api           *server.API

	// Exposed for seeding and tests.
	Directory  *users.Directory
	Dispatcher *dispatch.Dispatcher
}

func NewApplication(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg: cfg,
		log: log,
	}

	journal := booking.NoopJournal()
	var history handler.History

	if cfg.Database.Enabled {
		db, err := postgres.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		a.db = db

		pgJournal := adapterpg.NewBookingJournal(db.Pool)
		journal = pgJournal
		history = pgJournal
	}

	var auto []dispatch.AutoSubscriber
	if cfg.RabbitMQ.Enabled {
		client, err := rabbit.New(ctx, cfg.RabbitMQ.GetDSN(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		a.broker = client

		bookingBroker := adapterrabbit.NewBookingBroker(client, log)
		if err := bookingBroker.Setup(ctx); err != nil {
			return nil, fmt.Errorf("failed to setup rabbitmq topology: %w", err)
		}
		a.bookingBroker = bookingBroker

		// The broker rides along as an operator on every booking.
		auto = append(auto, dispatch.AutoSubscriber{
			ID:       brokerSubscriberID,
			Role:     brokerSubscriberRole,
			Observer: bookingBroker.HubObserver(),
		})
	}

	a.notifications = hub.New(log, hub.Options{
		QueueSize:  cfg.Hub.QueueSize,
		MaxRetries: cfg.Hub.MaxRetries,
		RetryDelay: cfg.Hub.RetryDelay,
	})

	store := booking.NewStore()
	bills := billing.NewService(cfg.Billing.RatePerMin, log)
	ratings := rating.NewService(log)
	chatLog := chat.NewLog()

	lifecycle := booking.NewService(store, a.notifications, bills, ratings, journal, log)
	tracker := location.NewTracker(store, a.notifications, journal, log)

	a.Directory = users.NewDirectory()
	a.connections = ws.NewConnHub(log)
	observers := wshandler.NewObserverHub(a.connections)

	a.Dispatcher = dispatch.New(lifecycle, store, a.notifications, a.Directory, observers, auto, log)

	observerWS := handler.NewObserverWS(a.connections, a.Dispatcher, log)
	a.api = server.New(cfg, a.Dispatcher, lifecycle, tracker, ratings, chatLog, history, observerWS, log)

	return a, nil
}

// Run starts the HTTP server and blocks until a shutdown signal or a
// fatal server error.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	a.api.Run(ctx, errCh)

	// Tail our own status queue as an end-to-end check that the broker
	// fan-out actually lands.
	if a.bookingBroker != nil {
		go func() {
			err := a.bookingBroker.ConsumeStatusUpdates(ctx, func(ctx context.Context, msg models.BookingStatusMessage) error {
				a.log.Debug(ctx, "status update confirmed on broker",
					"booking_id", msg.BookingID,
					"status", msg.Status,
				)
				return nil
			})
			if err != nil {
				a.log.Error(ctx, "status consumer stopped", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		a.log.Info(wrap.WithAction(ctx, "shutdown"), "received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	return a.Stop(ctx)
}

// Stop shuts components down in reverse dependency order: the HTTP
// surface first, then the hub so queued events drain, then the
// connections and external clients.
func (a *App) Stop(ctx context.Context) error {
	if err := a.api.Stop(ctx); err != nil {
		a.log.Error(ctx, "failed to stop http server", err)
	}

	a.notifications.Close(ctx)
	a.connections.Close()

	if a.broker != nil {
		if err := a.broker.Close(ctx); err != nil {
			a.log.Error(ctx, "failed to close rabbitmq client", err)
		}
	}
	if a.db != nil {
		a.db.Close()
	}

	a.log.Info(wrap.WithAction(ctx, "shutdown"), "application stopped")
	return nil
}
