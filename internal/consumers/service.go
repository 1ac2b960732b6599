// Package consumers is the background worker process: it drains the NATS
// subjects the API publishes and runs the reservation expiration sweep.
package consumers

import (
	"context"
	"time"

	"mela/internal/config"
	"mela/internal/database"
	"mela/internal/logger"
	"mela/internal/messaging"
	"mela/internal/models"
	"mela/internal/repository"
	"mela/internal/service"
)

// Reservations older than this are swept back into stock. Checkout holds
// stock for seconds; anything this old is a leaked token from a crashed
// process.
const reservationTTL = 15 * time.Minute

const sweepInterval = time.Minute

type ConsumerService struct {
	db        *database.DB
	nats      *messaging.NATSClient
	inventory *service.InventoryService
	handlers  *Handlers

	stopSweep chan struct{}
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)

	return &ConsumerService{
		db:        db,
		nats:      natsClient,
		inventory: service.NewInventoryService(repos.Inventory, natsClient),
		handlers:  NewHandlers(),
		stopSweep: make(chan struct{}),
	}, nil
}

func (cs *ConsumerService) Start() error {
	logger.Get().Info("Starting NATS consumers...")

	if _, err := cs.nats.SubscribeQueue(models.EventOrderCreated, "consumers", cs.handlers.HandleOrderCreated); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventRegistrationCreated, "consumers", cs.handlers.HandleRegistrationCreated); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventRegistrationCancelled, "consumers", cs.handlers.HandleRegistrationCancelled); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventCheckoutPaymentDeclined, "consumers", cs.handlers.HandlePaymentDeclined); err != nil {
		return err
	}

	if _, err := cs.nats.SubscribeQueue(models.EventReservationExpired, "consumers", cs.handlers.HandleReservationExpired); err != nil {
		return err
	}

	go cs.runExpirationSweep()

	logger.Get().Info("All consumers started successfully")
	return nil
}

// runExpirationSweep periodically releases reservations whose checkout never
// finished.
func (cs *ConsumerService) runExpirationSweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cs.stopSweep:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			n, err := cs.inventory.ExpireBefore(ctx, time.Now().Add(-reservationTTL))
			cancel()

			if err != nil {
				logger.Get().Error("Reservation expiration sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Get().Info("Expired stale reservations", "count", n)
			}
		}
	}
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	logger.Get().Info("Shutting down consumer service...")

	close(cs.stopSweep)

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
