package api

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"mela/internal/cart"
	"mela/internal/config"
	"mela/internal/database"
	"mela/internal/external"
	"mela/internal/handlers"
	"mela/internal/logger"
	"mela/internal/memstore"
	"mela/internal/messaging"
	"mela/internal/metrics"
	"mela/internal/middleware"
	"mela/internal/repository"
	"mela/internal/search"
	"mela/internal/service"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	services *service.Services
}

func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	server := &Server{config: cfg}

	stores, err := server.buildStores(cfg)
	if err != nil {
		return nil, err
	}

	cartStore, err := buildCartStore(cfg)
	if err != nil {
		return nil, err
	}
	ledger := cart.NewLedger(cartStore)

	var publisher service.Publisher = messaging.NoopPublisher{}
	if cfg.NATSEnabled {
		natsClient, err := messaging.NewNATSClient(cfg.NATS)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		server.nats = natsClient
		publisher = natsClient
	}

	var searcher service.EventSearcher
	if cfg.SearchEnabled {
		esClient, err := search.NewElasticsearchClient(cfg.Search)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
		}
		searcher = esClient
	}

	var gateway service.PaymentGateway
	if cfg.PaymentMode == "http" {
		gateway = external.NewPaymentClient(cfg.Payment)
	} else {
		gateway = external.NewSimulatedGateway(cfg.Payment.DeclineRate)
	}

	server.services = service.NewServices(stores, ledger, gateway, publisher, searcher)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())
	server.router = router

	server.setupRoutes()

	return server, nil
}

func (s *Server) buildStores(cfg *config.Config) (service.Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		store := memstore.New()
		return service.Stores{Events: store, Inventory: store, Attendees: store, Orders: store}, nil
	case config.DriverPostgres:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return service.Stores{}, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			return service.Stores{}, fmt.Errorf("failed to run migrations: %w", err)
		}
		s.db = db

		repos := repository.NewRepositories(db)
		return service.Stores{
			Events:    repos.Events,
			Inventory: repos.Inventory,
			Attendees: repos.Attendees,
			Orders:    repos.Orders,
		}, nil
	default:
		return service.Stores{}, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}

func buildCartStore(cfg *config.Config) (cart.Store, error) {
	// The memory store driver implies a memory cart; a Redis cart next to
	// in-process inventory would outlive its stock.
	if cfg.CartStore == "memory" || cfg.StoreDriver == config.DriverMemory {
		return cart.NewMemoryStore(), nil
	}

	store, err := cart.NewRedisStore(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to cart store: %w", err)
	}
	return store, nil
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	api.Use(middleware.Identity())
	{
		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.POST("", middleware.RequireRole(middleware.RoleOrganizer), h.CreateEvent)
			events.GET("/:id", h.GetEvent)
			events.GET("/:id/tickets", h.ListTicketTypes)
			events.GET("/:id/attendees", middleware.RequireRole(middleware.RoleOrganizer), h.ListAttendees)
		}

		cartGroup := api.Group("/cart")
		{
			cartGroup.GET("", h.GetCart)
			cartGroup.DELETE("", h.ClearCart)
			cartGroup.POST("/items", h.AddCartItem)
			cartGroup.PUT("/items", h.UpdateCartQuantity)
			cartGroup.DELETE("/items", h.RemoveCartItem)
			cartGroup.POST("/preview", h.PreviewBreakdown)
		}

		api.POST("/checkout", h.Checkout)

		orders := api.Group("/orders")
		{
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
		}

		registrations := api.Group("/registrations")
		{
			registrations.POST("", h.Register)
			registrations.DELETE("", h.Unregister)
			registrations.GET("", h.ListMyRegistrations)
		}
	}

	s.router.GET("/health", h.HealthCheck)
	s.router.GET("/metrics", metrics.Handler())
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	logger.Get().Info("Starting API server", "addr", addr, "store_driver", s.config.StoreDriver)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
