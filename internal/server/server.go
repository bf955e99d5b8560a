package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"burns-farm-shop/internal/analytics"
	"burns-farm-shop/internal/cart"
	"burns-farm-shop/internal/config"
	"burns-farm-shop/internal/database"
	custommiddleware "burns-farm-shop/internal/middleware"
	"burns-farm-shop/internal/notify"
	"burns-farm-shop/internal/repository"
	"burns-farm-shop/internal/service"
	"burns-farm-shop/internal/storage"
	"burns-farm-shop/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// drainTimeout bounds how long Close waits for scheduled notifications
const drainTimeout = 35 * time.Second

// Dependencies are the resources opened by the caller. Redis and Database are optional.
type Dependencies struct {
	Store    storage.Store
	Redis    *redis.Client
	Database database.Service
	Notifier notify.Notifier
	Now      func() time.Time
}

type Server struct {
	*http.Server
	config     *config.Config
	logger     *zap.Logger
	deps       Dependencies
	dispatcher *notify.Dispatcher
}

func NewServer(cfg *config.Config, logger *zap.Logger, deps Dependencies) (*Server, error) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(logger)
	}

	loc, err := time.LoadLocation(cfg.Shop.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load shop time zone: %w", err)
	}

	policy, err := service.NewTransitionPolicy(cfg.Shop.StatusPolicy)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	keys := storage.Keys{Namespace: cfg.Storage.Namespace}
	orderRepo := repository.NewOrderRepository(deps.Store, keys)
	productRepo := repository.NewProductRepository(deps.Store, keys)
	userRepo := repository.NewUserRepository(deps.Store, keys)
	invitationRepo := repository.NewInvitationRepository(deps.Store, keys)
	consentRepo := repository.NewConsentRepository(deps.Store, keys)
	carts := cart.NewStore(deps.Store, keys, logger)

	// Initialize services
	dispatcher := notify.NewDispatcher(logger)
	ids := service.NewIDGenerator(deps.Now)
	planner := service.NewDeliveryPlanner(cfg.Shop.CutoffHour, loc, deps.Now)

	catalogService := service.NewCatalogService(productRepo, ids, logger)
	checkoutService := service.NewCheckoutService(carts, orderRepo, planner, ids, deps.Now, cfg.Shop.EnforceDeliveryCutoff, logger)
	orderService := service.NewOrderService(orderRepo, policy, deps.Notifier, dispatcher,
		service.OrderTiming{
			NotificationDelay: cfg.Shop.NotificationDelay,
			MessageDelay:      cfg.Shop.MessageDelay,
		},
		loc, deps.Now, logger)
	paymentService := service.NewPaymentService(orderRepo, cfg.Shop.PaymentDelay, deps.Now, logger)
	consentService := service.NewConsentService(consentRepo, logger)
	teamService := service.NewTeamService(userRepo, invitationRepo, deps.Notifier, dispatcher, ids,
		service.InvitationSettings{
			Secret:  cfg.Invitation.Secret,
			TTL:     cfg.Invitation.TTL,
			BaseURL: cfg.Invitation.BaseURL,
		},
		deps.Now, logger)
	analyticsService := analytics.NewService(orderRepo, productRepo, loc, deps.Now, cfg.Shop.LowStockThreshold)

	// Initialize handlers
	catalogHandler := transport.NewCatalogHandler(catalogService, logger)
	cartHandler := transport.NewCartHandler(carts, catalogService, checkoutService, logger)
	orderHandler := transport.NewOrderHandler(orderService, logger)
	shopHandler := transport.NewShopHandler(planner, paymentService, consentService, logger)
	adminHandler := transport.NewAdminHandler(analyticsService, teamService, logger)

	var rateLimit func(http.Handler) http.Handler
	if cfg.RateLimit.Enabled && deps.Redis != nil {
		rateLimit = custommiddleware.RateLimitMiddleware(deps.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         cfg.Storage.Namespace + "-ratelimit",
		}, logger)
	}

	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger, "/health"))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.IsDevelopment()))

	s := &Server{
		config:     cfg,
		logger:     logger,
		deps:       deps,
		dispatcher: dispatcher,
	}

	router.Get("/health", s.health)
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		custommiddleware.RespondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Register routes
	catalogHandler.RegisterRoutes(router)
	cartHandler.RegisterRoutes(router, rateLimit)
	orderHandler.RegisterRoutes(router)
	shopHandler.RegisterRoutes(router, rateLimit)
	adminHandler.RegisterRoutes(router)

	router.Route("/api/admin", func(r chi.Router) {
		catalogHandler.RegisterAdminRoutes(r)
		orderHandler.RegisterAdminRoutes(r)
		adminHandler.RegisterAdminRoutes(r)
	})

	s.Server = &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: otelhttp.NewHandler(router, "burns-farm-shop",
			otelhttp.WithFilter(func(r *http.Request) bool { return r.URL.Path != "/health" }),
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":  "ok",
		"storage": s.config.Storage.Driver,
	}

	status := http.StatusOK
	if s.deps.Database != nil {
		db := s.deps.Database.Health()
		body["database"] = db
		if db["status"] != "up" {
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		}
	}
	if s.deps.Redis != nil {
		if err := s.deps.Redis.Ping(r.Context()).Err(); err != nil {
			body["redis"] = "down"
			body["status"] = "degraded"
			status = http.StatusServiceUnavailable
		} else {
			body["redis"] = "up"
		}
	}

	custommiddleware.RespondWithJSON(w, status, body)
}

// Close waits for scheduled notifications and then releases storage connections
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := s.dispatcher.Wait(ctx); err != nil {
		s.logger.Warn("Pending notifications abandoned", zap.Error(err))
	}

	if s.deps.Redis != nil {
		if err := s.deps.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.deps.Database != nil {
		if err := s.deps.Database.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
