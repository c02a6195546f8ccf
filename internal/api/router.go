package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/anybirth-inc/josetsu/internal/api/handler"
	"github.com/anybirth-inc/josetsu/internal/api/middleware"
	"github.com/anybirth-inc/josetsu/internal/core/domain"
	"github.com/anybirth-inc/josetsu/internal/core/service"
	"github.com/anybirth-inc/josetsu/internal/infrastructure/config"
	mongodb "github.com/anybirth-inc/josetsu/internal/infrastructure/db/mongo"
	redisdb "github.com/anybirth-inc/josetsu/internal/infrastructure/db/redis"
	"github.com/anybirth-inc/josetsu/internal/infrastructure/geo"
	"github.com/anybirth-inc/josetsu/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the refresh-job dispatcher, which the caller must Start.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("josetsu"))

	// --- External lookup collaborators (cached read-through via Redis) ---
	geocoder := redisdb.NewCachedGeocoder(rdb,
		geo.NewGeocoderClient(cfg.Geo.GeocodeBaseURL, cfg.Geo.Timeout, log), log)
	postal := redisdb.NewCachedPostalLookup(rdb,
		geo.NewPostalClient(cfg.Geo.PostalBaseURL, cfg.Geo.Timeout, log), log)
	planner := geo.NewRoutePlannerClient(cfg.Geo.RouteBaseURL, cfg.Geo.Timeout, log)

	// --- Repositories and services ---
	customerRepo := mongodb.NewCustomerRepository(db)
	customerService := service.NewCustomerService(customerRepo, log)
	draftService := service.NewDraftService(customerService, postal, geocoder, log)
	mapService := service.NewMapViewService(customerRepo, planner, log)

	dispatcher := queue.NewDispatcher(cfg.Geo.RefreshWorkers, draftService, log)
	draftService.SetRefreshQueue(dispatcher)

	authRepo := mongodb.NewAuthRepository(db)
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	customerHandler := handler.NewCustomerHandler(customerService)
	draftHandler := handler.NewDraftHandler(draftService)
	mapHandler := handler.NewMapHandler(mapService)

	authMiddleware := middleware.Auth(cfg.JWTSecret)
	staffOnly := middleware.RBAC(domain.RoleAdmin, domain.RoleStaff)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Customer records ---
	v1 := e.Group("/v1", authMiddleware, staffOnly)
	v1.GET("/customers", customerHandler.List)
	v1.GET("/customers/:id", customerHandler.Get)
	v1.DELETE("/customers/:id", customerHandler.Delete)

	// --- Form drafts ---
	v1.POST("/drafts", draftHandler.Start)
	v1.PATCH("/drafts/:id", draftHandler.Update)
	v1.POST("/drafts/:id/submit", draftHandler.Submit)
	v1.DELETE("/drafts/:id", draftHandler.Cancel)

	// --- Map view ---
	v1.GET("/map", mapHandler.Sync)
	v1.POST("/map/popup/:customer_id", mapHandler.OpenPopup)
	v1.POST("/map/route", mapHandler.PlanRoute)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e, dispatcher
}
