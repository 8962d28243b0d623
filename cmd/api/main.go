package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "freightdesk/api/swagger" // swagger docs
	"freightdesk/internal/cache"
	"freightdesk/internal/config"
	"freightdesk/internal/costing"
	"freightdesk/internal/database"
	"freightdesk/internal/handler"
	"freightdesk/internal/logger"
	"freightdesk/internal/metrics"
	"freightdesk/internal/middleware"
	"freightdesk/internal/repository"
	"freightdesk/internal/service"
	"freightdesk/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Freight Quotation API
// @version         1.0
// @description     Quotation costing, tax and margin computation with operational cost reconciliation.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("console", "info")
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	db, err := database.NewConnection(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	log.Info().Msg("connected to PostgreSQL")

	var rateCache service.RateCache
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := cache.Connect(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, HS code lookups will not be cached")
		} else {
			defer client.Close()
			rateCache = cache.New(client, cfg.HSCodeCacheTTL)
		}
	}

	reg := metrics.New()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log)
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	quotationRepo := repository.NewQuotationRepository(db)
	operationalRepo := repository.NewOperationalRepository(db)
	hsCodeRepo := repository.NewHSCodeRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	normalizer := costing.NewNormalizer(cfg.BaseCurrency, cfg.ForeignCurrencies...)

	hsCodeService := service.NewHSCodeService(txManager, hsCodeRepo, auditRepo, rateCache, reg.Domain, log)
	quotationService := service.NewQuotationService(service.QuotationDeps{
		TxManager:   txManager,
		Quotations:  quotationRepo,
		Operational: operationalRepo,
		Audit:       auditRepo,
		HSCodes:     hsCodeService,
		Normalizer:  normalizer,
		DefaultRate: cfg.DefaultExchange,
		Events:      wsHub,
		Metrics:     reg.Domain,
		Logger:      log,
	})
	operationalService := service.NewOperationalService(txManager, operationalRepo, auditRepo, normalizer, wsHub, reg.Domain, log)
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	auth := middleware.NewAuth(cfg.JWTSecret)
	quotationHandler := handler.NewQuotationHandler(quotationService, auth)
	operationalHandler := handler.NewOperationalHandler(operationalService, auth)
	hsCodeHandler := handler.NewHSCodeHandler(hsCodeService, auth)
	auditHandler := handler.NewAuditHandler(auditService, auth)
	statisticsHandler := handler.NewStatisticsHandler(operationalService, auth)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestLogger(log), reg.Middleware())

	router.Use(cors.New(corsConfig(cfg.CORSAllowedOrigins)))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", reg.Handler())

	router.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DEGRADED"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// Dashboards subscribe to approval and operational cost events
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, auth.Secret(), middleware.RoleAdmin, middleware.RoleManager, middleware.RoleStaff)
	})

	api := router.Group("")
	quotationHandler.RegisterRoutes(api)
	operationalHandler.RegisterRoutes(api)
	hsCodeHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)
	statisticsHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

// corsConfig allows credentialed requests from the dashboard origins.
func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = origins
	c.AllowCredentials = true
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	return c
}
