package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/retailcore/backend/internal/application/catalog"
	inventoryapp "github.com/retailcore/backend/internal/application/inventory"
	"github.com/retailcore/backend/internal/application/notification"
	partnerapp "github.com/retailcore/backend/internal/application/partner"
	reportapp "github.com/retailcore/backend/internal/application/report"
	tradeapp "github.com/retailcore/backend/internal/application/trade"
	"github.com/retailcore/backend/internal/domain/shared"
	"github.com/retailcore/backend/internal/infrastructure/auth"
	"github.com/retailcore/backend/internal/infrastructure/cache"
	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/retailcore/backend/internal/infrastructure/event"
	"github.com/retailcore/backend/internal/infrastructure/logger"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
	"github.com/retailcore/backend/internal/interfaces/http/handler"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
	"github.com/retailcore/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting retailcore backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	batchRepo := persistence.NewGormStockBatchRepository(db.DB)
	inventoryTxRepo := persistence.NewGormInventoryTransactionRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	creditTxRepo := persistence.NewGormCreditTransactionRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	saleRepo := persistence.NewGormSaleRepository(db.DB)
	quotationRepo := persistence.NewGormQuotationRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	// Event bus and notification handlers
	bus := event.NewInMemoryEventBus(log)
	notification.RegisterAll(bus, log)

	// Application services
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	productService := catalogapp.NewProductService(productRepo, categoryRepo)
	productService.SetEventPublisher(bus)
	inventoryService := inventoryapp.NewInventoryService(scope.Inventory(), batchRepo, inventoryTxRepo)
	inventoryService.SetEventPublisher(bus)
	customerService := partnerapp.NewCustomerService(scope.Partner(), customerRepo, creditTxRepo)
	customerService.SetEventPublisher(bus)
	supplierService := partnerapp.NewSupplierService(scope.Partner(), supplierRepo, creditTxRepo)
	supplierService.SetEventPublisher(bus)
	purchaseService := tradeapp.NewPurchaseService(scope, purchaseRepo)
	purchaseService.SetEventPublisher(bus)
	salesService := tradeapp.NewSalesService(scope, saleRepo)
	salesService.SetEventPublisher(bus)
	quotationService := tradeapp.NewQuotationService(scope, quotationRepo, salesService)
	quotationService.SetEventPublisher(bus)
	reportService := reportapp.NewReportService(reportRepo, batchRepo, productRepo)

	// Handlers
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	customerHandler := handler.NewCustomerHandler(customerService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	saleHandler := handler.NewSaleHandler(salesService)
	quotationHandler := handler.NewQuotationHandler(quotationService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler(db)

	// Idempotency store: Redis with in-memory fallback
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Warn("Idempotency store unavailable, duplicate detection disabled", zap.Error(err))
	}
	defer func() {
		if idempotencyStore != nil {
			_ = idempotencyStore.Close()
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))

	// Probes stay outside the versioned, authenticated API
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	r := router.New(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthWithConfig(middleware.JWTConfig{
		Service: jwtService,
		Logger:  log,
	}))
	r.Use(middleware.Idempotency(idempotencyStore, shared.DefaultIdempotencyConfig(), log))

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/categories", categoryHandler.Create)
	catalogRoutes.GET("/categories", categoryHandler.List)
	catalogRoutes.GET("/categories/:id", categoryHandler.GetByID)
	catalogRoutes.PUT("/categories/:id", categoryHandler.Update)
	catalogRoutes.DELETE("/categories/:id", categoryHandler.Delete)
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/low-stock", productHandler.LowStock)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.POST("/products/:id/activate", productHandler.Activate)
	catalogRoutes.POST("/products/:id/deactivate", productHandler.Deactivate)
	r.Register(catalogRoutes)

	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("/adjustments", inventoryHandler.AdjustStock)
	inventoryRoutes.POST("/adjustments/:id/reverse", inventoryHandler.ReverseAdjustment)
	inventoryRoutes.GET("/products/:id/batches", inventoryHandler.ProductBatches)
	inventoryRoutes.GET("/products/:id/transactions", inventoryHandler.ProductTransactions)
	inventoryRoutes.GET("/transactions/by-source", inventoryHandler.SourceTransactions)
	inventoryRoutes.GET("/batches/expiring", inventoryHandler.ExpiringBatches)
	inventoryRoutes.POST("/batches/sweep-expired", inventoryHandler.SweepExpired)
	r.Register(inventoryRoutes)

	partnerRoutes := router.NewDomainGroup("partner", "/partners")
	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.POST("/customers/:id/deactivate", customerHandler.Deactivate)
	partnerRoutes.POST("/customers/:id/credit/enable", customerHandler.EnableCredit)
	partnerRoutes.PUT("/customers/:id/credit/limit", customerHandler.UpdateCreditLimit)
	partnerRoutes.POST("/customers/:id/credit/payments", customerHandler.RecordPayment)
	partnerRoutes.POST("/customers/:id/credit/adjustments", customerHandler.ManualAdjustment)
	partnerRoutes.GET("/customers/:id/credit/statement", customerHandler.Statement)
	partnerRoutes.POST("/suppliers", supplierHandler.Create)
	partnerRoutes.GET("/suppliers", supplierHandler.List)
	partnerRoutes.GET("/suppliers/:id", supplierHandler.GetByID)
	partnerRoutes.PUT("/suppliers/:id", supplierHandler.Update)
	partnerRoutes.POST("/suppliers/:id/deactivate", supplierHandler.Deactivate)
	partnerRoutes.POST("/suppliers/:id/credit/enable", supplierHandler.EnableCredit)
	partnerRoutes.POST("/suppliers/:id/credit/payments", supplierHandler.RecordPayment)
	partnerRoutes.POST("/suppliers/:id/credit/adjustments", supplierHandler.ManualAdjustment)
	partnerRoutes.GET("/suppliers/:id/credit/statement", supplierHandler.Statement)
	r.Register(partnerRoutes)

	tradeRoutes := router.NewDomainGroup("trade", "/trade")
	tradeRoutes.POST("/purchases", purchaseHandler.Create)
	tradeRoutes.GET("/purchases", purchaseHandler.List)
	tradeRoutes.GET("/purchases/:id", purchaseHandler.GetByID)
	tradeRoutes.PUT("/purchases/:id", purchaseHandler.Update)
	tradeRoutes.DELETE("/purchases/:id", purchaseHandler.Delete)
	tradeRoutes.POST("/sales", saleHandler.Create)
	tradeRoutes.GET("/sales", saleHandler.List)
	tradeRoutes.GET("/sales/:id", saleHandler.GetByID)
	tradeRoutes.PUT("/sales/:id", saleHandler.Update)
	tradeRoutes.DELETE("/sales/:id", saleHandler.Delete)
	tradeRoutes.POST("/quotations", quotationHandler.Create)
	tradeRoutes.GET("/quotations", quotationHandler.List)
	tradeRoutes.GET("/quotations/:id", quotationHandler.GetByID)
	tradeRoutes.PUT("/quotations/:id", quotationHandler.Update)
	tradeRoutes.POST("/quotations/:id/send", quotationHandler.MarkSent)
	tradeRoutes.POST("/quotations/:id/accept", quotationHandler.Accept)
	tradeRoutes.POST("/quotations/:id/reject", quotationHandler.Reject)
	tradeRoutes.POST("/quotations/:id/convert", quotationHandler.ConvertToSale)
	r.Register(tradeRoutes)

	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/sales/summary", reportHandler.SalesSummary)
	reportRoutes.GET("/sales/daily", reportHandler.DailySalesTrend)
	reportRoutes.GET("/purchases/summary", reportHandler.PurchaseSummary)
	reportRoutes.GET("/credit/outstanding", reportHandler.OutstandingCredit)
	reportRoutes.GET("/inventory/expiring", reportHandler.ExpiringBatches)
	reportRoutes.GET("/inventory/low-stock", reportHandler.LowStock)
	r.Register(reportRoutes)

	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
