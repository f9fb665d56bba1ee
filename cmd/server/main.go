package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/config"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/entity"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/handler"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/repository"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/erp/service"
	"github.com/Tagunlimited/fabric-flow-erp-india-sub002/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting fabric-flow-erp service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// suppliers
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", h.Supplier.ListSuppliers)
			suppliers.POST("", h.Supplier.CreateSupplier)
			suppliers.GET("/:id", h.Supplier.GetSupplier)
			suppliers.PUT("/:id", h.Supplier.UpdateSupplier)
			suppliers.POST("/:id/score", h.Supplier.ScoreSupplier)
			suppliers.DELETE("/:id", middleware.RequireRole("erp_admin"), h.Supplier.DeleteSupplier)
		}

		// employees
		employees := v1.Group("/employees")
		{
			employees.GET("", h.Employee.ListEmployees)
			employees.POST("", h.Employee.CreateEmployee)
			employees.GET("/headcount", h.Employee.Headcount)
			employees.GET("/:id", h.Employee.GetEmployee)
			employees.PUT("/:id", h.Employee.UpdateEmployee)
			employees.POST("/:id/photo", h.Employee.UploadPhoto)
			employees.GET("/:id/photo", h.Employee.DownloadPhoto)
			employees.DELETE("/:id", middleware.RequireRole("erp_admin"), h.Employee.DeleteEmployee)
		}

		// boms
		boms := v1.Group("/boms")
		{
			boms.GET("", h.Bom.ListBoms)
			boms.POST("", h.Bom.CreateBom)
			boms.GET("/template", h.Bom.DownloadTemplate)
			boms.GET("/:id", h.Bom.GetBom)
			boms.PUT("/:id", h.Bom.UpdateBom)
			boms.POST("/:id/approve", h.Bom.ApproveBom)
			boms.POST("/:id/close", h.Bom.CloseBom)
			boms.POST("/:id/import", h.Bom.ImportExcel)
			boms.POST("/:id/import-csv", h.Bom.ImportCSV)
			boms.POST("/:id/attachments", h.Bom.UploadAttachment)
			boms.GET("/:id/attachments", h.Bom.ListAttachments)
			boms.GET("/:id/attachments/:attId", h.Bom.DownloadAttachment)
			boms.DELETE("/:id/attachments/:attId", h.Bom.DeleteAttachment)
			boms.DELETE("/:id", middleware.RequireRole("erp_admin"), h.Bom.DeleteBom)
		}

		// procurement
		procurement := v1.Group("/procurement")
		{
			procurement.GET("/pending", h.Procurement.Pending)
			procurement.GET("/pending-items", h.Procurement.PendingItems)
			procurement.POST("/wizard", h.Procurement.StartWizard)
			procurement.GET("/wizard/:id", h.Procurement.GetWizard)
			procurement.POST("/wizard/:id/items", h.Procurement.SelectItems)
			procurement.POST("/wizard/:id/suppliers", h.Procurement.AssignSuppliers)
			procurement.GET("/wizard/:id/review", h.Procurement.Review)
			procurement.POST("/wizard/:id/submit", h.Procurement.Submit)
			procurement.DELETE("/wizard/:id", h.Procurement.CancelWizard)
		}

		// purchase orders
		pos := v1.Group("/purchase-orders")
		{
			pos.GET("", h.Procurement.ListPOs)
			pos.POST("", h.Procurement.CreatePOs)
			pos.GET("/:id", h.Procurement.GetPO)
			pos.POST("/:id/approve", h.Procurement.ApprovePO)
			pos.POST("/:id/cancel", h.Procurement.CancelPO)
			pos.POST("/:id/receive", h.Procurement.ReceiveGoods)
			pos.GET("/:id/receipts", h.Procurement.ListGRNs)
		}

		// reports
		reports := v1.Group("/reports")
		{
			reports.GET("/dashboard", h.Report.Dashboard)
			reports.GET("/pending-export", h.Report.ExportPending)
		}
	}
}
