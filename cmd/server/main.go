package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/tejas303525/ERPemergent/internal/config"
	"github.com/tejas303525/ERPemergent/internal/middleware"
	"github.com/tejas303525/ERPemergent/internal/scheduling/entity"
	"github.com/tejas303525/ERPemergent/internal/scheduling/handler"
	"github.com/tejas303525/ERPemergent/internal/scheduling/repository"
	"github.com/tejas303525/ERPemergent/internal/scheduling/service"
	"github.com/tejas303525/ERPemergent/internal/shared/objstore"
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
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting scheduling service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto-migrate tables", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// 初始化 Redis（重排互斥锁用，未配置则退化为单实例模式）
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			zapLogger.Warn("Redis unavailable, regeneration lock disabled", zap.Error(err))
			rdb = nil
		}
	}

	// 初始化对象存储（报表归档用）
	store, err := objstore.New(objstore.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		zapLogger.Warn("Object store unavailable, archive disabled", zap.Error(err))
		store = nil
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, rdb, store, zapLogger, cfg.Scheduling.LineType)
	handlers := handler.NewHandlers(services)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		if cfg.Server.Port > 0 {
			port = fmt.Sprintf("%d", cfg.Server.Port)
		} else {
			port = "8082"
		}
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 健康检查
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "scheduling"})
	})
	router.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "scheduling"})
	})

	// 版本信息
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":    "scheduling",
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 主数据
		products := v1.Group("/products")
		{
			products.GET("", handlers.Master.ListProducts)
			products.POST("", handlers.Master.CreateProduct)
			products.GET("/:id", handlers.Master.GetProduct)
		}

		packaging := v1.Group("/packaging")
		{
			packaging.GET("", handlers.Master.ListPackaging)
			packaging.POST("", handlers.Master.CreatePackaging)
			packaging.POST("/boms", handlers.Master.CreatePackagingBOM)
		}

		specs := v1.Group("/specs")
		{
			specs.PUT("", middleware.RequireRole("planner"), handlers.Master.UpsertSpec)
		}

		capacity := v1.Group("/capacity")
		{
			capacity.GET("", handlers.Master.GetCapacity)
			capacity.PUT("", middleware.RequireRole("planner"), handlers.Master.UpsertCapacity)
		}

		// 配方
		boms := v1.Group("/boms")
		{
			boms.GET("", handlers.Master.ListProductBOMs)
			boms.POST("", handlers.Master.CreateProductBOM)
			boms.POST("/:id/activate", middleware.RequireRole("planner"), handlers.Master.ActivateProductBOM)
		}

		// 需求
		demand := v1.Group("/demand-lines")
		{
			demand.GET("", handlers.Master.ListDemandLines)
			demand.POST("", handlers.Master.CreateDemandLine)
		}

		// 库存
		inventory := v1.Group("/inventory")
		{
			inventory.GET("/items", handlers.Inventory.ListItems)
			inventory.POST("/items", handlers.Inventory.CreateItem)
			inventory.POST("/adjust", handlers.Inventory.AdjustBalance)
			inventory.GET("/snapshots", handlers.Inventory.ListSnapshots)
			inventory.GET("/snapshots/:id", handlers.Inventory.GetSnapshot)
			inventory.GET("/reservations", handlers.Inventory.ListReservations)
		}

		// 排产
		schedule := v1.Group("/schedule")
		{
			schedule.POST("/regenerate", handlers.Schedule.Regenerate)
			schedule.POST("/approve", middleware.RequireRole("planner"), handlers.Schedule.Approve)
			schedule.GET("/week", handlers.Schedule.GetWeek)
			schedule.GET("/week/export", handlers.Schedule.Export)
			schedule.POST("/week/archive", handlers.Schedule.Archive)
		}

		// 采购
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", handlers.Procurement.ListSuppliers)
			suppliers.POST("", handlers.Procurement.CreateSupplier)
		}

		prs := v1.Group("/purchase-requisitions")
		{
			prs.GET("", handlers.Procurement.ListRequisitions)
			prs.GET("/:id", handlers.Procurement.GetRequisition)
		}

		pos := v1.Group("/purchase-orders")
		{
			pos.GET("", handlers.Procurement.ListPOs)
			pos.POST("", handlers.Procurement.CreatePO)
			pos.GET("/:id", handlers.Procurement.GetPO)
			pos.POST("/:id/send", handlers.Procurement.SendPO)
			pos.POST("/:id/receive", handlers.Procurement.ReceivePO)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
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
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}
	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
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
