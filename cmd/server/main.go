package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	_ "github.com/go-sql-driver/mysql"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/rl1809/product-inventory/internal/adapter/handler"
	"github.com/rl1809/product-inventory/internal/adapter/messaging"
	"github.com/rl1809/product-inventory/internal/adapter/storage"
	"github.com/rl1809/product-inventory/internal/config"
	"github.com/rl1809/product-inventory/internal/core/domain"
	"github.com/rl1809/product-inventory/internal/core/service"
	"github.com/rl1809/product-inventory/internal/logging"
	"github.com/rl1809/product-inventory/internal/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	reg := metrics.NewRegistry()

	// Stores
	var (
		seedProducts   []domain.Product
		seedWarehouses []domain.Warehouse
	)
	if cfg.SeedData {
		seedProducts = storage.SeedProducts(time.Now())
		seedWarehouses = storage.SeedWarehouses()
	}
	productStore := storage.NewProductStore(seedProducts...)
	synchronizer := service.NewSynchronizer(productStore, logger.Named("synchronizer"), reg)
	warehouseStore := storage.NewWarehouseStore(synchronizer, seedWarehouses...)
	siteStore := storage.NewSiteStore(storage.SeedSite())

	opts := []service.Option{service.WithLogger(logger), service.WithMetrics(reg)}
	var closers []func(context.Context) error

	// Redis QOH mirror
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, PoolSize: 100})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))

		mirror := storage.NewRedisAdapter(rdb)
		for _, w := range seedWarehouses {
			if err := mirror.SetStock(ctx, w.WarehouseID, w.QOH); err != nil {
				logger.Fatal("failed to mirror initial stock", zap.Int("warehouse_id", w.WarehouseID), zap.Error(err))
			}
		}
		warehouseStore.OnCommit(service.NewStockMirrorHook(mirror, logger.Named("mirror"), reg))
		closers = append(closers, func(context.Context) error { return rdb.Close() })
	}

	// Kafka events
	if len(cfg.KafkaBrokers) > 0 {
		publisher := messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		opts = append(opts, service.WithEventPublisher(publisher))
		closers = append(closers, func(context.Context) error { return publisher.Close() })
		logger.Info("publishing events to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	}

	// MySQL journal
	txOpts := []service.TransactionOption{service.WithRemoveStock(cfg.AllowRemoveStock)}
	var journal *service.Journal
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			logger.Fatal("failed to connect mysql", zap.Error(err))
		}
		db.SetMaxOpenConns(50)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			logger.Fatal("failed to ping mysql", zap.Error(err))
		}
		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare journal schema", zap.Error(err))
		}
		logger.Info("connected to mysql")

		journal = service.NewJournal(mysqlAdapter, cfg.JournalWorkers, cfg.JournalQueueSize, logger.Named("journal"), reg)
		journal.Start()
		txOpts = append(txOpts, service.WithJournal(journal))
		closers = append(closers, func(context.Context) error { return db.Close() })
	}

	// Services
	productService := service.NewProductService(productStore, productStore, warehouseStore, opts...)
	warehouseService := service.NewWarehouseService(warehouseStore, opts...)
	transactionService := service.NewTransactionService(productStore, warehouseStore, txOpts, opts...)
	transactionService.SeedSequence(seedWarehouses)

	// gRPC server
	grpcServer := grpc.NewServer(grpc.ForceServerCodec(handler.JSONCodec{}))
	handler.RegisterInventoryServer(grpcServer, handler.NewGRPCHandler(warehouseService, productService, transactionService, logger))

	lis, err := net.Listen("tcp", cfg.GRPCAddr())
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.GRPCAddr()), zap.Error(err))
	}
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr()))
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Error("gRPC server error", zap.Error(err))
		}
	}()

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName:               "product-inventory",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(handler.RequestID())
	app.Use(handler.AccessLog(logger.Named("http")))
	app.Get("/metrics", adaptor.HTTPHandler(reg.Handler()))
	handler.NewHTTPHandler(productService, warehouseService, transactionService, siteStore, logger).Register(app)

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr()))
		if err := app.Listen(cfg.HTTPAddr()); err != nil {
			logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"inventory": func(ctx context.Context) error {
			logger.Info("shutting down")
			var errs []error

			if err := app.ShutdownWithContext(ctx); err != nil {
				errs = append(errs, fmt.Errorf("http: %w", err))
			}
			logger.Info("HTTP server stopped")

			grpcServer.GracefulStop()
			logger.Info("gRPC server stopped")

			if journal != nil {
				if err := journal.Close(ctx); err != nil {
					errs = append(errs, fmt.Errorf("journal: %w", err))
				}
			}

			for _, closeFn := range closers {
				if err := closeFn(ctx); err != nil {
					errs = append(errs, err)
				}
			}
			logger.Info("connections closed")
			return errors.Join(errs...)
		},
	})

	exitCode := <-wait
	logger.Info("exited", zap.Int("code", exitCode))
	_ = logger.Sync()
	os.Exit(exitCode)
}
