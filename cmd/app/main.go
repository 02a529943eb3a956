package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wichananm65/smart-inventory-backend/internal/auth"
	"github.com/wichananm65/smart-inventory-backend/internal/config"
	"github.com/wichananm65/smart-inventory-backend/internal/database"
	"github.com/wichananm65/smart-inventory-backend/internal/inventorylog"
	applog "github.com/wichananm65/smart-inventory-backend/internal/logger"
	"github.com/wichananm65/smart-inventory-backend/internal/monitor"
	"github.com/wichananm65/smart-inventory-backend/internal/pricehistory"
	"github.com/wichananm65/smart-inventory-backend/internal/pricing"
	"github.com/wichananm65/smart-inventory-backend/internal/product"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := applog.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// components holds everything the HTTP layer and the monitor share.
type components struct {
	products *product.Service
	history  *pricehistory.Service
	logs     *inventorylog.Service
	engine   *pricing.Engine
	auth     *auth.Service
}

func run(cfg config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			return err
		}
		log.Info("using postgres storage")
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage")
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		var err error
		rdb, err = database.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		log.Info("using redis recommendation cache", zap.String("addr", cfg.RedisAddr))
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = uuid.NewString()
		log.Warn("JWT_SECRET not set, tokens will not survive a restart")
	}

	comp, err := wire(cfg, db, rdb, []byte(secret), log)
	if err != nil {
		return err
	}

	if cfg.SeedOnStart {
		seeded, err := comp.products.SeedIfEmpty(ctx)
		if err != nil {
			return err
		}
		if seeded {
			log.Info("seeded sample products")
		}
	}

	if cfg.MonitorEnabled {
		mon := monitor.New(comp.products, comp.engine, comp.logs, cfg.MonitorInterval, log.Named("monitor"))
		go mon.Run(ctx)
	}

	app := newApp(cfg, comp, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Addr))
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// wire builds the services on postgres when db is set and in memory otherwise.
// The recommendation cache uses redis when rdb is set.
func wire(cfg config.Config, db *sql.DB, rdb *redis.Client, secret []byte, log *zap.Logger) (components, error) {
	var (
		productRepo product.Repository
		historyRepo pricehistory.Repository
		logRepo     inventorylog.Repository
		cache       pricing.Cache
	)
	if db != nil {
		productRepo = product.NewPostgresRepository(db)
		historyRepo = pricehistory.NewPostgresRepository(db)
		logRepo = inventorylog.NewPostgresRepository(db)
	} else {
		productRepo = product.NewInMemoryRepository(nil)
		historyRepo = pricehistory.NewInMemoryRepository()
		logRepo = inventorylog.NewInMemoryRepository()
	}
	if rdb != nil {
		cache = pricing.NewRedisCache(rdb)
	} else {
		cache = pricing.NewMemoryCache()
	}

	authService, err := auth.NewService(cfg.AdminUsername, cfg.AdminPassword, secret, cfg.JWTTTL)
	if err != nil {
		return components{}, err
	}
	if cfg.AdminPassword == "" {
		log.Warn("ADMIN_PASSWORD not set, sign-in is disabled")
	}

	history := pricehistory.NewService(historyRepo)
	return components{
		products: product.NewService(productRepo, history, log.Named("product")),
		history:  history,
		logs:     inventorylog.NewService(logRepo),
		engine:   pricing.NewEngine(productRepo, cache, cfg.RecommendationTTL),
		auth:     authService,
	}, nil
}

func newApp(cfg config.Config, comp components, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(fiberrecover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authHandler := auth.NewHandler(comp.auth, log.Named("auth"))
	productHandler := product.NewHandler(comp.products, log.Named("product"), cfg.AllowResetProducts)

	authHandler.RegisterPublicRoutes(app)
	pricehistory.NewHandler(comp.history, log.Named("pricehistory")).RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	pricing.NewHandler(comp.engine, log.Named("pricing")).RegisterPublicRoutes(app)
	inventorylog.NewHandler(comp.logs, log.Named("inventorylog")).RegisterPublicRoutes(app)

	// everything registered below requires a bearer token
	app.Use(comp.auth.Middleware())
	authHandler.RegisterProtectedRoutes(app)
	productHandler.RegisterProtectedRoutes(app)

	return app
}
