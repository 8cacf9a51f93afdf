package app

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/riolentius/hideki-store-backend/internal/config"
	"github.com/riolentius/hideki-store-backend/internal/db"
	httpdelivery "github.com/riolentius/hideki-store-backend/internal/delivery/http"
	"github.com/riolentius/hideki-store-backend/internal/delivery/middleware"
	"github.com/riolentius/hideki-store-backend/internal/events"
	applog "github.com/riolentius/hideki-store-backend/internal/logger"
	"github.com/riolentius/hideki-store-backend/internal/notify"
	paymentuc "github.com/riolentius/hideki-store-backend/internal/usecase/payment"
)

type App struct {
	f    *fiber.App
	cfg  config.Config
	log  *zap.Logger
	pool *pgxpool.Pool
	pub  *events.Publisher
}

func New() (*App, error) {
	cfg := config.Load()

	log, err := applog.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	pool, err := db.NewPool(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	a := &App{cfg: cfg, log: log, pool: pool}

	var listeners []paymentuc.Listener
	if cfg.AMQPURL != "" {
		pub, err := events.Dial(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("amqp dial: %w", err)
		}
		a.pub = pub
		listeners = append(listeners, pub)
	} else {
		log.Info("AMQP_URL not set, order events are not published")
	}
	if cfg.SendGridAPIKey != "" {
		listeners = append(listeners, notify.NewMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.StoreName, log.Named("mail")))
	}

	f := fiber.New(fiber.Config{
		AppName:      "hideki-store-backend",
		ErrorHandler: httpdelivery.ErrorHandler(log),
	})

	f.Use(recover.New())
	f.Use(logger.New())
	f.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  strings.Join([]string{"Origin", "Content-Type", "Accept", "Authorization", middleware.CartHeader}, ", "),
		ExposeHeaders: middleware.CartHeader,
	}))

	httpdelivery.RegisterRoutes(f, httpdelivery.Deps{
		Config:    cfg,
		DB:        pool,
		Log:       log,
		Listeners: listeners,
	})

	a.f = f
	return a, nil
}

func (a *App) Run() error {
	a.log.Info("listening", zap.String("port", a.cfg.Port), zap.String("env", a.cfg.AppEnv))
	return a.f.Listen(":" + a.cfg.Port)
}

// Shutdown stops accepting requests, then releases the broker and the pool.
func (a *App) Shutdown() error {
	err := a.f.Shutdown()
	if a.pub != nil {
		if cerr := a.pub.Close(); cerr != nil {
			a.log.Warn("amqp close failed", zap.Error(cerr))
		}
	}
	a.pool.Close()
	_ = a.log.Sync()
	return err
}
