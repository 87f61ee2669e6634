package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"usersvc/internal/config"
	"usersvc/internal/database"
	"usersvc/internal/handlers"
	"usersvc/internal/mailer"
	"usersvc/internal/middleware"
	"usersvc/internal/models"
	"usersvc/internal/repositories"
	"usersvc/internal/services"
	"usersvc/pkg/logger"
	"usersvc/pkg/rabbitmq"
)

func main() {
	bootLog := logger.New("info", "console")

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	log.Info().Str("config", cfg.String()).Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Record Store ---
	db, err := database.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize record store")
	}
	defer database.Close(db)

	// --- Events (optional) ---
	var publisher services.EventPublisher
	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	app := newApp(db, cfg, publisher, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.AppPort).Msg("starting server")
		return app.Listen(cfg.AppPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")
		return app.Shutdown()
	})
	if mqClient != nil {
		g.Go(func() error {
			return mqClient.ConsumeUserEvents(gctx, func(event models.UserEvent) error {
				log.Info().Str("event", string(event.Type)).Str("user_id", event.UserID).Time("occurred_at", event.OccurredAt).Msg("user event")
				return nil
			})
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server gracefully stopped")
}

// newApp wires the collaborators into a Fiber app.
func newApp(db *gorm.DB, cfg *config.Config, publisher services.EventPublisher, log zerolog.Logger) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(db)
	userService := services.NewUserService(userRepo, publisher, log)

	smtp := mailer.NewSMTPMailer(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.SenderEmail,
		Password: cfg.SMTP.SenderPassword,
	})
	inviteService := services.NewInviteService(smtp, services.InviteConfig{
		FromAddress:    cfg.SMTP.SenderEmail,
		FromName:       cfg.SMTP.SenderName,
		Recipients:     cfg.Invite.Recipients,
		Subject:        cfg.Invite.Subject,
		TemplatePath:   cfg.Invite.TemplatePath,
		AttachmentPath: cfg.Invite.AttachmentPath,
	})

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))

	handlers.NewSystemHandler(userService).RegisterRoutes(app)

	apiV1 := app.Group("/api/v1")
	handlers.NewUserHandler(userService, log).RegisterRoutes(apiV1)
	handlers.NewInviteHandler(inviteService, log).RegisterRoutes(apiV1)

	return app
}
