package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/njprem/Estate_Site_BackEnd/internal/authz"
	"github.com/njprem/Estate_Site_BackEnd/internal/config"
	"github.com/njprem/Estate_Site_BackEnd/internal/events"
	"github.com/njprem/Estate_Site_BackEnd/internal/logging"
	"github.com/njprem/Estate_Site_BackEnd/internal/media"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/minio"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/postgres"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/redis"
	"github.com/njprem/Estate_Site_BackEnd/internal/service"
	httpx "github.com/njprem/Estate_Site_BackEnd/internal/transport/http"
	"github.com/njprem/Estate_Site_BackEnd/internal/transport/mail"
	"github.com/njprem/Estate_Site_BackEnd/internal/transport/sms"
	"github.com/njprem/Estate_Site_BackEnd/internal/util"
)

const siteName = "Estate Site"

func main() {
	cfg := config.Load()

	logger, flush, err := logging.New(cfg.LogLevel, cfg.LogstashTCPAddr)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", zap.Error(err))
		flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	rdb := connectRedis(ctx, cfg, logger)
	if rdb != nil {
		defer rdb.Close()
	}

	storage, err := connectStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}

	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	var smsSender service.CodeSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" {
		smsSender = sms.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	}

	dispatcher := events.NewDispatcher(mailer, cfg.AdminNotifyEmail, siteName, logger.Named("notifications"))
	var notifier events.Notifier = dispatcher
	if cfg.RabbitMQURL != "" {
		publisher := events.NewPublisher(cfg.RabbitMQURL, cfg.NotificationQueue, logger.Named("publisher"))
		defer publisher.Close()
		notifier = events.NewFallbackNotifier(publisher, dispatcher, logger)

		consumer := events.NewConsumer(cfg.RabbitMQURL, cfg.NotificationQueue, dispatcher, logger.Named("consumer"))
		go consumer.Run(ctx)
	}

	webUserJWT := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	adminJWT := webUserJWT.WithTTL(cfg.AdminSessionTTL)

	webUsers := postgres.NewWebUserRepo(db)
	admins := postgres.NewAdminRepo(db)
	images := media.NewImageInspector(cfg.ImageMaxBytes, media.DefaultMaxDimension)

	otp := service.NewOTPService(postgres.NewOneTimeCodeRepo(db), mailer, smsSender, cfg.OTPTTL, logger.Named("otp"))
	registration := service.NewRegistrationService(webUsers, otp, webUserJWT, notifier, logger.Named("registration"))
	login := service.NewLoginService(webUsers, otp, webUserJWT)
	google := service.NewGoogleSignInService(webUsers, webUserJWT, cfg.GoogleAudience, notifier, logger.Named("google"))
	adminSvc := service.NewAdminService(admins, adminJWT, logger.Named("admin"))
	webUserSvc := service.NewWebUserService(webUsers)
	tokens := service.NewTokenAuthenticator(webUserJWT, adminJWT, webUsers, admins)

	blogs := service.NewBlogService(postgres.NewBlogRepo(db), storage, images, cfg.MinIOBucketMedia)
	jobs := service.NewJobService(postgres.NewJobRepo(db), postgres.NewJobApplicationRepo(db), storage, notifier, logger.Named("jobs"), service.JobServiceConfig{
		CVBucket:   cfg.MinIOBucketCVs,
		CVMaxBytes: cfg.CVMaxBytes,
	})
	propertyRepo := postgres.NewPropertyRepo(db)
	properties := service.NewPropertyService(propertyRepo, storage, images, cfg.MinIOBucketMedia)
	propertyImports := service.NewPropertyImportService(properties, propertyRepo, storage, logger.Named("imports"), service.PropertyImportConfig{
		Bucket: cfg.MinIOBucketMedia,
	})
	testimonials := service.NewTestimonialService(postgres.NewTestimonialRepo(db))
	contacts := service.NewContactService(postgres.NewContactRepo(db), notifier, logger.Named("contacts"))

	if created, err := adminSvc.EnsureSeed(ctx, cfg.AdminSeedEmail, cfg.AdminSeedPass, cfg.AdminSeedName); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	} else if created {
		logger.Info("seeded super admin", zap.String("email", cfg.AdminSeedEmail))
	}

	enforcer, err := authz.New()
	if err != nil {
		return err
	}

	e := httpx.NewRouter(cfg.AllowOrigins, cfg.TrustedProxies, logger.Named("http"))
	httpx.RegisterReadiness(e, readinessChecks(db, rdb))
	if err := httpx.RegisterSwagger(e, cfg.SwaggerSpecPath); err != nil {
		logger.Warn("swagger disabled", zap.Error(err))
	}

	respond := httpx.NewResponder(cfg.IsDevelopment(), logger.Named("http"))
	guards := httpx.Guards{
		Cache:     httpx.ResponseCache(cfg.Cache, rdb, logger),
		RateLimit: httpx.RateLimit(cfg.RateLimit, rdb, logger),
	}
	admin := httpx.NewAdminGroup(e, tokens, enforcer, httpx.InvalidateCache(cfg.Cache, rdb, logger))

	httpx.RegisterOTPAuth(e, registration, login, respond)
	httpx.RegisterWebUser(e, google, tokens, respond)
	httpx.RegisterAdmin(e, admin, adminSvc, webUserSvc, respond, guards.RateLimit)
	httpx.RegisterBlogs(e, admin, blogs, respond, guards)
	httpx.RegisterJobs(e, admin, jobs, respond, guards)
	httpx.RegisterProperties(e, admin, properties, propertyImports, respond, guards)
	httpx.RegisterTestimonials(e, admin, testimonials, respond, guards)
	httpx.RegisterContacts(e, admin, contacts, respond, guards)

	return serve(ctx, e, ":"+cfg.Port, logger)
}

func serve(ctx context.Context, e *echo.Echo, addr string, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}

// connectRedis returns nil when Redis is not configured or unreachable; the
// cache and rate limiter then pass requests straight through.
func connectRedis(ctx context.Context, cfg config.Config, logger *zap.Logger) *goredis.Client {
	if !cfg.Redis.Enabled() {
		return nil
	}
	rdb, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, cache and rate limit disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		return nil
	}
	return rdb
}

func connectStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (ports.ObjectStorage, error) {
	if !cfg.MinIOEnabled() {
		logger.Warn("object storage not configured, uploads disabled")
		return nil, nil
	}
	client, err := minio.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		return nil, fmt.Errorf("connect minio: %w", err)
	}
	storage := minio.NewStorage(client, cfg.MinIOPublicURL)
	if err := storage.EnsureBuckets(ctx, cfg.MinIOBucketMedia, cfg.MinIOBucketCVs); err != nil {
		return nil, fmt.Errorf("ensure buckets: %w", err)
	}
	return storage, nil
}

func readinessChecks(db *sqlx.DB, rdb *goredis.Client) map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"postgres": func(ctx context.Context) error { return postgres.Ping(ctx, db) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}
