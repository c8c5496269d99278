package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/atlastravel/backend/internal/config"
	"github.com/atlastravel/backend/internal/gateway/chapa"
	"github.com/atlastravel/backend/internal/logging"
	"github.com/atlastravel/backend/internal/queue"
	miniorepo "github.com/atlastravel/backend/internal/repository/minio"
	"github.com/atlastravel/backend/internal/repository/ports"
	"github.com/atlastravel/backend/internal/repository/postgres"
	"github.com/atlastravel/backend/internal/service"
	"github.com/atlastravel/backend/internal/transport/mail"
	"github.com/atlastravel/backend/internal/util"

	transport "github.com/atlastravel/backend/internal/transport/http"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stdout, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.Migrate(cfg.MigrationsPath, cfg.DatabaseURL); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	userRepo := postgres.NewUserRepo(db)
	destRepo := postgres.NewDestinationRepo(db)
	bookingRepo := postgres.NewBookingRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)
	reviewRepo := postgres.NewReviewRepo(db)

	var storage ports.ObjectStorage
	if cfg.MinIOEndpoint != "" {
		minioClient, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
		if err != nil {
			log.Fatalf("connect to minio: %v", err)
		}
		storage = miniorepo.NewStorage(minioClient, cfg.MinIOEndpoint, cfg.MinIOUseSSL)
	}

	gateway := chapa.NewClient(cfg.ChapaBaseURL, cfg.ChapaSecretKey, cfg.ChapaTimeout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tasks ports.TaskPublisher
	taskQueue, err := queue.NewRedisQueue(queue.Config{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		QueueName:  cfg.TaskQueueName,
		MaxRetries: cfg.QueueRetries,
	})
	if err != nil {
		log.Printf("task queue disabled: %v", err)
	} else {
		defer taskQueue.Close()
		tasks = taskQueue

		mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
		notifications := service.NewNotificationService(paymentRepo, bookingRepo, userRepo, mailer)
		notifications.RegisterHandlers(taskQueue)
		go taskQueue.Run(ctx)
	}

	jwtManager := util.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	authService := service.NewAuthService(userRepo, jwtManager, cfg.GoogleAudience)
	destService := service.NewDestinationService(destRepo, storage, service.DestinationServiceConfig{
		Bucket:        cfg.MinIOBucketImages,
		MaxImageBytes: cfg.DestinationImageMaxBytes,
		PublicBaseURL: cfg.MinIOPublicURL,
	})
	bookingService := service.NewBookingService(bookingRepo, destRepo)
	paymentService := service.NewPaymentService(paymentRepo, bookingRepo, userRepo, gateway, tasks, service.PaymentServiceConfig{
		PublicBaseURL:   cfg.PublicBaseURL,
		DefaultCurrency: cfg.DefaultCurrency,
	})
	reviewService := service.NewReviewService(reviewRepo, destRepo)

	e := transport.NewRouter(cfg.AllowOrigins)
	transport.RegisterPages(e)
	transport.RegisterSwagger(e)
	transport.RegisterAuth(e, authService)
	transport.RegisterDestinations(e, authService, destService)
	transport.RegisterBookings(e, authService, bookingService)
	transport.RegisterReviews(e, authService, reviewService)
	transport.RegisterPayments(e, authService, paymentService)

	go func() {
		<-ctx.Done()
		if err := e.Shutdown(context.Background()); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Printf("server stopped: %v", err)
	}
}
