package main

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"

	"kairooms/internal/auth"
	authhandler "kairooms/internal/auth/handler"
	"kairooms/internal/auth/provider"
	authservice "kairooms/internal/auth/service"
	bookingshandler "kairooms/internal/bookings/handler"
	bookingsrepository "kairooms/internal/bookings/repository"
	bookingsservice "kairooms/internal/bookings/service"
	bookingsvalidator "kairooms/internal/bookings/validator"
	usershandler "kairooms/internal/users/handler"
	usersrepository "kairooms/internal/users/repository"
	usersservice "kairooms/internal/users/service"
	usersvalidator "kairooms/internal/users/validator"
	"kairooms/pkg/app"
	"kairooms/pkg/config"
	"kairooms/pkg/contracts"
	"kairooms/pkg/events"
	kafkaconfig "kairooms/pkg/kafka/config"
	"kairooms/pkg/mail"
	"kairooms/pkg/storage"
	"kairooms/pkg/token"
)

const ServiceName = "kairooms"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting server")

	publisher, err := events.NewKafkaPublisher(kafkaconfig.Load(), cfg.EventsTopic, ServiceName, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, publisher, initHandlers(cfg, publisher)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher events.Publisher) []contracts.Handler {
	mailer := mail.NewSMTPMailer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUsername,
		cfg.SMTPPassword,
		cfg.MailFromAddress(),
	)

	store, err := storage.NewDiskAvatarStore(cfg.UploadDir)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize avatar storage", "error", err)
	}

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)

	bookingRepo := bookingsrepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepository.NewRoomLockRepository(cfg)
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		mailer,
		publisher,
		cfg,
	)

	userRepo := usersrepository.NewMongoUserRepository(cfg)
	userService := usersservice.NewUserService(
		userRepo,
		usersvalidator.NewUserValidator(cfg.Log),
		mailer,
		issuer,
		store,
		publisher,
		cfg,
	)

	authMiddleware := auth.NewMiddleware(issuer, userRepo, cfg.Log)

	googleProvider := provider.NewGoogleProvider(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		fmt.Sprintf("%s/api/auth/google/callback", strings.TrimRight(cfg.APIBaseURL, "/")),
	)
	authService := authservice.NewAuthService(googleProvider, userService, issuer, cfg)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		bookingshandler.NewBookingHandler(bookingService, cfg.Log),
		usershandler.NewUserHandler(userService, authMiddleware, cfg.Log),
		authhandler.NewAuthHandler(authService, authMiddleware, cfg.Log),
	}
}
