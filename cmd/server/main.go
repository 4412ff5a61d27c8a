package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/PartyAppOfficial/Partyapp/internal/adapter/email"
	"github.com/PartyAppOfficial/Partyapp/internal/adapter/geocoding/google"
	"github.com/PartyAppOfficial/Partyapp/internal/adapter/http/handler"
	"github.com/PartyAppOfficial/Partyapp/internal/adapter/http/router"
	natsAdapter "github.com/PartyAppOfficial/Partyapp/internal/adapter/messaging/nats"
	"github.com/PartyAppOfficial/Partyapp/internal/adapter/repository/cache"
	mongoRepo "github.com/PartyAppOfficial/Partyapp/internal/adapter/repository/mongodb"
	"github.com/PartyAppOfficial/Partyapp/internal/adapter/storage/s3"
	authdomain "github.com/PartyAppOfficial/Partyapp/internal/auth/domain"
	authuc "github.com/PartyAppOfficial/Partyapp/internal/auth/usecase"
	"github.com/PartyAppOfficial/Partyapp/internal/config"
	"github.com/PartyAppOfficial/Partyapp/internal/contact"
	"github.com/PartyAppOfficial/Partyapp/internal/geo"
	listingdomain "github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	listinguc "github.com/PartyAppOfficial/Partyapp/internal/listing/usecase"
	"github.com/PartyAppOfficial/Partyapp/internal/notify"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/metrics"
	"github.com/PartyAppOfficial/Partyapp/internal/platform/tracer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func main() {
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	appLogger.Info("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.Int("port", cfg.Port),
		zap.Bool("mongo_uri_set", cfg.MongoURI != ""),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.String("nats_url", cfg.NATSURL),
		zap.Bool("maps_enabled", cfg.GoogleMapsAPIKey != ""),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Tracing and metrics
	tp := tracer.InitTracer(cfg.ServiceName, cfg.OTLPEndpoint, appLogger)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()
	mm := metrics.NewMetricsManager(cfg.ServiceName)

	// 2. MongoDB
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		cancelPing()
		appLogger.Fatal("Failed to ping MongoDB", zap.Error(err))
	}
	cancelPing()
	appLogger.Info("Successfully connected and pinged MongoDB")
	db := mongoClient.Database(cfg.MongoDatabase)

	listingRepo := mongoRepo.NewListingRepository(db, appLogger)
	userRepo := mongoRepo.NewUserRepository(db, appLogger)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		appLogger.Warn("Continuing without unique email index", zap.Error(err))
	}

	// 3. Redis
	rdb, err := cache.NewRedisClient(ctx, cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()
	tokenStore := cache.NewTokenStore(rdb, appLogger)
	loginThrottle := cache.NewLoginThrottle(rdb, cache.DefaultThrottleWindow, appLogger)
	submitGuard := cache.NewSubmitGuard(rdb, appLogger)

	// 4. NATS, optional
	var (
		listingEvents listingdomain.EventPublisher
		sessionEvents authdomain.SessionEventPublisher
	)
	if cfg.NATSURL != "" {
		natsPublisher, err := natsAdapter.NewPublisher(cfg.NATSURL, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Warn("NATS unavailable, events will not be published", zap.Error(err))
		} else {
			defer natsPublisher.Close()
			listingEvents = natsPublisher
			sessionEvents = natsPublisher
		}
	}

	// 5. Object storage
	storage, err := s3.NewS3Storage(ctx, s3.Options{
		Endpoint:      cfg.MinIOEndpoint,
		AccessKey:     cfg.MinIOAccessKey,
		SecretKey:     cfg.MinIOSecretKey,
		Bucket:        cfg.MinIOBucket,
		UseSSL:        cfg.MinIOUseSSL,
		PublicBaseURL: cfg.MinIOPublicBaseURL,
	}, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// 6. Mail, optional
	var (
		mailer        listingdomain.Mailer
		contactSender contact.Sender
	)
	smtpSender, err := email.NewSMTPSender(email.Options{
		Host:         cfg.SMTPHost,
		Port:         cfg.SMTPPort,
		Username:     cfg.SMTPUsername,
		Password:     cfg.SMTPPassword,
		SenderEmail:  cfg.SMTPSender,
		SenderName:   "PartyApp",
		ContactInbox: cfg.ContactInbox,
	}, appLogger)
	if err != nil {
		appLogger.Warn("SMTP not configured, mails are disabled", zap.Error(err))
	} else {
		mailer = smtpSender
		contactSender = smtpSender
	}

	// 7. Maps, optional
	var (
		geocoder geo.Geocoder
		places   geo.PlaceFinder
	)
	if cfg.GoogleMapsAPIKey != "" {
		mapsClient, err := google.NewClient(google.Options{APIKey: cfg.GoogleMapsAPIKey, Language: "es"}, appLogger)
		if err != nil {
			appLogger.Warn("Google Maps client unavailable, geocoding is disabled", zap.Error(err))
		} else {
			geocoder = cache.NewGeocodeCache(mapsClient, rdb, cache.GeocodeTTL, appLogger)
			places = mapsClient
		}
	}

	// 8. Notification hub
	hub := notify.NewHub(appLogger)
	go hub.Run(ctx)

	// 9. Usecases
	authUsecase := authuc.NewAuthUsecase(
		userRepo,
		tokenStore,
		loginThrottle,
		authuc.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		sessionEvents,
		mm,
		appLogger,
	)
	authUsecase.Subscribe(func(userID string, s *authdomain.Session) {
		hub.Send(userID, notify.MsgSessionChanged, authuc.View(s))
	})

	uploader := listinguc.NewUploader(storage, mm, appLogger, cfg.Thumbnails)
	registrationUsecase := listinguc.NewRegistrationUsecase(
		listingRepo,
		uploader,
		submitGuard,
		hub,
		listingEvents,
		mailer,
		mm,
		appLogger,
	)
	geoAdapter := geo.NewAdapter(geocoder, mm, appLogger)
	contactService := contact.NewService(contactSender, appLogger)

	// 10. HTTP
	httpHandler := router.New(router.Handlers{
		Auth:         handler.NewAuthHandler(authUsecase, handler.CookieConfig{Name: cfg.CookieName, Secure: cfg.CookieSecure}, appLogger),
		Registration: handler.NewRegistrationHandler(registrationUsecase, geoAdapter, appLogger),
		Geo:          handler.NewGeoHandler(geoAdapter, places, appLogger),
		Contact:      handler.NewContactHandler(contactService, appLogger),
		WS:           handler.NewWSHandler(hub),
	}, router.Options{
		Sessions:    authUsecase,
		CookieName:  cfg.CookieName,
		CORSOrigins: cfg.CORSOrigins,
		StaticDir:   cfg.StaticDir,
		Metrics:     mm,
		ServiceName: cfg.ServiceName,
	}, appLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown error", zap.Error(err))
	}
	appLogger.Info("Server stopped gracefully")
}
