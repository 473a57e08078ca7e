package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	authhandler "clinic-portal/backend/internal/auth/handler"
	authservice "clinic-portal/backend/internal/auth/service"
	"clinic-portal/backend/internal/config"
	"clinic-portal/backend/internal/db"
	"clinic-portal/backend/internal/email"
	"clinic-portal/backend/internal/logger"
	patienthandler "clinic-portal/backend/internal/patient/handler"
	patientrepo "clinic-portal/backend/internal/patient/repository"
	patientservice "clinic-portal/backend/internal/patient/service"
	providerrepo "clinic-portal/backend/internal/provider/repository"
	"clinic-portal/backend/internal/security"
	"clinic-portal/backend/internal/server"
	twofactorhandler "clinic-portal/backend/internal/twofactor/handler"
	twofactorrepo "clinic-portal/backend/internal/twofactor/repository"
	twofactorservice "clinic-portal/backend/internal/twofactor/service"
	userhandler "clinic-portal/backend/internal/user/handler"
	userrepo "clinic-portal/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("db", zap.Error(err))
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	providers := providerrepo.NewPostgresRepository(conn)
	patients := patientrepo.NewPostgresRepository(conn)
	twoFactors := twofactorrepo.NewPostgresRepository(conn)

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenProvider([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.AccessTTL(), cfg.ResetTTL())

	mailClient := email.NewMailpitClient(cfg.MailpitURL, cfg.SenderEmail, cfg.SenderName)
	var producer email.Producer
	if kafkaProducer := email.NewKafkaProducer(cfg.KafkaBrokersList(), cfg.EmailKafkaTopic); kafkaProducer != nil {
		producer = kafkaProducer
		zlog.Info("email delivery via kafka", zap.String("topic", cfg.EmailKafkaTopic))
	} else {
		producer = email.NewSyncProducer(mailClient, zlog)
		zlog.Info("email delivery synchronous, no kafka brokers configured")
	}
	defer producer.Close()
	mailer := email.NewService(producer, cfg.PortalBaseURL, zlog)

	authSvc := authservice.New(users, hasher, tokens, mailer, zlog)
	patientSvc := patientservice.New(users, providers, patients, hasher, mailer, zlog)
	twoFactorSvc := twofactorservice.New(users, twoFactors, cfg.TOTPIssuer)

	router := server.NewRouter(server.Deps{
		Auth:       authhandler.New(authSvc, zlog, cfg.Env == "production"),
		Users:      userhandler.New(users, zlog),
		Patients:   patienthandler.New(patientSvc, patients, zlog),
		TwoFactor:  twofactorhandler.New(twoFactorSvc, zlog),
		Tokens:     tokens,
		UserLoader: users,
		Logger:     zlog,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zlog.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("shutdown", zap.Error(err))
	}
	zlog.Info("http server stopped")
}
