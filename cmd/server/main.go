// Package main initializes and starts the SmartBrain API server, wiring
// configuration, logging, the database, repositories, services, the
// face-detection client and HTTP handlers.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/atinyakov/SmartBrain/internal/certgen"
	"github.com/atinyakov/SmartBrain/internal/clarifai"
	"github.com/atinyakov/SmartBrain/internal/config"
	"github.com/atinyakov/SmartBrain/internal/db"
	"github.com/atinyakov/SmartBrain/internal/logger"
	"github.com/atinyakov/SmartBrain/internal/repository"
	"github.com/atinyakov/SmartBrain/internal/server/handler/http"
	"github.com/atinyakov/SmartBrain/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const shutdownTimeout = 10 * time.Second

func main() {
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Missing secrets stop the process before anything is opened.
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, "failed to init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()

	if err := run(options, log.Log); err != nil {
		log.Log.Fatal("server stopped", zap.Error(err))
	}
}

func run(options *config.Options, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgresDB, err := db.InitPostgres(ctx, options.DSN(), db.Pool{
		MaxOpenConns: options.Database.MaxOpenConns,
		MaxIdleConns: options.Database.MaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("cannot init database: %w", err)
	}
	defer func() { _ = postgresDB.Close() }()

	db.StartOrphanCredentialCleaner(ctx, postgresDB, options.OrphanSweepInterval, zapLogger)

	authService := service.NewAuthService(repository.NewPostgresAuthRepository(postgresDB))
	profileService := service.NewProfileService(repository.NewPostgresProfileRepository(postgresDB))
	detector := clarifai.NewClient(clarifai.Config{
		BaseURL: options.Clarifai.BaseURL,
		PAT:     options.Clarifai.PAT,
		UserID:  options.Clarifai.UserID,
		AppID:   options.Clarifai.AppID,
		ModelID: options.Clarifai.ModelID,
	}, nil, zapLogger)

	router := http.NewRouter(
		&http.AuthHandler{AuthService: authService, Log: zapLogger},
		&http.ProfileHandler{ProfileService: profileService, Log: zapLogger},
		&http.DetectHandler{Detector: detector, Log: zapLogger},
		zapLogger,
		http.RouterOptions{
			AllowedOrigins: options.CORSAllowedOrigins,
			StaticDir:      options.StaticDir,
		},
	)

	server := &nethttp.Server{
		Addr:              options.Address,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if options.TLSEnabled() {
		cert, err := certgen.LoadServerCertificate(options.TLSCertFile, options.TLSKeyFile)
		if err != nil {
			return fmt.Errorf("failed to load server TLS cert/key: %w", err)
		}
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
	}

	errCh := make(chan error, 1)
	go func() {
		zapLogger.Info("starting server",
			zap.String("addr", options.Address),
			zap.Bool("tls", options.TLSEnabled()),
		)
		var err error
		if server.TLSConfig != nil {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zapLogger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	zapLogger.Info("server stopped")
	return nil
}
