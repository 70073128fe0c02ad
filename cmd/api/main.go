package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"jobconnect/internal/app"
	"jobconnect/internal/config"
	"jobconnect/internal/database"
	"jobconnect/internal/domain/application"
	"jobconnect/internal/domain/auth"
	"jobconnect/internal/domain/company"
	"jobconnect/internal/domain/employer"
	"jobconnect/internal/domain/job"
	"jobconnect/internal/domain/user"
	apphttp "jobconnect/internal/http"
	"jobconnect/internal/http/handlers"
	"jobconnect/internal/http/metrics"
	httpmw "jobconnect/internal/http/middleware"
	"jobconnect/internal/http/response"
	"jobconnect/internal/observability"
	"jobconnect/internal/repository/memory"
	"jobconnect/internal/repository/postgres"
	redisrepo "jobconnect/internal/repository/redis"
	"jobconnect/internal/repository/sqlite"
	"jobconnect/internal/security"
	"jobconnect/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg.LogLevel)
	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

type repositories struct {
	users        user.Repository
	employers    employer.Repository
	companies    company.Repository
	jobs         job.Repository
	applications application.Repository
	// revoked is nil when the store cannot hold the denylist.
	revoked auth.RevokedTokenRepository
	close   func() error
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.Info("using sqlite store", "path", cfg.SQLitePath)
		return &repositories{
			users:        sqlite.NewUserRepository(db),
			employers:    sqlite.NewEmployerRepository(db),
			companies:    sqlite.NewCompanyRepository(db),
			jobs:         sqlite.NewJobRepository(db),
			applications: sqlite.NewApplicationRepository(db),
			close:        func() error { return sqlite.Close(db) },
		}, nil
	default:
		db, err := database.NewPostgres(ctx, database.PostgresConfig{
			DSN:             cfg.PostgresDSN,
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxIdle:     cfg.DBConnMaxIdle,
			ConnMaxLifetime: cfg.DBConnMaxLife,
		}, logger)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return &repositories{
			users:        postgres.NewUserRepository(db),
			employers:    postgres.NewEmployerRepository(db),
			companies:    postgres.NewCompanyRepository(db),
			jobs:         postgres.NewJobRepository(db),
			applications: postgres.NewApplicationRepository(db),
			revoked:      postgres.NewRevokedTokenRepository(db),
			close:        db.Close,
		}, nil
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.Error("close store", "error", err)
		}
	}()

	var (
		revoked auth.RevokedTokenRepository = memory.NewRevokedTokenRepository()
		limiter httpmw.Limiter              = httpmw.NewRateLimiter()
	)
	if repos.revoked != nil {
		revoked = repos.revoked
	}
	if cfg.RedisURL != "" {
		client, err := redisrepo.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		revoked = redisrepo.NewRevokedTokenRepository(client)
		limiter = httpmw.NewRedisLimiter(client, logger)
		logger.Info("redis connected")
	}

	files, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return err
	}
	clientIP, err := httpmw.NewClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	authService := app.NewAuthService(repos.users, repos.employers, revoked, jwtProvider, logger, cfg.TokenTTL)
	userService := app.NewUserService(repos.users, repos.employers, logger)
	resumeService := app.NewResumeService(repos.users, files, cfg.ResumeMaxBytes, logger)
	companyService := app.NewCompanyService(repos.companies, logger)
	jobService := app.NewJobService(repos.jobs, repos.companies, logger)
	applicationService := app.NewApplicationService(repos.applications, jobService, repos.users, logger)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:        handlers.NewAuthHandler(authService),
		UserHandler:        handlers.NewUserHandler(userService, resumeService, cfg.PublicBaseURL),
		JobHandler:         handlers.NewJobHandler(jobService),
		CompanyHandler:     handlers.NewCompanyHandler(companyService),
		ApplicationHandler: handlers.NewApplicationHandler(applicationService),
		MetricsHandler:     handlers.NewMetricsHandler(collector),
		AuthMiddleware:     httpmw.NewAuthMiddleware(jwtProvider, revoked),
		Uploads:            files.Handler(),
		Limiter:            limiter,
		AuthRateLimit:      cfg.AuthRateLimit,
		ClientIP:           clientIP,
		Metrics:            collector,
		Logger:             logger,
		RequestTimeout:     cfg.RequestTimeout,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API started", "addr", server.Addr, "driver", cfg.DBDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
