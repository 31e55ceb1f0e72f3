package app

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

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"
	"gorm.io/gorm"

	"github.com/simp-lee/backoffice/internal/config"
	"github.com/simp-lee/backoffice/internal/crud"
	"github.com/simp-lee/backoffice/internal/domain"
	"github.com/simp-lee/backoffice/internal/middleware"
	"github.com/simp-lee/backoffice/internal/module/auth"
	"github.com/simp-lee/backoffice/internal/module/configlist"
	"github.com/simp-lee/backoffice/internal/module/customer"
	"github.com/simp-lee/backoffice/internal/module/item"
	"github.com/simp-lee/backoffice/internal/module/organization"
	"github.com/simp-lee/backoffice/internal/module/role"
	"github.com/simp-lee/backoffice/internal/module/salesorder"
	"github.com/simp-lee/backoffice/internal/module/user"
	"github.com/simp-lee/backoffice/internal/pkg"
)

// App holds the core application dependencies and the HTTP server.
type App struct {
	engine *gin.Engine
	db     *gorm.DB
	logger *logger.Logger
	cfg    *config.Config
}

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var newHTTPServer = func(addr string, handler http.Handler, timeout time.Duration) httpServer {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	if timeout > 0 {
		srv.ReadTimeout = timeout
		srv.WriteTimeout = timeout
	}
	return srv
}

var notifyContext = func(parent context.Context, signals ...os.Signal) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, signals...)
}

// New creates and wires a fully configured App from the given Config.
//
// It sets up logging and the database, migrates the schema when asked to,
// builds every module (repository → service → handler) and registers the
// routes behind the configured middleware chain.
func New(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	success := false

	log, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	if cfg.Server.Mode == gin.DebugMode && cfg.Server.Host == "0.0.0.0" {
		log.Warn("insecure server config: debug mode on 0.0.0.0 may expose debug behavior and permissive CORS")
	}
	defer func() {
		if success {
			return
		}
		if err := log.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	db, err := config.SetupDatabase(&cfg.Database, log.Logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}
	defer func() {
		if success {
			return
		}
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", slog.Any("error", err))
		}
	}()

	if cfg.Server.Mode == gin.DebugMode || cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		log.Info("auto migration completed")

		if cfg.Auth.RBAC.Enabled {
			if err := SeedAccessControl(context.Background(), db, pkg.SystemClock{}); err != nil {
				return nil, fmt.Errorf("seed access control: %w", err)
			}
			log.Info("access control seeded", slog.String("role", AdminRoleCode))
		}
	}

	if err := validateGinMode(cfg.Server.Mode); err != nil {
		return nil, err
	}
	gin.SetMode(cfg.Server.Mode)
	engine := gin.New()

	engine.Use(
		middleware.Recovery(log.Logger),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{
			TrustUpstream: false,
		}),
		middleware.Logger(log.Logger),
		middleware.CORSWithConfig(cfg.Server.CORS.Middleware(cfg.Server.Mode)),
	)

	deps := buildRouteDeps(cfg, db, pkg.SystemClock{})
	if err := RegisterRoutes(engine, deps); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	log.Info("routes registered",
		slog.Int("modules", len(deps.Modules)),
		slog.Bool("auth", cfg.Auth.Enabled),
		slog.Bool("rbac", cfg.Auth.RBAC.Enabled),
	)

	success = true
	return &App{
		engine: engine,
		db:     db,
		logger: log,
		cfg:    cfg,
	}, nil
}

// buildRouteDeps performs the manual dependency injection for every module.
// Auth routes and middleware exist only when auth is enabled; the permission
// guard only when RBAC is enabled as well.
func buildRouteDeps(cfg *config.Config, db *gorm.DB, clock pkg.Clock) *RouteDeps {
	limits := cfg.Pagination.Limits()

	users := user.NewModule(db, clock, limits, user.Mapper{})
	roles := role.NewModule(db, clock, limits)

	deps := &RouteDeps{
		DB: db,
		Modules: []Module{
			customer.NewModule(db, clock, limits),
			item.NewModule(db, clock, limits),
			organization.NewModule(db, clock, limits),
			configlist.NewModule(db, clock, limits),
			salesorder.NewModule(db, clock, limits),
			roles,
			users,
		},
	}

	if !cfg.Auth.Enabled {
		return deps
	}

	tokens := pkg.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Expiry(), clock)
	authSvc := auth.NewService(tokens, users.Service(), roles.Checker())
	deps.Modules = append(deps.Modules, auth.NewModule(auth.NewHandler(authSvc)))
	deps.Auth = middleware.Auth(tokens, cfg.Auth.PublicPaths)

	if cfg.Auth.RBAC.Enabled {
		deps.Guard = permissionGuard(roles.Checker())
	}
	return deps
}

// permissionGuard requires "<resource>:<action>" on the guarded route.
func permissionGuard(checker middleware.PermissionChecker) crud.Guard {
	return func(resource, action string) gin.HandlerFunc {
		return middleware.RequirePermission(checker, domain.PermissionCode(resource, action))
	}
}

func validateGinMode(mode string) error {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		return nil
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}
}

// Handler exposes the configured engine, mainly for in-process tests.
func (a *App) Handler() http.Handler {
	return a.engine
}

// Run starts the HTTP server and blocks until a shutdown signal is received.
// It performs graceful shutdown with a 5-second timeout and closes the
// database connection and the logger.
func (a *App) Run() error {
	if a == nil {
		return errors.New("app is nil")
	}
	if a.cfg == nil {
		return errors.New("app config is nil")
	}
	if a.engine == nil {
		return errors.New("app engine is nil")
	}

	log := slog.Default()
	if a.logger != nil {
		log = a.logger.Logger
	}

	addr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	timeout, _ := time.ParseDuration(a.cfg.Server.Timeout)
	srv := newHTTPServer(addr, a.engine, timeout)

	ctx, stop := notifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("server error: %w", err)
	}

	if runErr == nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown error", slog.Any("error", err))
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Error("database close error", slog.Any("error", err))
			} else {
				log.Info("database connection closed")
			}
		}
	}

	log.Info("server stopped")
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}

	return runErr
}
