package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/fypdash/internal/app/controllers"
	appMigrations "github.com/yigit/fypdash/internal/app/migrations"
	appRepos "github.com/yigit/fypdash/internal/app/repositories"
	appRoutes "github.com/yigit/fypdash/internal/app/routes"
	appServices "github.com/yigit/fypdash/internal/app/services"
	"github.com/yigit/fypdash/internal/config"
	"github.com/yigit/fypdash/internal/db"
	appMiddleware "github.com/yigit/fypdash/internal/middleware"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
	pkgAuth "github.com/yigit/fypdash/internal/pkg/auth"
	"github.com/yigit/fypdash/internal/pkg/filestorage"
	"github.com/yigit/fypdash/internal/pkg/logger"
	"github.com/yigit/fypdash/internal/pkg/websocket"
	"github.com/yigit/fypdash/internal/session"
	"github.com/yigit/fypdash/internal/wizard"
)

const sweepInterval = time.Minute

// Dependencies holds all the application dependencies
type Dependencies struct {
	Config        *config.Config
	BackendClient *apiclient.Client
	WizardClient  *apiclient.Client
	Services      *appServices.Services
	Sessions      *session.Manager
	JWTService    *pkgAuth.JWTService
	Uploader      filestorage.Uploader
	Hub           *websocket.Hub
	Wizard        *wizard.Service
	SessionMW     *appMiddleware.SessionMiddleware
	Controllers   appRoutes.Controllers
	Logger        zerolog.Logger

	closers []func()
}

// Close releases everything BuildDependencies opened, newest first
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

func (d *Dependencies) onClose(fn func()) {
	d.closers = append(d.closers, fn)
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupSessionStore opens the configured session store. Postgres stores are migrated first.
// Expired sessions are removed by the sweep started in BuildDependencies.
func SetupSessionStore(cfg *config.Config, deps *Dependencies) (session.Store, error) {
	lgr := deps.Logger

	switch cfg.Session.Store {
	case config.StoreRedis:
		lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Connecting to redis session store...")
		rdb := session.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		store := session.NewRedisStore(rdb, cfg.Redis.Prefix)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			rdb.Close()
			lgr.Error().Err(err).Msg("Failed to ping redis")
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.onClose(func() { closeRedis(rdb, lgr) })
		return store, nil

	case config.StorePostgres:
		lgr.Info().Msg("Establishing database connection...")
		database, err := db.NewPostgresDB(cfg)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		lgr.Info().Msg("Running database migrations...")
		if err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(context.Background()); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, fmt.Errorf("database migrations failed: %w", err)
		}
		lgr.Info().Msg("Database migrations successfully applied.")

		deps.onClose(func() {
			lgr.Info().Msg("Closing database connection pool...")
			database.Close()
		})
		return appRepos.NewSessionRepository(database.Pool), nil

	default:
		return session.NewMemoryStore(), nil
	}
}

// startSweeping runs Sessions.Sweep every sweepInterval until deps is closed
func startSweeping(deps *Dependencies) {
	stop := make(chan struct{})
	deps.onClose(func() { close(stop) })

	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				if err := deps.Sessions.Sweep(ctx); err != nil {
					deps.Logger.Error().Err(err).Msg("Session sweep failed")
				}
				cancel()
			}
		}
	}()
}

func closeRedis(rdb *redis.Client, lgr zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		lgr.Error().Err(err).Msg("Failed to close redis client")
	}
}

// SetupUploader returns the file destination selected by the upload driver
func SetupUploader(cfg *config.Config, lgr zerolog.Logger) (filestorage.Uploader, error) {
	if cfg.Upload.Driver == config.UploadRemote {
		return filestorage.NewMediaHost(cfg.Upload.URL, cfg.Upload.Preset, cfg.UploadTimeout(), lgr), nil
	}

	baseURL := strings.TrimRight(cfg.Server.PublicURL, "/") + cfg.Upload.LocalPath
	storage, err := filestorage.NewLocalStorage(cfg.Upload.LocalDir, baseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}
	return storage, nil
}

// BuildDependencies initializes the backend client, sessions, the wizard and the controllers.
// Callers must Close the result.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Logger: lgr}

	store, err := SetupSessionStore(cfg, deps)
	if err != nil {
		deps.Close()
		return nil, err
	}
	lgr.Info().Str("store", store.Name()).Msg("Session store ready")

	deps.BackendClient = apiclient.New(cfg.Backend.BaseURL, cfg.BackendTimeout(), logger.Component("apiclient"))
	deps.Services = appServices.New(deps.BackendClient, lgr)

	// Project and file writes from the wizard share the upload bound
	deps.WizardClient = apiclient.New(cfg.Backend.BaseURL, cfg.UploadTimeout(), logger.Component("apiclient"))
	writes := appServices.New(deps.WizardClient, lgr)

	deps.Sessions = session.NewManager(store, deps.Services.School, cfg.SessionTTL(), lgr)
	deps.onClose(deps.Sessions.Close)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.Session.Secret,
		TokenExp:    cfg.SessionTTL(),
		TokenIssuer: cfg.Session.Issuer,
	})

	deps.Uploader, err = SetupUploader(cfg, lgr)
	if err != nil {
		deps.Close()
		return nil, err
	}
	lgr.Info().Str("uploader", deps.Uploader.Name()).Msg("File uploader ready")

	deps.Hub = websocket.NewHub(logger.Component("websocket"))
	go deps.Hub.Run()
	deps.onClose(deps.Hub.Stop)

	deps.Wizard = wizard.NewService(wizard.Dependencies{
		Colleges:    deps.Services.College,
		Departments: deps.Services.Department,
		Projects:    writes.Project,
		Files:       writes.File,
		Uploader:    deps.Uploader,
		Notifier:    deps.Hub,
		Logger:      logger.Component("wizard"),
		CallTimeout: cfg.UploadTimeout(),
	})
	deps.Sessions.Track(deps.Wizard)
	startSweeping(deps)

	deps.SessionMW = appMiddleware.NewSessionMiddleware(deps.JWTService, deps.Sessions, appMiddleware.CookieConfig{
		Name:   cfg.Session.CookieName,
		Secure: cfg.Session.Secure,
	}, lgr)

	pages := appControllers.NewSchoolController(deps.Services, deps.Sessions, appControllers.DefaultHydrationWait, lgr)
	deps.Controllers = appRoutes.Controllers{
		Auth: appControllers.NewAuthController(
			deps.Services.Auth,
			deps.Services.School,
			deps.Sessions,
			deps.SessionMW,
			deps.Wizard,
			lgr,
		),
		School:  pages,
		Project: appControllers.NewProjectController(pages, deps.Wizard, cfg.Server.PublicURL, lgr),
		Wizard:  appControllers.NewWizardController(deps.Wizard, lgr),
		Health:  appControllers.NewHealthController(deps.Sessions.StoreName()),
		Events:  websocket.NewHandler(deps.Hub, logger.Component("websocket"), cfg.Server.PublicURL),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(logger.Component("http")))

	appRoutes.SetupRouter(router, deps.Controllers, deps.SessionMW)

	if cfg.Upload.Driver == config.UploadLocal {
		router.Static(cfg.Upload.LocalPath, cfg.Upload.LocalDir)
		lgr.Info().Str("path", cfg.Upload.LocalDir).Msg("Static file serving configured for uploads directory")
	}

	return router
}
