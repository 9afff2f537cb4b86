// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authHTTP "github.com/allisson/authtokens/internal/auth/http"
	authService "github.com/allisson/authtokens/internal/auth/service"
	authUseCase "github.com/allisson/authtokens/internal/auth/usecase"
	"github.com/allisson/authtokens/internal/config"
	"github.com/allisson/authtokens/internal/database"
	"github.com/allisson/authtokens/internal/http"
	"github.com/allisson/authtokens/internal/metrics"
	tokenHTTP "github.com/allisson/authtokens/internal/token/http"
	tokenService "github.com/allisson/authtokens/internal/token/service"
	tokenUseCase "github.com/allisson/authtokens/internal/token/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config     *config.Config
	authConfig *config.AuthConfig

	// Infrastructure
	logger          *slog.Logger
	registry        *database.Registry
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Services
	signer              *tokenService.Signer
	secretHasher        authService.SecretHasher
	staticAuthenticator *authService.StaticAuthenticator
	queryAuthenticator  *authService.QueryAuthenticator
	privilegeTable      *authService.PrivilegeTable
	actorDirectory      *authService.ActorDirectory

	// Repositories
	tokenRepository tokenUseCase.TokenRepository
	tokenTxManager  database.TxManager

	// Use Cases
	tokenUseCase tokenUseCase.TokenUseCase
	resolver     authUseCase.Resolver

	// HTTP Handlers
	actorHandler *authHTTP.ActorHandler
	tokenHandler *tokenHTTP.TokenHandler

	// Servers
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                      sync.Mutex
	loggerInit              sync.Once
	authConfigInit          sync.Once
	registryInit            sync.Once
	metricsProviderInit     sync.Once
	businessMetricsInit     sync.Once
	signerInit              sync.Once
	secretHasherInit        sync.Once
	staticAuthenticatorInit sync.Once
	queryAuthenticatorInit  sync.Once
	privilegeTableInit      sync.Once
	actorDirectoryInit      sync.Once
	tokenRepositoryInit     sync.Once
	tokenTxManagerInit      sync.Once
	tokenUseCaseInit        sync.Once
	resolverInit            sync.Once
	actorHandlerInit        sync.Once
	tokenHandlerInit        sync.Once
	httpServerInit          sync.Once
	metricsServerInit       sync.Once
	initErrors              map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// storeErr records err for key and returns the error recorded for key, if any.
func (c *Container) storeErr(key string, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.initErrors[key] = err
	}
	return c.initErrors[key]
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// AuthConfig returns the parsed YAML auth config.
func (c *Container) AuthConfig() (*config.AuthConfig, error) {
	var err error
	c.authConfigInit.Do(func() {
		c.authConfig, err = config.LoadAuthConfig(c.config.AuthConfigFile)
	})
	if err := c.storeErr("authConfig", err); err != nil {
		return nil, err
	}
	return c.authConfig, nil
}

// Registry returns the named store registry: the default store plus DB_STORES entries.
func (c *Container) Registry() (*database.Registry, error) {
	var err error
	c.registryInit.Do(func() {
		c.registry, err = c.initRegistry()
	})
	if err := c.storeErr("registry", err); err != nil {
		return nil, err
	}
	return c.registry, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			err = fmt.Errorf("failed to create metrics provider: %w", err)
		}
	})
	if err := c.storeErr("metricsProvider", err); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
	})
	if err := c.storeErr("businessMetrics", err); err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

// HTTPServer returns the API server with its router set up. ctx bounds background work
// started by middleware.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer(ctx)
	})
	if err := c.storeErr("httpServer", err); err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		c.metricsServer, err = c.initMetricsServer()
	})
	if err := c.storeErr("metricsServer", err); err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.registry != nil {
		if err := c.registry.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// StoreConfigs returns the connection settings of every configured store by name.
func (c *Container) StoreConfigs() (map[string]database.Config, error) {
	configs := map[string]database.Config{
		database.DefaultStore: c.databaseConfig(c.config.DBDriver, c.config.DBConnectionString),
	}

	specs, err := database.ParseStoreSpecs(c.config.DBStores)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB_STORES: %w", err)
	}
	for _, spec := range specs {
		configs[spec.Name] = c.databaseConfig(spec.Driver, spec.ConnectionString)
	}
	return configs, nil
}

func (c *Container) databaseConfig(driver, dsn string) database.Config {
	return database.Config{
		Driver:             driver,
		ConnectionString:   dsn,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	}
}

// initRegistry connects every configured store. Already opened stores are closed on failure.
func (c *Container) initRegistry() (*database.Registry, error) {
	configs, err := c.StoreConfigs()
	if err != nil {
		return nil, err
	}

	registry := database.NewRegistry()
	for name, cfg := range configs {
		db, err := database.Connect(cfg)
		if err != nil {
			_ = registry.Close()
			return nil, fmt.Errorf("failed to connect to store %s: %w", name, err)
		}
		registry.Register(name, cfg.Driver, db)
	}
	return registry, nil
}

// initBusinessMetrics creates the business metrics recorder from the metrics provider.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initHTTPServer creates the API server and mounts every handler.
func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	logger := c.Logger()

	registry, err := c.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry for http server: %w", err)
	}

	authConfig, err := c.AuthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth config for http server: %w", err)
	}

	resolver, err := c.Resolver()
	if err != nil {
		return nil, fmt.Errorf("failed to get resolver for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	var tokenHandler *tokenHTTP.TokenHandler
	if authConfig.ManageTokens {
		tokenHandler, err = c.TokenHandler()
		if err != nil {
			return nil, fmt.Errorf("failed to get token handler for http server: %w", err)
		}
	}

	server := http.NewServer(registry, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(ctx, http.RouterDeps{
		Config:          c.config,
		Param:           authConfig.Param,
		Resolver:        resolver,
		ActorHandler:    c.ActorHandler(),
		TokenHandler:    tokenHandler,
		MetricsProvider: provider,
	})

	return server, nil
}

// initMetricsServer creates the metrics server when metrics are enabled.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}
	if provider == nil {
		return nil, nil
	}
	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
}
