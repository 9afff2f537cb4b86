package app

import (
	"context"
	"fmt"

	"github.com/allisson/authtokens/internal/database"
	tokenHTTP "github.com/allisson/authtokens/internal/token/http"
	tokenRepository "github.com/allisson/authtokens/internal/token/repository"
	tokenService "github.com/allisson/authtokens/internal/token/service"
	tokenUseCase "github.com/allisson/authtokens/internal/token/usecase"
)

// TokenStoreConfig returns the connection settings of the store holding managed tokens.
func (c *Container) TokenStoreConfig() (database.Config, error) {
	authConfig, err := c.AuthConfig()
	if err != nil {
		return database.Config{}, fmt.Errorf("failed to get auth config for token store: %w", err)
	}

	configs, err := c.StoreConfigs()
	if err != nil {
		return database.Config{}, err
	}

	cfg, ok := configs[authConfig.ManageTokensDatabase]
	if !ok {
		return database.Config{}, fmt.Errorf("%w: %s", database.ErrStoreNotFound, authConfig.ManageTokensDatabase)
	}
	return cfg, nil
}

// Signer returns the managed token signer keyed with the process signing secret.
func (c *Container) Signer() (*tokenService.Signer, error) {
	var err error
	c.signerInit.Do(func() {
		c.signer, err = c.initSigner()
	})
	if err := c.storeErr("signer", err); err != nil {
		return nil, err
	}
	return c.signer, nil
}

// TokenRepository returns the token repository for the managed token store's driver.
func (c *Container) TokenRepository() (tokenUseCase.TokenRepository, error) {
	var err error
	c.tokenRepositoryInit.Do(func() {
		c.tokenRepository, err = c.initTokenRepository()
	})
	if err := c.storeErr("tokenRepository", err); err != nil {
		return nil, err
	}
	return c.tokenRepository, nil
}

// TokenTxManager returns the transaction manager of the managed token store.
func (c *Container) TokenTxManager() (database.TxManager, error) {
	var err error
	c.tokenTxManagerInit.Do(func() {
		c.tokenTxManager, err = c.initTokenTxManager()
	})
	if err := c.storeErr("tokenTxManager", err); err != nil {
		return nil, err
	}
	return c.tokenTxManager, nil
}

// TokenUseCase returns the token use case with metrics.
func (c *Container) TokenUseCase() (tokenUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
	})
	if err := c.storeErr("tokenUseCase", err); err != nil {
		return nil, err
	}
	return c.tokenUseCase, nil
}

// TokenHandler returns the token management handler.
func (c *Container) TokenHandler() (*tokenHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
	})
	if err := c.storeErr("tokenHandler", err); err != nil {
		return nil, err
	}
	return c.tokenHandler, nil
}

// initSigner loads the signing secret, decrypting it with KMS when configured.
func (c *Container) initSigner() (*tokenService.Signer, error) {
	secret, err := tokenService.NewSecretLoader().Load(
		context.Background(),
		c.config.SigningSecret,
		c.config.KMSKeyURI,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing secret: %w", err)
	}

	signer, err := tokenService.NewSigner(tokenService.SignerConfig{Secret: secret})
	if err != nil {
		return nil, fmt.Errorf("failed to create signer: %w", err)
	}
	return signer, nil
}

// tokenStore returns the registered store named by manage_tokens_database.
func (c *Container) tokenStore() (*database.Store, error) {
	authConfig, err := c.AuthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth config for token store: %w", err)
	}

	registry, err := c.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry for token store: %w", err)
	}

	store, err := registry.Get(authConfig.ManageTokensDatabase)
	if err != nil {
		return nil, fmt.Errorf("failed to get token store: %w", err)
	}
	return store, nil
}

// initTokenRepository selects the repository implementation from the store's driver.
func (c *Container) initTokenRepository() (tokenUseCase.TokenRepository, error) {
	store, err := c.tokenStore()
	if err != nil {
		return nil, err
	}

	switch store.Driver {
	case database.DriverSQLite:
		return tokenRepository.NewSQLiteTokenRepository(store.DB), nil
	case database.DriverPostgres:
		return tokenRepository.NewPostgreSQLTokenRepository(store.DB), nil
	case database.DriverMySQL:
		return tokenRepository.NewMySQLTokenRepository(store.DB), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", store.Driver)
	}
}

// initTokenTxManager opens transactions on the managed token store.
func (c *Container) initTokenTxManager() (database.TxManager, error) {
	store, err := c.tokenStore()
	if err != nil {
		return nil, err
	}
	return database.NewTxManager(store.DB), nil
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (tokenUseCase.TokenUseCase, error) {
	repo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	signer, err := c.Signer()
	if err != nil {
		return nil, fmt.Errorf("failed to get signer for token use case: %w", err)
	}

	privileges, err := c.PrivilegeTable()
	if err != nil {
		return nil, fmt.Errorf("failed to get privileges for token use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}

	txManager, err := c.TokenTxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for token use case: %w", err)
	}

	useCase := tokenUseCase.NewTokenUseCase(
		repo, signer, privileges, c.Logger(),
		tokenUseCase.WithTxManager(txManager),
	)
	return tokenUseCase.NewTokenUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initTokenHandler creates the token handler with actor display and store listings.
func (c *Container) initTokenHandler() (*tokenHTTP.TokenHandler, error) {
	useCase, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for token handler: %w", err)
	}

	directory, err := c.ActorDirectory()
	if err != nil {
		return nil, err
	}

	registry, err := c.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry for token handler: %w", err)
	}

	return tokenHTTP.NewTokenHandler(useCase, directory, registry, c.Logger()), nil
}
