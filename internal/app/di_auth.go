package app

import (
	"fmt"

	authHTTP "github.com/allisson/authtokens/internal/auth/http"
	authService "github.com/allisson/authtokens/internal/auth/service"
	authUseCase "github.com/allisson/authtokens/internal/auth/usecase"
)

// SecretHasher returns the Argon2id hasher used for hashed static tokens.
func (c *Container) SecretHasher() authService.SecretHasher {
	c.secretHasherInit.Do(func() {
		c.secretHasher = authService.NewSecretHasher()
	})
	return c.secretHasher
}

// StaticAuthenticator returns the authenticator over the configured static token list.
func (c *Container) StaticAuthenticator() (*authService.StaticAuthenticator, error) {
	var err error
	c.staticAuthenticatorInit.Do(func() {
		c.staticAuthenticator, err = c.initStaticAuthenticator()
	})
	if err := c.storeErr("staticAuthenticator", err); err != nil {
		return nil, err
	}
	return c.staticAuthenticator, nil
}

// QueryAuthenticator returns the external query authenticator, or nil when no query is configured.
func (c *Container) QueryAuthenticator() (*authService.QueryAuthenticator, error) {
	var err error
	c.queryAuthenticatorInit.Do(func() {
		c.queryAuthenticator, err = c.initQueryAuthenticator()
	})
	if err := c.storeErr("queryAuthenticator", err); err != nil {
		return nil, err
	}
	return c.queryAuthenticator, nil
}

// PrivilegeTable returns the privilege grants from the auth config.
func (c *Container) PrivilegeTable() (*authService.PrivilegeTable, error) {
	var err error
	c.privilegeTableInit.Do(func() {
		authConfig, cfgErr := c.AuthConfig()
		if cfgErr != nil {
			err = fmt.Errorf("failed to get auth config for privilege table: %w", cfgErr)
			return
		}
		c.privilegeTable = authService.NewPrivilegeTable(authConfig.Privileges)
	})
	if err := c.storeErr("privilegeTable", err); err != nil {
		return nil, err
	}
	return c.privilegeTable, nil
}

// ActorDirectory returns the display attributes of the actors named in the auth config.
func (c *Container) ActorDirectory() (*authService.ActorDirectory, error) {
	var err error
	c.actorDirectoryInit.Do(func() {
		authConfig, cfgErr := c.AuthConfig()
		if cfgErr != nil {
			err = fmt.Errorf("failed to get auth config for actor directory: %w", cfgErr)
			return
		}
		c.actorDirectory = authService.NewActorDirectory(authConfig.KnownActors()...)
	})
	if err := c.storeErr("actorDirectory", err); err != nil {
		return nil, err
	}
	return c.actorDirectory, nil
}

// Resolver returns the credential resolver for the configured strategy, with metrics.
func (c *Container) Resolver() (authUseCase.Resolver, error) {
	var err error
	c.resolverInit.Do(func() {
		c.resolver, err = c.initResolver()
	})
	if err := c.storeErr("resolver", err); err != nil {
		return nil, err
	}
	return c.resolver, nil
}

// ActorHandler returns the actor introspection handler.
func (c *Container) ActorHandler() *authHTTP.ActorHandler {
	c.actorHandlerInit.Do(func() {
		c.actorHandler = authHTTP.NewActorHandler(c.Logger())
	})
	return c.actorHandler
}

// initStaticAuthenticator creates the static authenticator from the auth config.
func (c *Container) initStaticAuthenticator() (*authService.StaticAuthenticator, error) {
	authConfig, err := c.AuthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth config for static authenticator: %w", err)
	}
	return authService.NewStaticAuthenticator(authConfig.StaticTokens(), c.SecretHasher()), nil
}

// initQueryAuthenticator creates the query authenticator when a query is configured.
func (c *Container) initQueryAuthenticator() (*authService.QueryAuthenticator, error) {
	authConfig, err := c.AuthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth config for query authenticator: %w", err)
	}

	source := authConfig.QuerySource()
	if source == nil {
		return nil, nil
	}

	registry, err := c.Registry()
	if err != nil {
		return nil, fmt.Errorf("failed to get registry for query authenticator: %w", err)
	}
	if _, err := registry.Get(source.Store); err != nil {
		return nil, fmt.Errorf("query database: %w", err)
	}

	return authService.NewQueryAuthenticator(*source, registry), nil
}

// initResolver assembles the authenticators the configured strategy dispatches to.
func (c *Container) initResolver() (authUseCase.Resolver, error) {
	logger := c.Logger()

	authConfig, err := c.AuthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth config for resolver: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for resolver: %w", err)
	}

	var deps authUseCase.ResolverDeps
	if authConfig.ManageTokens {
		tokenUseCase, err := c.TokenUseCase()
		if err != nil {
			return nil, fmt.Errorf("failed to get token use case for resolver: %w", err)
		}
		deps.Managed = tokenUseCase
	} else {
		static, err := c.StaticAuthenticator()
		if err != nil {
			return nil, err
		}
		if static.Len() > 0 {
			deps.Static = static
		}

		query, err := c.QueryAuthenticator()
		if err != nil {
			return nil, err
		}
		if query != nil {
			deps.Query = query
		}
	}

	strategy := authConfig.Strategy()
	logger.Info("credential resolution configured", "strategy", strategy.String())

	resolver := authUseCase.NewResolver(strategy, deps, logger)
	return authUseCase.NewResolverWithMetrics(resolver, businessMetrics), nil
}
