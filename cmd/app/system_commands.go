package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/authtokens/cmd/app/commands"
	"github.com/allisson/authtokens/internal/app"
	"github.com/allisson/authtokens/internal/config"
	tokenService "github.com/allisson/authtokens/internal/token/service"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Create or upgrade the managed token table",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				storeConfig, err := container.TokenStoreConfig()
				if err != nil {
					return err
				}

				return commands.RunMigrations(container.Logger(), storeConfig)
			},
		},
		{
			Name:  "generate-signing-secret",
			Usage: "Generate a value for SIGNING_SECRET",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "kms-key-uri",
					Sources: cli.EnvVars("KMS_KEY_URI"),
					Usage:   "KMS key URI used to encrypt the secret (e.g., gcpkms://..., base64key://...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)

				return commands.RunGenerateSigningSecret(
					ctx,
					tokenService.NewSecretLoader(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "hash-token",
			Usage: "Hash a static token read from stdin for use as token_hash",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:    "generate",
					Aliases: []string{"g"},
					Value:   false,
					Usage:   "Generate a random token instead of reading one",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)

				return commands.RunHashToken(
					container.SecretHasher(),
					container.Logger(),
					commands.DefaultIO(),
					cmd.Bool("generate"),
				)
			},
		},
	}
}
