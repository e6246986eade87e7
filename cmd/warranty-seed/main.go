package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/pribylovaa/warranty-api/internal/config"
	"github.com/pribylovaa/warranty-api/internal/seed"
	"github.com/pribylovaa/warranty-api/internal/service"
	"github.com/pribylovaa/warranty-api/internal/storage/postgres"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	var configPath string
	app := &cli.App{
		Name:  "warranty-seed",
		Usage: "Maintenance tasks for the warranty database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to config file (same as warranty-api)",
				EnvVars:     []string{"CONFIG_PATH"},
				Destination: &configPath,
			},
		},
		Commands: []*cli.Command{
			migrateCmd(&configPath, log),
			seedCmd(&configPath, log),
		},
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Error("command_failed", slog.String("err", err.Error()))
		cancel()
		os.Exit(1)
	}
}

// connect открывает пул и при необходимости накатывает миграции.
func connect(ctx context.Context, configPath string, migrate bool) (*config.Config, *postgres.Storage, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	str, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	if migrate {
		if err := postgres.Migrate(ctx, str.Pool()); err != nil {
			str.Close()
			return nil, nil, err
		}
	}

	return cfg, str, nil
}

func migrateCmd(configPath *string, log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply embedded schema migrations",
		Action: func(c *cli.Context) error {
			_, str, err := connect(c.Context, *configPath, true)
			if err != nil {
				return err
			}
			defer str.Close()

			log.Info("migrations_applied")
			return nil
		},
	}
}

func seedCmd(configPath *string, log *slog.Logger) *cli.Command {
	def := seed.DefaultCounts()
	counts := def
	var fakerSeed uint64

	intFlag := func(name string, dst *int, value int) cli.Flag {
		return &cli.IntFlag{
			Name:        name,
			Usage:       fmt.Sprintf("number of %s to create", name),
			Value:       value,
			Destination: dst,
		}
	}

	return &cli.Command{
		Name:  "seed",
		Usage: "Fill the database with fake data (migrations are applied first)",
		Flags: []cli.Flag{
			intFlag("locations", &counts.Locations, def.Locations),
			intFlag("suppliers", &counts.Suppliers, def.Suppliers),
			intFlag("parts", &counts.Parts, def.Parts),
			intFlag("purchases", &counts.Purchases, def.Purchases),
			intFlag("users", &counts.Users, def.Users),
			intFlag("vehicles", &counts.Vehicles, def.Vehicles),
			intFlag("warranties", &counts.Warranties, def.Warranties),
			&cli.Uint64Flag{
				Name:        "seed",
				Usage:       "faker seed for reproducible data (0 = random)",
				Destination: &fakerSeed,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, str, err := connect(c.Context, *configPath, true)
			if err != nil {
				return err
			}
			defer str.Close()

			s := seed.New(str, service.NewBcryptHasher(cfg.Auth.BcryptCost), fakerSeed, log)
			rep, err := s.Run(c.Context, counts)
			if err != nil {
				return err
			}

			log.Info("database_seeded",
				slog.Int("locations", len(rep.Locations)),
				slog.Int("suppliers", len(rep.Suppliers)),
				slog.Int("parts", len(rep.Parts)),
				slog.Int("purchases", len(rep.Purchases)),
				slog.Int("users", len(rep.Users)),
				slog.Int("vehicles", len(rep.Vehicles)),
				slog.Int("warranties", len(rep.Warranties)),
			)
			return nil
		},
	}
}
