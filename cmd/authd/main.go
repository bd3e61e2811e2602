package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/goliatone/go-router"
	"github.com/rs/zerolog"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/goliatone/go-auth-verify"
)

func main() {
	zl := zerolog.New(os.Stdout).With().Timestamp().Str("app", "authd").Logger()

	opts, err := auth.LoadOptions()
	if err != nil {
		zl.Fatal().Err(err).Msg("failed to load options")
	}

	if level, err := zerolog.ParseLevel(opts.LogLevel); err == nil {
		zl = zl.Level(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, zl); err != nil {
		zl.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, opts *auth.Options, zl zerolog.Logger) error {
	logger := auth.NewZerologLogger(zl)

	db, err := withPersistence(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	repos := auth.NewRepositoryManager(db)
	repos.MustValidate()

	codec, err := auth.NewJWTCodecFromConfig(opts, auth.WithCodecLogger(logger))
	if err != nil {
		return err
	}

	store := repos.Users()

	service := auth.NewSessionService(
		store,
		auth.NewBcryptHasher(),
		codec,
		auth.WithTxRunner(repos),
		auth.WithSessionLogger(logger),
		auth.WithSessionTTL(opts.GetTokenExpiration()),
	)

	if admin, ok := opts.Admin(); ok {
		if _, err := service.BootstrapAdmin(ctx, admin); err != nil {
			return err
		}
	}

	controller := auth.NewHTTPController(
		service,
		auth.NewGuardChain(codec, store, logger),
		auth.NewCookieTransport(opts),
	).WithLogger(logger)

	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		return router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:               "authd",
			DisableStartupMessage: true,
		}))
	})
	auth.RegisterRoutes(srv.Router(), controller)

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", opts.Address, "env", opts.Environment)
		errc <- srv.Serve(opts.Address)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// withPersistence opens the database, applies the embedded migrations and
// seeds fixtures when a fixtures directory is configured.
func withPersistence(ctx context.Context, opts *auth.Options, logger auth.Logger) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, opts.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	persistence.RegisterModel((*auth.User)(nil))

	client, err := persistence.New(persistenceConfig{opts}, sqldb, sqlitedialect.New())
	if err != nil {
		return nil, err
	}

	client.RegisterSQLMigrations(auth.GetMigrationsFS())

	if err := client.Migrate(ctx); err != nil {
		return nil, err
	}

	if opts.FixturesDir != "" {
		if opts.IsProduction() {
			return nil, errors.New("database fixtures are disabled in production")
		}

		logger.Info("seeding fixtures", "dir", opts.FixturesDir)
		client.RegisterFixtures(os.DirFS(opts.FixturesDir)).AddOptions(persistence.WithTrucateTables())

		if err := client.Seed(ctx); err != nil {
			return nil, err
		}
	}

	return client.DB(), nil
}

// persistenceConfig exposes the database options to go-persistence-bun
type persistenceConfig struct {
	opts *auth.Options
}

func (c persistenceConfig) GetDebug() bool {
	return c.opts.DatabaseDebug
}

func (c persistenceConfig) GetDriver() string {
	return sqliteshim.ShimName
}

func (c persistenceConfig) GetServer() string {
	return c.opts.DatabaseDSN
}

func (c persistenceConfig) GetPingTimeout() time.Duration {
	return c.opts.DatabasePingTimeout
}

func (c persistenceConfig) GetOtelIdentifier() string {
	return "authd"
}
