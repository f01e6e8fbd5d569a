package testutils

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/grogbot/dominions-bot/integration_tests/containers"
)

// TestEnvironment holds all resources needed for integration testing
type TestEnvironment struct {
	Ctx            context.Context
	CancelContext  context.CancelFunc
	PgContainer    *postgres.PostgresContainer
	NatsContainer  testcontainers.Container
	RedisContainer testcontainers.Container
	DB             *bun.DB
	PgConnStr      string
	NatsURL        string
	RedisAddr      string
}

// NewTestEnvironment starts Postgres, NATS and Redis and migrates the database.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{Ctx: ctx, CancelContext: cancel}

	if err := env.setupContainers(ctx); err != nil {
		env.Terminate()
		return nil, err
	}
	return env, nil
}

func (env *TestEnvironment) setupContainers(ctx context.Context) error {
	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer
	env.PgConnStr = pgConnStr

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer
	env.NatsURL = natsURL

	redisContainer, redisAddr, err := containers.SetupRedisContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup redis container: %w", err)
	}
	env.RedisContainer = redisContainer
	env.RedisAddr = redisAddr

	sqlDB, err := sql.Open("pgx", pgConnStr)
	if err != nil {
		return fmt.Errorf("failed to open sql DB connection: %w", err)
	}
	env.DB = bun.NewDB(sqlDB, pgdialect.New())

	if err := runMigrations(env.DB, pgConnStr); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Reset clears all rows so each test starts from an empty store.
func (env *TestEnvironment) Reset(ctx context.Context) error {
	return CleanupDatabase(ctx, env.DB)
}

// Terminate closes connections and stops every container.
func (env *TestEnvironment) Terminate() {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	ctx := context.Background()
	for name, c := range map[string]testcontainers.Container{
		"postgres": env.PgContainer,
		"nats":     env.NatsContainer,
		"redis":    env.RedisContainer,
	} {
		if c == nil {
			continue
		}
		if err := c.Terminate(ctx); err != nil {
			log.Printf("Failed to terminate %s container: %v", name, err)
		}
	}
	if env.CancelContext != nil {
		env.CancelContext()
	}
}
