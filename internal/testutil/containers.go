// Package testutil sobe as dependências reais (Redis, Postgres) em containers
// para os testes de integração. Só roda com QUIZSALON_INTEGRATION=1.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizsalon/internal/infra/db"

	"github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

// RequireIntegration pula o teste se a integração não estiver habilitada.
func RequireIntegration(t testing.TB) {
	t.Helper()
	if os.Getenv("QUIZSALON_INTEGRATION") != "1" {
		t.Skip("defina QUIZSALON_INTEGRATION=1 para rodar testes com containers")
	}
}

// SilentLogger devolve um logger que só mostra erros.
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// SQLite abre um banco SQLite migrado num diretório temporário do teste.
func SQLite(t testing.TB) *sql.DB {
	t.Helper()
	conn, err := db.Open(db.DriverSQLite, filepath.Join(t.TempDir(), "quizsalon.db"))
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(context.Background(), conn, db.DriverSQLite); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

// Redis sobe um container Redis e devolve um cliente conectado.
func Redis(t testing.TB) *redis.Client {
	t.Helper()
	RequireIntegration(t)
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = tc.TerminateContainer(container) })

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:        endpoint,
		DialTimeout: 5 * time.Second,
	})
	t.Cleanup(func() { client.Close() })

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		t.Fatalf("failed to ping redis: %v", err)
	}
	return client
}

// Postgres sobe um container Postgres, aplica as migrações e devolve a conexão (driver pgx).
func Postgres(t testing.TB) *sql.DB {
	t.Helper()
	RequireIntegration(t)
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("quizsalon"),
		tcpostgres.WithUsername("quizsalon"),
		tcpostgres.WithPassword("quizsalon"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = tc.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	conn, err := db.Open(db.DriverPostgres, dsn)
	if err != nil {
		t.Fatalf("failed to open postgres: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.Migrate(ctx, conn, db.DriverPostgres); err != nil {
		t.Fatalf("failed to migrate postgres: %v", err)
	}
	return conn
}

// NATS sobe um container NATS e devolve a URL do servidor.
func NATS(t testing.TB) string {
	t.Helper()
	RequireIntegration(t)
	ctx := context.Background()

	container, err := tc.Run(ctx, "nats:2.10-alpine",
		tc.WithExposedPorts("4222/tcp"),
		tc.WithWaitStrategy(wait.ForLog("Server is ready").WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start nats container: %v", err)
	}
	t.Cleanup(func() { _ = tc.TerminateContainer(container) })

	url, err := container.PortEndpoint(ctx, "4222/tcp", "nats")
	if err != nil {
		t.Fatalf("failed to get nats endpoint: %v", err)
	}
	return url
}
