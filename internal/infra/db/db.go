package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"time"

	"quizsalon/internal/infra/logger"

	_ "github.com/jackc/pgx/v5/stdlib"      // Driver "pgx" (Postgres)
	_ "github.com/ncruces/go-sqlite3/driver" // Driver SQLite via Wazero (Pure Go)
	_ "github.com/ncruces/go-sqlite3/embed"  // Embed binary
)

// Drivers suportados
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

//go:embed migrations
var migrationsFS embed.FS

// Open abre uma conexão com o banco de dados do driver informado.
func Open(driver, dsn string) (*sql.DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("driver de banco não suportado: %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		logger.Error("Falha ao abrir conexão com banco de dados", "erro", err)
		return nil, err
	}

	if driver == DriverSQLite {
		// SQLite aceita um único escritor
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Falha ao conectar com banco de dados (ping)", "erro", err)
		db.Close()
		return nil, err
	}

	logger.Info("Conectado ao banco de dados com sucesso", "driver", driver)
	return db, nil
}

// Migrate aplica, em ordem lexical, as migrações embutidas do driver que
// ainda não constam em schema_migrations.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	dir := path.Join("migrations", "sqlite")
	insert := "INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)"
	if driver == DriverPostgres {
		dir = path.Join("migrations", "postgres")
		insert = "INSERT INTO schema_migrations (version, applied_at) VALUES ($1, $2)"
	}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMP NOT NULL
	)`); err != nil {
		return fmt.Errorf("erro ao criar schema_migrations: %w", err)
	}

	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}

	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return fmt.Errorf("erro ao ler diretório migrations: %w", err)
	}

	var filenames []string
	for _, e := range entries {
		if path.Ext(e.Name()) == ".sql" {
			filenames = append(filenames, e.Name())
		}
	}
	sort.Strings(filenames)

	for _, filename := range filenames {
		if applied[filename] {
			continue
		}
		content, err := migrationsFS.ReadFile(path.Join(dir, filename))
		if err != nil {
			return fmt.Errorf("erro ao ler %s: %w", filename, err)
		}

		logger.Info("Executando migração", "arquivo", filename)
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("erro ao executar %s: %w", filename, err)
		}
		if _, err := db.ExecContext(ctx, insert, filename, time.Now().UTC()); err != nil {
			return fmt.Errorf("erro ao registrar %s: %w", filename, err)
		}
	}
	return nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("erro ao ler schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}
