package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const createMigrationsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Migrations lista los archivos de migración embebidos en orden de aplicación.
func Migrations() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("listar migraciones: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Migrate aplica, cada una en su propia transacción, las migraciones que aún no
// figuran en schema_migrations. Devuelve las versiones aplicadas en esta corrida.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	if _, err := pool.Exec(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("crear schema_migrations: %w", err)
	}
	names, err := Migrations()
	if err != nil {
		return nil, err
	}

	applied := []string{}
	for _, name := range names {
		done, err := applyMigration(ctx, pool, name)
		if err != nil {
			return applied, err
		}
		if done {
			applied = append(applied, name)
		}
	}
	return applied, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, name string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name,
	).Scan(&exists); err != nil {
		return false, fmt.Errorf("consultar migración %s: %w", name, err)
	}
	if exists {
		return false, nil
	}

	script, err := migrationsFS.ReadFile(name)
	if err != nil {
		return false, fmt.Errorf("leer migración %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, string(script)); err != nil {
		return false, fmt.Errorf("aplicar migración %s: %w", name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
		return false, fmt.Errorf("registrar migración %s: %w", name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}
	return true, nil
}
