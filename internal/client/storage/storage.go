// Package storage opens the local sqlite database and wires up the
// repositories living in it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/apetrukhin/blogctl/internal/client/migrations"
	"github.com/apetrukhin/blogctl/internal/client/repositories/prefs"
)

type Repositories struct {
	Prefs prefs.Repository
	DB    *sql.DB
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if necessary) the preferences database at dsn,
// migrates it, and returns the repositories bound to it.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Prefs: prefs.NewSQLiteRepository(db),
		DB:    db,
	}, nil
}
