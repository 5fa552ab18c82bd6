package postgres

import (
	"github.com/jmoiron/sqlx"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/migrations"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies all pending schema migrations.
func RunMigrations(db *sqlx.DB) error {
	goose.SetBaseFS(migrations.MigrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to set migration dialect").
			Mark(ierr.ErrSystem)
	}

	if err := goose.Up(db.DB, "."); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to apply schema migrations").
			Mark(ierr.ErrDatabase)
	}

	return nil
}
