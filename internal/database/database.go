package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/afero"
	"github.com/surrealdb/surrealdb.go"

	"github.com/nfrund/accounttabs/internal/config"
	"github.com/nfrund/accounttabs/internal/domain"
)

// Supported values for DB_DRIVER.
const (
	DriverMemory  = "memory"
	DriverFile    = "file"
	DriverSurreal = "surreal"
)

// Closer releases the resources behind a repository.
type Closer func(ctx context.Context) error

func noopCloser(context.Context) error { return nil }

// NewDB creates and configures a new SurrealDB connection.
func NewDB(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.GetDBUrl())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to surrealdb: %w", err)
	}

	authData := &surrealdb.Auth{
		Username: cfg.GetDBUser(),
		Password: cfg.GetDBPass(),
	}

	if _, err = db.SignIn(ctx, authData); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	if err = db.Use(ctx, cfg.GetDBNs(), cfg.GetDBDb()); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/db: %w", err)
	}

	slog.Info("Successfully signed in to SurrealDB", "ns", cfg.GetDBNs(), "db", cfg.GetDBDb())
	return db, nil
}

// Open returns the account repository selected by DB_DRIVER.
func Open(ctx context.Context, cfg config.Provider) (domain.AccountRepository, Closer, error) {
	switch cfg.GetDBDriver() {
	case DriverMemory, "":
		slog.Info("Using in-memory account store")
		return NewFileStore(afero.NewMemMapFs(), "accounts.json"), noopCloser, nil
	case DriverFile:
		slog.Info("Using file account store", "path", cfg.GetDataFile())
		return NewFileStore(afero.NewOsFs(), cfg.GetDataFile()), noopCloser, nil
	case DriverSurreal:
		db, err := NewDB(ctx, cfg)
		if err != nil {
			return nil, nil, oops.Code("DB_CONNECT_FAILED").With("url", cfg.GetDBUrl()).Wrap(err)
		}
		return NewSurrealStore(db), func(ctx context.Context) error { return db.Close(ctx) }, nil
	default:
		return nil, nil, oops.Code("DB_UNKNOWN_DRIVER").
			With("driver", cfg.GetDBDriver()).
			Errorf("unknown database driver %q", cfg.GetDBDriver())
	}
}
