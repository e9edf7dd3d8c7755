// Package cmd provides common initialization functions for the command-line
// binary.
package cmd

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/manishsingh1309/ai-planet/pkg/persistence"
	"github.com/manishsingh1309/ai-planet/pkg/persistence/file"
	"github.com/manishsingh1309/ai-planet/pkg/persistence/postgresql"
)

// NewPersistence selects the persistence backend from the database URL
// scheme. Postgres URLs also yield the shared *sql.DB handle so the vector
// store can reuse the connection pool; the file backend returns a nil handle.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, *sql.DB, error) {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			return nil, nil, err
		}

		return p, p.DB(), nil
	}

	return file.NewPersistence(databaseURL), nil, nil
}
