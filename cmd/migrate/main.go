// Aplica las migraciones embebidas y termina.
package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/dropDatabas3/clientdesk/internal/observability/logger"
	"github.com/dropDatabas3/clientdesk/internal/store"
	migrations "github.com/dropDatabas3/clientdesk/migrations/postgres"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.L().Fatal("migrate_missing_dsn", logger.String("hint", "definir DATABASE_URL"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.L().Fatal("pg_connect_failed", logger.Err(err))
	}
	defer pool.Close()

	m := store.NewMigrator(migrations.FS, migrations.Dir)
	res, err := m.Run(ctx, pool)
	if err != nil {
		logger.L().Fatal("migrate_failed", logger.Err(err))
	}

	logger.L().Info("migrate_done",
		logger.Any("applied", res.Applied),
		logger.Any("skipped", res.Skipped),
		logger.Duration(res.Duration),
	)
}
