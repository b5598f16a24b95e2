// migrate aplica el esquema embebido del motor de inventario sobre la base configurada.
//
// Uso: go run ./cmd/migrate
// Lee la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"os"
	"time"

	"github.com/jhoicas/Inventario-costeo/internal/infrastructure/postgres"
	"github.com/jhoicas/Inventario-costeo/pkg/config"
	"github.com/jhoicas/Inventario-costeo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{App: cfg.App.Name, Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name+"-migrate")
	if err != nil {
		log.Error().Err(err).Msg("conexión a PostgreSQL")
		os.Exit(1)
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		log.Error().Err(err).Msg("aplicar migraciones")
		os.Exit(1)
	}
	if len(applied) == 0 {
		log.Info().Msg("esquema al día")
		return
	}
	for _, name := range applied {
		log.Info().Str("migration", name).Msg("migración aplicada")
	}
}
