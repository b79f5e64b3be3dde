// seed carga catálogo y existencias iniciales desde un CSV exportado de la hoja de inventario.
//
// Uso: go run ./cmd/seed -file inventario.csv [-latin1] [-dry-run]
// Columnas: id;nombre;precio;almacenId;almacenNombre;cantidad[;imagenUrl]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Ventas-api/internal/application/stock"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Ventas-api/pkg/config"
	"github.com/jhoicas/Ventas-api/pkg/logger"
	"github.com/jhoicas/Ventas-api/pkg/metrics"
)

func main() {
	file := flag.String("file", "inventario.csv", "ruta del CSV")
	latin1 := flag.Bool("latin1", false, "decodificar el CSV desde ISO-8859-1")
	dryRun := flag.Bool("dry-run", false, "solo validar el CSV, sin escribir")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := parseRows(f, *latin1)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	log.Info().Int("filas", len(rows)).Msg("CSV leído")
	if *dryRun {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, postgres.PoolOptions{MaxConns: 2, MinConns: 1}, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tx := postgres.NewTxRunner(pool, cfg.Storage.TxMaxAttempts, log.Component("tx"), metrics.New("seed"))
	res, err := stock.NewLoadUseCase(tx, log.Component("stock")).Load(ctx, rows)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar existencias")
	}
	log.Info().Int("filas", res.Rows).Int("ajustes", res.Adjustments).Msg("carga completada")
}
