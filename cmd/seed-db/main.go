// Command seed-db applies migrations and loads a service/product catalog
// into PostgreSQL. The catalog file may be plain JSON or gzip-compressed
// (detected from a .gz suffix).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-service/internal/repository"
)

type catalogJSON struct {
	Services []serviceJSON `json:"services"`
}

type serviceJSON struct {
	ID       uuid.UUID     `json:"id"`
	Name     string        `json:"name"`
	Products []productJSON `json:"products"`
}

type productJSON struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	UnitCost  decimal.Decimal `json:"unitCost"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func main() {
	var (
		databaseURL string
		catalogFile string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&catalogFile, "catalog-file", "db/seed/catalog.json", "path to catalog JSON file (.gz supported)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, catalogFile); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, catalogFile string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	catalog, err := readCatalog(catalogFile)
	if err != nil {
		return errors.Wrap(err, "read catalog")
	}

	return seedCatalog(ctx, pool, catalog)
}

func readCatalog(path string) (*catalogJSON, error) {
	slog.Info("reading catalog file", slog.String("path", path))

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog file")
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, "create gzip reader")
		}
		defer gz.Close()
		r = gz
	}

	var catalog catalogJSON
	if err := json.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, errors.Wrap(err, "parse catalog JSON")
	}
	return &catalog, nil
}

const (
	upsertServiceSQL = `
INSERT INTO services (id, name)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE SET name = excluded.name`

	upsertProductSQL = `
INSERT INTO products (id, name, unit_cost, unit_price, service_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    name       = excluded.name,
    unit_cost  = excluded.unit_cost,
    unit_price = excluded.unit_price,
    service_id = excluded.service_id`
)

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, catalog *catalogJSON) error {
	slog.Info("upserting catalog",
		slog.Int("services", len(catalog.Services)))

	for _, svc := range catalog.Services {
		if _, err := pool.Exec(ctx, upsertServiceSQL, svc.ID, svc.Name); err != nil {
			return errors.Wrapf(err, "upsert service %s", svc.ID)
		}
		slog.Info("upserted service", slog.String("id", svc.ID.String()), slog.String("name", svc.Name))

		for _, p := range svc.Products {
			if _, err := pool.Exec(ctx, upsertProductSQL,
				p.ID, p.Name, p.UnitCost, p.UnitPrice, svc.ID,
			); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.ID)
			}
			slog.Info("upserted product", slog.String("id", p.ID.String()), slog.String("name", p.Name))
		}
	}

	return nil
}
