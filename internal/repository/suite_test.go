package repository_test

import (
	"context"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xenking/order-service/internal/domain/product"
	"github.com/xenking/order-service/internal/repository"
)

// startPostgres launches a disposable PostgreSQL container and returns it
// together with its connection string.
func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("orders_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}
	return container, connStr, nil
}

// insertService writes a service row and returns its id.
func insertService(ctx context.Context, pool *pgxpool.Pool, name string) (uuid.UUID, error) {
	id := uuid.New()
	_, err := pool.Exec(ctx, `INSERT INTO services (id, name) VALUES ($1, $2)`, id, name)
	return id, err
}

// insertProduct writes a product row built from fake data and returns it.
func insertProduct(ctx context.Context, pool *pgxpool.Pool, serviceID uuid.UUID, serviceName string) (product.Product, error) {
	p := product.Product{
		ID:          uuid.New(),
		Name:        gofakeit.ProductName(),
		UnitCost:    decimal.NewFromFloat(gofakeit.Price(0.1, 5)).Round(4),
		UnitPrice:   decimal.NewFromFloat(gofakeit.Price(5, 10)).Round(4),
		ServiceID:   serviceID,
		ServiceName: serviceName,
	}
	_, err := pool.Exec(ctx,
		`INSERT INTO products (id, name, unit_cost, unit_price, service_id) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.UnitCost, p.UnitPrice, p.ServiceID,
	)
	return p, err
}

// truncateAll wipes every mutable table between tests. Statuses seeded by
// the migration stay in place.
func truncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE TABLE order_items, orders, products, services`)
	return err
}

// newTestPool connects the production pool (with the decimal codec
// registered) and applies migrations.
func newTestPool(ctx context.Context, connStr string) (*pgxpool.Pool, error) {
	pool, err := repository.NewPool(ctx, connStr)
	if err != nil {
		return nil, err
	}
	if err := repository.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}
