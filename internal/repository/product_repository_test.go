package repository_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/xenking/order-service/internal/domain/product"
	"github.com/xenking/order-service/internal/repository"
)

type productRepositorySuite struct {
	suite.Suite

	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
	repo      *repository.ProductRepository
}

func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(productRepositorySuite))
}

func (s *productRepositorySuite) SetupSuite() {
	ctx := s.T().Context()

	var (
		connStr string
		err     error
	)
	s.container, connStr, err = startPostgres(ctx)
	s.Require().NoError(err)

	s.pool, err = newTestPool(ctx, connStr)
	s.Require().NoError(err)

	s.repo = repository.NewProductRepository(s.pool)
}

func (s *productRepositorySuite) SetupTest() {
	s.Require().NoError(truncateAll(s.T().Context(), s.pool))
}

func (s *productRepositorySuite) TearDownSuite() {
	ctx := s.T().Context()

	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		s.NoError(s.container.Terminate(ctx))
	}
}

func assertProducts(t *testing.T, expected, actual []product.Product) {
	t.Helper()

	opts := cmp.Options{
		cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) }),
		cmpopts.SortSlices(func(a, b product.Product) bool {
			return a.ID.String() < b.ID.String()
		}),
		cmpopts.EquateEmpty(),
	}
	assert.Empty(t, cmp.Diff(expected, actual, opts))
}

func (s *productRepositorySuite) TestList() {
	t := s.T()
	ctx := t.Context()

	serviceID, err := insertService(ctx, s.pool, "Security")
	require.NoError(t, err)

	p1, err := insertProduct(ctx, s.pool, serviceID, "Security")
	require.NoError(t, err)
	p2, err := insertProduct(ctx, s.pool, serviceID, "Security")
	require.NoError(t, err)

	got, err := s.repo.List(ctx)
	require.NoError(t, err)

	assertProducts(t, []product.Product{p1, p2}, got)
}

func (s *productRepositorySuite) TestList_Empty() {
	t := s.T()

	got, err := s.repo.List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func (s *productRepositorySuite) TestGetByID() {
	t := s.T()
	ctx := t.Context()

	serviceID, err := insertService(ctx, s.pool, "Backup")
	require.NoError(t, err)

	p, err := insertProduct(ctx, s.pool, serviceID, "Backup")
	require.NoError(t, err)

	got, err := s.repo.GetByID(ctx, p.ID)
	require.NoError(t, err)

	assertProducts(t, []product.Product{p}, []product.Product{*got})
}

func (s *productRepositorySuite) TestGetByID_NotFound() {
	t := s.T()

	_, err := s.repo.GetByID(t.Context(), uuid.New())
	require.ErrorIs(t, err, product.ErrNotFound)
}
