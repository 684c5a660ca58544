package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edushare/internal/domain"
	apperrors "edushare/internal/errors"
	"edushare/internal/testutil"
)

// Unit Tests

func TestNewMySQLRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func seedProducts(t *testing.T, db *sql.DB) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO Product (id, name, description, price, stock, category, imageUrl, createdAt, updatedAt)
		VALUES (1, 'Fractions Workbook', 'Desc 1', 10.00, 100, 'math', NULL, '2026-01-01 00:00:00', '2026-01-01 00:00:00'),
		       (2, 'Grammar Cards', 'Desc 2', 25.00, 0, 'language', NULL, '2026-01-02 00:00:00', '2026-01-02 00:00:00'),
		       (3, 'Geometry Kit', 'Desc 3', 30.00, 25, 'math', NULL, '2026-01-03 00:00:00', '2026-01-03 00:00:00')
	`)
	require.NoError(t, err)
}

func TestRepository_FindByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)
	seedProducts(t, db)

	repo := NewMySQLRepository(db)

	p, err := repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Fractions Workbook", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 100, p.Stock)
	assert.Equal(t, "", p.ImageURL)
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	p, err := repo.FindByID(context.Background(), 9999)
	assert.Nil(t, p)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestRepository_FindAll_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)
	seedProducts(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()

	all, err := repo.FindAll(ctx, domain.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 3, all[0].ID, "newest first")

	math, err := repo.FindAll(ctx, domain.ProductFilter{Category: "math"})
	require.NoError(t, err)
	assert.Len(t, math, 2)

	minPrice := decimal.NewFromInt(20)
	maxPrice := decimal.NewFromInt(28)
	ranged, err := repo.FindAll(ctx, domain.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, 2, ranged[0].ID)

	limited, err := repo.FindAll(ctx, domain.ProductFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRepository_FindByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)
	seedProducts(t, db)

	repo := NewMySQLRepository(db)

	products, err := repo.FindByIDs(context.Background(), []int{3, 1, 42})
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 1, products[0].ID)
	assert.Equal(t, 3, products[1].ID)
}

func TestRepository_FindByIDs_EmptyList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)

	products, err := repo.FindByIDs(context.Background(), []int{})
	require.NoError(t, err)
	assert.Nil(t, products)
}

func TestRepository_CreateUpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLRepository(db)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	created, err := repo.Create(ctx, &domain.Product{
		Name:      "Reading Log",
		Price:     decimal.RequireFromString("4.50"),
		Stock:     3,
		Category:  "language",
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "4.5", created.Price.String())

	stock := 0
	updated, err := repo.Update(ctx, created.ID, domain.ProductPatch{Stock: &stock, UpdatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.Equal(t, "Reading Log", updated.Name)

	require.NoError(t, repo.Delete(ctx, created.ID))

	err = repo.Delete(ctx, created.ID)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
