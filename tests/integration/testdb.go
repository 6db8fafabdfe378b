// Package integration holds tests that exercise the persistence layer
// against a real PostgreSQL instance started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	mpg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/identity"
	"github.com/retailpos/backend/internal/domain/shared/valueobject"
)

// TestDB wraps a disposable PostgreSQL container with an open GORM handle
type TestDB struct {
	DB        *gorm.DB
	SqlDB     *sql.DB
	Container testcontainers.Container
	DSN       string
	t         *testing.T
}

// NewTestDB starts a fresh PostgreSQL container, applies all migrations
// and registers cleanup with the test.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("retailpos_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get connection string")

	db, sqlDB := connect(t, dsn)
	runMigrations(t, sqlDB)

	tdb := &TestDB{
		DB:        db,
		SqlDB:     sqlDB,
		Container: container,
		DSN:       dsn,
		t:         t,
	}

	t.Cleanup(func() {
		if tdb.SqlDB != nil {
			_ = tdb.SqlDB.Close()
		}
		if err := tdb.Container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	return tdb
}

// CleanTables truncates all data tables, keeping the schema in place
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	for _, table := range []string{"sale_items", "sales", "products", "categories", "users"} {
		err := tdb.DB.Exec("TRUNCATE TABLE " + table + " CASCADE").Error
		require.NoError(tdb.t, err, "Failed to truncate %s", table)
	}
}

// SeedCategory inserts a category and returns it
func (tdb *TestDB) SeedCategory(name string) *catalog.Category {
	tdb.t.Helper()

	category, err := catalog.NewCategory(name, "")
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, tdb.DB.Create(category).Error)
	return category
}

// SeedProduct inserts an active product with the given price and stock
func (tdb *TestDB) SeedProduct(categoryID uuid.UUID, name, price string, stock int) *catalog.Product {
	tdb.t.Helper()

	money := valueobject.NewMoneyUSD(decimal.RequireFromString(price))
	product, err := catalog.NewProduct(name, categoryID, money, stock)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, tdb.DB.Create(product).Error)
	return product
}

// SeedCustomer inserts a customer account
func (tdb *TestDB) SeedCustomer(username string) *identity.User {
	tdb.t.Helper()

	user, err := identity.NewCustomer(username, username+"@example.com", "integration-pass")
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, tdb.DB.Create(user).Error)
	return user
}

// SeedStaff inserts a user with the given staff role
func (tdb *TestDB) SeedStaff(username string, role identity.Role) *identity.User {
	tdb.t.Helper()

	user, err := identity.NewUser(username, username+"@example.com", "integration-pass", role)
	require.NoError(tdb.t, err)
	require.NoError(tdb.t, tdb.DB.Create(user).Error)
	return user
}

// ProductStock reads the current stock of a product straight from the table
func (tdb *TestDB) ProductStock(productID uuid.UUID) int {
	tdb.t.Helper()

	var stock int
	err := tdb.DB.Raw("SELECT stock FROM products WHERE id = ?", productID).Scan(&stock).Error
	require.NoError(tdb.t, err)
	return stock
}

func connect(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig)
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err, "Failed to get underlying SQL DB")

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, sqlDB
}

func runMigrations(t *testing.T, sqlDB *sql.DB) {
	t.Helper()

	migrationsPath := findMigrationsPath()
	require.NotEmpty(t, migrationsPath, "Could not find migrations directory")

	driver, err := mpg.WithInstance(sqlDB, &mpg.Config{})
	require.NoError(t, err, "Failed to create migration driver")

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	require.NoError(t, err, "Failed to create migrate instance")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to run migrations")
	}
}

func findMigrationsPath() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "migrations")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}
	return ""
}
