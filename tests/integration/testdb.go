// Package integration runs the carehouse backend against a real PostgreSQL
// database started with testcontainers.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/carehouse/backend/internal/infrastructure/migration"
	"github.com/carehouse/backend/migrations"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// One migrated container serves the whole package; each test gets its own pool.
var sharedDB struct {
	sync.Mutex
	container *tcpostgres.PostgresContainer
	dsn       string
}

// TestDB is a connection to the shared, migrated database
type TestDB struct {
	DB    *gorm.DB
	SqlDB *sql.DB
	t     *testing.T
}

// NewSharedTestDB starts the package container on first use, applies the embedded
// migrations once and returns a fresh connection closed at test cleanup.
// Tests must leave the tables clean for the next one, e.g. with CleanTables.
func NewSharedTestDB(t *testing.T) *TestDB {
	t.Helper()

	sharedDB.Lock()
	if sharedDB.container == nil {
		ctx := context.Background()
		container, err := tcpostgres.Run(ctx,
			"postgres:16-alpine",
			tcpostgres.WithDatabase("carehouse_test"),
			tcpostgres.WithUsername("postgres"),
			tcpostgres.WithPassword("carehouse"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second)),
		)
		if err != nil {
			sharedDB.Unlock()
			require.NoError(t, err, "Failed to start PostgreSQL container")
		}
		dsn, err := container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			sharedDB.Unlock()
			require.NoError(t, err, "Failed to get connection string")
		}
		sharedDB.container, sharedDB.dsn = container, dsn

		_, sqlDB := connect(t, dsn)
		m, err := migration.New(sqlDB, migrations.FS, nil)
		if err == nil {
			err = m.Up()
		}
		_ = sqlDB.Close()
		if err != nil {
			sharedDB.Unlock()
			require.NoError(t, err, "Failed to migrate test database")
		}
	}
	dsn := sharedDB.dsn
	sharedDB.Unlock()

	db, sqlDB := connect(t, dsn)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return &TestDB{DB: db, SqlDB: sqlDB, t: t}
}

// CleanTables truncates every table except the migration bookkeeping
func (tdb *TestDB) CleanTables() {
	tdb.t.Helper()

	var tables []string
	err := tdb.DB.Raw(`SELECT tablename FROM pg_tables WHERE schemaname = 'public' AND tablename != 'schema_migrations'`).
		Scan(&tables).Error
	require.NoError(tdb.t, err, "Failed to list tables")
	for _, table := range tables {
		require.NoError(tdb.t, tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %q CASCADE", table)).Error)
	}
}

func connect(t *testing.T, dsn string) (*gorm.DB, *sql.DB) {
	t.Helper()

	level := logger.Silent
	if os.Getenv("TEST_DB_DEBUG") != "" {
		level = logger.Info
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(level),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err, "Failed to connect to database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	return db, sqlDB
}

// CleanupSharedContainer terminates the package container. Call it from TestMain.
func CleanupSharedContainer() {
	sharedDB.Lock()
	defer sharedDB.Unlock()
	if sharedDB.container == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_ = sharedDB.container.Terminate(ctx)
	sharedDB.container, sharedDB.dsn = nil, ""
}
