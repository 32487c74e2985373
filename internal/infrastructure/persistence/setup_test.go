package persistence

import (
	"testing"
	"time"

	"github.com/carehouse/backend/internal/domain/directory"
	"github.com/carehouse/backend/internal/domain/finance"
	"github.com/carehouse/backend/internal/domain/shared/valueobject"
	"github.com/carehouse/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory SQLite database with every table migrated.
// One connection keeps transactions and plain queries on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func testDay(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestEntry(t *testing.T, date, amount string, houseID, codeID uuid.UUID) *finance.RevenueEntry {
	t.Helper()
	entry, err := finance.NewRevenueEntry(finance.RevenueEntryParams{
		Date:          testDay(date),
		Amount:        valueobject.MustMoney(amount),
		HouseID:       houseID,
		ServiceCodeID: codeID,
	})
	require.NoError(t, err)
	return entry
}

func newTestStaff(t *testing.T, name string) *directory.Staff {
	t.Helper()
	s, err := directory.NewStaff(name, "counselor")
	require.NoError(t, err)
	return s
}
