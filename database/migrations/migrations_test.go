package migrations

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestRunAppliesAllStepsOnce(t *testing.T) {
	db := openTestDB(t)

	done, err := Run(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001", "0002", "0003", "0004", "0005"}, done)

	for _, table := range []string{"enterprises", "users", "cards", "license_requests", "connections"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex("cards", "idx_cards_main_per_user"))

	again, err := Run(db)
	require.NoError(t, err)
	assert.Empty(t, again)

	var count int64
	require.NoError(t, db.Model(&SchemaMigration{}).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}

func TestRunStopsAtFailingStep(t *testing.T) {
	db := openTestDB(t)

	steps := []Migration{
		{Version: "0001", Name: "enterprises", Up: MigrateEnterprisesTable},
		{Version: "0002", Name: "broken", Up: func(tx *gorm.DB) error { return fmt.Errorf("bozuk adım") }},
		{Version: "0003", Name: "cards", Up: MigrateCardsTable},
	}
	done, err := run(db, steps)
	require.Error(t, err)
	assert.Equal(t, []string{"0001"}, done)

	applied, err := Applied(db)
	require.NoError(t, err)
	assert.True(t, applied["0001"])
	assert.False(t, applied["0002"])
	assert.False(t, applied["0003"])
}
