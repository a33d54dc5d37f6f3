package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"kartvizit.link/database/migrations"
	"kartvizit.link/models"

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
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	_, err = migrations.Run(db)
	require.NoError(t, err)
	return db
}

func seedEnterpriseUser(t *testing.T, db *gorm.DB, email string) (*models.Enterprise, *models.User) {
	t.Helper()
	ctx := context.Background()
	ent := &models.Enterprise{Name: "Firma", LicenseCount: 5, SubLicenseCount: 5}
	require.NoError(t, NewEnterpriseRepository(db).Create(ctx, ent))
	entID := ent.ID
	user := &models.User{Name: "Kişi", Email: email, PasswordHash: "x", Role: models.RoleStaff, EnterpriseID: &entID}
	require.NoError(t, NewUserRepository(db).Create(ctx, user))
	return ent, user
}

func TestMainCardPartialUniqueIndex(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ent, user := seedEnterpriseUser(t, db, "kisi@example.com")
	cards := NewCardRepository(db)

	mainCard := &models.Card{UserID: &user.ID, EnterpriseID: &ent.ID, Slug: "kisi-ana"}
	require.NoError(t, cards.Create(ctx, mainCard))

	err := cards.Create(ctx, &models.Card{UserID: &user.ID, EnterpriseID: &ent.ID, Slug: "kisi-ikinci"})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	product := &models.Card{UserID: &user.ID, EnterpriseID: &ent.ID, Slug: "kisi-urun", ParentID: &mainCard.ID}
	require.NoError(t, cards.Create(ctx, product))

	err = cards.Create(ctx, &models.Card{EnterpriseID: &ent.ID, Slug: "kisi-urun"})
	assert.True(t, IsUniqueViolation(err), "slug benzersiz olmalı")

	detached, err := cards.DetachByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detached)

	// Sahipsiz ana kart yeni ana kartı engellemez.
	require.NoError(t, cards.Create(ctx, &models.Card{UserID: &user.ID, EnterpriseID: &ent.ID, Slug: "kisi-yeni"}))

	count, err := cards.CountProductCardsByEnterprise(ctx, ent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	found, err := cards.FindMainCardByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "kisi-yeni", found.Slug)

	moved, err := cards.RescopeByUserID(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moved)
	assert.Nil(t, mustCard(t, cards, found.ID).EnterpriseID)
}

func mustCard(t *testing.T, repo ICardRepository, id uint) *models.Card {
	t.Helper()
	card, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	return card
}

func TestMarkHandledOnlyOnce(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ent, user := seedEnterpriseUser(t, db, "talep@example.com")
	repo := NewLicenseRequestRepository(db)

	req := &models.LicenseRequest{
		EnterpriseID:      ent.ID,
		RequestedByUserID: user.ID,
		RequestType:       models.LicenseRequestSub,
		Amount:            5,
		Status:            models.LicenseRequestPending,
	}
	require.NoError(t, repo.Create(ctx, req))

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ok, err := repo.MarkHandled(ctx, req.ID, models.LicenseRequestApproved, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkHandled(ctx, req.ID, models.LicenseRequestRejected, at)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.FindByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LicenseRequestApproved, stored.Status)
	require.NotNil(t, stored.HandledAt)

	pending, err := repo.List(ctx, LicenseRequestFilter{EnterpriseID: ent.ID, Status: models.LicenseRequestPending})
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestIncrementCapacity(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ent, _ := seedEnterpriseUser(t, db, "kapasite@example.com")
	repo := NewEnterpriseRepository(db)

	require.NoError(t, repo.IncrementCapacity(ctx, ent.ID, ColumnSubLicenseCount, 3))
	stored, err := repo.FindByID(ctx, ent.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.SubLicenseCount)
	assert.Equal(t, 5, stored.LicenseCount)

	assert.Error(t, repo.IncrementCapacity(ctx, ent.ID, "name", 1))
	assert.ErrorIs(t, repo.IncrementCapacity(ctx, 9999, ColumnLicenseCount, 1), ErrNotFound)
}

func TestUserAggregates(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	ent, first := seedEnterpriseUser(t, db, "bir@example.com")
	users := NewUserRepository(db)

	require.NoError(t, users.Update(ctx, first.ID, map[string]interface{}{"sub_license_count": 2}))
	entID := ent.ID
	second := &models.User{Name: "İki", Email: "iki@example.com", PasswordHash: "x", Role: models.RoleStaff, EnterpriseID: &entID, SubLicenseCount: 3, AssignedAdminID: &first.ID}
	require.NoError(t, users.Create(ctx, second))

	sum, err := users.SumSubLicensesByEnterprise(ctx, ent.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum)

	sum, err = users.SumSubLicensesByEnterprise(ctx, ent.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum)

	n, err := users.CountByEnterprise(ctx, ent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	exists, err := users.EmailExists(ctx, " IKI@example.com ")
	require.NoError(t, err)
	assert.True(t, exists)

	cleared, err := users.ClearAssignedAdmin(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	assert.ErrorIs(t, users.Update(ctx, 9999, map[string]interface{}{"name": "yok"}), ErrNotFound)
}
