package services

import (
	"errors"
	"testing"
	"time"

	"kartvizit.link/models"
	"kartvizit.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestApproveSubLicenseRequestIncrementsCapacity(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(3, 10)
	sa := f.principal(superAdmin)

	handledAt := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	f.c.LicenseRequests.(*LicenseRequestService).now = func() time.Time { return handledAt }

	req, err := f.c.LicenseRequests.Submit(f.ctx, sa, models.LicenseRequestSub, 5, " Yeni ürün serisi ")
	require.NoError(t, err)
	assert.Equal(t, models.LicenseRequestPending, req.Status)
	assert.Equal(t, "Yeni ürün serisi", req.Message)
	assert.Equal(t, ent.ID, req.EnterpriseID)
	assert.Equal(t, superAdmin.ID, req.RequestedByUserID)

	approved, err := f.c.LicenseRequests.Approve(f.ctx, f.op, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LicenseRequestApproved, approved.Status)
	require.NotNil(t, approved.HandledAt)
	assert.True(t, handledAt.Equal(*approved.HandledAt))

	stored := f.reloadEnterprise(ent.ID)
	assert.Equal(t, 15, stored.SubLicenseCount)
	assert.Equal(t, 3, stored.LicenseCount)

	// İkinci onay kapasiteyi tekrar artırmaz.
	_, err = f.c.LicenseRequests.Approve(f.ctx, f.op, req.ID)
	require.ErrorIs(t, err, ErrAlreadyHandled)
	assert.Equal(t, 15, f.reloadEnterprise(ent.ID).SubLicenseCount)

	_, err = f.c.LicenseRequests.Reject(f.ctx, f.op, req.ID)
	assert.ErrorIs(t, err, ErrAlreadyHandled)
}

func TestApproveProfileRequestUsesCurrentCapacity(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(2, 0)
	sa := f.principal(superAdmin)

	req, err := f.c.LicenseRequests.Submit(f.ctx, sa, models.LicenseRequestProfile, 3, "")
	require.NoError(t, err)

	// Talep beklerken operatör kapasiteyi doğrudan değiştirir; onay güncel değere ekler.
	licenses := 4
	_, err = f.c.Enterprises.SetCapacity(f.ctx, f.op, ent.ID, SetCapacityInput{LicenseCount: &licenses})
	require.NoError(t, err)

	_, err = f.c.LicenseRequests.Approve(f.ctx, f.op, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, f.reloadEnterprise(ent.ID).LicenseCount)
}

func TestRejectLeavesCapacityUnchanged(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(2, 4)
	sa := f.principal(superAdmin)

	req, err := f.c.LicenseRequests.Submit(f.ctx, sa, models.LicenseRequestProfile, 10, "")
	require.NoError(t, err)

	rejected, err := f.c.LicenseRequests.Reject(f.ctx, f.op, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LicenseRequestRejected, rejected.Status)
	assert.NotNil(t, rejected.HandledAt)

	_, err = f.c.LicenseRequests.Approve(f.ctx, f.op, req.ID)
	assert.ErrorIs(t, err, ErrAlreadyHandled)

	stored := f.reloadEnterprise(ent.ID)
	assert.Equal(t, 2, stored.LicenseCount)
	assert.Equal(t, 4, stored.SubLicenseCount)

	_, err = f.c.LicenseRequests.Approve(f.ctx, f.op, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLicenseRequestPermissions(t *testing.T) {
	f := newFixture(t)
	_, superAdmin := f.enterprise(5, 0)
	sa := f.principal(superAdmin)
	admin := f.provision(sa, ProvisionUserInput{Role: models.RoleAdmin})

	_, err := f.c.LicenseRequests.Submit(f.ctx, f.principal(admin.User), models.LicenseRequestSub, 1, "")
	assertForbidden(t, err, ReasonRole)

	_, err = f.c.LicenseRequests.Submit(f.ctx, f.op, models.LicenseRequestSub, 1, "")
	assertForbidden(t, err, ReasonRole)

	_, err = f.c.LicenseRequests.Submit(f.ctx, sa, models.LicenseRequestSub, 0, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.c.LicenseRequests.Submit(f.ctx, sa, "kart", 1, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	req, err := f.c.LicenseRequests.Submit(f.ctx, sa, models.LicenseRequestSub, 2, "")
	require.NoError(t, err)

	_, err = f.c.LicenseRequests.Approve(f.ctx, sa, req.ID)
	assertForbidden(t, err, ReasonRole)
	_, err = f.c.LicenseRequests.Reject(f.ctx, sa, req.ID)
	assertForbidden(t, err, ReasonRole)
}

func TestListLicenseRequests(t *testing.T) {
	f := newFixture(t)
	_, superAdmin1 := f.enterprise(5, 0)
	_, superAdmin2 := f.enterprise(5, 0)
	sa1, sa2 := f.principal(superAdmin1), f.principal(superAdmin2)

	first, err := f.c.LicenseRequests.Submit(f.ctx, sa1, models.LicenseRequestSub, 1, "")
	require.NoError(t, err)
	_, err = f.c.LicenseRequests.Submit(f.ctx, sa1, models.LicenseRequestProfile, 1, "")
	require.NoError(t, err)
	_, err = f.c.LicenseRequests.Submit(f.ctx, sa2, models.LicenseRequestSub, 3, "")
	require.NoError(t, err)
	_, err = f.c.LicenseRequests.Approve(f.ctx, f.op, first.ID)
	require.NoError(t, err)

	all, err := f.c.LicenseRequests.List(f.ctx, f.op, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pending, err := f.c.LicenseRequests.List(f.ctx, f.op, models.LicenseRequestPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	own, err := f.c.LicenseRequests.List(f.ctx, sa1, "")
	require.NoError(t, err)
	assert.Len(t, own, 2)
	for _, r := range own {
		assert.Equal(t, *superAdmin1.EnterpriseID, r.EnterpriseID)
	}

	approved, err := f.c.LicenseRequests.List(f.ctx, sa2, models.LicenseRequestApproved)
	require.NoError(t, err)
	assert.Empty(t, approved)
}

func TestApproveRollsBackWhenStatusUpdateFails(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(3, 10)
	req, err := f.c.LicenseRequests.Submit(f.ctx, f.principal(superAdmin), models.LicenseRequestSub, 5, "")
	require.NoError(t, err)

	// Kapasite artışından sonra talep güncellemesi başarısız olur.
	require.NoError(t, f.db.Callback().Update().Before("gorm:update").Register("test:fail_license_requests", func(db *gorm.DB) {
		if db.Statement.Table == "license_requests" {
			_ = db.AddError(errors.New("boom"))
		}
	}))

	_, err = f.c.LicenseRequests.Approve(f.ctx, f.op, req.ID)
	assert.ErrorIs(t, err, ErrStorageFailure)

	assert.Equal(t, 10, f.reloadEnterprise(ent.ID).SubLicenseCount)
	stored, err := repositories.NewLicenseRequestRepository(f.db).FindByID(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.LicenseRequestPending, stored.Status)
	assert.Nil(t, stored.HandledAt)
}
