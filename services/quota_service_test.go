package services

import (
	"errors"
	"testing"

	"kartvizit.link/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireQuotaError(t *testing.T, err error, scope string) *QuotaError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, ErrQuotaExceeded)
	var qe *QuotaError
	require.True(t, errors.As(err, &qe))
	assert.Equal(t, scope, qe.Scope)
	return qe
}

func TestProfileQuotaRejectsThirdUser(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(2, 0)
	actor := f.principal(superAdmin)

	f.provision(actor, ProvisionUserInput{Role: models.RoleStaff})

	_, err := f.c.Provisioning.ProvisionUser(f.ctx, actor, ProvisionUserInput{
		Name:     "Üçüncü",
		Email:    f.nextEmail("user"),
		Password: testPassword,
		Role:     models.RoleStaff,
	})
	qe := requireQuotaError(t, err, QuotaScopeProfile)
	assert.Equal(t, int64(2), qe.Used)
	assert.Equal(t, int64(2), qe.Limit)
	assert.Equal(t, int64(0), qe.Remaining)

	usage, err := f.c.Enterprises.Usage(f.ctx, actor, ent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), usage.ProfilesUsed)
}

func TestUserCardCeiling(t *testing.T) {
	f := newFixture(t)
	_, superAdmin := f.enterprise(5, 10)
	staff := f.provision(f.principal(superAdmin), ProvisionUserInput{Role: models.RoleStaff, SubLicenses: 1})
	actor := f.principal(staff.User)

	card, err := f.c.Cards.CreateProductCard(f.ctx, actor, staff.User.ID, "Ürün", "")
	require.NoError(t, err)
	require.NotNil(t, card.ParentID)
	assert.Equal(t, staff.MainCard.ID, *card.ParentID)
	assert.Equal(t, staff.User.EnterpriseID, card.EnterpriseID)

	_, err = f.c.Cards.CreateProductCard(f.ctx, actor, staff.User.ID, "İkinci Ürün", "")
	qe := requireQuotaError(t, err, QuotaScopeUserCards)
	assert.Equal(t, int64(2), qe.Used)
	assert.Equal(t, int64(2), qe.Limit)
}

func TestEnterpriseProductCardCeiling(t *testing.T) {
	f := newFixture(t)
	_, superAdmin := f.enterprise(5, 2)
	actor := f.principal(superAdmin)
	a := f.provision(actor, ProvisionUserInput{SubLicenses: 1})
	b := f.provision(actor, ProvisionUserInput{SubLicenses: 1})

	_, err := f.c.Cards.CreateProductCard(f.ctx, actor, a.User.ID, "A", "")
	require.NoError(t, err)
	_, err = f.c.Cards.CreateProductCard(f.ctx, actor, b.User.ID, "B", "")
	require.NoError(t, err)

	_, err = f.c.Provisioning.SetUserSubLicenses(f.ctx, actor, superAdmin.ID, 1)
	qe := requireQuotaError(t, err, QuotaScopeAllocation)
	assert.Equal(t, int64(2), qe.Used)
	assert.Equal(t, int64(0), qe.Remaining)

	// Sahipsiz kalan ürün kartı kurum tavanından düşmeye devam eder.
	require.NoError(t, f.c.Provisioning.DeleteUser(f.ctx, actor, a.User.ID, true))
	_, err = f.c.Provisioning.SetUserSubLicenses(f.ctx, actor, b.User.ID, 2)
	require.NoError(t, err)

	_, err = f.c.Cards.CreateProductCard(f.ctx, actor, b.User.ID, "B2", "")
	qe = requireQuotaError(t, err, QuotaScopeEnterpriseCards)
	assert.Equal(t, int64(2), qe.Used)
	assert.Equal(t, int64(2), qe.Limit)
}

func TestAllocationReportsRemaining(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(5, 3)
	actor := f.principal(superAdmin)
	a := f.provision(actor, ProvisionUserInput{SubLicenses: 2})
	b := f.provision(actor, ProvisionUserInput{})

	_, err := f.c.Provisioning.SetUserSubLicenses(f.ctx, actor, b.User.ID, 2)
	qe := requireQuotaError(t, err, QuotaScopeAllocation)
	assert.Equal(t, int64(2), qe.Used)
	assert.Equal(t, int64(3), qe.Limit)
	assert.Equal(t, int64(1), qe.Remaining)

	updated, err := f.c.Provisioning.SetUserSubLicenses(f.ctx, actor, b.User.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.SubLicenseCount)

	// Kendi değerini değiştirirken eski değeri toplama katılmaz.
	_, err = f.c.Provisioning.SetUserSubLicenses(f.ctx, actor, a.User.ID, 2)
	require.NoError(t, err)

	usage, err := f.c.Enterprises.Usage(f.ctx, actor, ent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), usage.SubLicensesAllocated)

	_, err = f.c.Provisioning.ProvisionUser(f.ctx, actor, ProvisionUserInput{
		Name: "Fazla", Email: f.nextEmail("user"), Password: testPassword, SubLicenses: 1,
	})
	requireQuotaError(t, err, QuotaScopeAllocation)
}

func TestQuotaServiceCountsLive(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(3, 4)
	actor := f.principal(superAdmin)
	staff := f.provision(actor, ProvisionUserInput{SubLicenses: 2})

	quota := NewQuotaService(f.db)

	profile, err := quota.CheckProfileQuota(f.ctx, ent.ID)
	require.NoError(t, err)
	assert.True(t, profile.OK)
	assert.Equal(t, int64(2), profile.Used)
	assert.Equal(t, int64(1), profile.Remaining)
	assert.NoError(t, profile.Err())

	userCards, err := quota.CheckUserCardQuota(f.ctx, f.reloadUser(staff.User.ID))
	require.NoError(t, err)
	assert.Equal(t, int64(1), userCards.Used)
	assert.Equal(t, int64(3), userCards.Limit)

	_, err = f.c.Cards.CreateProductCard(f.ctx, actor, staff.User.ID, "Ürün", "")
	require.NoError(t, err)

	cards, err := quota.CheckSubLicenseQuota(f.ctx, ent.ID, 3)
	require.NoError(t, err)
	assert.True(t, cards.OK)
	assert.Equal(t, int64(1), cards.Used)

	cards, err = quota.CheckSubLicenseQuota(f.ctx, ent.ID, 4)
	require.NoError(t, err)
	assert.False(t, cards.OK)
	requireQuotaError(t, cards.Err(), QuotaScopeEnterpriseCards)

	intact, err := quota.CheckAllocationIntact(f.ctx, ent.ID)
	require.NoError(t, err)
	assert.True(t, intact.OK)
	assert.Equal(t, int64(2), intact.Used)

	_, err = quota.CheckProfileQuota(f.ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
