package services

import (
	"testing"

	"kartvizit.link/models"
	"kartvizit.link/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEnterpriseProvisionsSuperAdminWithMainCard(t *testing.T) {
	f := newFixture(t)

	res, err := f.c.Provisioning.CreateEnterprise(f.ctx, f.op, CreateEnterpriseInput{
		CompanyName:        "  Örnek Ltd ",
		SuperAdminEmail:    " Yonetim@Ornek.COM ",
		SuperAdminPassword: testPassword,
		TotalLicenses:      3,
		SubLicenses:        7,
	})
	require.NoError(t, err)
	assert.Equal(t, "Örnek Ltd", res.Enterprise.Name)
	assert.Equal(t, 3, res.Enterprise.LicenseCount)
	assert.Equal(t, 7, res.Enterprise.SubLicenseCount)
	assert.Equal(t, "yonetim@ornek.com", res.SuperAdmin.Email)
	assert.Equal(t, models.RoleSuperAdmin, res.SuperAdmin.Role)
	assert.Equal(t, res.Enterprise.ID, *res.SuperAdmin.EnterpriseID)
	assert.True(t, res.MainCard.IsMain())
	assert.Equal(t, res.Enterprise.ID, *res.MainCard.EnterpriseID)
	assert.Contains(t, res.MainCard.Slug, "ornek-ltd-")

	p := f.principal(res.SuperAdmin)
	assert.Equal(t, models.PrincipalEnterpriseSuperAdmin, p.Kind())

	_, err = f.c.Provisioning.CreateEnterprise(f.ctx, p, CreateEnterpriseInput{
		CompanyName: "Yetkisiz", SuperAdminEmail: f.nextEmail("x"), SuperAdminPassword: testPassword, TotalLicenses: 1,
	})
	assertForbidden(t, err, ReasonRole)

	_, err = f.c.Provisioning.CreateEnterprise(f.ctx, f.op, CreateEnterpriseInput{
		CompanyName: "Sıfır", SuperAdminEmail: f.nextEmail("x"), SuperAdminPassword: testPassword, TotalLicenses: 0,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.c.Provisioning.CreateEnterprise(f.ctx, f.op, CreateEnterpriseInput{
		CompanyName: "Tekrar", SuperAdminEmail: "yonetim@ornek.com", SuperAdminPassword: testPassword, TotalLicenses: 1,
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	list, err := f.c.Enterprises.List(f.ctx, f.op)
	require.NoError(t, err)
	assert.Len(t, list, 1, "başarısız kurum oluşturma geri alınmalı")
}

func TestAdminCannotSuspendOtherAdminsStaff(t *testing.T) {
	f := newFixture(t)
	_, superAdmin := f.enterprise(5, 0)
	sa := f.principal(superAdmin)
	adminA := f.provision(sa, ProvisionUserInput{Role: models.RoleAdmin})
	adminB := f.provision(sa, ProvisionUserInput{Role: models.RoleAdmin})
	staff := f.provision(sa, ProvisionUserInput{AssignedAdminID: uintPtr(adminB.User.ID)})

	_, err := f.c.Provisioning.SuspendUser(f.ctx, f.principal(adminA.User), staff.User.ID)
	require.ErrorIs(t, err, ErrForbidden)
	assertForbidden(t, err, ReasonWrongAssignment)
	assert.False(t, f.reloadUser(staff.User.ID).IsSuspended)

	suspended, err := f.c.Provisioning.SuspendUser(f.ctx, f.principal(adminB.User), staff.User.ID)
	require.NoError(t, err)
	assert.True(t, suspended.IsSuspended)

	reactivated, err := f.c.Provisioning.ReactivateUser(f.ctx, f.principal(adminB.User), staff.User.ID)
	require.NoError(t, err)
	assert.False(t, reactivated.IsSuspended)
}

func TestProvisionRoleRules(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(10, 0)
	_, otherAdmin := f.enterprise(10, 0)
	sa := f.principal(superAdmin)
	admin := f.provision(sa, ProvisionUserInput{Role: models.RoleAdmin})
	adminActor := f.principal(admin.User)

	base := func(role models.Role) ProvisionUserInput {
		return ProvisionUserInput{Name: "Kişi", Email: f.nextEmail("rol"), Password: testPassword, Role: role}
	}

	_, err := f.c.Provisioning.ProvisionUser(f.ctx, sa, base(models.RoleSuperAdmin))
	assertForbidden(t, err, ReasonRole)

	_, err = f.c.Provisioning.ProvisionUser(f.ctx, adminActor, base(models.RoleAdmin))
	assertForbidden(t, err, ReasonRole)

	in := base(models.RoleStaff)
	in.AssignedAdminID = uintPtr(superAdmin.ID)
	_, err = f.c.Provisioning.ProvisionUser(f.ctx, adminActor, in)
	assertForbidden(t, err, ReasonWrongAssignment)

	in = base(models.RoleStaff)
	in.EnterpriseID = *otherAdmin.EnterpriseID
	_, err = f.c.Provisioning.ProvisionUser(f.ctx, sa, in)
	require.ErrorIs(t, err, ErrCrossEnterpriseForbidden)

	in = base(models.RoleStaff)
	in.AssignedAdminID = uintPtr(superAdmin.ID)
	_, err = f.c.Provisioning.ProvisionUser(f.ctx, sa, in)
	assert.ErrorIs(t, err, ErrInvalidInput, "atanacak kullanıcı admin olmalı")

	_, err = f.c.Provisioning.ProvisionUser(f.ctx, f.op, base(models.RoleStaff))
	assert.ErrorIs(t, err, ErrInvalidInput, "operatör kurum belirtmeli")

	in = base(models.RoleUser)
	in.EnterpriseID = ent.ID
	in.Password = ""
	res, err := f.c.Provisioning.ProvisionUser(f.ctx, f.op, in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, res.User.Role)
	assert.Len(t, res.TemporaryPassword, temporaryPasswordLength)

	token, user, err := f.c.Identity.Login(f.ctx, in.Email, res.TemporaryPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, res.User.ID, user.ID)

	_, err = f.c.Provisioning.ProvisionUser(f.ctx, sa, ProvisionUserInput{Name: "Aynı", Email: in.Email, Password: testPassword})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSelfProtection(t *testing.T) {
	f := newFixture(t)
	_, superAdmin := f.enterprise(5, 0)
	sa := f.principal(superAdmin)

	_, err := f.c.Provisioning.SuspendUser(f.ctx, sa, superAdmin.ID)
	assertForbidden(t, err, ReasonSelf)

	err = f.c.Provisioning.DeleteUser(f.ctx, sa, superAdmin.ID, false)
	assertForbidden(t, err, ReasonSelf)

	_, err = f.c.Provisioning.ChangeRole(f.ctx, sa, superAdmin.ID, ChangeRoleInput{Role: models.RoleAdmin})
	assertForbidden(t, err, ReasonSelf)

	// Operatör için kendini hedefleme kuralı yoktur.
	suspended, err := f.c.Provisioning.SuspendUser(f.ctx, f.op, superAdmin.ID)
	require.NoError(t, err)
	assert.True(t, suspended.IsSuspended)
}

func TestDeleteUserWithDetachLeavesOrphanCards(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(5, 5)
	sa := f.principal(superAdmin)
	admin := f.provision(sa, ProvisionUserInput{Role: models.RoleAdmin})
	staff := f.provision(f.principal(admin.User), ProvisionUserInput{SubLicenses: 1})
	product, err := f.c.Cards.CreateProductCard(f.ctx, sa, staff.User.ID, "Ürün", "")
	require.NoError(t, err)

	require.NoError(t, f.c.Provisioning.DeleteUser(f.ctx, sa, staff.User.ID, true))

	_, err = repositories.NewUserRepository(f.db).FindByID(f.ctx, staff.User.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	orphan := f.reloadCard(product.ID)
	assert.True(t, orphan.IsOrphan())
	assert.Equal(t, ent.ID, *orphan.EnterpriseID)

	usage, err := f.c.Enterprises.Usage(f.ctx, sa, ent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), usage.ProductCardsUsed)
	assert.Equal(t, int64(2), usage.ProfilesUsed)

	// Sahipsiz kartı admin yönetemez, super_admin yönetebilir.
	_, err = f.c.Cards.SuspendCard(f.ctx, f.principal(admin.User), orphan.ID)
	assertForbidden(t, err, ReasonNotOwner)
	_, err = f.c.Cards.SuspendCard(f.ctx, sa, orphan.ID)
	require.NoError(t, err)

	// Sahipsiz ana kart, ana kartı olan kullanıcıya ürün kartı olarak bağlanır.
	moved, err := f.c.Cards.ReassignCard(f.ctx, sa, staff.MainCard.ID, superAdmin.ID)
	require.NoError(t, err)
	assert.False(t, moved.IsMain())
	assert.Equal(t, int64(1), f.mainCardCount(superAdmin.ID))

	// Ana karta bağlı sahipsiz ürün kartı da aynı sahibe geçer.
	child := f.reloadCard(product.ID)
	require.NotNil(t, child.UserID)
	assert.Equal(t, superAdmin.ID, *child.UserID)
	assert.Equal(t, *moved.ParentID, *child.ParentID)

	_, _, err = f.c.Cards.GetPublicCard(f.ctx, product.Slug)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserRemovesCardsAndAssignments(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(5, 5)
	sa := f.principal(superAdmin)
	admin := f.provision(sa, ProvisionUserInput{Role: models.RoleAdmin})
	staff := f.provision(f.principal(admin.User), ProvisionUserInput{})

	require.NoError(t, f.c.Provisioning.DeleteUser(f.ctx, sa, admin.User.ID, false))

	_, err := repositories.NewCardRepository(f.db).FindByID(f.ctx, admin.MainCard.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Nil(t, f.reloadUser(staff.User.ID).AssignedAdminID)

	usage, err := f.c.Enterprises.Usage(f.ctx, sa, ent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), usage.ProfilesUsed)
}

func TestChangeRole(t *testing.T) {
	f := newFixture(t)
	_, superAdmin := f.enterprise(6, 0)
	sa := f.principal(superAdmin)
	admin := f.provision(sa, ProvisionUserInput{Role: models.RoleAdmin})
	staff := f.provision(f.principal(admin.User), ProvisionUserInput{})
	other := f.provision(sa, ProvisionUserInput{})

	_, err := f.c.Provisioning.ChangeRole(f.ctx, sa, other.User.ID, ChangeRoleInput{Role: models.RoleSuperAdmin})
	assertForbidden(t, err, ReasonRole)

	_, err = f.c.Provisioning.ChangeRole(f.ctx, f.principal(admin.User), other.User.ID, ChangeRoleInput{Role: models.RoleStaff})
	assertForbidden(t, err, ReasonRole)

	promoted, err := f.c.Provisioning.ChangeRole(f.ctx, sa, other.User.ID, ChangeRoleInput{Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, promoted.Role)

	reassigned, err := f.c.Provisioning.ChangeRole(f.ctx, sa, staff.User.ID, ChangeRoleInput{
		Role: models.RoleStaff, AssignedAdminID: uintPtr(other.User.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, other.User.ID, *reassigned.AssignedAdminID)

	// Admin rolünden düşürülen kullanıcının atamaları temizlenir.
	_, err = f.c.Provisioning.ChangeRole(f.ctx, sa, other.User.ID, ChangeRoleInput{Role: models.RoleStaff})
	require.NoError(t, err)
	assert.Nil(t, f.reloadUser(staff.User.ID).AssignedAdminID)

	_, err = f.c.Provisioning.ChangeRole(f.ctx, f.op, other.User.ID, ChangeRoleInput{Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.PrincipalEnterpriseSuperAdmin, f.principal(other.User).Kind())

	_, err = f.c.Provisioning.ChangeRole(f.ctx, sa, staff.User.ID, ChangeRoleInput{Role: "yonetici"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMoveUserBetweenScopes(t *testing.T) {
	f := newFixture(t)
	ent, superAdmin := f.enterprise(2, 0)
	solo := f.independent("Bağımsız Kişi")
	another := f.independent("Diğer Kişi")

	assert.Equal(t, models.PrincipalIndependent, f.principal(solo.User).Kind())
	assert.Nil(t, solo.MainCard.EnterpriseID)

	_, err := f.c.Provisioning.MoveUser(f.ctx, f.principal(superAdmin), solo.User.ID, MoveUserInput{EnterpriseID: &ent.ID})
	assertForbidden(t, err, ReasonRole)

	moved, err := f.c.Provisioning.MoveUser(f.ctx, f.op, solo.User.ID, MoveUserInput{EnterpriseID: &ent.ID})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStaff, moved.Role)
	assert.Equal(t, ent.ID, *moved.EnterpriseID)
	assert.Equal(t, ent.ID, *f.reloadCard(solo.MainCard.ID).EnterpriseID)
	assert.Equal(t, models.PrincipalEnterpriseStaff, f.principal(solo.User).Kind())

	_, err = f.c.Provisioning.MoveUser(f.ctx, f.op, another.User.ID, MoveUserInput{EnterpriseID: &ent.ID})
	qe := requireQuotaError(t, err, QuotaScopeProfile)
	assert.Equal(t, int64(2), qe.Used)
	assert.Nil(t, f.reloadUser(another.User.ID).EnterpriseID)

	back, err := f.c.Provisioning.MoveUser(f.ctx, f.op, solo.User.ID, MoveUserInput{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, back.Role)
	assert.Nil(t, back.EnterpriseID)
	assert.Nil(t, f.reloadCard(solo.MainCard.ID).EnterpriseID)
	assert.Equal(t, models.PrincipalIndependent, f.principal(solo.User).Kind())
}

func TestMoveUserChecksDestinationCardCeiling(t *testing.T) {
	f := newFixture(t)
	source, sourceAdmin := f.enterprise(5, 5)
	dest, _ := f.enterprise(5, 0)
	sa := f.principal(sourceAdmin)
	staff := f.provision(sa, ProvisionUserInput{SubLicenses: 1})
	_, err := f.c.Cards.CreateProductCard(f.ctx, sa, staff.User.ID, "Ürün", "")
	require.NoError(t, err)

	_, err = f.c.Provisioning.MoveUser(f.ctx, f.op, staff.User.ID, MoveUserInput{EnterpriseID: &dest.ID})
	requireQuotaError(t, err, QuotaScopeEnterpriseCards)
	assert.Equal(t, source.ID, *f.reloadUser(staff.User.ID).EnterpriseID)
}

func TestListUsersScope(t *testing.T) {
	f := newFixture(t)
	_, superAdmin := f.enterprise(6, 0)
	sa := f.principal(superAdmin)
	admin := f.provision(sa, ProvisionUserInput{Role: models.RoleAdmin})
	f.provision(f.principal(admin.User), ProvisionUserInput{})
	f.provision(sa, ProvisionUserInput{})

	all, err := f.c.Provisioning.ListUsers(f.ctx, sa)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	assigned, err := f.c.Provisioning.ListUsers(f.ctx, f.principal(admin.User))
	require.NoError(t, err)
	assert.Len(t, assigned, 1)

	_, err = f.c.Provisioning.ListUsers(f.ctx, f.op)
	assertForbidden(t, err, ReasonRole)
}
