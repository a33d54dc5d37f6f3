package models

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func uintPtr(v uint) *uint { return &v }

func TestPrincipalFor(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		name       string
		user       User
		wantKind   PrincipalKind
		wantEnt    uint
		wantHasEnt bool
	}{
		{
			name:       "super admin",
			user:       User{BaseModel: BaseModel{ID: 1}, Role: RoleSuperAdmin, EnterpriseID: uintPtr(7)},
			wantKind:   PrincipalEnterpriseSuperAdmin,
			wantEnt:    7,
			wantHasEnt: true,
		},
		{
			name:       "admin",
			user:       User{BaseModel: BaseModel{ID: 2}, Role: RoleAdmin, EnterpriseID: uintPtr(7)},
			wantKind:   PrincipalEnterpriseAdmin,
			wantEnt:    7,
			wantHasEnt: true,
		},
		{
			name:       "enterprise staff",
			user:       User{BaseModel: BaseModel{ID: 3}, Role: RoleStaff, EnterpriseID: uintPtr(7), AssignedAdminID: uintPtr(2)},
			wantKind:   PrincipalEnterpriseStaff,
			wantEnt:    7,
			wantHasEnt: true,
		},
		{
			name:     "independent user",
			user:     User{BaseModel: BaseModel{ID: 4}, Role: RoleUser},
			wantKind: PrincipalIndependent,
		},
	}

	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			p, err := PrincipalFor(&tt.user)
			c.Assert(err, qt.IsNil)
			c.Assert(p.Kind(), qt.Equals, tt.wantKind)
			c.Assert(p.UserID(), qt.Equals, tt.user.ID)
			ent, ok := p.EnterpriseID()
			c.Assert(ok, qt.Equals, tt.wantHasEnt)
			c.Assert(ent, qt.Equals, tt.wantEnt)
		})
	}
}

func TestPrincipalForRejectsIllegalStates(t *testing.T) {
	c := qt.New(t)

	illegal := []User{
		{BaseModel: BaseModel{ID: 1}, Role: RoleAdmin},
		{BaseModel: BaseModel{ID: 1}, Role: RoleSuperAdmin},
		{BaseModel: BaseModel{ID: 1}, Role: RoleStaff, AssignedAdminID: uintPtr(9)},
		{BaseModel: BaseModel{ID: 1}, Role: Role("root"), EnterpriseID: uintPtr(1)},
		{Role: RoleUser},
	}
	for _, u := range illegal {
		_, err := PrincipalFor(&u)
		c.Assert(errors.Is(err, ErrIllegalPrincipal), qt.IsTrue, qt.Commentf("role=%s", u.Role))
	}
}

func TestPrincipalAccessors(t *testing.T) {
	c := qt.New(t)

	op := OperatorPrincipal()
	c.Assert(op.IsOperator(), qt.IsTrue)
	c.Assert(op.EnterpriseIDPtr(), qt.IsNil)
	c.Assert(op.String(), qt.Equals, "platform_operator")

	staff, err := PrincipalFor(&User{BaseModel: BaseModel{ID: 5}, Role: RoleStaff, EnterpriseID: uintPtr(3), AssignedAdminID: uintPtr(4)})
	c.Assert(err, qt.IsNil)
	admin, ok := staff.AssignedAdminID()
	c.Assert(ok, qt.IsTrue)
	c.Assert(admin, qt.Equals, uint(4))
	c.Assert(*staff.EnterpriseIDPtr(), qt.Equals, uint(3))

	var zero Principal
	c.Assert(zero.IsZero(), qt.IsTrue)
}
