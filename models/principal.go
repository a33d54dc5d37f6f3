package models

import (
	"errors"
	"fmt"
)

// PrincipalKind işlemi yapan aktörün türü.
type PrincipalKind int

const (
	PrincipalIndependent PrincipalKind = iota + 1
	PrincipalEnterpriseSuperAdmin
	PrincipalEnterpriseAdmin
	PrincipalEnterpriseStaff
	PrincipalPlatformOperator
)

func (k PrincipalKind) String() string {
	switch k {
	case PrincipalIndependent:
		return "independent"
	case PrincipalEnterpriseSuperAdmin:
		return "enterprise_super_admin"
	case PrincipalEnterpriseAdmin:
		return "enterprise_admin"
	case PrincipalEnterpriseStaff:
		return "enterprise_staff"
	case PrincipalPlatformOperator:
		return "platform_operator"
	}
	return "unknown"
}

// ErrIllegalPrincipal rol ve kurum üyeliği birlikte geçersiz bir durum tanımlıyor.
var ErrIllegalPrincipal = errors.New("geçersiz rol / kurum kombinasyonu")

// Principal role ve nullable kurum alanlarından türetilen kapalı bir varyanttır.
// Alanlar dışarıdan set edilemez; yalnızca PrincipalFor ve OperatorPrincipal üretir.
type Principal struct {
	kind            PrincipalKind
	userID          uint
	enterpriseID    uint
	assignedAdminID uint // sadece EnterpriseStaff için, 0 = atanmamış
}

// OperatorPrincipal platform operatörünü temsil eder. Kullanıcı kaydı yoktur.
func OperatorPrincipal() Principal {
	return Principal{kind: PrincipalPlatformOperator}
}

// PrincipalFor bir kullanıcı kaydından Principal üretir.
func PrincipalFor(u *User) (Principal, error) {
	if u == nil || u.ID == 0 {
		return Principal{}, fmt.Errorf("%w: kullanıcı kaydı yok", ErrIllegalPrincipal)
	}
	switch u.Role {
	case RoleSuperAdmin:
		if u.EnterpriseID == nil {
			return Principal{}, fmt.Errorf("%w: kurumsuz super_admin (user %d)", ErrIllegalPrincipal, u.ID)
		}
		return Principal{kind: PrincipalEnterpriseSuperAdmin, userID: u.ID, enterpriseID: *u.EnterpriseID}, nil
	case RoleAdmin:
		if u.EnterpriseID == nil {
			return Principal{}, fmt.Errorf("%w: kurumsuz admin (user %d)", ErrIllegalPrincipal, u.ID)
		}
		return Principal{kind: PrincipalEnterpriseAdmin, userID: u.ID, enterpriseID: *u.EnterpriseID}, nil
	case RoleStaff, RoleUser:
		if u.EnterpriseID == nil {
			if u.AssignedAdminID != nil {
				return Principal{}, fmt.Errorf("%w: bireysel hesapta atanmış yönetici (user %d)", ErrIllegalPrincipal, u.ID)
			}
			return Principal{kind: PrincipalIndependent, userID: u.ID}, nil
		}
		p := Principal{kind: PrincipalEnterpriseStaff, userID: u.ID, enterpriseID: *u.EnterpriseID}
		if u.AssignedAdminID != nil {
			p.assignedAdminID = *u.AssignedAdminID
		}
		return p, nil
	}
	return Principal{}, fmt.Errorf("%w: bilinmeyen rol %q", ErrIllegalPrincipal, u.Role)
}

func (p Principal) Kind() PrincipalKind { return p.kind }
func (p Principal) UserID() uint        { return p.userID }

// EnterpriseID kurum ID'sini döndürür; ok=false ise aktörün kurumu yoktur.
func (p Principal) EnterpriseID() (uint, bool) {
	switch p.kind {
	case PrincipalEnterpriseSuperAdmin, PrincipalEnterpriseAdmin, PrincipalEnterpriseStaff:
		return p.enterpriseID, true
	}
	return 0, false
}

// EnterpriseIDPtr loglama ve hata detayları için nullable kurum ID'si.
func (p Principal) EnterpriseIDPtr() *uint {
	if id, ok := p.EnterpriseID(); ok {
		return &id
	}
	return nil
}

// AssignedAdminID staff için atanmış yöneticiyi döndürür.
func (p Principal) AssignedAdminID() (uint, bool) {
	if p.kind == PrincipalEnterpriseStaff && p.assignedAdminID != 0 {
		return p.assignedAdminID, true
	}
	return 0, false
}

func (p Principal) IsOperator() bool   { return p.kind == PrincipalPlatformOperator }
func (p Principal) IsSuperAdmin() bool { return p.kind == PrincipalEnterpriseSuperAdmin }
func (p Principal) IsAdmin() bool      { return p.kind == PrincipalEnterpriseAdmin }

// IsZero Principal'ın hiç üretilmediğini (sıfır değer) gösterir.
func (p Principal) IsZero() bool { return p.kind == 0 }

func (p Principal) String() string {
	if p.kind == PrincipalPlatformOperator {
		return p.kind.String()
	}
	if id, ok := p.EnterpriseID(); ok {
		return fmt.Sprintf("%s(user=%d, enterprise=%d)", p.kind, p.userID, id)
	}
	return fmt.Sprintf("%s(user=%d)", p.kind, p.userID)
}
