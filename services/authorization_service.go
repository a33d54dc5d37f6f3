package services

import (
	"kartvizit.link/models"
)

// IAuthorizationService aktörün bir kullanıcıyı veya kartı yönetip yönetemeyeceğine karar verir.
type IAuthorizationService interface {
	CanManageUser(actor models.Principal, target *models.User) error
	CanManageCard(actor models.Principal, card *models.Card, owner *models.User) error
	CanManage(actor models.Principal, target interface{}) bool
	CanTargetForDestructiveAction(actor models.Principal, target *models.User) error
}

// AuthorizationService saf kural motorudur; veritabanına erişmez.
// Kart sahibi gerekiyorsa çağıran taraf yükleyip verir.
type AuthorizationService struct{}

func NewAuthorizationService() IAuthorizationService {
	return &AuthorizationService{}
}

func forbidden(actor models.Principal, reason string, targetEnterpriseID, targetAssignedAdminID *uint) *ForbiddenError {
	return &ForbiddenError{
		Reason:                reason,
		ActorEnterpriseID:     actor.EnterpriseIDPtr(),
		TargetEnterpriseID:    targetEnterpriseID,
		TargetAssignedAdminID: targetAssignedAdminID,
	}
}

// crossEnterprise kurum sınırı ihlali için CrossEnterpriseForbidden döndüren ForbiddenError üretir.
func crossEnterprise(actor models.Principal, targetEnterpriseID *uint) *ForbiddenError {
	fe := forbidden(actor, ReasonWrongEnterprise, targetEnterpriseID, nil)
	fe.crossEnterprise = true
	return fe
}

// CanManageUser kurallar sırasıyla:
// operatör her şeyi, super_admin kendi kurumundaki herkesi,
// admin sadece kendisine atanmış staff/user hesaplarını yönetebilir.
func (s *AuthorizationService) CanManageUser(actor models.Principal, target *models.User) error {
	if target == nil {
		return ErrNotFound
	}
	switch actor.Kind() {
	case models.PrincipalPlatformOperator:
		return nil
	case models.PrincipalEnterpriseSuperAdmin:
		if models.SameEnterprise(actor.EnterpriseIDPtr(), target.EnterpriseID) {
			return nil
		}
		return forbidden(actor, ReasonWrongEnterprise, target.EnterpriseID, target.AssignedAdminID)
	case models.PrincipalEnterpriseAdmin:
		if !models.SameEnterprise(actor.EnterpriseIDPtr(), target.EnterpriseID) {
			return forbidden(actor, ReasonWrongEnterprise, target.EnterpriseID, target.AssignedAdminID)
		}
		if !target.Role.IsMember() {
			return forbidden(actor, ReasonRole, target.EnterpriseID, target.AssignedAdminID)
		}
		if target.AssignedAdminID == nil || *target.AssignedAdminID != actor.UserID() {
			return forbidden(actor, ReasonWrongAssignment, target.EnterpriseID, target.AssignedAdminID)
		}
		return nil
	}
	return forbidden(actor, ReasonRole, target.EnterpriseID, target.AssignedAdminID)
}

// CanManageCard kart için yetki kontrolü. owner nil ise kart sahipsizdir.
func (s *AuthorizationService) CanManageCard(actor models.Principal, card *models.Card, owner *models.User) error {
	if card == nil {
		return ErrNotFound
	}
	switch actor.Kind() {
	case models.PrincipalPlatformOperator:
		return nil
	case models.PrincipalEnterpriseSuperAdmin:
		if models.SameEnterprise(actor.EnterpriseIDPtr(), card.EnterpriseID) {
			return nil
		}
		return forbidden(actor, ReasonWrongEnterprise, card.EnterpriseID, nil)
	case models.PrincipalEnterpriseAdmin:
		if card.UserID != nil && *card.UserID == actor.UserID() {
			return nil
		}
		if owner == nil {
			// Sahipsiz kartları sadece super_admin yönetir.
			return forbidden(actor, ReasonNotOwner, card.EnterpriseID, nil)
		}
		if owner.EnterpriseID == nil {
			// Kuruma atanmadan taşınmış bireysel hesapların kartları.
			return nil
		}
		if err := s.CanManageUser(actor, owner); err != nil {
			return err
		}
		return nil
	}
	if card.UserID != nil && *card.UserID == actor.UserID() {
		return nil
	}
	return forbidden(actor, ReasonNotOwner, card.EnterpriseID, nil)
}

// CanManage boolean sözleşme; target *models.User veya *models.Card olabilir.
// Kart sahip bilgisi olmadan değerlendirilir: admin burada sadece kendi kartları için true alır.
// Atanmış kullanıcıların kartları için sahibi yükleyip CanManageCard çağrılmalıdır.
func (s *AuthorizationService) CanManage(actor models.Principal, target interface{}) bool {
	switch t := target.(type) {
	case *models.User:
		return s.CanManageUser(actor, t) == nil
	case *models.Card:
		return s.CanManageCard(actor, t, nil) == nil
	}
	return false
}

// CanTargetForDestructiveAction askıya alma ve silme için: önce kendini hedefleme yasağı,
// ardından normal kullanıcı yönetimi kuralları.
func (s *AuthorizationService) CanTargetForDestructiveAction(actor models.Principal, target *models.User) error {
	if target == nil {
		return ErrNotFound
	}
	if !actor.IsOperator() && actor.UserID() == target.ID {
		return forbidden(actor, ReasonSelf, target.EnterpriseID, target.AssignedAdminID)
	}
	return s.CanManageUser(actor, target)
}

var _ IAuthorizationService = (*AuthorizationService)(nil)
