package services

import (
	"errors"
	"fmt"

	"kartvizit.link/repositories"
)

// ServiceError servis katmanının döndürdüğü sabit hata türü.
type ServiceError string

func (e ServiceError) Error() string { return string(e) }

const (
	ErrUnauthenticated          ServiceError = "kimlik doğrulanamadı"
	ErrForbidden                ServiceError = "bu işlem için yetkiniz yok"
	ErrNotFound                 ServiceError = "kayıt bulunamadı"
	ErrQuotaExceeded            ServiceError = "lisans kotası aşıldı"
	ErrSlugTaken                ServiceError = "bu kart adresi zaten kullanılıyor"
	ErrCrossEnterpriseForbidden ServiceError = "kurumlar arası işlem yapılamaz"
	ErrAlreadyHandled           ServiceError = "talep zaten sonuçlandırılmış"
	ErrInvariantViolation       ServiceError = "veri tutarlılığı ihlali"
	ErrStorageFailure           ServiceError = "veritabanı hatası"
	ErrEmailTaken               ServiceError = "bu e-posta adresi zaten kayıtlı"
	ErrInvalidInput             ServiceError = "geçersiz girdi verisi"
)

// Yetki reddi neden kodları.
const (
	ReasonWrongEnterprise = "wrong_enterprise"
	ReasonWrongAssignment = "wrong_assignment"
	ReasonNotOwner        = "not_owner"
	ReasonRole            = "role"
	ReasonSelf            = "self"
)

// ForbiddenError yetki reddinin teşhis bilgisini taşır.
// HTTP katmanı bu alanları sadece debug modunda döndürür.
type ForbiddenError struct {
	Reason                string
	ActorEnterpriseID     *uint
	TargetEnterpriseID    *uint
	TargetAssignedAdminID *uint
	crossEnterprise       bool
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Unwrap().Error(), e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	if e.crossEnterprise {
		return ErrCrossEnterpriseForbidden
	}
	return ErrForbidden
}

// Quota kapsamları.
const (
	QuotaScopeProfile         = "profile"
	QuotaScopeUserCards       = "user_cards"
	QuotaScopeEnterpriseCards = "enterprise_cards"
	QuotaScopeAllocation      = "allocation"
)

// QuotaError aşılan kotanın kapsamını ve sayılarını taşır.
type QuotaError struct {
	Scope     string
	Used      int64
	Limit     int64
	Remaining int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s: %s (kullanılan %d / limit %d)", ErrQuotaExceeded, e.Scope, e.Used, e.Limit)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// SlugTakenError çakışan slug'ı ve alan adını taşır.
type SlugTakenError struct {
	Slug  string
	Field string
}

func (e *SlugTakenError) Error() string {
	return fmt.Sprintf("%s: %s", ErrSlugTaken, e.Slug)
}

func (e *SlugTakenError) Unwrap() error { return ErrSlugTaken }

// storageErr repository hatasını servis taksonomisine çevirir.
// ErrNotFound dışındaki her şey ErrStorageFailure olur; tekrar denenmez.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	var se ServiceError
	if errors.As(err, &se) {
		return err
	}
	var qe *QuotaError
	var fe *ForbiddenError
	var ste *SlugTakenError
	if errors.As(err, &qe) || errors.As(err, &fe) || errors.As(err, &ste) {
		return err
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("%w: %w", ErrStorageFailure, err)
}

// notFound repository ErrNotFound hatasını açıklamalı servis hatasına çevirir.
func notFound(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return storageErr(err)
}
