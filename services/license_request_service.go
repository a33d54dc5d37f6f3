package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ILicenseRequestService kapasite talebi iş akışı: pending -> approved | rejected.
type ILicenseRequestService interface {
	Submit(ctx context.Context, actor models.Principal, reqType models.LicenseRequestType, amount int, message string) (*models.LicenseRequest, error)
	Approve(ctx context.Context, actor models.Principal, id uint) (*models.LicenseRequest, error)
	Reject(ctx context.Context, actor models.Principal, id uint) (*models.LicenseRequest, error)
	List(ctx context.Context, actor models.Principal, status models.LicenseRequestStatus) ([]models.LicenseRequest, error)
}

type LicenseRequestService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLicenseRequestService(db *gorm.DB) ILicenseRequestService {
	return &LicenseRequestService{db: db, now: time.Now}
}

// Submit sadece kurumun super_admin'i talep oluşturabilir.
func (s *LicenseRequestService) Submit(ctx context.Context, actor models.Principal, reqType models.LicenseRequestType, amount int, message string) (*models.LicenseRequest, error) {
	if !actor.IsSuperAdmin() {
		return nil, forbidden(actor, ReasonRole, actor.EnterpriseIDPtr(), nil)
	}
	if !reqType.IsValid() {
		return nil, fmt.Errorf("%w: talep tipi profile veya sub olmalı", ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: miktar pozitif olmalı", ErrInvalidInput)
	}
	entID, _ := actor.EnterpriseID()
	req := &models.LicenseRequest{
		EnterpriseID:      entID,
		RequestedByUserID: actor.UserID(),
		RequestType:       reqType,
		Amount:            amount,
		Message:           strings.TrimSpace(message),
		Status:            models.LicenseRequestPending,
	}
	if err := repositories.NewLicenseRequestRepository(s.db).Create(actorContext(ctx, actor), req); err != nil {
		return nil, storageErr(err)
	}
	configslog.Log.Info("Lisans talebi oluşturuldu",
		zap.Uint("request_id", req.ID), zap.Uint("enterprise_id", entID),
		zap.String("type", string(reqType)), zap.Int("amount", amount))
	return req, nil
}

// Approve tek transaction içinde: talep kilitlenir, kurum kilitlenir, kapasite güncel değer
// üzerinden artırılır ve durum koşullu olarak approved yapılır. Herhangi bir hata hepsini geri alır.
func (s *LicenseRequestService) Approve(ctx context.Context, actor models.Principal, id uint) (*models.LicenseRequest, error) {
	if !actor.IsOperator() {
		return nil, forbidden(actor, ReasonRole, actor.EnterpriseIDPtr(), nil)
	}
	var result *models.LicenseRequest
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reqRepo := repositories.NewLicenseRequestRepository(tx)
		entRepo := repositories.NewEnterpriseRepository(tx)

		req, err := reqRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "lisans talebi")
		}
		if !req.IsPending() {
			return fmt.Errorf("%w: talep %d durumu %s", ErrAlreadyHandled, req.ID, req.Status)
		}
		if _, err := entRepo.FindByIDForUpdate(ctx, req.EnterpriseID); err != nil {
			return notFound(err, "kurum")
		}

		column := repositories.ColumnLicenseCount
		if req.RequestType == models.LicenseRequestSub {
			column = repositories.ColumnSubLicenseCount
		}
		if err := entRepo.IncrementCapacity(ctx, req.EnterpriseID, column, req.Amount); err != nil {
			return storageErr(err)
		}

		at := s.now()
		ok, err := reqRepo.MarkHandled(ctx, req.ID, models.LicenseRequestApproved, at)
		if err != nil {
			return storageErr(err)
		}
		if !ok {
			return fmt.Errorf("%w: talep %d", ErrAlreadyHandled, req.ID)
		}
		req.Status = models.LicenseRequestApproved
		req.HandledAt = &at
		result = req
		return nil
	})
	if txErr != nil {
		configslog.Log.Warn("Lisans talebi onaylanamadı", zap.Uint("request_id", id), zap.Error(txErr))
		return nil, txErr
	}
	configslog.Log.Info("Lisans talebi onaylandı",
		zap.Uint("request_id", id), zap.Uint("enterprise_id", result.EnterpriseID),
		zap.String("type", string(result.RequestType)), zap.Int("amount", result.Amount))
	return result, nil
}

// Reject durumu rejected yapar; başka bir yan etkisi yoktur.
func (s *LicenseRequestService) Reject(ctx context.Context, actor models.Principal, id uint) (*models.LicenseRequest, error) {
	if !actor.IsOperator() {
		return nil, forbidden(actor, ReasonRole, actor.EnterpriseIDPtr(), nil)
	}
	var result *models.LicenseRequest
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reqRepo := repositories.NewLicenseRequestRepository(tx)
		req, err := reqRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "lisans talebi")
		}
		if !req.IsPending() {
			return fmt.Errorf("%w: talep %d durumu %s", ErrAlreadyHandled, req.ID, req.Status)
		}
		at := s.now()
		ok, err := reqRepo.MarkHandled(ctx, req.ID, models.LicenseRequestRejected, at)
		if err != nil {
			return storageErr(err)
		}
		if !ok {
			return fmt.Errorf("%w: talep %d", ErrAlreadyHandled, req.ID)
		}
		req.Status = models.LicenseRequestRejected
		req.HandledAt = &at
		result = req
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	configslog.Log.Info("Lisans talebi reddedildi", zap.Uint("request_id", id))
	return result, nil
}

// List operatör tüm talepleri, super_admin kendi kurumunun taleplerini görür.
func (s *LicenseRequestService) List(ctx context.Context, actor models.Principal, status models.LicenseRequestStatus) ([]models.LicenseRequest, error) {
	filter := repositories.LicenseRequestFilter{Status: status}
	switch {
	case actor.IsOperator():
	case actor.IsSuperAdmin():
		filter.EnterpriseID, _ = actor.EnterpriseID()
	default:
		return nil, forbidden(actor, ReasonRole, actor.EnterpriseIDPtr(), nil)
	}
	list, err := repositories.NewLicenseRequestRepository(s.db).List(ctx, filter)
	return list, storageErr(err)
}

var _ ILicenseRequestService = (*LicenseRequestService)(nil)
