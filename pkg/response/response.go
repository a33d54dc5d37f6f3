package response

import (
	"errors"
	"sync/atomic"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Hata kodları. İstemciler mesaj yerine bu kodlara göre davranmalı.
const (
	CodeUnauthenticated          = "unauthenticated"
	CodeForbidden                = "forbidden"
	CodeCrossEnterpriseForbidden = "cross_enterprise_forbidden"
	CodeNotFound                 = "not_found"
	CodeQuotaExceeded            = "quota_exceeded"
	CodeSlugTaken                = "slug_taken"
	CodeEmailTaken               = "email_taken"
	CodeAlreadyHandled           = "already_handled"
	CodeInvariantViolation       = "invariant_violation"
	CodeInvalidInput             = "invalid_input"
	CodeStorageFailure           = "storage_failure"
	CodeInternal                 = "internal_error"
)

var debug atomic.Bool

// SetDebug true ise yetki reddi teşhis alanları ve iç hata mesajları yanıta eklenir.
func SetDebug(enabled bool) { debug.Store(enabled) }

// ErrorBody tüm hata yanıtlarının biçimi.
type ErrorBody struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Details fiber.Map `json:"details,omitempty"`
}

// Build hatayı HTTP durum koduna ve gövdeye çevirir.
func Build(err error) (int, ErrorBody) {
	var (
		fe  *services.ForbiddenError
		qe  *services.QuotaError
		ste *services.SlugTakenError
	)
	switch {
	case errors.As(err, &qe):
		return fiber.StatusUnprocessableEntity, ErrorBody{
			Error:   CodeQuotaExceeded,
			Message: err.Error(),
			Details: fiber.Map{"scope": qe.Scope, "used": qe.Used, "limit": qe.Limit, "remaining": qe.Remaining},
		}
	case errors.As(err, &ste):
		return fiber.StatusConflict, ErrorBody{
			Error:   CodeSlugTaken,
			Message: err.Error(),
			Details: fiber.Map{"field": ste.Field, "slug": ste.Slug},
		}
	case errors.As(err, &fe):
		code := CodeForbidden
		if errors.Is(err, services.ErrCrossEnterpriseForbidden) {
			code = CodeCrossEnterpriseForbidden
		}
		details := fiber.Map{"reason": fe.Reason}
		if debug.Load() {
			details["actor_enterprise_id"] = fe.ActorEnterpriseID
			details["target_enterprise_id"] = fe.TargetEnterpriseID
			details["target_assigned_admin_id"] = fe.TargetAssignedAdminID
		}
		return fiber.StatusForbidden, ErrorBody{Error: code, Message: fe.Unwrap().Error(), Details: details}
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized, ErrorBody{Error: CodeUnauthenticated, Message: services.ErrUnauthenticated.Error()}
	case errors.Is(err, services.ErrCrossEnterpriseForbidden):
		return fiber.StatusForbidden, ErrorBody{Error: CodeCrossEnterpriseForbidden, Message: err.Error()}
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, ErrorBody{Error: CodeForbidden, Message: err.Error()}
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound, ErrorBody{Error: CodeNotFound, Message: err.Error()}
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, ErrorBody{Error: CodeEmailTaken, Message: err.Error(), Details: fiber.Map{"field": "email"}}
	case errors.Is(err, services.ErrAlreadyHandled):
		return fiber.StatusConflict, ErrorBody{Error: CodeAlreadyHandled, Message: err.Error()}
	case errors.Is(err, services.ErrInvalidInput):
		return fiber.StatusBadRequest, ErrorBody{Error: CodeInvalidInput, Message: err.Error()}
	case errors.Is(err, services.ErrInvariantViolation):
		return fiber.StatusConflict, ErrorBody{Error: CodeInvariantViolation, Message: err.Error()}
	case errors.Is(err, services.ErrStorageFailure):
		return fiber.StatusInternalServerError, ErrorBody{Error: CodeStorageFailure, Message: internalMessage(err, services.ErrStorageFailure.Error())}
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := CodeInvalidInput
		if fiberErr.Code == fiber.StatusNotFound {
			code = CodeNotFound
		}
		return fiberErr.Code, ErrorBody{Error: code, Message: fiberErr.Message}
	}
	return fiber.StatusInternalServerError, ErrorBody{Error: CodeInternal, Message: internalMessage(err, "beklenmeyen bir hata oluştu")}
}

func internalMessage(err error, fallback string) string {
	if debug.Load() {
		return err.Error()
	}
	return fallback
}

// Error hatayı JSON olarak yazar; 5xx hatalar loglanır.
func Error(c *fiber.Ctx, err error) error {
	status, body := Build(err)
	if status >= fiber.StatusInternalServerError {
		configslog.Log.Error("İstek işlenemedi",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals("requestid")),
			zap.Error(err))
	}
	return c.Status(status).JSON(body)
}

// BadRequest gövde veya parametre okunamadığında kullanılır.
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: CodeInvalidInput, Message: message})
}

// OK veri ile 200 döner.
func OK(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": data})
}

// Created veri ile 201 döner.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": data})
}

// ErrorHandler fiber.Config.ErrorHandler için.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return Error(c, err)
}
