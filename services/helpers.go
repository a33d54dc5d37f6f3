package services

import (
	"context"
	"fmt"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/repositories"
	"kartvizit.link/utils"

	"go.uber.org/zap"
)

const (
	maxSlugAttempts   = 5
	mainSlugSuffixLen = 6
)

// actorContext BaseModel hook'larının created_by/updated_by alanlarını doldurabilmesi için
// aktörün kullanıcı ID'sini context'e ekler. Operatörün kullanıcı kaydı yoktur.
func actorContext(ctx context.Context, actor models.Principal) context.Context {
	if actor.IsOperator() || actor.UserID() == 0 {
		return ctx
	}
	return models.ContextWithUserID(ctx, actor.UserID())
}

// uniqueGeneratedSlug isimden "taban-xxxxxx" biçiminde benzersiz bir slug üretir.
func uniqueGeneratedSlug(ctx context.Context, cardRepo repositories.ICardRepository, name string) (string, error) {
	for i := 0; i < maxSlugAttempts; i++ {
		candidate, err := utils.SlugWithSuffix(name, mainSlugSuffixLen)
		if err != nil {
			return "", fmt.Errorf("%w: slug üretilemedi: %v", ErrInvariantViolation, err)
		}
		exists, err := cardRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", storageErr(err)
		}
		if !exists {
			return candidate, nil
		}
		configslog.Log.Warn("Slug çakışması, yeniden deneniyor...", zap.String("slug", candidate))
	}
	return "", &SlugTakenError{Slug: utils.Slugify(name), Field: "slug"}
}

// normalizeRequestedSlug kullanıcının verdiği slug'ı normalize edip doğrular.
func normalizeRequestedSlug(raw string) (string, error) {
	slug := utils.NormalizeSlug(raw)
	if err := utils.ValidateSlug(slug); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return slug, nil
}

// isSelf aktörün hedef kullanıcının kendisi olup olmadığını döndürür.
func isSelf(actor models.Principal, user *models.User) bool {
	return user != nil && !actor.IsOperator() && actor.UserID() != 0 && actor.UserID() == user.ID
}
