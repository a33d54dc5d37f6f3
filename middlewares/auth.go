package middlewares

import (
	"strings"

	"kartvizit.link/configs/configslog"
	"kartvizit.link/models"
	"kartvizit.link/pkg/response"
	"kartvizit.link/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	localsUser      = "user"
	localsPrincipal = "principal"

	// OperatorKeyHeader platform operatörü anahtarının taşındığı başlık.
	OperatorKeyHeader = "X-Operator-Key"
)

// bearerToken Authorization başlığından token'ı ayıklar.
func bearerToken(c *fiber.Ctx) string {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// AuthMiddleware Bearer token'ı çözer; kullanıcı ve Principal'ı locals'a koyar.
// Askıdaki veya silinmiş kullanıcılar 401 alır.
func AuthMiddleware(resolver services.IIdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return response.Error(c, services.ErrUnauthenticated)
		}
		user, principal, err := resolver.ResolveActor(c.UserContext(), token)
		if err != nil {
			configslog.Log.Debug("Kimlik doğrulanamadı", zap.String("path", c.Path()), zap.Error(err))
			return response.Error(c, err)
		}
		c.Locals(localsUser, user)
		c.Locals(localsPrincipal, principal)
		return c.Next()
	}
}

// RequireOperator X-Operator-Key başlığını doğrular ve operatör Principal'ını locals'a koyar.
func RequireOperator(authorizer services.IOperatorAuthorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authorizer.IsPlatformOperator(c.Get(OperatorKeyHeader)) {
			configslog.Log.Warn("Geçersiz operatör anahtarı", zap.String("ip", c.IP()), zap.String("path", c.Path()))
			return response.Error(c, services.ErrUnauthenticated)
		}
		c.Locals(localsPrincipal, models.OperatorPrincipal())
		return c.Next()
	}
}

// RequireEnterpriseManager sadece super_admin ve admin geçer.
func RequireEnterpriseManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return response.Error(c, services.ErrUnauthenticated)
		}
		if !p.IsSuperAdmin() && !p.IsAdmin() {
			return response.Error(c, &services.ForbiddenError{Reason: services.ReasonRole, ActorEnterpriseID: p.EnterpriseIDPtr()})
		}
		return c.Next()
	}
}

// RequireSuperAdmin sadece kurumun super_admin'i geçer.
func RequireSuperAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return response.Error(c, services.ErrUnauthenticated)
		}
		if !p.IsSuperAdmin() {
			return response.Error(c, &services.ForbiddenError{Reason: services.ReasonRole, ActorEnterpriseID: p.EnterpriseIDPtr()})
		}
		return c.Next()
	}
}

// PrincipalFrom middleware'in koyduğu Principal'ı okur.
func PrincipalFrom(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals(localsPrincipal).(models.Principal)
	if !ok || p.IsZero() {
		return models.Principal{}, false
	}
	return p, true
}

// UserFrom AuthMiddleware'in yüklediği kullanıcıyı okur. Operatör için nil'dir.
func UserFrom(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(localsUser).(*models.User)
	return u
}
