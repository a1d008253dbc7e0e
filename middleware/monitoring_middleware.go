package middleware

import (
	"crypto/subtle"
	"strings"

	apimodels "intavia-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

// MonitoringKeyRequired guards the on-demand sweep trigger with a pre-shared
// bearer key. Comparison is constant time.
func MonitoringKeyRequired(key string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if key == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("monitoring key is not configured"))
		}
		header := ctx.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("authorization required"))
		}
		if subtle.ConstantTimeCompare([]byte(token), []byte(key)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("authorization required"))
		}
		return ctx.Next()
	}
}
