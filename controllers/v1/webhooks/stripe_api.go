package webhooks

import (
	"intavia-backend/controllers"
	"intavia-backend/lib/apperrors"
	"intavia-backend/lib/subscription"
	apimodels "intavia-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type stripeWebhookController struct {
	controllers.BaseAPIController
}

func InitStripeWebhookRouters(api fiber.Router) {
	controller := stripeWebhookController{}
	api.Route("webhooks/stripe", func(router fiber.Router) {
		router.Post("", controller.handle)
	})
}

// @Summary Stripe webhook
// @Tags Webhooks
// @Description Signature-verified billing event intake
// @Success 200 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @router /api/v1/webhooks/stripe [post]
func (c *stripeWebhookController) handle(ctx *fiber.Ctx) error {
	err := subscription.Instance.ProcessWebhook(ctx.Body(), ctx.Get("Stripe-Signature"))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindAuth {
			return ctx.Status(fiber.StatusUnauthorized).JSON(apimodels.NewError("webhook signature invalid"))
		}
		// non-2xx makes the provider redeliver the event later
		return c.SendError(ctx, c.GetLogger(ctx), err, "webhook processing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
