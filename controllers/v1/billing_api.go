package apiv1

import (
	"intavia-backend/controllers"
	"intavia-backend/lib/subscription"
	"intavia-backend/lib/subscription/paymentretry"
	"intavia-backend/middleware"
	apimodels "intavia-backend/models/api"
	billingapimodels "intavia-backend/models/api/billing"

	"github.com/gofiber/fiber/v2"
)

type billingApiController struct {
	controllers.BaseAPIController
}

func InitBillingApiRouters(api fiber.Router) {
	controller := billingApiController{}
	api.Route("billing", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("subscription", controller.subscription)
		router.Use(middleware.CompanyAdminRequired())
		router.Post("portal", controller.portal)
		router.Post("retry-payment", controller.retryPayment)
	})
}

// @Summary Current subscription
// @Tags Billing
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=billingapimodels.SubscriptionView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/billing/subscription [get]
func (c *billingApiController) subscription(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	view, err := subscription.Instance.GetSubscription(companyID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "subscription lookup failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Billing portal session
// @Tags Billing
// @Description Short-lived link to the provider's self-service portal
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=billingapimodels.PortalSessionView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/billing/portal [post]
func (c *billingApiController) portal(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	view, err := subscription.Instance.CreatePortalSession(companyID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "portal session failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Retry failed payments
// @Tags Billing
// @Description Attach a new payment method and pay open invoices one by one.
// @Description Per-invoice failures land in the result list, the call itself succeeds.
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	billingapimodels.RetryPaymentRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=billingapimodels.RetryOutcome}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/billing/retry-payment [post]
func (c *billingApiController) retryPayment(ctx *fiber.Ctx) error {
	var payload billingapimodels.RetryPaymentRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	outcome, err := paymentretry.Instance.Retry(companyID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "payment retry failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(outcome))
}
