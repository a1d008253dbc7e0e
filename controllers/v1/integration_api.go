package apiv1

import (
	"intavia-backend/controllers"
	"intavia-backend/lib/integration"
	"intavia-backend/middleware"
	apimodels "intavia-backend/models/api"
	integrationapimodels "intavia-backend/models/api/integration"

	"github.com/gofiber/fiber/v2"
)

type integrationApiController struct {
	controllers.BaseAPIController
}

func InitIntegrationApiRouters(api fiber.Router) {
	controller := integrationApiController{}
	api.Route("integrations/google", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("", controller.get)
		router.Post("connect", controller.connect)
		router.Delete("", controller.disconnect)
	})
}

// @Summary Google integration state
// @Tags Integrations
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=integrationapimodels.IntegrationView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/integrations/google [get]
func (c *integrationApiController) get(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	rec, err := integration.Instance.Get(companyID, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "integration lookup failed")
	}
	if rec == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("no google integration connected"))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(integrationapimodels.IntegrationConvert(*rec)))
}

// @Summary Connect Google calendar
// @Tags Integrations
// @Description Exchange the OAuth code and store the credential
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	integrationapimodels.ConnectRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @router /api/v1/integrations/google/connect [post]
func (c *integrationApiController) connect(ctx *fiber.Ctx) error {
	var payload integrationapimodels.ConnectRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if payload.Code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("authorization code is required"))
	}
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	err := integration.Instance.Connect(ctx.UserContext(), companyID, userID, payload.Code)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "google connect failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Disconnect Google calendar
// @Tags Integrations
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/integrations/google [delete]
func (c *integrationApiController) disconnect(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	if err := integration.Instance.Disconnect(companyID, userID); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "google disconnect failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
