package apiv1

import (
	"intavia-backend/controllers"
	"intavia-backend/lib/notification"
	"intavia-backend/middleware"
	apimodels "intavia-backend/models/api"
	notificationapimodels "intavia-backend/models/api/notification"

	"github.com/gofiber/fiber/v2"
)

type notificationApiController struct {
	controllers.BaseAPIController
}

func InitNotificationApiRouters(api fiber.Router) {
	controller := notificationApiController{}
	api.Route("notifications/preferences", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Get("", controller.get)
		router.Put("", controller.save)
	})
}

// @Summary Notification preferences
// @Tags Notifications
// @Description The caller's opt-out matrix; defaults to everything enabled
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=notificationapimodels.PreferenceView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/notifications/preferences [get]
func (c *notificationApiController) get(ctx *fiber.Ctx) error {
	userID := middleware.GetUserID(ctx)
	view, err := notification.Preferences.Get(userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "preference lookup failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Save notification preferences
// @Tags Notifications
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	notificationapimodels.SavePreferenceRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=notificationapimodels.PreferenceView}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/notifications/preferences [put]
func (c *notificationApiController) save(ctx *fiber.Ctx) error {
	var payload notificationapimodels.SavePreferenceRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	view, err := notification.Preferences.Save(companyID, userID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "preference save failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
