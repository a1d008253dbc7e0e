package apiv1

import (
	"intavia-backend/config"
	"intavia-backend/controllers"
	"intavia-backend/lib/subscription/monitor"
	"intavia-backend/middleware"
	apimodels "intavia-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type monitoringApiController struct {
	controllers.BaseAPIController
}

func InitMonitoringApiRouters(api fiber.Router) {
	controller := monitoringApiController{}
	api.Route("monitoring", func(router fiber.Router) {
		router.Use(middleware.MonitoringKeyRequired(config.Conf.Monitoring.Key))
		router.Post("run-checks", controller.runChecks)
	})
}

// @Summary Run subscription checks
// @Tags Monitoring
// @Description On-demand sweep of all subscription checks; requires the monitoring key
// @Param   Authorization		header	string	true	"pre-shared monitoring key"
// @Success 200 {object} apimodels.Response{data=monitoringapimodels.Summary}
// @Failure 401 {object} apimodels.Response
// @router /api/v1/monitoring/run-checks [post]
func (c *monitoringApiController) runChecks(ctx *fiber.Ctx) error {
	summary := monitor.Instance.RunAllChecks(ctx.UserContext())
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(summary))
}
