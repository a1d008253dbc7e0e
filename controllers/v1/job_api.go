package apiv1

import (
	"intavia-backend/controllers"
	"intavia-backend/lib/job"
	"intavia-backend/middleware"
	apimodels "intavia-backend/models/api"
	jobapimodels "intavia-backend/models/api/job"

	"github.com/gofiber/fiber/v2"
)

type jobApiController struct {
	controllers.BaseAPIController
}

func InitJobApiRouters(api fiber.Router) {
	controller := jobApiController{}
	api.Route("jobs", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Post("", controller.create)
		router.Get("", controller.list)
		router.Get(":id", controller.get)
		router.Put(":id/close", controller.close)
		router.Get(":id/permissions", controller.listPermissions)
		router.Use(middleware.CompanyAdminRequired())
		router.Post(":id/permissions", controller.grantPermission)
		router.Delete(":id/permissions/:userId", controller.revokePermission)
	})
}

// @Summary Create a job
// @Tags Jobs
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	jobapimodels.CreateJobRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobView}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/jobs [post]
func (c *jobApiController) create(ctx *fiber.Ctx) error {
	var payload jobapimodels.CreateJobRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	view, err := job.Instance.Create(companyID, payload, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job creation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary List jobs
// @Tags Jobs
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]jobapimodels.JobView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs [get]
func (c *jobApiController) list(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	list, err := job.Instance.List(companyID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job listing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Get a job
// @Tags Jobs
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"job id"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/jobs/{id} [get]
func (c *jobApiController) get(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	view, err := job.Instance.GetByID(companyID, ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job lookup failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Close a job
// @Tags Jobs
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"job id"
// @Success 200 {object} apimodels.Response{data=jobapimodels.JobView}
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/jobs/{id}/close [put]
func (c *jobApiController) close(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)
	view, err := job.Instance.Close(companyID, ctx.Params("id"), userID, role)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "job closing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary List job permissions
// @Tags Jobs
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"job id"
// @Success 200 {object} apimodels.Response{data=[]jobapimodels.PermissionView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/permissions [get]
func (c *jobApiController) listPermissions(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	list, err := job.Instance.ListPermissions(companyID, ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "permission listing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Grant job access
// @Tags Jobs
// @Description Give a teammate access to manage this job's candidates
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"job id"
// @Param	body body	jobapimodels.GrantPermissionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=jobapimodels.PermissionView}
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/jobs/{id}/permissions [post]
func (c *jobApiController) grantPermission(ctx *fiber.Ctx) error {
	var payload jobapimodels.GrantPermissionRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	result, err := job.Instance.GrantPermission(companyID, ctx.Params("id"), payload, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "permission grant failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponseWithWarnings(result.Permission, result.Warnings))
}

// @Summary Revoke job access
// @Tags Jobs
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"job id"
// @Param	userId	path	string	true	"user id"
// @Success 200 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/jobs/{id}/permissions/{userId} [delete]
func (c *jobApiController) revokePermission(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	err := job.Instance.RevokePermission(companyID, ctx.Params("id"), ctx.Params("userId"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "permission revoke failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
