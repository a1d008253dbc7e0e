package apiv1

import (
	"intavia-backend/controllers"
	"intavia-backend/lib/candidate"
	"intavia-backend/middleware"
	apimodels "intavia-backend/models/api"
	candidateapimodels "intavia-backend/models/api/candidate"

	"github.com/gofiber/fiber/v2"
)

type candidateApiController struct {
	controllers.BaseAPIController
}

func InitCandidateApiRouters(api fiber.Router) {
	controller := candidateApiController{}
	api.Route("candidates", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Post("", controller.create)
		router.Put("list", controller.list)
		router.Put("bulk-transition", controller.bulkTransition)
		router.Get(":id", controller.get)
		router.Put(":id/transition", controller.transition)
		router.Put(":id/step", controller.updateStep)
		router.Post(":id/evaluation", controller.requestEvaluation)
	})
}

// @Summary Add a candidate
// @Tags Candidates
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	candidateapimodels.CandidateCreateRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/candidates [post]
func (c *candidateApiController) create(ctx *fiber.Ctx) error {
	var payload candidateapimodels.CandidateCreateRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	view, err := candidate.Instance.Create(companyID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "candidate creation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary List candidates
// @Tags Candidates
// @Description Filtered candidate list for a job
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	candidateapimodels.CandidateFilter	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/candidates/list [put]
func (c *candidateApiController) list(ctx *fiber.Ctx) error {
	var payload candidateapimodels.CandidateFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	list, err := candidate.Instance.List(companyID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "candidate listing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Get a candidate
// @Tags Candidates
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"candidate id"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/candidates/{id} [get]
func (c *candidateApiController) get(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	view, err := candidate.Instance.GetByID(companyID, ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "candidate lookup failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Move a candidate through the pipeline
// @Tags Candidates
// @Description Apply one status transition, validated against the pipeline rules
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"candidate id"
// @Param	body body	candidateapimodels.TransitionRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/candidates/{id}/transition [put]
func (c *candidateApiController) transition(ctx *fiber.Ctx) error {
	var payload candidateapimodels.TransitionRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)
	view, err := candidate.Instance.Transition(companyID, ctx.Params("id"), payload.Status, userID, role)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "candidate transition failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Bulk candidate action
// @Tags Candidates
// @Description Apply one action to many candidates, all or nothing
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	candidateapimodels.BulkTransitionRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/candidates/bulk-transition [put]
func (c *candidateApiController) bulkTransition(ctx *fiber.Ctx) error {
	var payload candidateapimodels.BulkTransitionRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	role := middleware.GetUserRole(ctx)
	err := candidate.Instance.BulkTransition(companyID, payload.CandidateIDs, payload.Action, userID, role)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "bulk transition failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Update interview flow progress
// @Tags Candidates
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"candidate id"
// @Param	body body	candidateapimodels.StepProgressRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.CandidateView}
// @Failure 400 {object} apimodels.Response
// @router /api/v1/candidates/{id}/step [put]
func (c *candidateApiController) updateStep(ctx *fiber.Ctx) error {
	var payload candidateapimodels.StepProgressRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	view, err := candidate.Instance.UpdateStepProgress(companyID, ctx.Params("id"), payload.CurrentStep)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "step update failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Request a candidate evaluation
// @Tags Candidates
// @Description Queue an evaluation; force replaces an existing one
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"candidate id"
// @Param	body body	candidateapimodels.EvaluationRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=candidateapimodels.EvaluationView}
// @Failure 409 {object} apimodels.Response
// @router /api/v1/candidates/{id}/evaluation [post]
func (c *candidateApiController) requestEvaluation(ctx *fiber.Ctx) error {
	var payload candidateapimodels.EvaluationRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	view, err := candidate.Instance.RequestEvaluation(companyID, ctx.Params("id"), payload.Force, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "evaluation request failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
