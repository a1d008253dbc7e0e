package apiv1

import (
	"intavia-backend/controllers"
	"intavia-backend/lib/interview"
	"intavia-backend/middleware"
	apimodels "intavia-backend/models/api"
	interviewapimodels "intavia-backend/models/api/interview"

	"github.com/gofiber/fiber/v2"
)

type interviewApiController struct {
	controllers.BaseAPIController
}

func InitInterviewApiRouters(api fiber.Router) {
	controller := interviewApiController{}
	api.Route("interviews", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Post("", controller.schedule)
		router.Get("candidate/:candidateId", controller.listByCandidate)
		router.Put(":id/confirm", controller.confirm)
		router.Put(":id/complete", controller.complete)
		router.Put(":id/reschedule", controller.reschedule)
		router.Put(":id/cancel", controller.cancel)
	})
}

// @Summary Schedule an interview
// @Tags Interviews
// @Description Create the interview and sync it to the organizer's calendar when connected
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	interviewapimodels.ScheduleRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.InterviewView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/interviews [post]
func (c *interviewApiController) schedule(ctx *fiber.Ctx) error {
	var payload interviewapimodels.ScheduleRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	result, err := interview.Instance.Schedule(ctx.UserContext(), companyID, payload, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "interview scheduling failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponseWithWarnings(result.Interview, result.Warnings))
}

// @Summary List a candidate's interviews
// @Tags Interviews
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	candidateId	path	string	true	"candidate id"
// @Success 200 {object} apimodels.Response{data=[]interviewapimodels.InterviewView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/interviews/candidate/{candidateId} [get]
func (c *interviewApiController) listByCandidate(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	list, err := interview.Instance.ListByCandidate(companyID, ctx.Params("candidateId"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "interview listing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Confirm an interview
// @Tags Interviews
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"interview id"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.InterviewView}
// @Failure 409 {object} apimodels.Response
// @router /api/v1/interviews/{id}/confirm [put]
func (c *interviewApiController) confirm(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	view, err := interview.Instance.Confirm(companyID, ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "interview confirmation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Complete an interview
// @Tags Interviews
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"interview id"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.InterviewView}
// @Failure 409 {object} apimodels.Response
// @router /api/v1/interviews/{id}/complete [put]
func (c *interviewApiController) complete(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	view, err := interview.Instance.Complete(companyID, ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "interview completion failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Reschedule an interview
// @Tags Interviews
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"interview id"
// @Param	body body	interviewapimodels.RescheduleRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.InterviewView}
// @Failure 409 {object} apimodels.Response
// @router /api/v1/interviews/{id}/reschedule [put]
func (c *interviewApiController) reschedule(ctx *fiber.Ctx) error {
	var payload interviewapimodels.RescheduleRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	result, err := interview.Instance.Reschedule(ctx.UserContext(), companyID, ctx.Params("id"), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "interview rescheduling failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponseWithWarnings(result.Interview, result.Warnings))
}

// @Summary Cancel an interview
// @Tags Interviews
// @Description Cancel, remove the calendar event when one exists, and mail the candidate
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"interview id"
// @Success 200 {object} apimodels.Response{data=interviewapimodels.InterviewView}
// @Failure 409 {object} apimodels.Response
// @router /api/v1/interviews/{id}/cancel [put]
func (c *interviewApiController) cancel(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	result, err := interview.Instance.Cancel(ctx.UserContext(), companyID, ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "interview cancellation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponseWithWarnings(result.Interview, result.Warnings))
}
