package apiv1

import (
	"intavia-backend/controllers"
	"intavia-backend/lib/invite"
	"intavia-backend/middleware"
	apimodels "intavia-backend/models/api"
	inviteapimodels "intavia-backend/models/api/invite"

	"github.com/gofiber/fiber/v2"
)

type inviteApiController struct {
	controllers.BaseAPIController
}

func InitInviteApiRouters(api fiber.Router) {
	controller := inviteApiController{}
	api.Route("invites", func(router fiber.Router) {
		// rejection comes from the invitee, outside any session
		router.Put(":id/reject", controller.reject)
		router.Use(middleware.AuthorizationRequired())
		router.Get("", controller.list)
		router.Use(middleware.CompanyAdminRequired())
		router.Post("", controller.create)
	})
}

// @Summary Invite a teammate
// @Tags Invites
// @Description Create a pending invite and mail the signup link
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	inviteapimodels.CreateInviteRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=inviteapimodels.InviteView}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/invites [post]
func (c *inviteApiController) create(ctx *fiber.Ctx) error {
	var payload inviteapimodels.CreateInviteRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	result, err := invite.Instance.Create(companyID, payload, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invite creation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponseWithWarnings(result.Invite, result.Warnings))
}

// @Summary List invites
// @Tags Invites
// @Param   Authorization		header	string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=[]inviteapimodels.InviteView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/invites [get]
func (c *inviteApiController) list(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	list, err := invite.Instance.List(companyID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invite listing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Decline an invite
// @Tags Invites
// @Description The invitee declines a pending invite
// @Param	id	path	string	true	"invite id"
// @Success 200 {object} apimodels.Response{data=inviteapimodels.InviteView}
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/invites/{id}/reject [put]
func (c *inviteApiController) reject(ctx *fiber.Ctx) error {
	view, err := invite.Instance.Reject(ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "invite rejection failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
