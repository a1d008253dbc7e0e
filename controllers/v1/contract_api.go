package apiv1

import (
	"intavia-backend/controllers"
	"intavia-backend/lib/contractoffer"
	"intavia-backend/middleware"
	apimodels "intavia-backend/models/api"
	contractapimodels "intavia-backend/models/api/contract"

	"github.com/gofiber/fiber/v2"
)

type contractApiController struct {
	controllers.BaseAPIController
}

func InitContractApiRouters(api fiber.Router) {
	controller := contractApiController{}
	// signer routes are public, access is gated by the signing token
	api.Route("sign", func(router fiber.Router) {
		router.Get(":id", controller.getForSigner)
		router.Post(":id", controller.sign)
		router.Put(":id/reject", controller.rejectBySigner)
	})
	api.Route("offers", func(router fiber.Router) {
		router.Use(middleware.AuthorizationRequired())
		router.Post("", controller.sendOffer)
		router.Get("candidate/:candidateId", controller.listByCandidate)
		router.Put(":id/cancel", controller.cancel)
		router.Get(":id/document", controller.signedDocument)
	})
}

// @Summary Send a contract offer
// @Tags Contracts
// @Description Create the offer, render the document and mail the signing link
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	body body	contractapimodels.SendOfferRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=contractapimodels.OfferView}
// @Failure 400 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @router /api/v1/offers [post]
func (c *contractApiController) sendOffer(ctx *fiber.Ctx) error {
	var payload contractapimodels.SendOfferRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	result, err := contractoffer.Instance.SendOffer(ctx.UserContext(), companyID, payload, userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "offer sending failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponseWithWarnings(result.Offer, result.Warnings))
}

// @Summary List a candidate's offers
// @Tags Contracts
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	candidateId	path	string	true	"candidate id"
// @Success 200 {object} apimodels.Response{data=[]contractapimodels.OfferView}
// @Failure 500 {object} apimodels.Response
// @router /api/v1/offers/candidate/{candidateId} [get]
func (c *contractApiController) listByCandidate(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	list, err := contractoffer.Instance.ListByCandidate(companyID, ctx.Params("candidateId"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "offer listing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}

// @Summary Cancel an offer
// @Tags Contracts
// @Description Withdraw an offer that is still waiting for the candidate
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"offer id"
// @Success 200 {object} apimodels.Response{data=contractapimodels.OfferView}
// @Failure 409 {object} apimodels.Response
// @router /api/v1/offers/{id}/cancel [put]
func (c *contractApiController) cancel(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	userID := middleware.GetUserID(ctx)
	view, err := contractoffer.Instance.Cancel(companyID, ctx.Params("id"), userID)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "offer cancellation failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Signed document link
// @Tags Contracts
// @Description Short-lived download link for the signed contract
// @Param   Authorization		header	string	true	"Authorization token"
// @Param	id	path	string	true	"offer id"
// @Success 200 {object} apimodels.Response{data=contractapimodels.SignedDocumentView}
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/offers/{id}/document [get]
func (c *contractApiController) signedDocument(ctx *fiber.Ctx) error {
	companyID := middleware.GetCompanyID(ctx)
	view, err := contractoffer.Instance.GetSignedDocumentURL(ctx.UserContext(), companyID, ctx.Params("id"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "signed document lookup failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary View an offer as the signer
// @Tags Contracts
// @Param	id	path	string	true	"offer id"
// @Param	token	query	string	true	"signing token"
// @Success 200 {object} apimodels.Response{data=contractapimodels.OfferView}
// @Failure 404 {object} apimodels.Response
// @router /api/v1/sign/{id} [get]
func (c *contractApiController) getForSigner(ctx *fiber.Ctx) error {
	view, err := contractoffer.Instance.GetForSigner(ctx.Params("id"), ctx.Query("token"))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "offer lookup failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Sign an offer
// @Tags Contracts
// @Description The candidate signs, the document is stored and the offer settles
// @Param	id	path	string	true	"offer id"
// @Param	token	query	string	true	"signing token"
// @Param	body body	contractapimodels.SignRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=contractapimodels.OfferView}
// @Failure 409 {object} apimodels.Response
// @router /api/v1/sign/{id} [post]
func (c *contractApiController) sign(ctx *fiber.Ctx) error {
	var payload contractapimodels.SignRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := contractoffer.Instance.Sign(ctx.UserContext(), ctx.Params("id"), ctx.Query("token"), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "offer signing failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Decline an offer
// @Tags Contracts
// @Param	id	path	string	true	"offer id"
// @Param	token	query	string	true	"signing token"
// @Param	body body	contractapimodels.RejectRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=contractapimodels.OfferView}
// @Failure 409 {object} apimodels.Response
// @router /api/v1/sign/{id}/reject [put]
func (c *contractApiController) rejectBySigner(ctx *fiber.Ctx) error {
	var payload contractapimodels.RejectRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	view, err := contractoffer.Instance.Reject(ctx.Params("id"), ctx.Query("token"), payload.Reason)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "offer rejection failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}
