package apiv1

import (
	"intavia-backend/controllers"
	"intavia-backend/lib/auth"
	apimodels "intavia-backend/models/api"
	authapimodels "intavia-backend/models/api/auth"

	"github.com/gofiber/fiber/v2"
)

type authApiController struct {
	controllers.BaseAPIController
}

func InitAuthApiRouters(api fiber.Router) {
	controller := authApiController{}
	api.Route("auth", func(router fiber.Router) {
		router.Post("sign-up", controller.signUp)
		router.Post("sign-in", controller.signIn)
		router.Post("verify-otp", controller.verifyOtp)
		router.Post("sign-out", controller.signOut)
	})
}

// @Summary Sign up
// @Tags Auth
// @Description Register a new company admin, or join a company via invite
// @Param	body body	authapimodels.SignUpRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.TokenResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @router /api/v1/auth/sign-up [post]
func (c *authApiController) signUp(ctx *fiber.Ctx) error {
	var payload authapimodels.SignUpRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	result, err := auth.Instance.SignUp(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "sign up failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponseWithWarnings(result.Tokens, result.Warnings))
}

// @Summary Sign in
// @Tags Auth
// @Description Exchange credentials for a token pair
// @Param	body body	authapimodels.SignInRequest	true	"request body"
// @Success 200 {object} apimodels.Response{data=authapimodels.TokenResponse}
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @router /api/v1/auth/sign-in [post]
func (c *authApiController) signIn(ctx *fiber.Ctx) error {
	var payload authapimodels.SignInRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	tokens, err := auth.Instance.SignIn(payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "sign in failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(tokens))
}

// @Summary Verify email
// @Tags Auth
// @Description Confirm the one-time code sent at signup
// @Param	body body	authapimodels.VerifyOtpRequest	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 401 {object} apimodels.Response
// @router /api/v1/auth/verify-otp [post]
func (c *authApiController) verifyOtp(ctx *fiber.Ctx) error {
	var payload authapimodels.VerifyOtpRequest
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := auth.Instance.VerifyOtp(payload); err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "verification failed")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Sign out
// @Tags Auth
// @Description Tokens are stateless, the client drops them
// @Success 200 {object} apimodels.Response
// @router /api/v1/auth/sign-out [post]
func (c *authApiController) signOut(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}
