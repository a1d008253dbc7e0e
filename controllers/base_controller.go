package controllers

import (
	"intavia-backend/lib/apperrors"
	apimodels "intavia-backend/models/api"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("request body parse failed")
		return errors.New("request body is malformed")
	}
	return nil
}

func (c *BaseAPIController) GetLogger(ctx *fiber.Ctx) *log.Entry {
	return log.
		WithField("request_id", ctx.Locals("requestid")).
		WithField("path", ctx.Path())
}

// SendError maps the error kind to an HTTP status. The fallback message is
// only used for internal errors, domain errors carry their own text.
func (c *BaseAPIController) SendError(ctx *fiber.Ctx, logger *log.Entry, err error, fallback string) error {
	status := apperrors.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.WithError(err).Error(fallback)
		return ctx.Status(status).JSON(apimodels.NewError(fallback))
	}
	logger.WithError(err).Info(fallback)
	return ctx.Status(status).JSON(apimodels.NewError(err.Error()))
}
