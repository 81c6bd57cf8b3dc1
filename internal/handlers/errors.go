package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
	"github.com/semwett0301/rcruit-flow-sub001/internal/services"
)

const genericErrorMessage = "Something went wrong while processing your request. Please try again later."

// RespondError writes the classified error. Internal messages are only
// exposed for codes the caller can correct.
func RespondError(c *fiber.Ctx, err error) error {
	appErr := services.Classify(err)
	return c.Status(appErr.Code.HTTPStatus()).JSON(errorBody(appErr))
}

func errorBody(appErr *services.AppError) models.ErrorResponse {
	if appErr.Code.ClientCorrectable() {
		return models.ErrorResponse{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	log.Printf("❌ %v", appErr)

	resp := models.ErrorResponse{
		Code:    string(appErr.Code),
		Message: genericErrorMessage,
	}
	if fields, ok := appErr.Details["fields"]; ok {
		resp.Details = map[string]any{"fields": fields}
	}
	if appErr.Code.Retryable() {
		if resp.Details == nil {
			resp.Details = map[string]any{}
		}
		resp.Details["retryable"] = true
	}
	return resp
}

// ErrorHandler is the Fiber error handler for errors returned past the
// handlers, such as an oversized body or an unknown route.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code == fiber.StatusRequestEntityTooLarge {
			return c.Status(fiberErr.Code).JSON(models.ErrorResponse{
				Code:    string(services.CodeSizeExceeded),
				Message: "The uploaded file is too large",
			})
		}

		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{
			Code:    string(services.CodeUnknownError),
			Message: fiberErr.Message,
		})
	}

	return RespondError(c, err)
}
