package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
	"github.com/semwett0301/rcruit-flow-sub001/internal/services"
)

type EmailHandler struct {
	emailService services.EmailService
}

func NewEmailHandler(emailService services.EmailService) *EmailHandler {
	return &EmailHandler{emailService: emailService}
}

// HandleGenerate handles POST /emails/generate
func (h *EmailHandler) HandleGenerate(c *fiber.Ctx) error {
	var form models.CandidateForm
	if err := c.BodyParser(&form); err != nil {
		return RespondError(c, services.NewProcessingError("Invalid request payload", err))
	}

	resp, err := h.emailService.GenerateEmail(c.UserContext(), &form)
	if err != nil {
		return RespondError(c, err)
	}

	return c.JSON(resp)
}
