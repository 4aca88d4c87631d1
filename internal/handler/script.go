package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/gamevideogen/api/internal/model"
	"github.com/gamevideogen/api/internal/service"
	"github.com/gamevideogen/api/pkg/response"
)

type ScriptHandler struct {
	service   *service.ScriptService
	validator *validator.Validate
}

func NewScriptHandler(svc *service.ScriptService, v *validator.Validate) *ScriptHandler {
	return &ScriptHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /api/script/generate. Unlike the video pipeline
// this is synchronous: the script comes back in the response.
func (h *ScriptHandler) Generate(c *fiber.Ctx) error {
	var req model.ScriptGenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	script, err := h.service.Generate(c.Context(), &req)
	if err != nil {
		return response.AIError(c, err.Error())
	}

	estimate := service.EstimateCost(req.Duration)
	return response.OK(c, model.ScriptGenerateResponse{
		Script:        script,
		EstimatedCost: estimate.TotalCost,
	})
}
