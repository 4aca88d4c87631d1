package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/gamevideogen/api/internal/model"
	"github.com/gamevideogen/api/internal/service"
	"github.com/gamevideogen/api/internal/store"
	"github.com/gamevideogen/api/pkg/response"
)

type VideoHandler struct {
	service   *service.VideoService
	validator *validator.Validate
}

func NewVideoHandler(svc *service.VideoService, v *validator.Validate) *VideoHandler {
	return &VideoHandler{
		service:   svc,
		validator: v,
	}
}

// Generate handles POST /api/video/generate. It validates the request,
// creates a task, starts the pipeline in the background and returns the
// task id right away; clients observe the outcome via Status.
func (h *VideoHandler) Generate(c *fiber.Ctx) error {
	var req model.VideoGenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.StartGeneration(&req)
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Status handles GET /api/video/status?taskId=...
func (h *VideoHandler) Status(c *fiber.Ctx) error {
	taskID := c.Query("taskId")
	if taskID == "" {
		return response.ValidationError(c, "taskId parameter is required", nil)
	}

	result, err := h.service.GetTaskStatus(taskID)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			return response.NotFound(c, "Task not found or expired")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

func formatValidationErrors(err error) interface{} {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		errors := make(map[string]string)
		for _, e := range validationErrors {
			errors[e.Field()] = e.Tag()
		}
		return errors
	}
	return nil
}
