// Package handler provides HTTP handlers for the API.
package handler

import (
	"github.com/gofiber/fiber/v2"

	"qayeem-service/internal/transport/httpserver/dto"
)

// paramID reads a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// badRequest writes a 400 with the standard error shape.
func badRequest(c *fiber.Ctx, msg, code string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// validationFailed writes a 400 carrying field-level details.
func validationFailed(c *fiber.Ctx, details error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error:   "validation failed",
		Code:    "VALIDATION_ERROR",
		Details: details,
	})
}

// notFound writes a 404 with the standard error shape.
func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: msg,
		Code:  "NOT_FOUND",
	})
}

// internalError writes a 500 with the standard error shape.
func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: msg,
		Code:  "INTERNAL_ERROR",
	})
}
