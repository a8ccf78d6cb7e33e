package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
	"github.com/parpalak/admin-yard-sub000/internal/store"
)

// AppError is the structured error the panel returns to clients. Code is a
// stable machine-readable identifier, Status the HTTP status it maps to.
type AppError struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewUnknownEntityError(name string) *AppError {
	return &AppError{
		Code:    "UNKNOWN_ENTITY",
		Status:  fiber.StatusNotFound,
		Message: fmt.Sprintf("Entity %q is not registered.", name),
	}
}

func NewNotFoundError(entity string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Status:  fiber.StatusNotFound,
		Message: fmt.Sprintf("%s not found.", entity),
	}
}

// NewMissingParamError reports a primary-key parameter absent from the
// query string.
func NewMissingParamError(param string) *AppError {
	return &AppError{
		Code:    "INVALID_REQUEST",
		Status:  fiber.StatusBadRequest,
		Message: fmt.Sprintf("Parameter %q must be provided.", param),
	}
}

func NewInvalidRequestError(message string) *AppError {
	return &AppError{
		Code:    "INVALID_REQUEST",
		Status:  fiber.StatusBadRequest,
		Message: message,
	}
}

func NewActionNotAllowedError(entity string, action schema.Action) *AppError {
	return &AppError{
		Code:    "ACTION_NOT_ALLOWED",
		Status:  fiber.StatusForbidden,
		Message: fmt.Sprintf("Action %q is not enabled for %s.", action, entity),
	}
}

func NewMethodNotAllowedError(method string) *AppError {
	return &AppError{
		Code:    "METHOD_NOT_ALLOWED",
		Status:  fiber.StatusMethodNotAllowed,
		Message: fmt.Sprintf("Method %s is not allowed for this action.", method),
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Status:  fiber.StatusConflict,
		Message: message,
	}
}

// ErrorHandler converts errors escaping the handlers into structured
// responses. Configuration errors surface as internal errors; their detail
// goes to the log, not to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(appErr)
	}

	var cfgErr *schema.ConfigError
	if errors.As(err, &cfgErr) {
		log.Printf("config error on %s: %v", c.OriginalURL(), cfgErr)
		return c.Status(fiber.StatusInternalServerError).JSON(&AppError{
			Code:    "CONFIG_ERROR",
			Message: "The panel is misconfigured.",
		})
	}

	if errors.Is(err, store.ErrUniqueViolation) {
		appErr = NewConflictError("A row with the same unique value already exists.")
		return c.Status(appErr.Status).JSON(appErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(&AppError{
			Code:    "HTTP_ERROR",
			Message: fiberErr.Message,
		})
	}

	log.Printf("error on %s: %v", c.OriginalURL(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(&AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error.",
	})
}
