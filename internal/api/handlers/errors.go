package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/dboots/bg-broadcast/internal/domain"
	"github.com/dboots/bg-broadcast/pkg/logger"
)

// statusClientClosedRequest is the nginx convention for a caller that went
// away before the response was ready.
const statusClientClosedRequest = 499

type ErrorResponse struct {
	Error string `json:"error"`
}

func errorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{Error: message})
}

// writeError maps service errors onto status codes. fallback is the message
// used for anything unexpected, so internal details never reach the client.
func writeError(c echo.Context, log logger.Logger, err error, fallback string) error {
	var upstream *domain.UpstreamError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrs):
		return errorJSON(c, http.StatusBadRequest, validationMessage(validationErrs))
	case errors.Is(err, domain.ErrInvalidInput):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrBidTooLow):
		return errorJSON(c, http.StatusConflict, "bid must be higher than the current highest bid")
	case errors.Is(err, domain.ErrListingClosed):
		return errorJSON(c, http.StatusConflict, "listing has ended")
	case errors.Is(err, domain.ErrAlreadyExists):
		return errorJSON(c, http.StatusConflict, "already exists")
	case errors.As(err, &upstream):
		return errorJSON(c, upstream.StatusCode, upstream.Error())
	case errors.Is(err, context.Canceled):
		log.Debug("Request canceled by client", "path", c.Path())
		return errorJSON(c, statusClientClosedRequest, "request canceled")
	}

	log.Error("Request failed", "path", c.Path(), "error", err)
	return errorJSON(c, http.StatusInternalServerError, fallback)
}

func validationMessage(errs validator.ValidationErrors) string {
	for _, fe := range errs {
		switch fe.Tag() {
		case "required", "required_without":
			return fe.Field() + " is required"
		case "numeric":
			return fe.Field() + " must be a number"
		default:
			return fe.Field() + " is invalid"
		}
	}
	return "invalid request"
}
