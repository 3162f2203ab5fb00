package handler

import (
	"errors"
	"log"
	"net/http"

	"gamerx/internal/middleware"
	"gamerx/internal/service"
	"gamerx/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// respondError maps service error kinds to HTTP statuses. Anything unexpected is logged and
// hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(svcErr.Kind, service.ErrInvalidInput), errors.Is(svcErr.Kind, service.ErrConflict):
			status = http.StatusBadRequest
		case errors.Is(svcErr.Kind, service.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(svcErr.Kind, service.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(svcErr.Kind, service.ErrNotFound):
			status = http.StatusNotFound
		}
		c.JSON(status, response.Error(status, svcErr.Message))
		return
	}

	log.Printf("ERROR: %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
}

// bindJSON decodes and validates the request body into req, answering 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, service.ValidationMessage(err)))
			return false
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return false
	}
	return true
}

// uuidParam parses a path parameter. A value that is not a UUID names no entity, so it is a 404.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Resource not found"))
		return uuid.Nil, false
	}
	return id, true
}

// currentUser returns the authenticated user's id. Routes using it sit behind Authenticate.
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Authentication required"))
	}
	return id, ok
}
