// Package response provides the JSON envelope all handlers reply with.
package response

import (
	"errors"
	"net/http"

	"github.com/Lumina-Wellness/service-billing/internal/domain"
	"github.com/gin-gonic/gin"
)

// Success writes a 200 envelope.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Created writes a 201 envelope.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

// BadRequest writes a 400 envelope with the given message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// Unauthorized writes a 401 envelope.
func Unauthorized(c *gin.Context, msg string) {
	c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg})
}

// Error maps domain errors to HTTP status codes and writes the envelope.
func Error(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}
