package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/tourbooking/internal/content"
	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps service errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrIncompleteBooking):
		c.AbortWithStatus(http.StatusNoContent)
	case errors.Is(err, domain.ErrTourNotFound), errors.Is(err, content.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrSoldOut):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidDate), errors.Is(err, domain.ErrInvalidGuests), errors.Is(err, domain.ErrDateInPast):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCheckoutNotConfigured):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Checkout is not configured for this tour. Please contact us to book.", "detail": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
