package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

const AdminTokenHeader = "X-Admin-Token"

type AdminHandler struct {
	service booking.BookingUseCase
	token   string
}

type blockDateRequest struct {
	Date   string `json:"date"`
	Guests int    `json:"guests"`
}

type blockResponse struct {
	Reference     string `json:"reference"`
	TourID        string `json:"tour_id"`
	Date          string `json:"date"`
	Guests        int    `json:"guests"`
	PaymentStatus string `json:"payment_status"`
}

func NewAdminHandler(service booking.BookingUseCase, token string) *AdminHandler {
	return &AdminHandler{service: service, token: token}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.Use(h.requireToken)
	router.POST("/tours/:id/blocks", h.block)
}

// requireToken rejects every request while no admin token is configured.
func (h *AdminHandler) requireToken(c *gin.Context) {
	got := c.GetHeader(AdminTokenHeader)
	if h.token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}

func (h *AdminHandler) block(c *gin.Context) {
	var req blockDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.BlockDate(c.Request.Context(), c.Param("id"), req.Date, req.Guests)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, blockResponse{
		Reference:     b.Reference,
		TourID:        b.TourID,
		Date:          domain.DateKey(b.Date),
		Guests:        b.Guests,
		PaymentStatus: string(b.PaymentStatus),
	})
}
