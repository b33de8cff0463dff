package api

import (
	"net/http"

	"github.com/Domenick1991/tourbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IdempotencyHeader may carry the submission key instead of the body field.
const IdempotencyHeader = "Idempotency-Key"

type BookingHandler struct {
	service booking.BookingUseCase
}

type submitBookingRequest struct {
	TourID         string `json:"tour_id"`
	Date           string `json:"date"`
	Time           string `json:"time"`
	Guests         int    `json:"guests"`
	IdempotencyKey string `json:"idempotency_key"`
	CustomerEmail  string `json:"customer_email"`
	CustomerName   string `json:"customer_name"`
}

type quoteRequest struct {
	Date   string `json:"date"`
	Guests int    `json:"guests"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.submit)
}

// RegisterQuote mounts the quote endpoint under a tours group.
func (h *BookingHandler) RegisterQuote(router *gin.RouterGroup) {
	router.POST("/:id/quote", h.quote)
}

func (h *BookingHandler) submit(c *gin.Context) {
	var req submitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := req.IdempotencyKey
	if key == "" {
		key = c.GetHeader(IdempotencyHeader)
	}
	if key == "" {
		key = uuid.NewString()
	}

	checkout, err := h.service.Submit(c.Request.Context(), booking.SubmitInput{
		TourID:         req.TourID,
		Date:           req.Date,
		Time:           req.Time,
		Guests:         req.Guests,
		IdempotencyKey: key,
		CustomerEmail:  req.CustomerEmail,
		CustomerName:   req.CustomerName,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header(IdempotencyHeader, key)
	c.JSON(http.StatusCreated, checkout)
}

func (h *BookingHandler) quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), booking.QuoteInput{
		TourID: c.Param("id"),
		Date:   req.Date,
		Guests: req.Guests,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
