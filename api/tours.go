package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/tourbooking/internal/calendar"
	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/Domenick1991/tourbooking/internal/service/availability"
	"github.com/Domenick1991/tourbooking/internal/service/tours"
	"github.com/gin-gonic/gin"
)

type TourHandler struct {
	tours        tours.TourUseCase
	availability availability.AvailabilityUseCase
	loc          *time.Location
	now          func() time.Time
}

type availabilityResponse struct {
	TourID      string         `json:"tour_id"`
	MaxCapacity int            `json:"max_capacity"`
	Occupancy   map[string]int `json:"occupancy"`
	Degraded    bool           `json:"degraded"`
}

type calendarResponse struct {
	TourID      string         `json:"tour_id"`
	MaxCapacity int            `json:"max_capacity"`
	Degraded    bool           `json:"degraded"`
	Selected    string         `json:"selected,omitempty"`
	Month       calendar.Month `json:"month"`
}

func NewTourHandler(tours tours.TourUseCase, availability availability.AvailabilityUseCase, loc *time.Location) *TourHandler {
	return &TourHandler{tours: tours, availability: availability, loc: loc, now: time.Now}
}

func (h *TourHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/availability", h.occupancy)
	router.GET("/:id/calendar", h.month)
}

func (h *TourHandler) list(c *gin.Context) {
	list, err := h.tours.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *TourHandler) get(c *gin.Context) {
	tour, err := h.tours.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tour)
}

func (h *TourHandler) occupancy(c *gin.Context) {
	tour, err := h.tours.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	result := h.availability.Occupancy(c.Request.Context(), tour.ID)
	c.JSON(http.StatusOK, availabilityResponse{
		TourID:      tour.ID,
		MaxCapacity: tour.MaxCapacity,
		Occupancy:   result.Counts,
		Degraded:    result.Degraded,
	})
}

// month renders one calendar month. year and month default to the current
// month, nav=prev|next moves from there and selected marks a date when it is
// still bookable.
func (h *TourHandler) month(c *gin.Context) {
	tour, err := h.tours.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	result := h.availability.Occupancy(c.Request.Context(), tour.ID)
	picker := calendar.NewPicker(result.Counts, tour.MaxCapacity, h.loc, calendar.WithClock(h.now))

	year, month := picker.Cursor()
	if v := c.Query("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		month = time.Month(m)
	}
	picker.ShowMonth(year, month)

	switch c.Query("nav") {
	case "prev":
		picker.PrevMonth()
	case "next":
		picker.NextMonth()
	}

	resp := calendarResponse{
		TourID:      tour.ID,
		MaxCapacity: tour.MaxCapacity,
		Degraded:    result.Degraded,
	}
	if v := c.Query("selected"); v != "" {
		date, err := domain.ParseDate(v, h.loc)
		if err != nil {
			writeError(c, err)
			return
		}
		if picker.Select(date, nil) {
			resp.Selected = domain.DateKey(date)
		}
	}
	resp.Month = picker.Month()

	c.JSON(http.StatusOK, resp)
}
