package booking

import (
	"fmt"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
)

// MaxGuestsWithoutDate bounds the guest counter before a date is picked.
const MaxGuestsWithoutDate = 12

// Form is the guest-count state of one booking attempt.
type Form struct {
	tour   domain.Tour
	counts map[string]int
	date   *time.Time
	guests int
}

type Quote struct {
	TourID          string `json:"tour_id"`
	Date            string `json:"date,omitempty"`
	Guests          int    `json:"guests"`
	MaxGuests       int    `json:"max_guests"`
	SpotsLeft       int    `json:"spots_left"`
	SoldOut         bool   `json:"sold_out"`
	Price           int    `json:"price"`
	Total           int    `json:"total"`
	RegularTotal    int    `json:"regular_total"`
	ShowRegular     bool   `json:"show_regular"`
	LowStockMessage string `json:"low_stock_message,omitempty"`
	Degraded        bool   `json:"degraded"`
}

func NewForm(tour domain.Tour, counts map[string]int) *Form {
	if counts == nil {
		counts = map[string]int{}
	}
	return &Form{tour: tour, counts: counts, guests: 1}
}

func (f *Form) Guests() int {
	return f.guests
}

func (f *Form) spotsLeft(date time.Time) int {
	return max(0, f.tour.MaxCapacity-f.counts[domain.DateKey(date)])
}

// SelectDate sets the date and resets guests to 1 when the current count no
// longer fits.
func (f *Form) SelectDate(date time.Time) {
	f.date = &date
	if f.guests > f.spotsLeft(date) {
		f.guests = 1
	}
}

func (f *Form) maxGuests() int {
	if f.date == nil {
		return MaxGuestsWithoutDate
	}
	return f.spotsLeft(*f.date)
}

// SetGuests clamps n into [1, spots left]. The lower bound wins on a sold
// out date.
func (f *Form) SetGuests(n int) {
	f.guests = max(1, min(n, f.maxGuests()))
}

func (f *Form) Increment() {
	f.SetGuests(f.guests + 1)
}

func (f *Form) Decrement() {
	f.SetGuests(f.guests - 1)
}

func (f *Form) Quote() Quote {
	q := Quote{
		TourID:       f.tour.ID,
		Guests:       f.guests,
		MaxGuests:    f.maxGuests(),
		SpotsLeft:    f.tour.MaxCapacity,
		Price:        f.tour.Price,
		Total:        f.tour.Price * f.guests,
		RegularTotal: f.tour.RegularPrice * f.guests,
		ShowRegular:  f.tour.RegularPrice > f.tour.Price,
	}
	if f.date == nil {
		return q
	}

	spots := f.spotsLeft(*f.date)
	q.Date = domain.DateKey(*f.date)
	q.SpotsLeft = spots
	q.SoldOut = spots == 0
	if spots > 0 && spots < 4 {
		q.LowStockMessage = fmt.Sprintf("Only %d spots left!", spots)
	}
	return q
}
