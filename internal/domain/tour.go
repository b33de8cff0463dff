package domain

type Tour struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Tagline          string   `json:"tagline"`
	Description      string   `json:"description"`
	Price            int      `json:"price"`
	RegularPrice     int      `json:"regular_price"`
	Image            string   `json:"image"`
	Time             string   `json:"time"`
	Duration         string   `json:"duration"`
	MaxCapacity      int      `json:"max_capacity"`
	CheckoutURL      string   `json:"-"`
	Badges           []string `json:"badges,omitempty"`
	FlexibleSchedule bool     `json:"flexible_schedule"`
}
