package tours

import "github.com/Domenick1991/tourbooking/internal/domain"

// Placeholder checkout pages used when no URL is configured for a tour.
const (
	defaultEveningCheckout = "https://example.com/checkout/evening"
	defaultBrunchCheckout  = "https://example.com/checkout/brunch"
)

// DefaultCatalog returns the compiled-in tours.
func DefaultCatalog() []domain.Tour {
	return []domain.Tour{
		{
			ID:               "evening",
			Title:            "The Évora Evening Bites",
			Tagline:          "Discover Évora, one bite at a time",
			Description:      "Explore Évora by night on a relaxed walking dinner tour, tasting local cheeses, cured hams, bifana, traditional Alentejo plates, and a sweet convent dessert, all paired with regional wines.",
			Price:            59,
			RegularPrice:     69,
			Image:            "https://images.unsplash.com/photo-1555939594-58d7cb561ad1?auto=format&fit=crop&w=800&q=80",
			Time:             "5:00 PM - 8:00 PM",
			Duration:         "3 Hours",
			MaxCapacity:      12,
			CheckoutURL:      defaultEveningCheckout,
			Badges:           []string{"Most Popular"},
			FlexibleSchedule: true,
		},
		{
			ID:               "brunch",
			Title:            "The Morning Bites",
			Tagline:          "Morning traditions & market flavors",
			Description:      "Start your day in Évora with a guided food & wine brunch walk, tasting local pastries, bifana, regional cheeses, traditional Alentejo plates, and a dessert finale at a comfortable pace.",
			Price:            49,
			RegularPrice:     59,
			Image:            "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?auto=format&fit=crop&w=800&q=80",
			Time:             "10:00 AM - 1:00 PM",
			Duration:         "3 Hours",
			MaxCapacity:      10,
			CheckoutURL:      defaultBrunchCheckout,
			FlexibleSchedule: true,
		},
	}
}
