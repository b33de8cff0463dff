package booking

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
)

// NormalizeTime keeps the start of a "5:00 PM - 8:00 PM" slot and strips
// everything but ASCII letters and digits: "500PM".
func NormalizeTime(slot string) string {
	start, _, _ := strings.Cut(slot, " - ")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return -1
		}
	}, strings.TrimSpace(start))
}

// BuildReference returns tour_date_time_guests_millis.
func BuildReference(tourID, date, slot string, guests int, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%d_%d", tourID, date, NormalizeTime(slot), guests, now.UnixMilli())
}

func parseCheckoutURL(raw string) (string, error) {
	if raw == "" {
		return "", domain.ErrCheckoutNotConfigured
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", domain.ErrCheckoutNotConfigured, raw)
	}
	return raw, nil
}

// BuildCheckoutURL appends ref, tour, date, time and guests to base in that
// order, joining with & when base already carries a query.
func BuildCheckoutURL(base, ref, tourID, date, slot string, guests int) string {
	params := [][2]string{
		{"ref", ref},
		{"tour", tourID},
		{"date", date},
		{"time", slot},
		{"guests", strconv.Itoa(guests)},
	}

	var query strings.Builder
	for i, p := range params {
		if i > 0 {
			query.WriteByte('&')
		}
		query.WriteString(url.QueryEscape(p[0]))
		query.WriteByte('=')
		query.WriteString(url.QueryEscape(p[1]))
	}

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + query.String()
}
