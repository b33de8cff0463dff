package calendar

import (
	"time"

	"github.com/Domenick1991/tourbooking/internal/domain"
)

type Status string

const (
	StatusPast      Status = "past"
	StatusSoldOut   Status = "sold_out"
	StatusLowStock  Status = "low_stock"
	StatusAvailable Status = "available"
)

// LowStockThreshold is the largest number of remaining spots still marked as low stock.
const LowStockThreshold = 4

type Day struct {
	Date       string `json:"date"`
	Day        int    `json:"day"`
	Status     Status `json:"status"`
	SpotsLeft  int    `json:"spots_left"`
	Selectable bool   `json:"selectable"`
	Selected   bool   `json:"selected"`
}

type Month struct {
	Year          int    `json:"year"`
	Month         int    `json:"month"`
	Name          string `json:"name"`
	LeadingBlanks int    `json:"leading_blanks"`
	CanGoBack     bool   `json:"can_go_back"`
	Days          []Day  `json:"days"`
}

// Picker is a month view over one tour's occupancy. It is not safe for
// concurrent use; build one per request.
type Picker struct {
	counts      map[string]int
	maxCapacity int
	selected    *time.Time
	cursor      time.Time
	loc         *time.Location
	now         func() time.Time
}

type Option func(*Picker)

func WithClock(now func() time.Time) Option {
	return func(p *Picker) {
		p.now = now
	}
}

func NewPicker(counts map[string]int, maxCapacity int, loc *time.Location, opts ...Option) *Picker {
	if counts == nil {
		counts = map[string]int{}
	}
	p := &Picker{
		counts:      counts,
		maxCapacity: maxCapacity,
		loc:         loc,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cursor = p.currentMonth()
	return p
}

func (p *Picker) today() time.Time {
	return domain.StartOfDay(p.now(), p.loc)
}

func (p *Picker) currentMonth() time.Time {
	today := p.today()
	return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, p.loc)
}

func (p *Picker) SpotsLeft(date time.Time) int {
	return max(0, p.maxCapacity-p.counts[domain.DateKey(date)])
}

// Classify returns the status of date. A past date is past whatever its
// occupancy.
func (p *Picker) Classify(date time.Time) Status {
	if domain.StartOfDay(date, p.loc).Before(p.today()) {
		return StatusPast
	}
	spots := p.SpotsLeft(date)
	switch {
	case spots <= 0:
		return StatusSoldOut
	case spots <= LowStockThreshold:
		return StatusLowStock
	default:
		return StatusAvailable
	}
}

func (p *Picker) Selectable(date time.Time) bool {
	status := p.Classify(date)
	return status != StatusPast && status != StatusSoldOut
}

// Select records date as the selection and calls onSelect. Past and sold
// out dates are ignored.
func (p *Picker) Select(date time.Time, onSelect func(time.Time)) bool {
	if !p.Selectable(date) {
		return false
	}
	day := domain.StartOfDay(date, p.loc)
	if onSelect != nil {
		onSelect(day)
	}
	p.selected = &day
	return true
}

func (p *Picker) Selected() (time.Time, bool) {
	if p.selected == nil {
		return time.Time{}, false
	}
	return *p.selected, true
}

func (p *Picker) Cursor() (int, time.Month) {
	return p.cursor.Year(), p.cursor.Month()
}

// ShowMonth moves the cursor to year/month. Months before the current one
// are clamped to the current month; the return value reports whether the
// requested month was shown.
func (p *Picker) ShowMonth(year int, month time.Month) bool {
	target := time.Date(year, month, 1, 0, 0, 0, 0, p.loc)
	if current := p.currentMonth(); target.Before(current) {
		p.cursor = current
		return false
	}
	p.cursor = target
	return true
}

// PrevMonth is a no-op on the current month.
func (p *Picker) PrevMonth() bool {
	if !p.cursor.After(p.currentMonth()) {
		return false
	}
	p.cursor = p.cursor.AddDate(0, -1, 0)
	return true
}

func (p *Picker) NextMonth() {
	p.cursor = p.cursor.AddDate(0, 1, 0)
}

// Month renders the cursor month. Weeks start on Sunday.
func (p *Picker) Month() Month {
	first := p.cursor
	daysInMonth := first.AddDate(0, 1, -1).Day()

	selectedKey := ""
	if p.selected != nil {
		selectedKey = domain.DateKey(*p.selected)
	}

	days := make([]Day, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		date := time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, p.loc)
		key := domain.DateKey(date)
		status := p.Classify(date)
		days = append(days, Day{
			Date:       key,
			Day:        d,
			Status:     status,
			SpotsLeft:  p.SpotsLeft(date),
			Selectable: status != StatusPast && status != StatusSoldOut,
			Selected:   key == selectedKey,
		})
	}

	return Month{
		Year:          first.Year(),
		Month:         int(first.Month()),
		Name:          first.Month().String(),
		LeadingBlanks: int(first.Weekday()),
		CanGoBack:     first.After(p.currentMonth()),
		Days:          days,
	}
}
