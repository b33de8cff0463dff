package tours

import (
	"context"
	"fmt"

	"github.com/Domenick1991/tourbooking/internal/domain"
	"github.com/samber/lo"
)

type TourUseCase interface {
	List(ctx context.Context) ([]domain.Tour, error)
	GetByID(ctx context.Context, id string) (*domain.Tour, error)
}

type TourService struct {
	tours []domain.Tour
	byID  map[string]domain.Tour
}

// NewTourService builds the catalog. checkoutURLs overrides a tour's checkout
// page by tour id; an explicitly empty value clears it.
func NewTourService(catalog []domain.Tour, checkoutURLs map[string]string) *TourService {
	tours := lo.Map(catalog, func(t domain.Tour, _ int) domain.Tour {
		if url, ok := checkoutURLs[t.ID]; ok {
			t.CheckoutURL = url
		}
		return t
	})
	return &TourService{
		tours: tours,
		byID:  lo.KeyBy(tours, func(t domain.Tour) string { return t.ID }),
	}
}

func (s *TourService) List(ctx context.Context) ([]domain.Tour, error) {
	out := make([]domain.Tour, len(s.tours))
	copy(out, s.tours)
	return out, nil
}

func (s *TourService) GetByID(ctx context.Context, id string) (*domain.Tour, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrTourNotFound, id)
	}
	return &t, nil
}

var _ TourUseCase = (*TourService)(nil)
