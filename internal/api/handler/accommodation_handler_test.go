package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/octodock/marketplace-api/internal/core/domain"
	"github.com/octodock/marketplace-api/internal/core/ports"
)

type stubAccommodationService struct {
	ports.AccommodationService
	listFn func(ctx context.Context, f ports.AccommodationFilter) ([]*domain.Accommodation, error)
}

func (s *stubAccommodationService) List(ctx context.Context, f ports.AccommodationFilter) ([]*domain.Accommodation, error) {
	return s.listFn(ctx, f)
}

func TestAccommodationHandler_Search_ParsesBounds(t *testing.T) {
	e := newTestEcho()
	var got ports.AccommodationFilter
	handler := NewAccommodationHandler(&stubAccommodationService{
		listFn: func(_ context.Context, f ports.AccommodationFilter) ([]*domain.Accommodation, error) {
			got = f
			return []*domain.Accommodation{}, nil
		},
	})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/accommodations/search?city=lis&minPrice=50&maxPrice=120.5", nil), rec)
	if err := handler.Search(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.City != "lis" || got.MinPrice == nil || *got.MinPrice != 50 || got.MaxPrice == nil || *got.MaxPrice != 120.5 {
		t.Fatalf("unexpected filter: %+v", got)
	}
}

func TestAccommodationHandler_Search_RejectsNonNumeric(t *testing.T) {
	e := newTestEcho()
	handler := NewAccommodationHandler(&stubAccommodationService{
		listFn: func(context.Context, ports.AccommodationFilter) ([]*domain.Accommodation, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	})

	for _, q := range []string{"minPrice=cheap", "maxPrice=NaN", "minPrice=1&maxPrice=Inf"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/accommodations/search?"+q, nil), httptest.NewRecorder())
		if err := handler.Search(c); domain.KindOf(err) != domain.KindValidation {
			t.Fatalf("%s: expected validation error, got %v", q, err)
		}
	}
}

func TestAccommodationHandler_List_OwnerMe(t *testing.T) {
	e := newTestEcho()
	var got ports.AccommodationFilter
	handler := NewAccommodationHandler(&stubAccommodationService{
		listFn: func(_ context.Context, f ports.AccommodationFilter) ([]*domain.Accommodation, error) {
			got = f
			return nil, nil
		},
	})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/accommodations?owner=me", nil), httptest.NewRecorder())
	if err := handler.List(c); err != domain.ErrMissingToken {
		t.Fatalf("expected ErrMissingToken for anonymous owner=me, got %v", err)
	}

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/accommodations?owner=me", nil), httptest.NewRecorder())
	c.Set("marketplace.principal", &domain.User{ID: "host-1"})
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.OwnerID != "host-1" {
		t.Fatalf("expected owner filter host-1, got %+v", got)
	}
}
