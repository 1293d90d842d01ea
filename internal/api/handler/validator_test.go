package handler

import (
	"testing"

	"github.com/octodock/marketplace-api/internal/core/domain"
)

type sampleRequest struct {
	Name   string  `json:"name" validate:"required"`
	Rating int     `json:"rating" validate:"gte=1,lte=5"`
	Price  float64 `json:"pricePerNight" validate:"gt=0"`
	Role   string  `json:"role" validate:"omitempty,oneof=user host"`
}

func TestValidator_CollectsEveryField(t *testing.T) {
	err := NewValidator().Validate(&sampleRequest{Rating: 9, Role: "admin"})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	want := []string{
		"name is required",
		"rating must be at most 5",
		"pricePerNight must be greater than 0",
		"role must be one of: user host",
	}
	got := domain.ValidationDetails(err)
	if len(got) != len(want) {
		t.Fatalf("expected %d details, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("detail %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestValidator_Passes(t *testing.T) {
	if err := NewValidator().Validate(&sampleRequest{Name: "x", Rating: 3, Price: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
