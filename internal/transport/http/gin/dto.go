package httpgin

import (
	"github.com/seatwise/seatwise/internal/domain"
)

type UpdateVenueRequest struct {
	VenueData domain.VenueData `json:"venue_data" binding:"required"`
	PIN       string           `json:"pin"`
}

type ValidatePINRequest struct {
	PIN string `json:"pin" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type CreateVenueResponse struct {
	Slug string `json:"slug"`
}

type ValidatePINResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
