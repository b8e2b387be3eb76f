package reservations

import (
	"github.com/shopspring/decimal"

	"antesala/internal/pricing"
)

type ReservationResponse struct {
	Reservation
	Balance       decimal.Decimal `json:"balance"`
	DepositStatus DepositStatus   `json:"depositStatus"`
	TableSummary  string          `json:"tableSummary,omitempty"`
}

func NewReservationResponse(r Reservation) ReservationResponse {
	resp := ReservationResponse{
		Reservation:   r,
		Balance:       r.Balance(),
		DepositStatus: r.DepositStatus(),
	}
	if r.TableConfiguration != nil {
		resp.TableSummary = r.TableConfiguration.Describe()
	}
	return resp
}

func NewReservationListResponse(list []Reservation) []ReservationResponse {
	out := make([]ReservationResponse, len(list))
	for i, r := range list {
		out[i] = NewReservationResponse(r)
	}
	return out
}

type FieldError struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type ValidationErrorResponse struct {
	MissingFields []FieldError `json:"missing_fields"`
	InvalidFields []FieldError `json:"invalid_fields,omitempty"`
}

func newValidationErrorResponse(v *Validator, result ValidationResult) ValidationErrorResponse {
	resp := ValidationErrorResponse{MissingFields: []FieldError{}}
	for _, id := range result.MissingFieldIDs {
		resp.MissingFields = append(resp.MissingFields, FieldError{ID: id, Label: v.Label(id)})
	}
	for _, id := range result.InvalidFieldIDs {
		resp.InvalidFields = append(resp.InvalidFields, FieldError{ID: id, Label: v.Label(id)})
	}
	return resp
}

// DraftResponse is a draft ready to repopulate the form
type DraftResponse struct {
	Draft Draft             `json:"draft"`
	Quote pricing.Breakdown `json:"quote"`
}

type ListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	Total        int                   `json:"total"`
}
