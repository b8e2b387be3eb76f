package reservations

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"antesala/internal/shared/utils/response"
	"antesala/pkg/logger"
)

const defaultDashboardLimit = 5

var quotePercentageFields = []string{"tipPercentage", "depositPercentage"}

type Controller struct {
	manager *Manager
	now     func() time.Time
}

func NewController(manager *Manager) *Controller {
	return &Controller{manager: manager, now: time.Now}
}

// Quote handles POST /api/v1/pricing/quote
func (ctrl *Controller) Quote(c *gin.Context) {
	draft, ok := ctrl.bindDraft(c)
	if !ok {
		return
	}
	// Percentages outside 0-100 would price a negative tip or deposit
	result := ctrl.manager.Validator().ValidateFields(draft, quotePercentageFields...)
	if !result.OK {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Quote has invalid percentages", nil,
			newValidationErrorResponse(ctrl.manager.Validator(), result))
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Quote calculated successfully", ctrl.manager.Quote(draft), nil)
}

// Validate handles POST /api/v1/reservations/validate
func (ctrl *Controller) Validate(c *gin.Context) {
	draft, ok := ctrl.bindDraft(c)
	if !ok {
		return
	}
	result := ctrl.manager.Validate(draft)
	if !result.OK {
		response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Draft has missing or invalid fields", result,
			newValidationErrorResponse(ctrl.manager.Validator(), result))
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Draft is valid", result, nil)
}

// CreateReservation handles POST /api/v1/reservations
func (ctrl *Controller) CreateReservation(c *gin.Context) {
	draft, ok := ctrl.bindDraft(c)
	if !ok {
		return
	}

	r, err := ctrl.manager.Save(c.Request.Context(), draft)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			response.RespondJSON(c, "error", http.StatusUnprocessableEntity, "Please complete all required fields", nil,
				newValidationErrorResponse(ctrl.manager.Validator(), verr.Result))
			return
		}
		logger.GetDefault().LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to save reservation", nil, err.Error())
		return
	}

	response.RespondWithSync(c, "success", http.StatusCreated, "Reservation saved successfully", NewReservationResponse(r), nil, ctrl.manager.SyncState())
}

// ListReservations handles GET /api/v1/reservations?sort=eventDate|createdAt
func (ctrl *Controller) ListReservations(c *gin.Context) {
	order := SortOrder(c.Query("sort"))
	if !order.IsValid() {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid sort order", nil, "sort must be eventDate or createdAt")
		return
	}
	list := ctrl.manager.List(order)
	response.RespondJSON(c, "success", http.StatusOK, "Reservations retrieved successfully", ListResponse{
		Reservations: NewReservationListResponse(list),
		Total:        len(list),
	}, nil)
}

// GetRecent handles GET /api/v1/reservations/recent?limit=5
func (ctrl *Controller) GetRecent(c *gin.Context) {
	n, ok := parseLimit(c)
	if !ok {
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Recent reservations retrieved successfully",
		NewReservationListResponse(ctrl.manager.Recent(n)), nil)
}

// GetUpcoming handles GET /api/v1/reservations/upcoming?limit=5
func (ctrl *Controller) GetUpcoming(c *gin.Context) {
	n, ok := parseLimit(c)
	if !ok {
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Upcoming reservations retrieved successfully",
		NewReservationListResponse(ctrl.manager.Upcoming(ctrl.now(), n)), nil)
}

// GetReservation handles GET /api/v1/reservations/:id
func (ctrl *Controller) GetReservation(c *gin.Context) {
	r, err := ctrl.manager.Get(c.Param("id"))
	if err != nil {
		respondNotFound(c)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Reservation retrieved successfully", NewReservationResponse(r), nil)
}

// DeleteReservation handles DELETE /api/v1/reservations/:id
func (ctrl *Controller) DeleteReservation(c *gin.Context) {
	ctrl.manager.Delete(c.Request.Context(), c.Param("id"))
	response.RespondWithSync(c, "success", http.StatusOK, "Reservation deleted successfully", nil, nil, ctrl.manager.SyncState())
}

// EditReservation handles POST /api/v1/reservations/:id/edit.
// The reservation is removed; it only comes back if the returned draft is saved.
// An unknown id changes nothing and answers like delete does.
func (ctrl *Controller) EditReservation(c *gin.Context) {
	draft, err := ctrl.manager.Edit(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		respondNothingChanged(c, ctrl.manager.SyncState())
		return
	}
	response.RespondWithSync(c, "success", http.StatusOK, "Reservation moved back to draft", DraftResponse{
		Draft: draft,
		Quote: ctrl.manager.Quote(draft),
	}, nil, ctrl.manager.SyncState())
}

// GetDraft handles GET /api/v1/reservations/:id/draft
func (ctrl *Controller) GetDraft(c *gin.Context) {
	draft, err := ctrl.manager.BeginEdit(c.Param("id"))
	if err != nil {
		respondNotFound(c)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Draft retrieved successfully", DraftResponse{
		Draft: draft,
		Quote: ctrl.manager.Quote(draft),
	}, nil)
}

// ToggleDeposit handles POST /api/v1/reservations/:id/deposit
func (ctrl *Controller) ToggleDeposit(c *gin.Context) {
	r, err := ctrl.manager.ToggleDeposit(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		respondNothingChanged(c, ctrl.manager.SyncState())
		return
	}
	message := "Deposit marked as unpaid"
	if r.DepositPaid {
		message = "Deposit marked as paid"
	}
	response.RespondWithSync(c, "success", http.StatusOK, message, NewReservationResponse(r), nil, ctrl.manager.SyncState())
}

func (ctrl *Controller) bindDraft(c *gin.Context) (Draft, bool) {
	var draft Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return Draft{}, false
	}
	return draft, true
}

func parseLimit(c *gin.Context) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return defaultDashboardLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid limit", nil, "limit must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func respondNothingChanged(c *gin.Context, sync SyncState) {
	response.RespondWithSync(c, "success", http.StatusOK, "Reservation not found, nothing changed", nil, nil, sync)
}

func respondNotFound(c *gin.Context) {
	response.RespondJSON(c, "error", http.StatusNotFound, "Reservation not found", nil, ErrNotFound.Error())
}
