package analytics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"antesala/internal/shared/utils/response"
)

// Controller defines the analytics controller interface
type Controller interface {
	GetDashboard(c *gin.Context)
	GetRoomStats(c *gin.Context)
	GetGuestStats(c *gin.Context)
	GetCalendar(c *gin.Context)
}

// controller implements the Controller interface
type controller struct {
	service Service
	now     func() time.Time
}

// NewController creates a new analytics controller instance
func NewController(service Service) Controller {
	return &controller{service: service, now: time.Now}
}

func (ctrl *controller) GetDashboard(c *gin.Context) {
	dashboard, err := ctrl.service.GetDashboard(c.Request.Context(), ctrl.now())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Dashboard analytics retrieved successfully", dashboard, nil)
}

func (ctrl *controller) GetRoomStats(c *gin.Context) {
	stats, err := ctrl.service.GetRoomStats(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Room statistics retrieved successfully", stats, nil)
}

func (ctrl *controller) GetGuestStats(c *gin.Context) {
	stats, err := ctrl.service.GetGuestStats(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Guest statistics retrieved successfully", stats, nil)
}

// GetCalendar defaults to the current month when year or month is omitted
func (ctrl *controller) GetCalendar(c *gin.Context) {
	now := ctrl.now()
	year := now.Year()
	month := int(now.Month())

	if yearStr := c.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil || parsed < 1 {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid year", nil, "year must be a positive integer")
			return
		}
		year = parsed
	}
	if monthStr := c.Query("month"); monthStr != "" {
		parsed, err := strconv.Atoi(monthStr)
		if err != nil || parsed < 1 || parsed > 12 {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid month", nil, "month must be between 1 and 12")
			return
		}
		month = parsed
	}

	calendar, err := ctrl.service.GetCalendar(c.Request.Context(), year, time.Month(month))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Calendar retrieved successfully", calendar, nil)
}
