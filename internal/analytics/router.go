package analytics

import (
	"github.com/gin-gonic/gin"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller Controller) {
	analytics := rg.Group("/analytics")
	{
		analytics.GET("/dashboard", controller.GetDashboard) // Totals plus recent and upcoming events
		analytics.GET("/rooms", controller.GetRoomStats)     // Events per room, busiest first
		analytics.GET("/guests", controller.GetGuestStats)   // Guest count average, max and min
		analytics.GET("/calendar", controller.GetCalendar)   // Month view (?year=2026&month=10)
	}
}
