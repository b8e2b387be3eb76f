package reservations

import "github.com/gin-gonic/gin"

// SetupReservationRoutes configures the quote and reservation lifecycle routes
func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller) {
	pricing := rg.Group("/pricing")
	{
		pricing.POST("/quote", controller.Quote) // POST /api/v1/pricing/quote
	}

	reservations := rg.Group("/reservations")
	{
		reservations.POST("/validate", controller.Validate)   // POST   /api/v1/reservations/validate
		reservations.GET("", controller.ListReservations)     // GET    /api/v1/reservations
		reservations.GET("/recent", controller.GetRecent)     // GET    /api/v1/reservations/recent
		reservations.GET("/upcoming", controller.GetUpcoming) // GET    /api/v1/reservations/upcoming
		reservations.GET("/:id", controller.GetReservation)   // GET    /api/v1/reservations/:id
		reservations.GET("/:id/draft", controller.GetDraft)   // GET    /api/v1/reservations/:id/draft

		reservations.POST("", controller.CreateReservation)         // POST   /api/v1/reservations
		reservations.DELETE("/:id", controller.DeleteReservation)   // DELETE /api/v1/reservations/:id
		reservations.POST("/:id/edit", controller.EditReservation)  // POST   /api/v1/reservations/:id/edit
		reservations.POST("/:id/deposit", controller.ToggleDeposit) // POST   /api/v1/reservations/:id/deposit
	}
}

// Route definitions for reference:
//
// EDIT FLOWS
// POST /api/v1/reservations/:id/edit   - removes the reservation now and returns its draft
// GET  /api/v1/reservations/:id/draft  - returns a draft with replacesId, nothing removed
// POST /api/v1/reservations            - saving a draft with replacesId swaps the old record
//
// DEPOSIT
// POST /api/v1/reservations/:id/deposit - flips depositPaid, balance is derived on read
