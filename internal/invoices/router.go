package invoices

import "github.com/gin-gonic/gin"

// SetupInvoiceRoutes mounts invoice export under the reservation routes
func SetupInvoiceRoutes(rg *gin.RouterGroup, controller *Controller) {
	reservations := rg.Group("/reservations")
	{
		reservations.GET("/:id/invoice", controller.GetInvoice) // GET /api/v1/reservations/:id/invoice
	}
}
