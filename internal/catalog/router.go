package catalog

import "github.com/gin-gonic/gin"

// SetupCatalogRoutes configures the read-only reference data routes
func SetupCatalogRoutes(rg *gin.RouterGroup, controller *Controller) {
	catalog := rg.Group("/catalog")
	{
		catalog.GET("/beverages", controller.GetBeverages)   // GET /api/v1/catalog/beverages
		catalog.GET("/entremeses", controller.GetEntremeses) // GET /api/v1/catalog/entremeses
		catalog.GET("/menu", controller.GetMenu)             // GET /api/v1/catalog/menu
	}
}
