package backup

import (
	"github.com/gin-gonic/gin"
)

func SetupBackupRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.GET("/reservations/export", controller.Export) // Full JSON backup download
}
