package backup

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"antesala/internal/shared/utils/response"
)

type Controller struct {
	source Source
}

func NewController(source Source) *Controller {
	return &Controller{source: source}
}

// Export downloads every stored reservation as a JSON attachment
func (ctrl *Controller) Export(c *gin.Context) {
	data, _, err := Snapshot(ctrl.source)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to export reservations", nil, err.Error())
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+FileName+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
