package invoices

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"antesala/internal/reservations"
	"antesala/internal/shared/utils/response"
	"antesala/pkg/logger"
)

// Source finds stored reservations and their list position
type Source interface {
	Get(id string) (reservations.Reservation, error)
	Index(id string) int
}

type Controller struct {
	source  Source
	builder *Builder
	now     func() time.Time
}

func NewController(source Source, builder *Builder) *Controller {
	return &Controller{source: source, builder: builder, now: time.Now}
}

// GetInvoice handles GET /api/v1/reservations/:id/invoice?format=json|text
func (ctrl *Controller) GetInvoice(c *gin.Context) {
	id := c.Param("id")
	r, err := ctrl.source.Get(id)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusNotFound, "Reservation not found", nil, err.Error())
		return
	}

	inv := ctrl.builder.Build(r, ctrl.now().Year(), ctrl.source.Index(id)+1)

	switch c.DefaultQuery("format", "json") {
	case "json":
		response.RespondJSON(c, "success", http.StatusOK, "Invoice generated successfully", inv, nil)
	case "text":
		var buf bytes.Buffer
		if err := RenderText(&buf, inv); err != nil {
			logger.GetDefault().LogHTTPError(c, err, http.StatusInternalServerError)
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to render invoice", nil, err.Error())
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+inv.FileName+`.txt"`)
		c.Data(http.StatusOK, "text/plain; charset=utf-8", buf.Bytes())
	default:
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid format", nil, "format must be json or text")
	}
}
