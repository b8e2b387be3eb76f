package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"antesala/internal/shared/utils/response"
)

// FeeLookup resolves the configured flat fee of a service key
type FeeLookup func(key string) decimal.Decimal

// ServiceOffer is a service with its configured fee
type ServiceOffer struct {
	Option
	Fee decimal.Decimal `json:"fee"`
}

// MenuResponse bundles every fixed menu the booking form needs
type MenuResponse struct {
	FoodTypes   []FoodType                  `json:"foodTypes"`
	Rooms       []Room                      `json:"rooms"`
	Buffet      map[BuffetCategory][]Option `json:"buffet"`
	Services    []ServiceOffer              `json:"services"`
	EventTypes  []Option                    `json:"eventTypes"`
	TableShapes []Option                    `json:"tableShapes"`
}

type Controller struct {
	catalog *Catalog
	fees    FeeLookup
}

func NewController(catalog *Catalog, fees FeeLookup) *Controller {
	return &Controller{catalog: catalog, fees: fees}
}

// GetBeverages handles GET /api/v1/catalog/beverages
func (ctrl *Controller) GetBeverages(c *gin.Context) {
	response.RespondJSON(c, "success", http.StatusOK, "Beverages retrieved successfully", ctrl.catalog.Items(KindBeverage), nil)
}

// GetEntremeses handles GET /api/v1/catalog/entremeses
func (ctrl *Controller) GetEntremeses(c *gin.Context) {
	response.RespondJSON(c, "success", http.StatusOK, "Entremeses retrieved successfully", ctrl.catalog.Items(KindEntremeses), nil)
}

// GetMenu handles GET /api/v1/catalog/menu
func (ctrl *Controller) GetMenu(c *gin.Context) {
	buffet := make(map[BuffetCategory][]Option, 4)
	for _, category := range BuffetCategories() {
		buffet[category] = BuffetOptions(category)
	}

	services := make([]ServiceOffer, 0, len(serviceOptions))
	for _, opt := range Services() {
		fee := decimal.Zero
		if ctrl.fees != nil {
			fee = ctrl.fees(opt.ID)
		}
		services = append(services, ServiceOffer{Option: opt, Fee: fee})
	}

	menu := MenuResponse{
		FoodTypes:   ctrl.catalog.FoodTypes(),
		Rooms:       ctrl.catalog.Rooms(),
		Buffet:      buffet,
		Services:    services,
		EventTypes:  EventTypes(),
		TableShapes: TableShapes(),
	}
	response.RespondJSON(c, "success", http.StatusOK, "Menu retrieved successfully", menu, nil)
}
