package invoices

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antesala/internal/catalog"
	"antesala/internal/pricing"
	"antesala/internal/reservations"
	"antesala/internal/storage"
	"antesala/pkg/logger"
)

func newManager(t *testing.T, policy pricing.Policy) *reservations.Manager {
	t.Helper()
	engine := pricing.NewEngine(catalog.Default(), policy)
	return reservations.NewManager(storage.NewMemoryStore[reservations.Reservation](), engine,
		reservations.WithLogger(logger.Discard()))
}

func buffetDraft() reservations.Draft {
	d := reservations.Draft{
		ClientName:    "María del Carmen Ortiz",
		ClientPhone:   "787-555-0199",
		CompanyName:   "Ortiz & Hijos",
		EventDate:     "2026-11-20",
		EventTime:     "18:30",
		EventType:     "wedding",
		EventDuration: "5",
		RoomType:      "grand-hall",
		FoodType:      "buffet-criollo",
		GuestCount:    "40",
		TableType:     "rectangular-10",
		TipPercentage: "10",
		Buffet: reservations.Buffet{
			Rice:         catalog.BuffetOptions(catalog.BuffetRice)[0].ID,
			Protein1:     catalog.BuffetOptions(catalog.BuffetProtein)[0].ID,
			Protein2:     catalog.BuffetOptions(catalog.BuffetProtein)[1].ID,
			Side:         catalog.BuffetOptions(catalog.BuffetSide)[0].ID,
			Salad:        catalog.BuffetOptions(catalog.BuffetSalad)[0].ID,
			Panecillos:   true,
			AguaRefresco: true,
		},
		Beverages:  pricing.SelectionMap{},
		Entremeses: pricing.SelectionMap{},
		AdditionalServices: pricing.AdditionalServices{
			AudioVisual: true,
			Decorations: true,
		},
	}
	d.Beverages.Set("medalla", pricing.Qty(1))
	d.Beverages.Set("mimosa", pricing.PerGuestFlag())
	d.Entremeses.Set("bandeja-surtido", pricing.Qty(1))
	d.Entremeses.Set("asopao", pricing.PerGuestFlag())
	return d
}

func sumRows(rows []Row) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Amount)
	}
	return total
}

func descriptions(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Description
	}
	return out
}

func TestNumberAndFileName(t *testing.T) {
	assert.Equal(t, "2026-007", Number(2026, 7))
	assert.Equal(t, "2026-120", Number(2026, 120))
	assert.Equal(t, "Invoice-2026-001-María-del-Carmen", FileName("2026-001", "María  del Carmen"))
}

func TestBuild_UsesFrozenLineItems(t *testing.T) {
	m := newManager(t, pricing.DefaultPolicy())
	r, err := m.Save(context.Background(), buffetDraft())
	require.NoError(t, err)

	inv := NewBuilder(catalog.Default()).Build(r, 2026, 1)

	assert.Equal(t, "2026-001", inv.Number)
	assert.Equal(t, "Invoice-2026-001-María-del-Carmen-Ortiz", inv.FileName)
	assert.Equal(t, []string{
		"Buffet", "Medalla", "Mimosa", "Bandeja de Surtido", "Asopao", "Manteles", "Basic Decorations",
	}, descriptions(inv.Rows))

	buffet := inv.Rows[0]
	assert.Equal(t, "40", buffet.Quantity)
	assert.Len(t, buffet.Details, 7)
	assert.Equal(t, catalog.BuffetAguaRefrescoName, buffet.Details[6])
	assert.True(t, buffet.Amount.Equal(r.Pricing.FoodCost))

	assert.Equal(t, "40", inv.Rows[2].Quantity)
	manteles := inv.Rows[5]
	assert.True(t, manteles.Included)
	assert.Equal(t, "-", manteles.Quantity)

	assert.True(t, sumRows(inv.Rows).Equal(r.Pricing.SubtotalBeforeTaxes))
	assert.True(t, inv.Totals.Total.Equal(r.Pricing.TotalCost))
	assert.True(t, inv.Totals.Balance.Equal(r.Pricing.TotalCost))
	assert.Equal(t, "Boda", inv.Event.Type)
	assert.Equal(t, "20 de noviembre de 2026", inv.Event.Date)
	assert.Equal(t, "6:30 PM", inv.Event.Time)
}

func TestBuild_NeverRecomputes(t *testing.T) {
	m := newManager(t, pricing.DefaultPolicy())
	r, err := m.Save(context.Background(), buffetDraft())
	require.NoError(t, err)

	// Catalog prices changing after the save must not move the invoice
	repriced := catalog.Default().WithFoodPrices(map[string]decimal.Decimal{"buffet-criollo": decimal.NewFromInt(99)})
	inv := NewBuilder(repriced).Build(r, 2026, 1)

	assert.True(t, inv.Rows[0].Amount.Equal(r.Pricing.FoodCost))
	assert.True(t, inv.Totals.Total.Equal(r.Pricing.TotalCost))
}

func TestBuild_FallsBackToCategoryTotals(t *testing.T) {
	m := newManager(t, pricing.DefaultPolicy())
	r, err := m.Save(context.Background(), buffetDraft())
	require.NoError(t, err)
	r.Pricing.LineItems = nil

	inv := NewBuilder(catalog.Default()).Build(r, 2026, 3)

	assert.Equal(t, []string{"Buffet", "Bebidas", "Entremeses", "Servicios Adicionales"}, descriptions(inv.Rows))
	assert.Equal(t, []string{"Manteles", "Basic Decorations"}, inv.Rows[3].Details)
	assert.True(t, sumRows(inv.Rows).Equal(r.Pricing.SubtotalBeforeTaxes))
}

func TestBuild_RoomRowAndPaidBalance(t *testing.T) {
	policy := pricing.DefaultPolicy()
	policy.RoomPricing = pricing.RoomBilledWhenNoFood
	m := newManager(t, policy)
	d := buffetDraft()
	d.FoodType = catalog.NoFoodID
	d.AdditionalServices = pricing.AdditionalServices{}
	r, err := m.Save(context.Background(), d)
	require.NoError(t, err)
	r, err = m.ToggleDeposit(context.Background(), r.ID)
	require.NoError(t, err)

	inv := NewBuilder(catalog.Default()).Build(r, 2026, 1)

	last := inv.Rows[len(inv.Rows)-1]
	assert.Equal(t, "Salon 1 - 5 hours", last.Description)
	assert.True(t, last.Amount.Equal(decimal.NewFromInt(750)))
	assert.True(t, inv.Totals.DepositPaid)
	assert.True(t, inv.Totals.Balance.Equal(r.Pricing.TotalCost.Sub(r.Pricing.DepositAmount)))
}

func TestRenderText(t *testing.T) {
	m := newManager(t, pricing.DefaultPolicy())
	r, err := m.Save(context.Background(), buffetDraft())
	require.NoError(t, err)
	inv := NewBuilder(catalog.Default()).Build(r, 2026, 1)

	var buf bytes.Buffer
	require.NoError(t, RenderText(&buf, inv))
	out := buf.String()

	assert.Contains(t, out, "LA ANTESALA BY FUSION")
	assert.Contains(t, out, "Avenida Hostos 105, Ponce, PR 00717")
	assert.Contains(t, out, "INVOICE NO: 2026-001")
	assert.Contains(t, out, "Company: Ortiz & Hijos")
	assert.Contains(t, out, "Incluido")
	assert.Contains(t, out, "Propina (10%)")
	assert.Contains(t, out, "  • Panecillos")
	assert.Contains(t, out, money(r.Pricing.TotalCost))
}

type fakeSource struct {
	list []reservations.Reservation
}

func (s fakeSource) Get(id string) (reservations.Reservation, error) {
	for _, r := range s.list {
		if r.ID == id {
			return r, nil
		}
	}
	return reservations.Reservation{}, reservations.ErrNotFound
}

func (s fakeSource) Index(id string) int {
	for i, r := range s.list {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func TestGetInvoice(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newManager(t, pricing.DefaultPolicy())
	first, err := m.Save(context.Background(), buffetDraft())
	require.NoError(t, err)
	second, err := m.Save(context.Background(), buffetDraft())
	require.NoError(t, err)

	ctrl := NewController(fakeSource{list: []reservations.Reservation{first, second}}, NewBuilder(catalog.Default()))
	ctrl.now = func() time.Time { return time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC) }
	router := gin.New()
	SetupInvoiceRoutes(router.Group("/api/v1"), ctrl)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reservations/"+second.ID+"/invoice", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var env struct {
		Data Invoice `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "2026-002", env.Data.Number)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reservations/"+first.ID+"/invoice?format=text", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Invoice-2026-001-María-del-Carmen-Ortiz.txt")
	assert.Contains(t, w.Body.String(), "LA ANTESALA BY FUSION")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reservations/"+first.ID+"/invoice?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reservations/missing/invoice", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
