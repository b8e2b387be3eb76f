package reservations

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"antesala/internal/storage"
)

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Errors     json.RawMessage `json:"errors"`
	Sync       *SyncState      `json:"sync"`
}

func setupRouter(t *testing.T, gw Gateway) (*gin.Engine, *Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m := newTestManager(t, gw)
	ctrl := NewController(m)
	ctrl.now = func() time.Time { return fixedNow }
	r := gin.New()
	SetupReservationRoutes(r.Group("/api/v1"), ctrl)
	return r, m
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestCreateReservation_Created(t *testing.T) {
	r, _ := setupRouter(t, storage.NewMemoryStore[Reservation]())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/reservations", validDraft())

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", env.Status)
	require.NotNil(t, env.Sync)
	assert.False(t, env.Sync.Stale)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "res-001", got["id"])
	assert.Equal(t, "unpaid", got["depositStatus"])
	assert.Equal(t, "7 Mesas Redonda (8 asientos c/u)", got["tableSummary"])
	pricing := got["pricing"].(map[string]interface{})
	assert.Equal(t, 1250.0, pricing["foodCost"])
}

func TestCreateReservation_ValidationFailureIs422(t *testing.T) {
	r, m := setupRouter(t, storage.NewMemoryStore[Reservation]())
	d := validDraft()
	d.ClientPhone = ""
	d.ClientEmail = "nope"

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/reservations", d)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var errs ValidationErrorResponse
	require.NoError(t, json.Unmarshal(env.Errors, &errs))
	assert.Equal(t, []FieldError{{ID: "clientPhone", Label: "Teléfono"}}, errs.MissingFields)
	assert.Equal(t, "clientEmail", errs.InvalidFields[0].ID)
	assert.Empty(t, m.List(SortNone))
}

func TestCreateReservation_BadJSONIs400(t *testing.T) {
	r, _ := setupRouter(t, storage.NewMemoryStore[Reservation]())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReservation_StaleSyncIsReported(t *testing.T) {
	r, _ := setupRouter(t, &staleGateway{})

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/reservations", validDraft())

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, env.Sync)
	assert.True(t, env.Sync.Stale)
}

func TestQuote_AcceptsStringAndNumberInputs(t *testing.T) {
	r, _ := setupRouter(t, storage.NewMemoryStore[Reservation]())
	body := map[string]interface{}{
		"foodType":      "individual-plates",
		"guestCount":    40,
		"eventDuration": "2",
		"beverages":     map[string]interface{}{"corona": 1, "mimosa": true, "water": 0},
		"tipPercentage": 15,
	}

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/pricing/quote", body)

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 1000.0, got["foodCost"])
	assert.Equal(t, 230.0, got["drinkCost"])
}

func TestQuote_RejectsNegativePercentages(t *testing.T) {
	r, _ := setupRouter(t, storage.NewMemoryStore[Reservation]())
	body := map[string]interface{}{
		"foodType":          "individual-plates",
		"guestCount":        40,
		"eventDuration":     "2",
		"tipPercentage":     "-50",
		"depositPercentage": -20,
	}

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/pricing/quote", body)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "error", env.Status)
	var errs ValidationErrorResponse
	require.NoError(t, json.Unmarshal(env.Errors, &errs))
	ids := make([]string, 0, len(errs.InvalidFields))
	for _, f := range errs.InvalidFields {
		ids = append(ids, f.ID)
	}
	assert.ElementsMatch(t, []string{"tipPercentage", "depositPercentage"}, ids)
	assert.Empty(t, errs.MissingFields)
}

func TestValidateEndpoint(t *testing.T) {
	r, _ := setupRouter(t, storage.NewMemoryStore[Reservation]())

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/reservations/validate", validDraft())
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/reservations/validate", Draft{})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var result ValidationResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Contains(t, result.MissingFieldIDs, "guestCount")
}

func TestEditThenAbandon_RemovesReservation(t *testing.T) {
	r, m := setupRouter(t, storage.NewMemoryStore[Reservation]())
	saved, err := m.Save(context.Background(), validDraft())
	require.NoError(t, err)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/reservations/"+saved.ID+"/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var draft DraftResponse
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Equal(t, "María Rivera", draft.Draft.ClientName)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/reservations/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Editing again is a no-op: nothing to remove, no draft returned
	w, env = doJSON(t, r, http.MethodPost, "/api/v1/reservations/"+saved.ID+"/edit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.Data)
	assert.NotNil(t, env.Sync)
	assert.Empty(t, m.List(SortNone))
}

func TestDraftThenSave_ReplacesReservation(t *testing.T) {
	r, m := setupRouter(t, storage.NewMemoryStore[Reservation]())
	saved, err := m.Save(context.Background(), validDraft())
	require.NoError(t, err)

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/reservations/"+saved.ID+"/draft", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var draft DraftResponse
	require.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Equal(t, saved.ID, draft.Draft.ReplacesID)
	assert.Len(t, m.List(SortNone), 1)

	draft.Draft.ClientName = "María R. Colón"
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/reservations", draft.Draft)
	require.Equal(t, http.StatusCreated, w.Code)

	list := m.List(SortNone)
	require.Len(t, list, 1)
	assert.Equal(t, "María R. Colón", list[0].ClientName)
}

func TestDeleteAndDepositRoutes(t *testing.T) {
	r, m := setupRouter(t, storage.NewMemoryStore[Reservation]())
	saved, err := m.Save(context.Background(), validDraft())
	require.NoError(t, err)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/reservations/"+saved.ID+"/deposit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, true, got["depositPaid"])
	assert.Equal(t, "paid", got["depositStatus"])

	w, env = doJSON(t, r, http.MethodPost, "/api/v1/reservations/missing/deposit", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.Data)
	assert.NotNil(t, env.Sync)
	stored, err := m.Get(saved.ID)
	require.NoError(t, err)
	assert.True(t, stored.DepositPaid)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/reservations/"+saved.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, "/api/v1/reservations/"+saved.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, m.List(SortNone))
}

func TestListRoutes(t *testing.T) {
	r, m := setupRouter(t, storage.NewMemoryStore[Reservation]())
	for _, date := range []string{"2026-12-24", "2026-09-01"} {
		d := validDraft()
		d.EventDate = date
		_, err := m.Save(context.Background(), d)
		require.NoError(t, err)
	}

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/reservations?sort=eventDate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ListResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "2026-09-01", list.Reservations[0].EventDate)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/reservations?sort=price", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/api/v1/reservations/upcoming", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var upcoming []ReservationResponse
	require.NoError(t, json.Unmarshal(env.Data, &upcoming))
	require.Len(t, upcoming, 1)
	assert.Equal(t, "2026-12-24", upcoming[0].EventDate)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/reservations/recent?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
