package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CarparkService/internal/api/handlers"
	"github.com/m04kA/SMC-CarparkService/internal/service/carpark"
	"github.com/m04kA/SMC-CarparkService/pkg/logger"
)

type stubCarpark struct {
	snapshot *carpark.Snapshot
	err      error
}

func (s stubCarpark) Snapshot(context.Context) (*carpark.Snapshot, error) {
	return s.snapshot, s.err
}

func TestHandle_OK(t *testing.T) {
	h := NewHandler(stubCarpark{snapshot: &carpark.Snapshot{
		CarparkID:        "north",
		Capacity:         100,
		SeasonCapacity:   10,
		AdhocOccupancy:   40,
		SeasonRegistered: 5,
	}}, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, statusOK, resp.Status)
	require.NotNil(t, resp.Occupancy)
	assert.Equal(t, "north", resp.Occupancy.Carpark)
	assert.Equal(t, 55, resp.Occupancy.Available)
	assert.False(t, resp.Occupancy.Full)
}

func TestHandle_StoreUnavailable(t *testing.T) {
	h := NewHandler(stubCarpark{err: errors.New("connection refused")}, logger.NewNop())

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, msgStorageUnavailable, resp.Message)
}
