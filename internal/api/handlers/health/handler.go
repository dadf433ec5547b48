package health

import (
	"net/http"

	"github.com/m04kA/SMC-CarparkService/internal/api/handlers"
)

type Handler struct {
	service CarparkService
	logger  Logger
}

func NewHandler(service CarparkService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /health
// 200 и заполненность парковки, 503 если хранилище билетов недоступно
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.logger.Error("GET /health - Failed to get carpark snapshot: %v", err)
		handlers.RespondServiceUnavailable(w, msgStorageUnavailable)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, Response{
		Status:    statusOK,
		Occupancy: fromSnapshot(snapshot),
	})
}
