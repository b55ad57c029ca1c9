package handler

import (
	"net/http"

	"github.com/mubs-locator/internal/application/directions"
)

type DirectionsHandler struct {
	svc directions.Service
}

func NewDirectionsHandler(svc directions.Service) *DirectionsHandler {
	return &DirectionsHandler{svc: svc}
}

// Get proxies the upstream directions document unchanged.
func (h *DirectionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	body, err := h.svc.Get(r.Context(), q.Get("origin"), q.Get("destination"), q.Get("mode"))
	if err != nil {
		httpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
