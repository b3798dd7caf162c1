package leaderboard

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetLeaderboard()
	if err != nil {
		http.Error(w, "Error fetching leaderboard", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(entries)
}
