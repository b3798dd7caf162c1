package auth

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"elearn-platform/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type MagicLinkRequest struct {
	Email string `json:"email"`
}

func (h *Handler) RequestMagicLink(w http.ResponseWriter, r *http.Request) {
	var req MagicLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := h.service.RequestMagicLink(req.Email); err != nil {
		if errors.Is(err, models.ErrInvalidInput) {
			http.Error(w, "Invalid email address", http.StatusBadRequest)
			return
		}
		log.Printf("Error handling magic link request: %v", err)
		http.Error(w, "Error processing request", http.StatusBadRequest)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"message": "Magic link sent to your email"})
}

func (h *Handler) VerifyMagicLink(w http.ResponseWriter, r *http.Request) {
	sessionToken, err := h.service.VerifyMagicLink(r.URL.Query().Get("token"))
	if err != nil {
		if errors.Is(err, models.ErrTokenExpired) {
			http.Error(w, "Invalid or expired link", http.StatusBadRequest)
			return
		}
		log.Printf("Error verifying magic link: %v", err)
		http.Error(w, "Error verifying token", http.StatusBadRequest)
		return
	}

	json.NewEncoder(w).Encode(map[string]string{"token": sessionToken})
}

func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.service.CurrentUser(userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Error fetching user info", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(summary)
}
