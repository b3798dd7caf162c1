package quiz

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"elearn-platform/internal/auth"
	"elearn-platform/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetCourseQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	courseID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid course id", http.StatusBadRequest)
		return
	}

	dto, err := h.service.GetCourseQuiz(courseID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Quiz not found for this course", http.StatusNotFound)
			return
		}
		http.Error(w, "Error fetching quiz", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(dto)
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.service.SubmitAttempt(userID, quizID, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			http.Error(w, "Quiz not found", http.StatusNotFound)
		case errors.Is(err, models.ErrInvalidInput):
			http.Error(w, "Invalid answers", http.StatusBadRequest)
		case errors.Is(err, models.ErrAttemptsExhausted):
			http.Error(w, "Maximum attempts exceeded", http.StatusBadRequest)
		default:
			http.Error(w, "Error submitting quiz", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) GetResults(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	quizID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid quiz id", http.StatusBadRequest)
		return
	}

	attempts, err := h.service.GetAttempts(userID, quizID)
	if err != nil {
		http.Error(w, "Error fetching quiz results", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(attempts)
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
