package course

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

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	views, err := h.service.ListCourses(userID)
	if err != nil {
		http.Error(w, "Error fetching courses", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(views)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
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

	detail, err := h.service.GetCourse(courseID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Course not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Error fetching course", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(detail)
}

func (h *Handler) GetCourseLessons(w http.ResponseWriter, r *http.Request) {
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

	lessons, err := h.service.GetCourseLessons(courseID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Course not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Error fetching lessons", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(lessons)
}

func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid lesson id", http.StatusBadRequest)
		return
	}

	lesson, err := h.service.GetLesson(lessonID, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Lesson not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Error fetching lesson", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(lesson)
}

func (h *Handler) MarkLessonRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	lessonID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid lesson id", http.StatusBadRequest)
		return
	}

	result, err := h.service.MarkLessonRead(userID, lessonID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			http.Error(w, "Lesson not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Error marking lesson as read", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":         "Lesson marked as read",
		"read":            result.Read,
		"courseCompleted": result.CourseCompleted,
	})
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
