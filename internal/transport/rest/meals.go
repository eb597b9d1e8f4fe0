package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/foodtracker-backend/internal/domain"
	"github.com/heartmarshall/foodtracker-backend/internal/service/journal"
)

// maxBodyBytes bounds a meal request: a base64 photo plus the other fields.
const maxBodyBytes = journal.MaxPhotoBytes/3*4 + 1<<20

// mealService defines the minimal interface needed by MealHandler.
type mealService interface {
	Meals() []*domain.Meal
	Meal(i int) (*domain.Meal, error)
	Add(ctx context.Context, meal *domain.Meal) (int, error)
	Edit(ctx context.Context, i int, edit func(journal.MealInput) journal.MealInput) (*domain.Meal, error)
	Delete(ctx context.Context, i int) error
	TapRating(ctx context.Context, i, star int) (int, error)
}

// MealHandler serves the meal list endpoints.
type MealHandler struct {
	svc mealService
	log *slog.Logger
}

// NewMealHandler creates a MealHandler.
func NewMealHandler(svc mealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{svc: svc, log: logger.With("handler", "meals")}
}

// Register mounts the meal routes on mux.
func (h *MealHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /meals", h.List)
	mux.HandleFunc("POST /meals", h.Create)
	mux.HandleFunc("GET /meals/{index}", h.Get)
	mux.HandleFunc("PUT /meals/{index}", h.Update)
	mux.HandleFunc("DELETE /meals/{index}", h.Delete)
	mux.HandleFunc("GET /meals/{index}/photo", h.Photo)
	mux.HandleFunc("POST /meals/{index}/rating", h.Rate)
}

type mealRequest struct {
	Name             string `json:"name"`
	Rating           int    `json:"rating"`
	Photo            []byte `json:"photo,omitempty"`
	PhotoContentType string `json:"photo_content_type,omitempty"`
	RemovePhoto      bool   `json:"remove_photo,omitempty"`
}

type rateRequest struct {
	Star int `json:"star"`
}

type mealResponse struct {
	Index            int    `json:"index"`
	Name             string `json:"name"`
	Rating           int    `json:"rating"`
	HasPhoto         bool   `json:"has_photo"`
	PhotoContentType string `json:"photo_content_type,omitempty"`
	PhotoURL         string `json:"photo_url,omitempty"`
}

type rateResponse struct {
	Index  int `json:"index"`
	Rating int `json:"rating"`
}

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error  string               `json:"error"`
	Fields []fieldErrorResponse `json:"fields,omitempty"`
}

// List handles GET /meals.
func (h *MealHandler) List(w http.ResponseWriter, r *http.Request) {
	meals := h.svc.Meals()
	resp := make([]mealResponse, len(meals))
	for i, m := range meals {
		resp[i] = toMealResponse(i, m)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /meals/{index}.
func (h *MealHandler) Get(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}

	m, err := h.svc.Meal(i)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMealResponse(i, m))
}

// Photo handles GET /meals/{index}/photo.
func (h *MealHandler) Photo(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}

	m, err := h.svc.Meal(i)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if !m.HasPhoto() {
		writeError(w, http.StatusNotFound, "meal has no photo")
		return
	}

	// Archives written elsewhere may carry any content type; only images are
	// served as such.
	contentType := m.Photo.ContentType
	if !strings.HasPrefix(contentType, "image/") || strings.HasPrefix(contentType, "image/svg") {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; sandbox")
	w.Header().Set("Content-Length", strconv.Itoa(len(m.Photo.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(m.Photo.Data) //nolint:errcheck
}

// Create handles POST /meals.
func (h *MealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req mealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	in := journal.MealInput{Name: req.Name, Rating: req.Rating}
	if len(req.Photo) > 0 {
		in.Photo = &domain.Photo{ContentType: req.PhotoContentType, Data: req.Photo}
	}

	meal, err := in.Build()
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	i, err := h.svc.Add(r.Context(), meal)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/meals/%d", i))
	writeJSON(w, http.StatusCreated, toMealResponse(i, meal))
}

// Update handles PUT /meals/{index}.
func (h *MealHandler) Update(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req mealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	meal, err := h.svc.Edit(r.Context(), i, func(in journal.MealInput) journal.MealInput {
		in.Name = req.Name
		in.Rating = req.Rating
		switch {
		case len(req.Photo) > 0:
			in.Photo = &domain.Photo{ContentType: req.PhotoContentType, Data: req.Photo}
		case req.RemovePhoto:
			in.Photo = nil
		}
		return in
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toMealResponse(i, meal))
}

// Delete handles DELETE /meals/{index}.
func (h *MealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), i); err != nil {
		h.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Rate handles POST /meals/{index}/rating.
func (h *MealHandler) Rate(w http.ResponseWriter, r *http.Request) {
	i, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req rateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	value, err := h.svc.TapRating(r.Context(), i, req.Star)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rateResponse{Index: i, Rating: value})
}

func (h *MealHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		resp := errorResponse{Error: ve.Error(), Fields: make([]fieldErrorResponse, len(ve.Errors))}
		for i, fe := range ve.Errors {
			resp.Fields[i] = fieldErrorResponse{Field: fe.Field, Message: fe.Message}
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "meal not found")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toMealResponse(i int, m *domain.Meal) mealResponse {
	resp := mealResponse{
		Index:    i,
		Name:     m.Name,
		Rating:   m.Rating,
		HasPhoto: m.HasPhoto(),
	}
	if resp.HasPhoto {
		resp.PhotoContentType = m.Photo.ContentType
		resp.PhotoURL = fmt.Sprintf("/meals/%d/photo", i)
	}
	return resp
}

// pathIndex parses the {index} path value. A malformed index names no meal.
func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || i < 0 {
		writeError(w, http.StatusNotFound, "meal not found")
		return 0, false
	}
	return i, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
