package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/campusreview/betyg/internal/app"
	"github.com/campusreview/betyg/internal/identity"
	"github.com/campusreview/betyg/internal/metrics"
	"github.com/campusreview/betyg/internal/models"
)

type FacultyHandler struct {
	service *app.Service
}

func NewFacultyHandler(service *app.Service) *FacultyHandler {
	return &FacultyHandler{
		service: service,
	}
}

// submitter resolves who is submitting: the bearer session when auth is on,
// otherwise the identity header, validated against the same email policy.
func (h *FacultyHandler) submitter(r *http.Request) (identity.Session, error) {
	if h.service.Auth.Enabled() {
		return h.service.Auth.SessionFromRequest(r)
	}

	email := r.Header.Get(h.service.Config.API.EmailHeader)
	return h.service.Emails.Login(email)
}

func facultyID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (h *FacultyHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	who, err := h.service.Login(payload.Email)
	if err != nil {
		http.Error(w, "Invalid email. Use format: <regno>"+h.service.Emails.Suffix(), http.StatusBadRequest)
		return
	}

	info, err := h.service.Auth.StartSession(r.Context(), who)
	if err != nil {
		logger.Error.Printf("Failed to start session for %s: %v", who.RegNo, err)
		http.Error(w, "Failed to start session", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		logger.Error.Printf("Failed to encode session info: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *FacultyHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.service.Auth.EndSession(r); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *FacultyHandler) HandleAddFaculty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	if _, err := h.submitter(r); err != nil {
		logger.Error.Printf("Auth failed: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Name       string `json:"name"`
		Department string `json:"department"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	faculty, err := h.service.AddFaculty(payload.Name, payload.Department)
	if err != nil {
		if app.IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error.Printf("Failed to add faculty: %v", err)
		http.Error(w, "Failed to add faculty", http.StatusInternalServerError)
		return
	}

	metrics.FacultyCreatedTotal.Inc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(faculty); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
	}
}

func (h *FacultyHandler) HandleListFaculty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.service.ValidateHeaders(r.Header) {
		http.Error(w, "these are not the droids you are looking for", http.StatusNotFound)
		return
	}

	summaries, err := h.service.FacultyOverview()
	if err != nil {
		logger.Error.Printf("Failed to list faculty: %v", err)
		http.Error(w, "Failed to fetch faculty", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"faculty": summaries,
	}); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *FacultyHandler) HandleGetFaculty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := facultyID(r)
	if err != nil {
		http.Error(w, "Invalid faculty id", http.StatusBadRequest)
		return
	}

	faculty, err := h.service.Faculty(id)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			http.Error(w, "Faculty not found", http.StatusNotFound)
			return
		}
		logger.Error.Printf("Failed to get faculty %d: %v", id, err)
		http.Error(w, "Failed to fetch faculty", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(faculty); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
	}
}

func (h *FacultyHandler) HandleFacultySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := facultyID(r)
	if err != nil {
		http.Error(w, "Invalid faculty id", http.StatusBadRequest)
		return
	}

	agg, err := h.service.FacultySummary(id)
	if err != nil {
		logger.Error.Printf("Failed to get summary for faculty %d: %v", id, err)
		http.Error(w, "Failed to fetch summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(agg); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
	}
}

func (h *FacultyHandler) HandleListRatings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, err := facultyID(r)
	if err != nil {
		http.Error(w, "Invalid faculty id", http.StatusBadRequest)
		return
	}

	ratings, err := h.service.RecentRatings(id)
	if err != nil {
		logger.Error.Printf("Failed to list ratings for faculty %d: %v", id, err)
		http.Error(w, "Failed to fetch ratings", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"ratings": ratings,
	}); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

func (h *FacultyHandler) HandleSubmitRating(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "200"
	defer func() {
		duration := time.Since(start).Seconds()
		metrics.APIRequestDuration.WithLabelValues(
			r.URL.Path,
			r.Method,
			status,
		).Observe(duration)
	}()

	if r.Method != http.MethodPost {
		status = "405"
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if !h.service.ValidateHeaders(r.Header) {
		status = "403"
		http.Error(w, "these are not the droids you are looking for", http.StatusForbidden)
		return
	}

	id, err := facultyID(r)
	if err != nil {
		status = "400"
		http.Error(w, "Invalid faculty id", http.StatusBadRequest)
		return
	}

	who, err := h.submitter(r)
	if err != nil {
		status = "401"
		logger.Error.Printf("Auth failed: %v", err)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var input models.RatingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		status = "400"
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	rating, err := h.service.SubmitRating(id, input, who)
	if err != nil {
		switch {
		case app.IsValidation(err):
			status = "400"
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, app.ErrNotFound):
			status = "404"
			http.Error(w, "Faculty not found", http.StatusNotFound)
		default:
			status = "500"
			logger.Error.Printf("Failed to save rating: %v", err)
			http.Error(w, "Failed to save rating", http.StatusInternalServerError)
		}
		return
	}

	department := "unknown"
	if faculty, err := h.service.Faculty(id); err == nil && faculty.Department != nil {
		department = *faculty.Department
	}
	metrics.RatingsTotal.WithLabelValues(department).Inc()
	metrics.InternalMarksHistogram.WithLabelValues(department).Observe(
		float64(input.InternalFrom+input.InternalTo) / 2.0,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(rating); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
	}
}
