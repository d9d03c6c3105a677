package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/internal/auth"
	"github.com/petermazzocco/murmur-api/internal/metrics"
	"github.com/petermazzocco/murmur-api/internal/service"
	"github.com/petermazzocco/murmur-api/models"
)

type Handler struct {
	svc      *service.Service
	sessions *auth.Sessions
}

func New(svc *service.Service, sessions *auth.Sessions) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Failed to encode response:", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}
	metrics.ObserveError(kind)
	writeJSON(w, apperr.Status(kind), map[string]any{"error": apperr.Message(err)})
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.Wrap(apperr.InvalidInput, "Invalid JSON body", err)
	}
	return nil
}

func urlID(r *http.Request, name string) (uint, error) {
	id := auth.ParseID(chi.URLParam(r, name))
	if id == 0 {
		return 0, apperr.Invalid("Invalid " + name)
	}
	return id, nil
}

// parsePage reads page and per_page, falling back to page 1 and perPage.
func parsePage(r *http.Request, perPage int) (models.PageRequest, error) {
	p := models.PageRequest{Page: 1, PerPage: perPage}
	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, apperr.Invalid("page must be an integer")
		}
		p.Page = n
	}
	if v := q.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, apperr.Invalid("per_page must be an integer")
		}
		p.PerPage = n
	}
	return p, nil
}

func pageBody[T any](key string, p models.Page[T]) map[string]any {
	return map[string]any{
		key:            p.Items,
		"total":        p.Total,
		"pages":        p.Pages,
		"current_page": p.CurrentPage,
	}
}
