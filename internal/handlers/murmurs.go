package handlers

import (
	"net/http"

	"github.com/petermazzocco/murmur-api/internal/auth"
	"github.com/petermazzocco/murmur-api/internal/service"
	"github.com/petermazzocco/murmur-api/models"
)

func (h *Handler) PublicFeed(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, models.DefaultPerPage)
	if err != nil {
		writeError(w, r, err)
		return
	}

	murmurs, err := h.svc.PublicFeed(r.Context(), auth.Caller(r.Context()), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageBody("murmurs", murmurs))
}

func (h *Handler) Timeline(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, models.DefaultPerPage)
	if err != nil {
		writeError(w, r, err)
		return
	}

	murmurs, err := h.svc.Timeline(r.Context(), auth.Caller(r.Context()), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageBody("murmurs", murmurs))
}

func (h *Handler) UserMurmurs(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := parsePage(r, models.DefaultPerPage)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, murmurs, err := h.svc.AuthorFeed(r.Context(), auth.Caller(r.Context()), id, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body := pageBody("murmurs", murmurs)
	body["user"] = user
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) GetMurmur(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	murmur, err := h.svc.GetMurmur(r.Context(), auth.Caller(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"murmur": murmur})
}

func (h *Handler) CreateMurmur(w http.ResponseWriter, r *http.Request) {
	var in service.CreateMurmurInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	murmur, err := h.svc.CreateMurmur(r.Context(), auth.Caller(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Murmur created successfully",
		"murmur":  murmur,
	})
}

func (h *Handler) DeleteMurmur(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.svc.DeleteMurmur(r.Context(), auth.Caller(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Murmur deleted successfully"})
}

func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.svc.Like(r.Context(), auth.Caller(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":     "Murmur liked successfully",
		"likes_count": n,
	})
}

func (h *Handler) Unlike(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.svc.Unlike(r.Context(), auth.Caller(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Murmur unliked successfully",
		"likes_count": n,
	})
}
