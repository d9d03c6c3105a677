package handlers

import (
	"context"
	"net/http"

	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/internal/auth"
	"github.com/petermazzocco/murmur-api/internal/service"
	"github.com/petermazzocco/murmur-api/models"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.svc.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.svc.Authenticate(r.Context(), in.Email, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.sessions.Login(w, r, user.ID); err != nil {
		writeError(w, r, apperr.Fail("save session", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		writeError(w, r, apperr.Fail("clear session", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out"})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	profile, err := h.svc.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": profile})
}

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	page, err := parsePage(r, models.DefaultSearchPerPage)
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query().Get("q")
	users, err := h.svc.SearchUsers(r.Context(), q, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body := pageBody("users", users)
	body["query"] = q
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd service.ProfileUpdate
	if err := decode(r, &upd); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), auth.Caller(r.Context()), upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	h.followEdge(w, r, h.svc.Follow, http.StatusCreated, "User followed successfully")
}

func (h *Handler) Unfollow(w http.ResponseWriter, r *http.Request) {
	h.followEdge(w, r, h.svc.Unfollow, http.StatusOK, "User unfollowed successfully")
}

type followOp func(ctx context.Context, caller, followed uint) (*service.FollowCounts, error)

func (h *Handler) followEdge(w http.ResponseWriter, r *http.Request, op followOp, status int, msg string) {
	id, err := urlID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	counts, err := op(r.Context(), auth.Caller(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, status, map[string]any{
		"message":         msg,
		"followers_count": counts.FollowersCount,
		"following_count": counts.FollowingCount,
	})
}

func (h *Handler) Followers(w http.ResponseWriter, r *http.Request) {
	h.followList(w, r, "followers", h.svc.Followers)
}

func (h *Handler) Following(w http.ResponseWriter, r *http.Request) {
	h.followList(w, r, "following", h.svc.Following)
}

type followListOp func(ctx context.Context, id uint, page models.PageRequest) (models.Page[models.UserView], error)

func (h *Handler) followList(w http.ResponseWriter, r *http.Request, key string, op followListOp) {
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

	users, err := op(r.Context(), id, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageBody(key, users))
}
