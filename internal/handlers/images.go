package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/petermazzocco/murmur-api/internal/apperr"
	"github.com/petermazzocco/murmur-api/internal/auth"
)

const maxUploadBytes = 10 << 20

func (h *Handler) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	// Parse multipart form
	file, header, err := r.FormFile("profile_image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, r, apperr.Invalid("File too large"))
		default:
			writeError(w, r, apperr.Invalid("No file provided"))
		}
		return
	}
	defer file.Close()

	// the form may carry the caller when there is no session or header
	caller := auth.Caller(r.Context())
	if caller == 0 {
		caller = auth.ParseID(r.FormValue("user_id"))
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, apperr.Fail("read upload", err))
		return
	}

	user, err := h.svc.UploadProfileImage(r.Context(), caller, header.Filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":           "Profile image uploaded successfully",
		"profile_image_url": user.ProfileImage,
		"user":              user,
	})
}
