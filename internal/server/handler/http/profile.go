package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/SmartBrain/internal/models"
)

// ProfileService defines the profile operations required by the ProfileHandler.
type ProfileService interface {
	// GetProfile returns models.ErrNotFound for an unknown id.
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	// IncrementEntries bumps the counter by one and returns the new value.
	IncrementEntries(ctx context.Context, id int64) (int64, error)
}

// ProfileHandler serves profile lookups and the image entries counter.
type ProfileHandler struct {
	// ProfileService performs the profile reads and counter updates.
	ProfileService ProfileService
	// Log receives server-side error details.
	Log *zap.Logger
}

// profileID accepts an id sent either as a JSON number or as a numeric string.
type profileID struct {
	value int64
	set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *profileID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return err
	}
	p.value, p.set = v, true
	return nil
}

// ImageRequest represents the JSON payload of PUT /image.
type ImageRequest struct {
	ID profileID `json:"id"`
}

// GetProfile handles GET /profile/{id}.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		JSONError(w, "unable to get profile", http.StatusBadRequest)
		return
	}

	profile, err := h.ProfileService.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			JSONError(w, "unable to get profile", http.StatusBadRequest)
			return
		}
		orNop(h.Log).Error("get profile failed",
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			zap.Int64("id", id),
			zap.Error(err),
		)
		JSONError(w, "error getting user", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateImage handles PUT /image and answers with the new entries count.
func (h *ProfileHandler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	var req ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.ID.set {
		JSONError(w, "incorrect form submission", http.StatusBadRequest)
		return
	}

	entries, err := h.ProfileService.IncrementEntries(r.Context(), req.ID.value)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			orNop(h.Log).Error("update entries failed",
				zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
				zap.Int64("id", req.ID.value),
				zap.Error(err),
			)
		}
		JSONError(w, "unable to update entries", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
