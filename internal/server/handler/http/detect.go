package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/SmartBrain/internal/models"
)

// FaceDetector forwards an image URL to the vision service.
type FaceDetector interface {
	// DetectFaces returns the raw model output for imageURL.
	DetectFaces(ctx context.Context, imageURL string) (json.RawMessage, error)
}

// DetectHandler proxies face-detection requests.
type DetectHandler struct {
	// Detector calls the face-detection model.
	Detector FaceDetector
	// Log receives server-side error details, including upstream status codes.
	Log *zap.Logger
}

// DetectRequest represents the JSON payload of POST /clarifai.
type DetectRequest struct {
	// Input is the image URL to analyse.
	Input string `json:"input"`
}

// Detect handles POST /clarifai. The upstream body is relayed as is; every
// failure is a 400.
func (h *DetectHandler) Detect(w http.ResponseWriter, r *http.Request) {
	var req DetectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Input == "" {
		JSONError(w, "incorrect form submission", http.StatusBadRequest)
		return
	}

	result, err := h.Detector.DetectFaces(r.Context(), req.Input)
	if err != nil {
		fields := []zap.Field{
			zap.String("request_id", chiMiddleware.GetReqID(r.Context())),
			zap.Error(err),
		}
		var upErr *models.UpstreamError
		if errors.As(err, &upErr) {
			fields = append(fields, zap.Int("upstream_status", upErr.StatusCode))
		}
		orNop(h.Log).Error("face detection failed", fields...)
		JSONError(w, "error calling face detection API", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result)
}
