// Package clarifai forwards image URLs to the Clarifai face-detection model
// and returns the raw model output.
package clarifai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/SmartBrain/internal/models"
)

// maxErrorBody caps how much of a failed upstream response is kept for logs.
const maxErrorBody = 4 << 10

// Config identifies the Clarifai app and model to call.
type Config struct {
	BaseURL string
	PAT     string
	UserID  string
	AppID   string
	ModelID string
}

// Client calls the Clarifai v2 model outputs endpoint.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// NewClient returns a Client using httpClient, or http.DefaultClient when nil.
func NewClient(cfg Config, httpClient *http.Client, log *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = zap.NewNop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{cfg: cfg, http: httpClient, log: log}
}

type userAppID struct {
	UserID string `json:"user_id"`
	AppID  string `json:"app_id"`
}

type image struct {
	URL string `json:"url"`
}

type inputData struct {
	Image image `json:"image"`
}

type input struct {
	Data inputData `json:"data"`
}

type outputsRequest struct {
	UserAppID userAppID `json:"user_app_id"`
	Inputs    []input   `json:"inputs"`
}

// DetectFaces sends imageURL to the face-detection model and returns the
// response body unchanged. A non-2xx answer yields *models.UpstreamError.
func (c *Client) DetectFaces(ctx context.Context, imageURL string) (json.RawMessage, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("%w: image url is required", models.ErrInvalidInput)
	}

	payload, err := json.Marshal(outputsRequest{
		UserAppID: userAppID{UserID: c.cfg.UserID, AppID: c.cfg.AppID},
		Inputs:    []input{{Data: inputData{Image: image{URL: imageURL}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/v2/models/" + url.PathEscape(c.cfg.ModelID) + "/outputs"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Key "+c.cfg.PAT)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call clarifai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		upErr := &models.UpstreamError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
		c.log.Warn("clarifai returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("model", c.cfg.ModelID),
			zap.String("body", upErr.Body),
		)
		return nil, upErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read clarifai response: %w", err)
	}
	if !json.Valid(body) {
		return nil, errors.New("clarifai response is not valid JSON")
	}
	return json.RawMessage(body), nil
}
