package clarifai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/SmartBrain/internal/models"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL + "/",
		PAT:     "test-pat",
		UserID:  "pauljd1",
		AppID:   "faceDetection",
		ModelID: "face-detection",
	}
}

func TestDetectFaces_Success(t *testing.T) {
	const upstream = `{"status":{"code":10000},"outputs":[{"data":{"regions":[{"region_info":{"bounding_box":{"top_row":0.1}}}]}}]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/models/face-detection/outputs", r.URL.Path)
		assert.Equal(t, "Key test-pat", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{
			"user_app_id": {"user_id": "pauljd1", "app_id": "faceDetection"},
			"inputs": [{"data": {"image": {"url": "https://example.com/face.jpg"}}}]
		}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(upstream))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client(), nil)
	got, err := c.DetectFaces(context.Background(), "https://example.com/face.jpg")
	require.NoError(t, err)
	assert.JSONEq(t, upstream, string(got))
}

func TestDetectFaces_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":{"code":11102,"description":"Invalid request"}}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client(), nil)
	_, err := c.DetectFaces(context.Background(), "https://example.com/face.jpg")
	require.Error(t, err)

	var upErr *models.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusUnauthorized, upErr.StatusCode)
	assert.Contains(t, upErr.Body, "Invalid request")
}

func TestDetectFaces_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), srv.Client(), nil)
	_, err := c.DetectFaces(context.Background(), "https://example.com/face.jpg")
	require.ErrorContains(t, err, "not valid JSON")
}

func TestDetectFaces_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := NewClient(testConfig(base), nil, nil)
	_, err := c.DetectFaces(context.Background(), "https://example.com/face.jpg")
	require.ErrorContains(t, err, "call clarifai")
}

func TestDetectFaces_EmptyURL(t *testing.T) {
	c := NewClient(testConfig("http://unused"), nil, nil)
	_, err := c.DetectFaces(context.Background(), "")
	require.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDetectFaces_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"ok": "true"})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(testConfig(srv.URL), srv.Client(), nil)
	_, err := c.DetectFaces(ctx, "https://example.com/face.jpg")
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewClient_DefaultHTTPClient(t *testing.T) {
	c := NewClient(testConfig("http://unused"), nil, nil)

	assert.Same(t, http.DefaultClient, c.http)
	assert.Zero(t, c.http.Timeout, "only the caller's context bounds the upstream call")
}

func TestDetectFaces_BoundedByCallerDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	c := NewClient(testConfig(srv.URL), nil, nil)
	_, err := c.DetectFaces(ctx, "https://example.com/face.jpg")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
