package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/SmartBrain/internal/models"
)

type fakeProfileService struct {
	profile *models.Profile
	getErr  error
	entries int64
	incErr  error

	getCalled bool
	incCalled bool
	incFor    int64
}

func (f *fakeProfileService) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	f.getCalled = true
	return f.profile, f.getErr
}

func (f *fakeProfileService) IncrementEntries(ctx context.Context, id int64) (int64, error) {
	f.incCalled, f.incFor = true, id
	return f.entries, f.incErr
}

// serveProfile routes through chi so URL params are populated.
func serveProfile(h *ProfileHandler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/profile/{id}", h.GetProfile)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestProfileHandler_GetProfile(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		service      *fakeProfileService
		expectedCode int
		expectedBody string
	}{
		{
			name:         "found",
			path:         "/profile/1",
			service:      &fakeProfileService{profile: testProfile},
			expectedCode: http.StatusOK,
			expectedBody: `"id":1`,
		},
		{
			name:         "not found",
			path:         "/profile/42",
			service:      &fakeProfileService{getErr: models.ErrNotFound},
			expectedCode: http.StatusBadRequest,
			expectedBody: "unable to get profile",
		},
		{
			name:         "store failure",
			path:         "/profile/1",
			service:      &fakeProfileService{getErr: errors.New("boom")},
			expectedCode: http.StatusBadRequest,
			expectedBody: "error getting user",
		},
		{
			name:         "non numeric id",
			path:         "/profile/abc",
			service:      &fakeProfileService{},
			expectedCode: http.StatusBadRequest,
			expectedBody: "unable to get profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveProfile(&ProfileHandler{ProfileService: tt.service}, tt.path)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestProfileHandler_GetProfileSkipsServiceOnBadID(t *testing.T) {
	svc := &fakeProfileService{}
	serveProfile(&ProfileHandler{ProfileService: svc}, "/profile/1x")
	assert.False(t, svc.getCalled)
}

func TestProfileHandler_UpdateImage(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		service      *fakeProfileService
		expectedCode int
		expectedBody string
		expectedID   int64
	}{
		{
			name:         "numeric id",
			body:         `{"id":7}`,
			service:      &fakeProfileService{entries: 3},
			expectedCode: http.StatusOK,
			expectedBody: "3",
			expectedID:   7,
		},
		{
			name:         "string id",
			body:         `{"id":"7"}`,
			service:      &fakeProfileService{entries: 1},
			expectedCode: http.StatusOK,
			expectedBody: "1",
			expectedID:   7,
		},
		{
			name:         "missing id",
			body:         `{}`,
			service:      &fakeProfileService{},
			expectedCode: http.StatusBadRequest,
			expectedBody: "incorrect form submission",
		},
		{
			name:         "null id",
			body:         `{"id":null}`,
			service:      &fakeProfileService{},
			expectedCode: http.StatusBadRequest,
			expectedBody: "incorrect form submission",
		},
		{
			name:         "garbage id",
			body:         `{"id":"seven"}`,
			service:      &fakeProfileService{},
			expectedCode: http.StatusBadRequest,
			expectedBody: "incorrect form submission",
		},
		{
			name:         "fractional id",
			body:         `{"id":1.5}`,
			service:      &fakeProfileService{},
			expectedCode: http.StatusBadRequest,
			expectedBody: "incorrect form submission",
		},
		{
			name:         "unknown profile",
			body:         `{"id":99}`,
			service:      &fakeProfileService{incErr: models.ErrNotFound},
			expectedCode: http.StatusBadRequest,
			expectedBody: "unable to update entries",
			expectedID:   99,
		},
		{
			name:         "store failure",
			body:         `{"id":1}`,
			service:      &fakeProfileService{incErr: errors.New("deadlock")},
			expectedCode: http.StatusBadRequest,
			expectedBody: "unable to update entries",
			expectedID:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &ProfileHandler{ProfileService: tt.service}
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPut, "/image", bytes.NewBufferString(tt.body))

			h.UpdateImage(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			if tt.expectedID != 0 {
				require.True(t, tt.service.incCalled)
				assert.Equal(t, tt.expectedID, tt.service.incFor)
			} else {
				assert.False(t, tt.service.incCalled)
			}
		})
	}
}

func TestProfileHandler_UpdateImageBareInteger(t *testing.T) {
	h := &ProfileHandler{ProfileService: &fakeProfileService{entries: 12}}
	rec := httptest.NewRecorder()

	h.UpdateImage(rec, httptest.NewRequest(http.MethodPut, "/image", strings.NewReader(`{"id":1}`)))

	assert.Equal(t, "12", strings.TrimSpace(rec.Body.String()))
}
