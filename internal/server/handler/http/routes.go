package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/atinyakov/SmartBrain/internal/middleware"
)

// WelcomeMessage is the plain-text body of GET /.
const WelcomeMessage = "Welcome to the Smart Brain API!"

// RouterOptions configures the optional parts of the router.
type RouterOptions struct {
	// AllowedOrigins feeds the CORS middleware. Empty disables CORS headers.
	AllowedOrigins []string
	// StaticDir, when set, serves a single-page app for unmatched GET requests.
	StaticDir string
}

// NewRouter constructs the HTTP handler of the SmartBrain API.
//
// Routes:
//
//	GET  /              → welcome text
//	POST /signin        → authHandler.SignIn
//	POST /register      → authHandler.Register
//	GET  /profile/{id}  → profileHandler.GetProfile
//	PUT  /image         → profileHandler.UpdateImage
//	POST /clarifai      → detectHandler.Detect
//
// Middleware chain (applied in order):
//  1. RequestID
//  2. WithRequestLogging(logger)
//  3. Recoverer(logger)
//  4. CORS(opts.AllowedOrigins)
//
// Requests with a body must be sent as application/json; anything else is
// answered like a malformed form, 400 "incorrect form submission".
func NewRouter(
	authHandler *AuthHandler,
	profileHandler *ProfileHandler,
	detectHandler *DetectHandler,
	logger *zap.Logger,
	opts RouterOptions,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(WelcomeMessage))
	})
	r.Get("/profile/{id}", profileHandler.GetProfile)

	r.Group(func(r chi.Router) {
		r.Use(requireJSON)

		r.Post("/signin", authHandler.SignIn)
		r.Post("/register", authHandler.Register)
		r.Put("/image", profileHandler.UpdateImage)
		r.Post("/clarifai", detectHandler.Detect)
	})

	var spa http.Handler
	if opts.StaticDir != "" {
		spa = newSPAHandler(opts.StaticDir)
	}
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if spa != nil && isRead(req) {
			spa.ServeHTTP(w, req)
			return
		}
		JSONError(w, "not found", http.StatusNotFound)
	})
	// GET /signin and friends belong to the front-end when it is mounted.
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		if spa != nil && isRead(req) {
			spa.ServeHTTP(w, req)
			return
		}
		JSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	return r
}

func isRead(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}

// requireJSON rejects a request body that is not declared as JSON. Bodiless
// requests pass through so the handlers report the missing fields.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}
		ct := strings.ToLower(strings.TrimSpace(strings.Split(r.Header.Get("Content-Type"), ";")[0]))
		if ct != "application/json" {
			JSONError(w, "incorrect form submission", http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}
