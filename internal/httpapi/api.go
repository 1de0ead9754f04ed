package httpapi

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"

	"codecrafted.org/internal/auth"
	"codecrafted.org/internal/catalog"
	"codecrafted.org/internal/obs"
	"codecrafted.org/internal/recommend"
)

// ReadyProbe reports whether the service can take traffic (DB reachable).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Config wires the API's collaborators.
type Config struct {
	Auth         *auth.Service
	Users        auth.UserStore
	Courses      catalog.CourseStore
	Interactions catalog.InteractionStore
	Recommender  *recommend.Client
	ReadyProbe   ReadyProbe
	Version      string
	CORSOrigins  []string
	// WebDir, when set, serves the exported web client behind the route guard.
	WebDir string
	// Rate limit per client IP; zero values fall back to defaults.
	RateLimitPerSecond int
	RateLimitBurst     int
}

const (
	defaultRatePerSecond = 10
	defaultRateBurst     = 20
)

// API is the HTTP layer of the marketplace service.
type API struct {
	auth         *auth.Service
	users        auth.UserStore
	courses      catalog.CourseStore
	interactions catalog.InteractionStore
	rec          *recommend.Client
	readyProbe   ReadyProbe
	version      string
	webDir       string
	router       chi.Router
}

// New assembles the router: health and metrics endpoints, the JSON API under
// /api, and guarded page navigation for everything else.
func New(cfg Config) *API {
	a := &API{
		auth:         cfg.Auth,
		users:        cfg.Users,
		courses:      cfg.Courses,
		interactions: cfg.Interactions,
		rec:          cfg.Recommender,
		readyProbe:   cfg.ReadyProbe,
		version:      cfg.Version,
		webDir:       cfg.WebDir,
	}

	perSecond := cfg.RateLimitPerSecond
	if perSecond <= 0 {
		perSecond = defaultRatePerSecond
	}
	burst := cfg.RateLimitBurst
	if burst <= 0 {
		burst = defaultRateBurst
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging)
	r.Use(SecurityHeaders)
	r.Use(CORS(cfg.CORSOrigins))
	r.Use(RateLimit(burst, perSecond))

	r.Get("/healthz", a.handleHealthz)
	r.Get("/readyz", a.handleReady)
	r.Get("/v1/info", a.handleInfo)
	r.Handle("/metrics", obs.Handler())

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/register", a.handleRegister)
		r.Post("/login", a.handleLogin)
		r.Get("/", a.handleListUsers)
		r.With(a.authenticate).Get("/user/{id}", a.handleGetUser)
		r.With(a.authenticate).Put("/update/{id}", a.handleUpdateUser)
		r.With(a.authenticate).Delete("/delete/{id}", a.handleDeleteUser)
	})

	r.Route("/api/courses", func(r chi.Router) {
		r.Get("/", a.handleListCourses)
		r.Post("/create", a.handleCreateCourse)
		r.Get("/course", a.handleListCourses)
		r.Get("/course/{id}", a.handleGetCourse)
	})

	r.Route("/api/interactions", func(r chi.Router) {
		r.Post("/", a.handleCreateInteraction)
		r.Get("/", a.handleListInteractions)
	})

	r.Post("/api/recommend", a.handleRecommend)
	r.Post("/api/batch-recommend", a.handleBatchRecommend)

	// Page navigation falls through to the route guard.
	r.Group(func(r chi.Router) {
		r.Use(a.routeGuard)
		r.Handle("/*", a.pages())
	})

	a.router = r
	return a
}

// Handler returns the instrumented root handler.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.router)
}

func (a *API) pages() http.Handler {
	if a.webDir == "" {
		return http.NotFoundHandler()
	}
	return http.FileServer(http.Dir(a.webDir))
}
