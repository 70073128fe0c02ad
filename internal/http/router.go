package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/user"
	"jobconnect/internal/http/handlers"
	"jobconnect/internal/http/metrics"
	httpmw "jobconnect/internal/http/middleware"
	"jobconnect/internal/http/response"
)

type RouterDependencies struct {
	AuthHandler        *handlers.AuthHandler
	UserHandler        *handlers.UserHandler
	JobHandler         *handlers.JobHandler
	CompanyHandler     *handlers.CompanyHandler
	ApplicationHandler *handlers.ApplicationHandler
	MetricsHandler     *handlers.MetricsHandler
	AuthMiddleware     *httpmw.AuthMiddleware
	Uploads            http.Handler
	Limiter            httpmw.Limiter
	AuthRateLimit      int
	ClientIP           *httpmw.ClientIPResolver
	Metrics            *metrics.Collector
	Logger             *slog.Logger
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
}

type Router struct {
	deps    RouterDependencies
	handler http.Handler

	authLimit  httpmw.Middleware
	applyLimit httpmw.Middleware
}

const (
	maxBodyBytes      = 1 << 20
	applyRateLimit    = 10
	rateLimitWindow   = time.Minute
	uploadsPathPrefix = "/uploads/"
)

func NewRouter(deps RouterDependencies) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	r := &Router{deps: deps}
	r.authLimit = httpmw.RateLimit(deps.Limiter, deps.Metrics, func(req *http.Request) string {
		return "auth:" + deps.ClientIP.ClientIP(req)
	}, deps.AuthRateLimit, rateLimitWindow)
	r.applyLimit = httpmw.RateLimit(deps.Limiter, deps.Metrics, func(req *http.Request) string {
		id, ok := httpmw.UserIDFromContext(req.Context())
		if !ok {
			return ""
		}
		return "apply:" + id.String()
	}, applyRateLimit, rateLimitWindow)
	r.handler = httpmw.Chain(r.baseHandler(),
		httpmw.RequestID,
		httpmw.Logging(deps.Logger),
		httpmw.CORS(deps.CORSAllowedOrigins),
		httpmw.BodyLimit(maxBodyBytes),
		httpmw.Recover,
		httpmw.Metrics(deps.Metrics),
		httpmw.Timeout(deps.RequestTimeout),
	)
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}

func (r *Router) baseHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		path := strings.TrimSuffix(req.URL.Path, "/")
		if path == "" {
			path = "/"
		}
		auth := r.deps.AuthHandler

		switch {
		case req.Method == http.MethodGet && path == "/":
			handlers.Banner(w, req)
			return
		case req.Method == http.MethodGet && path == "/health":
			handlers.Health(w, req)
			return
		case req.Method == http.MethodGet && path == "/metrics":
			r.deps.MetricsHandler.Get(w, req)
			return
		case req.Method == http.MethodGet && strings.HasPrefix(req.URL.Path, uploadsPathPrefix) && r.deps.Uploads != nil:
			http.StripPrefix(uploadsPathPrefix, r.deps.Uploads).ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/api/auth/register":
			r.authLimit(http.HandlerFunc(auth.Register)).ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/api/auth/register-employer":
			r.authLimit(http.HandlerFunc(auth.RegisterEmployer)).ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/api/auth/signup":
			r.authLimit(http.HandlerFunc(auth.Signup)).ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/api/auth/login":
			r.authLimit(http.HandlerFunc(auth.Login)).ServeHTTP(w, req)
			return
		case req.Method == http.MethodPost && path == "/api/auth/social-login":
			r.authLimit(http.HandlerFunc(auth.SocialLogin)).ServeHTTP(w, req)
			return
		case req.Method == http.MethodGet && path == "/api/jobs":
			r.deps.JobHandler.List(w, req)
			return
		case req.Method == http.MethodPost && matchID(path, "/api/jobs/", "/view"):
			r.deps.JobHandler.RecordView(w, req)
			return
		case req.Method == http.MethodGet && matchID(path, "/api/jobs/", "") && path != "/api/jobs/my-jobs" && path != "/api/jobs/saved":
			r.deps.JobHandler.Get(w, req)
			return
		case req.Method == http.MethodGet && path == "/api/companies":
			r.deps.CompanyHandler.List(w, req)
			return
		case req.Method == http.MethodGet && matchID(path, "/api/companies/", "") && path != "/api/companies/my-company":
			r.deps.CompanyHandler.Get(w, req)
			return
		}

		if strings.HasPrefix(path, "/api/") {
			protected := r.deps.AuthMiddleware.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				r.handleProtected(w, req, path)
			}))
			protected.ServeHTTP(w, req)
			return
		}

		notFound(w, req)
	})
}

func (r *Router) handleProtected(w http.ResponseWriter, req *http.Request, path string) {
	jobSeeker := httpmw.RequireRole(user.RoleJobSeeker)
	employer := httpmw.RequireRole(user.RoleEmployer)
	admin := httpmw.RequireRole(user.RoleAdmin)
	users := r.deps.UserHandler
	jobs := r.deps.JobHandler
	companies := r.deps.CompanyHandler
	applications := r.deps.ApplicationHandler

	switch {
	case req.Method == http.MethodGet && path == "/api/auth/me":
		r.deps.AuthHandler.Me(w, req)
		return
	case req.Method == http.MethodPost && path == "/api/auth/logout":
		r.deps.AuthHandler.Logout(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/users/profile":
		users.GetProfile(w, req)
		return
	case req.Method == http.MethodPut && path == "/api/users/profile":
		users.UpdateProfile(w, req)
		return
	case req.Method == http.MethodDelete && path == "/api/users/profile":
		users.DeleteProfile(w, req)
		return
	case req.Method == http.MethodPost && path == "/api/users/upload-resume":
		jobSeeker(http.HandlerFunc(users.UploadResume)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/users/jobseekers":
		admin(http.HandlerFunc(users.ListJobSeekers)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/users/employers":
		admin(http.HandlerFunc(users.ListEmployers)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && matchID(path, "/api/users/", ""):
		users.GetByID(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/jobs/saved":
		jobs.ListSaved(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/jobs/my-jobs":
		employer(http.HandlerFunc(jobs.ListMine)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/api/jobs":
		employer(http.HandlerFunc(jobs.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && matchID(path, "/api/jobs/", ""):
		employer(http.HandlerFunc(jobs.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/companies/my-company":
		employer(http.HandlerFunc(companies.GetMine)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/api/companies":
		employer(http.HandlerFunc(companies.Create)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPut && matchID(path, "/api/companies/", ""):
		employer(http.HandlerFunc(companies.Update)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPost && path == "/api/applications":
		jobSeeker(r.applyLimit(http.HandlerFunc(applications.Apply))).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && path == "/api/applications/my-applications":
		jobSeeker(http.HandlerFunc(applications.ListMine)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodGet && matchID(path, "/api/applications/job/", ""):
		employer(http.HandlerFunc(applications.ListForJob)).ServeHTTP(w, req)
		return
	case req.Method == http.MethodPatch && matchID(path, "/api/applications/", "/status"):
		employer(http.HandlerFunc(applications.UpdateStatus)).ServeHTTP(w, req)
		return
	}

	notFound(w, req)
}

// matchID reports whether path is prefix + one non-empty segment + suffix.
func matchID(path, prefix, suffix string) bool {
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return false
	}
	middle := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	return middle != "" && !strings.Contains(middle, "/")
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	response.Error(w, common.NewError(common.CodeNotFound, "Route not found", nil))
}
