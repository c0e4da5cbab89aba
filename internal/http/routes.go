package httpx

import (
	"log/slog"
	"net/http"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Sessions SessionServiceInterface
	Upstream Forwarder
	Cookie   CookieConfig
	// ProviderLogin enables the interactive /auth/login and /auth/callback
	// routes (oidc and mock modes). The SSO completion route is always on.
	ProviderLogin bool
	// App serves the application shell for page routes. Defaults to a
	// minimal placeholder when nil.
	App    http.Handler
	Logger *slog.Logger
}

// NewRouter creates and configures the HTTP router: session hydration on
// every route, role guards on the page sections, and the upstream relay for
// /api/*.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}
	app := services.App
	if app == nil {
		app = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<!doctype html><title>Nominate</title>"))
		})
	}

	mux := http.NewServeMux()

	ssoHandlers := &SSOHandlers{Svc: services.Sessions, Cookie: services.Cookie, Logger: logger}
	authHandlers := &AuthHandlers{Svc: services.Sessions, Cookie: services.Cookie, Logger: logger}
	proxy := &ProxyHandler{Upstream: services.Upstream, Cookie: services.Cookie, Logger: logger}

	mux.HandleFunc("GET "+SSOCallbackPath, ssoHandlers.Callback)
	if services.ProviderLogin {
		mux.HandleFunc("GET /auth/login", authHandlers.Login)
		mux.HandleFunc("GET /auth/callback", authHandlers.Callback)
	}
	mux.HandleFunc("POST /auth/logout", authHandlers.Logout)
	mux.HandleFunc("GET /auth/status", authHandlers.Status)
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	mux.Handle("/api/", proxy)

	registerPageRoutes(mux, pageRouteDeps{
		svc:    services.Sessions,
		cookie: services.Cookie,
		app:    app,
	})

	// Root stays public: it is the sign-in entry and every fallback
	// redirect's destination.
	mux.Handle("/{$}", app)

	var handler http.Handler = mux
	handler = WithSession(services.Sessions, services.Cookie)(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

type pageRouteDeps struct {
	svc    SessionServiceInterface
	cookie CookieConfig
	app    http.Handler
}

// registerPageRoutes wires each role section behind its guard. Longer
// patterns win, so the chair subsections override the committee-wide ones.
func registerPageRoutes(mux *http.ServeMux, deps pageRouteDeps) {
	sections := []struct {
		prefix  string
		allowed []domainauth.Role
	}{
		{"/student/", []domainauth.Role{domainauth.RoleStudent}},
		{"/department/", []domainauth.Role{domainauth.RoleDepartmentHead}},
		{"/dean/", []domainauth.Role{domainauth.RoleDean}},
		{"/organization/", []domainauth.Role{domainauth.RoleOrganization}},
		{"/chancellor/", []domainauth.Role{domainauth.RoleChancellor}},
		{"/committee/student-development/", []domainauth.Role{
			domainauth.RoleStudentDevMember,
			domainauth.RoleStudentDevChairman,
		}},
		{"/committee/student-development/chair/", []domainauth.Role{
			domainauth.RoleStudentDevChairman,
		}},
		{"/committee/nomination/", []domainauth.Role{
			domainauth.RoleNominationMember,
			domainauth.RoleNominationChairman,
		}},
		{"/committee/nomination/chair/", []domainauth.Role{
			domainauth.RoleNominationChairman,
		}},
	}

	for _, section := range sections {
		guard := RequireRoles(deps.svc, deps.cookie, section.allowed...)
		mux.Handle(section.prefix, guard(deps.app))
	}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
