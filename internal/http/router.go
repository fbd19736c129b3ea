package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/corethink/backend/internal/service"
	"github.com/corethink/backend/internal/store"
	"github.com/corethink/backend/pkg/httpx"
	"github.com/corethink/backend/pkg/jwtx"
	"github.com/corethink/backend/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	cookies      *CookieManager
	frontendURL  string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	TokenService      *service.TokenService
	AuthService       *service.AuthService
	UserService       *service.UserService
	ProjectService    *service.ProjectService
	ChatService       *service.ChatService
	DeploymentService *service.DeploymentService
}

func NewRouter(
	verifier jwtx.Verifier,
	cookies *CookieManager,
	frontendURL, buildVersion string,
	corsOrigins []string,
	st store.Store,
	tokens *service.TokenService,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		cookies:      cookies,
		frontendURL:  frontendURL,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		TokenService: tokens,
		logger:       logger,
	}

	// Global chain: logging first, then CORS, then silent session renewal.
	// Renewal must run before any route guard so a just-renewed access
	// token is what the guard verifies.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORSMiddleware(corsOrigins),
		SessionMiddleware(tokens, cookies),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProjects()
	r.registerChat()
	r.registerDeployments()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	authHandler := &AuthHandler{
		AuthService: r.AuthService,
		Cookies:     r.cookies,
		FrontendURL: r.frontendURL,
	}

	r.Mux.Handle("GET /v1/auth/{provider}/login", http.HandlerFunc(authHandler.HandleLogin))
	r.Mux.Handle("GET /v1/auth/{provider}/callback", http.HandlerFunc(authHandler.HandleCallback))
	r.Mux.Handle("POST /v1/auth/logout", http.HandlerFunc(authHandler.HandleLogout))

	r.Mux.Handle("POST /v1/auth/refresh", &RefreshHandler{Tokens: r.TokenService})

	r.Mux.Handle("GET /v1/auth/userinfo",
		httpx.Chain(&UserInfoHandler{UserService: r.UserService},
			httpx.AuthnMiddleware(r.verifier),
		),
	)
}

func (r *Router) registerProjects() {
	h := &ProjectsHandler{ProjectService: r.ProjectService}
	guard := httpx.AuthnMiddleware(r.verifier)

	// Mutations and listings scoped to the caller are guarded; single
	// project reads stay public so generated sites can be shared by link.
	r.Mux.Handle("POST /v1/projects", httpx.Chain(http.HandlerFunc(h.HandleCreate), guard))
	r.Mux.Handle("GET /v1/projects", httpx.Chain(http.HandlerFunc(h.HandleList), guard))
	r.Mux.Handle("GET /v1/projects/{id}", http.HandlerFunc(h.HandleGet))
	r.Mux.Handle("GET /v1/projects/domain/{domain}", http.HandlerFunc(h.HandleGetByDomain))
	r.Mux.Handle("GET /v1/projects/user/{userId}", http.HandlerFunc(h.HandleListByUser))
	r.Mux.Handle("PUT /v1/projects/{id}", httpx.Chain(http.HandlerFunc(h.HandleUpdate), guard))
	r.Mux.Handle("DELETE /v1/projects/{id}", httpx.Chain(http.HandlerFunc(h.HandleDelete), guard))
	r.Mux.Handle("POST /v1/projects/{id}/messages", httpx.Chain(http.HandlerFunc(h.HandleAddMessage), guard))
	r.Mux.Handle("POST /v1/projects/{id}/chat", httpx.Chain(http.HandlerFunc(h.HandleChat), guard))
}

func (r *Router) registerChat() {
	h := &ChatHandler{ChatService: r.ChatService}

	r.Mux.Handle("POST /v1/chat/generate", http.HandlerFunc(h.HandleGenerate))
	r.Mux.Handle("POST /v1/chat/pages", http.HandlerFunc(h.HandlePages))
}

func (r *Router) registerDeployments() {
	r.Mux.Handle("POST /v1/deployments",
		httpx.Chain(&DeploymentsHandler{DeploymentService: r.DeploymentService},
			httpx.AuthnMiddleware(r.verifier),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
