package web

import (
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"boostshop/internal/auth"
	"boostshop/internal/service"
	"boostshop/internal/session"
)

const blockedBody = "⛔ IP-ul tău este blocat temporar."

// RequestGuard is the slice of the throttle guard the web layer drives: the
// per-request block gate and the unmatched-route counter.
type RequestGuard interface {
	CheckBlocked(addr string, now time.Time) bool
	RecordNotFound(addr string, now time.Time)
}

type Opts struct {
	Logger *slog.Logger
	IsProd bool

	Auth     *service.AuthService
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Quiz     *service.QuizService
	Sessions session.Store
	Guard    RequestGuard

	CookieCodec  auth.CookieCodec
	CookieSecure bool
	SessionTTL   time.Duration

	// Fixed-window limit on the login submit route, on top of the guard.
	LoginLimit       int
	LoginLimitWindow time.Duration
}

func New(opts Opts) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.LoginLimit <= 0 {
		opts.LoginLimit = 3
	}
	if opts.LoginLimitWindow <= 0 {
		opts.LoginLimitWindow = 10 * time.Second
	}

	app := &app{
		logger:       logger,
		authSvc:      opts.Auth,
		catalogSvc:   opts.Catalog,
		cartSvc:      opts.Cart,
		quizSvc:      opts.Quiz,
		sessions:     opts.Sessions,
		guard:        opts.Guard,
		cookieCodec:  opts.CookieCodec,
		cookieSecure: opts.CookieSecure,
		sessionTTL:   opts.SessionTTL,
		now:          time.Now,
	}

	t, err := parseTemplates()
	if err != nil {
		logger.Error("web: parse templates failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	app.templates = t

	loginLimiter := httprate.Limit(
		opts.LoginLimit,
		opts.LoginLimitWindow,
		httprate.WithKeyByRealIP(),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "⏱ Prea multe cereri de la acest IP. Încearcă mai târziu.", http.StatusTooManyRequests)
		}),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", app.handleHome)
	mux.HandleFunc("GET /autentificare", app.handleLoginGet)
	mux.Handle("POST /verificare-autentificare", loginLimiter(http.HandlerFunc(app.handleLoginPost)))
	mux.HandleFunc("GET /logout", app.handleLogout)

	mux.HandleFunc("GET /servicii", app.handleProducts)
	mux.HandleFunc("GET /portofoliu", app.handlePortfolio)

	mux.HandleFunc("GET /cos", app.handleCart)
	mux.HandleFunc("GET /cart/add", app.handleCartAdd)
	mux.HandleFunc("GET /cart/remove", app.handleCartRemove)
	mux.HandleFunc("GET /cart/clear", app.handleCartClear)

	mux.HandleFunc("GET /chestionar", app.handleQuiz)
	mux.HandleFunc("POST /rezultat-chestionar", app.handleQuizResult)

	mux.HandleFunc("GET /admin", app.requireAdmin(app.handleAdmin))
	mux.HandleFunc("POST /admin/adauga-produs", app.requireAdmin(app.handleAdminAddProduct))

	mux.HandleFunc("GET /creare-bd", app.handleCatalogReset)
	mux.HandleFunc("GET /inserare-produse", app.handleCatalogSeed)
	mux.HandleFunc("GET /adauga-planuri-boost", app.handleCatalogSeedPlans)

	staticFS, err := fs.Sub(assets, "static")
	if err != nil {
		logger.Error("web: static fs setup failed", "err", err)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal server error", http.StatusInternalServerError)
		})
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
	mux.Handle("GET /static/", static)
	mux.Handle("HEAD /static/", static)

	mux.HandleFunc("/", app.handleNotFound)

	var h http.Handler = mux
	h = app.blockGate(h)
	h = Recoverer(logger, opts.IsProd)(h)
	h = RequestLogger(logger)(h)
	h = RequestID()(h)
	return h
}

type app struct {
	logger *slog.Logger

	authSvc    *service.AuthService
	catalogSvc *service.CatalogService
	cartSvc    *service.CartService
	quizSvc    *service.QuizService
	sessions   session.Store
	guard      RequestGuard

	cookieCodec  auth.CookieCodec
	cookieSecure bool
	sessionTTL   time.Duration
	now          func() time.Time

	templates *templates
}

// blockGate rejects every request from a blocked address before any routing
// happens, static assets included.
func (a *app) blockGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.guard != nil && a.guard.CheckBlocked(clientIP(r), a.now()) {
			http.Error(w, blockedBody, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleNotFound serves the fixed 404 body and feeds the abuse counter for
// anything that does not look like a static asset probe.
func (a *app) handleNotFound(w http.ResponseWriter, r *http.Request) {
	if isStaticAssetPath(r.URL.Path) {
		http.Error(w, "Resursă lipsă (statică)", http.StatusNotFound)
		return
	}

	if a.guard != nil {
		a.guard.RecordNotFound(clientIP(r), a.now())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("<h1>404 - Pagina nu există</h1><p>Încercare invalidă</p>"))
}
