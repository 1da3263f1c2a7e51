package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"boostshop/internal/auth"
	"boostshop/internal/domain"
	"boostshop/internal/service"
	"boostshop/internal/session"
	"boostshop/internal/throttle"
)

type fakeProducts struct {
	products map[string]domain.Product
}

func (f *fakeProducts) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return domain.Product{}, domain.ErrNotFound
}

func (f *fakeProducts) GetProductByName(ctx context.Context, name string) (domain.Product, error) {
	for _, p := range f.products {
		if p.Name == name {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

func (f *fakeProducts) CreateProduct(ctx context.Context, name, description string, price float64, category string) (domain.Product, error) {
	p := domain.Product{ID: "id-" + name, Name: name, Description: description, Price: price, Category: category}
	f.products[p.ID] = p
	return p, nil
}

func (f *fakeProducts) CreateProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		created, _ := f.CreateProduct(ctx, p.Name, p.Description, p.Price, p.Category)
		out = append(out, created)
	}
	return out, nil
}

func (f *fakeProducts) DeleteAllProducts(ctx context.Context) error {
	f.products = make(map[string]domain.Product)
	return nil
}

type fixedCredentials struct{ users []domain.Credential }

func (f *fixedCredentials) Load(ctx context.Context) ([]domain.Credential, error) {
	return f.users, nil
}

type testEnv struct {
	handler  http.Handler
	sessions *session.MemoryStore
	guard    *throttle.Guard
	products *fakeProducts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	quizPath := filepath.Join(t.TempDir(), "quiz.json")
	err := os.WriteFile(quizPath, []byte(`[
		{"id": "q1", "text": "FPS?", "choices": {"a": "Frames Per Second", "b": "nu"}, "correct": "a"},
		{"id": "q2", "text": "LoL?", "choices": {"a": "4", "b": "5"}, "correct": "b"}
	]`), 0o600)
	if err != nil {
		t.Fatalf("write quiz: %v", err)
	}

	products := &fakeProducts{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Starter Boost", Price: 14.99},
		"p2": {ID: "p2", Name: "Elite Boost", Price: 49.99},
	}}
	sessions := session.NewMemoryStore(time.Hour)
	guard := throttle.NewGuard(throttle.Config{
		MaxAttempts: 3,
		Window:      time.Minute,
		BlockFor:    10 * time.Minute,
	})

	handler := New(Opts{
		Auth: &service.AuthService{
			Credentials: &fixedCredentials{users: []domain.Credential{
				{Username: "ana", Password: "parola123", GivenName: "Ana", FamilyName: "Popescu", Role: "CLIENT"},
				{Username: "admin", Password: "adminadmin", Role: domain.RoleAdmin},
			}},
			Guard: guard,
		},
		Catalog:     &service.CatalogService{Products: products},
		Cart:        &service.CartService{Products: products},
		Quiz:        &service.QuizService{Path: quizPath},
		Sessions:    sessions,
		Guard:       guard,
		CookieCodec: auth.NewCookieCodec(nil),
		SessionTTL:  time.Hour,
		// Generous limit so only the tests that want 429s trigger them.
		LoginLimit:       100,
		LoginLimitWindow: time.Minute,
	})

	return &testEnv{handler: handler, sessions: sessions, guard: guard, products: products}
}

// seedSession stores data under a fresh session ID and returns the cookie to
// send with subsequent requests (unsigned codec in tests).
func (e *testEnv) seedSession(t *testing.T, data session.Data) *http.Cookie {
	t.Helper()
	id := session.NewID()
	if err := e.sessions.Put(context.Background(), id, data); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return &http.Cookie{Name: auth.SessionCookieName, Value: id}
}

func get(handler http.Handler, path, remoteAddr string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	r.RemoteAddr = remoteAddr
	for _, c := range cookies {
		r.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, r)
	return rr
}

func postForm(handler http.Handler, path, remoteAddr string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.RemoteAddr = remoteAddr
	for _, c := range cookies {
		r.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, r)
	return rr
}

func loginForm(username, password, captcha string) url.Values {
	return url.Values{
		"utilizator": {username},
		"parola":     {password},
		"captcha":    {captcha},
	}
}

func TestHome(t *testing.T) {
	env := newTestEnv(t)

	rr := get(env.handler, "/", "10.0.0.1:5000")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Acasă") {
		t.Fatalf("home body missing title")
	}
}

func TestLoginPage_IssuesCaptcha(t *testing.T) {
	env := newTestEnv(t)

	rr := get(env.handler, "/autentificare", "10.0.0.2:5000")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /autentificare = %d, want 200", rr.Code)
	}

	cookies := rr.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("expected session cookie on login page")
	}
	data, err := env.sessions.Get(context.Background(), cookies[0].Value)
	if err != nil {
		t.Fatalf("session lookup: %v", err)
	}
	if data.CaptchaAnswer == "" {
		t.Fatalf("expected captcha answer stored in session")
	}
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.seedSession(t, session.Data{CaptchaAnswer: "verde"})

	rr := postForm(env.handler, "/verificare-autentificare", "10.0.0.3:5000",
		loginForm("ana", "parola123", " Verde "), cookie)
	if rr.Code != http.StatusFound {
		t.Fatalf("login = %d, want 302", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/" {
		t.Fatalf("redirect to %q, want /", loc)
	}

	data, err := env.sessions.Get(context.Background(), cookie.Value)
	if err != nil {
		t.Fatalf("session lookup: %v", err)
	}
	if data.User == nil || data.User.Username != "ana" {
		t.Fatalf("expected logged-in user in session, got %+v", data.User)
	}
	if data.CaptchaAnswer != "" {
		t.Fatalf("expected captcha answer consumed")
	}
}

func TestLogin_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantFlash  string
		remoteAddr string
	}{
		{
			name:       "forbidden characters",
			form:       loginForm("admin' OR '1'='1", "x", "verde"),
			wantFlash:  msgForbiddenChars,
			remoteAddr: "10.1.0.1:5000",
		},
		{
			name:       "captcha mismatch",
			form:       loginForm("ana", "parola123", "rosu"),
			wantFlash:  msgCaptchaWrong,
			remoteAddr: "10.1.0.2:5000",
		},
		{
			name:       "bad credentials",
			form:       loginForm("ana", "gresit", "verde"),
			wantFlash:  msgBadCredentials,
			remoteAddr: "10.1.0.3:5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			cookie := env.seedSession(t, session.Data{CaptchaAnswer: "verde"})

			rr := postForm(env.handler, "/verificare-autentificare", tt.remoteAddr, tt.form, cookie)
			if rr.Code != http.StatusFound {
				t.Fatalf("login = %d, want 302", rr.Code)
			}
			if loc := rr.Header().Get("Location"); loc != "/autentificare" {
				t.Fatalf("redirect to %q, want /autentificare", loc)
			}

			data, err := env.sessions.Get(context.Background(), cookie.Value)
			if err != nil {
				t.Fatalf("session lookup: %v", err)
			}
			if data.Flash != tt.wantFlash {
				t.Fatalf("flash = %q, want %q", data.Flash, tt.wantFlash)
			}
		})
	}
}

func TestLogin_ThrottleThenBlock(t *testing.T) {
	env := newTestEnv(t)
	addr := "10.2.0.1:5000"

	// Two failures stay under the limit; the third trips the block.
	for i := 0; i < 2; i++ {
		cookie := env.seedSession(t, session.Data{CaptchaAnswer: "verde"})
		rr := postForm(env.handler, "/verificare-autentificare", addr,
			loginForm("ana", "gresit", "verde"), cookie)
		if rr.Code != http.StatusFound {
			t.Fatalf("failure %d: code %d, want 302", i+1, rr.Code)
		}
	}

	cookie := env.seedSession(t, session.Data{CaptchaAnswer: "verde"})
	rr := postForm(env.handler, "/verificare-autentificare", addr,
		loginForm("ana", "gresit", "verde"), cookie)
	if rr.Code != http.StatusFound {
		t.Fatalf("blocking attempt: code %d, want 302", rr.Code)
	}
	data, _ := env.sessions.Get(context.Background(), cookie.Value)
	if data.Flash != msgTooManyAttempts {
		t.Fatalf("flash = %q, want %q", data.Flash, msgTooManyAttempts)
	}

	// Every request from the address now bounces off the block gate, correct
	// credentials included.
	rr = get(env.handler, "/", addr)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("blocked GET / = %d, want 403", rr.Code)
	}
	rr = get(env.handler, "/static/css/style.css", addr)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("blocked static GET = %d, want 403", rr.Code)
	}
}

func TestNotFound_CountsTowardBlock(t *testing.T) {
	env := newTestEnv(t)
	addr := "10.3.0.1:5000"

	for i := 0; i < 3; i++ {
		rr := get(env.handler, "/nu-exista", addr)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("probe %d: code %d, want 404", i+1, rr.Code)
		}
	}

	rr := get(env.handler, "/", addr)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("after probes GET / = %d, want 403", rr.Code)
	}
}

func TestNotFound_StaticSuffixExempt(t *testing.T) {
	env := newTestEnv(t)
	addr := "10.3.0.2:5000"

	for i := 0; i < 10; i++ {
		rr := get(env.handler, "/lipsa/favicon.ico", addr)
		if rr.Code != http.StatusNotFound {
			t.Fatalf("probe %d: code %d, want 404", i+1, rr.Code)
		}
	}

	rr := get(env.handler, "/", addr)
	if rr.Code != http.StatusOK {
		t.Fatalf("after asset probes GET / = %d, want 200", rr.Code)
	}
}

func TestCart_AddRemoveClear(t *testing.T) {
	env := newTestEnv(t)
	addr := "10.4.0.1:5000"
	cookie := env.seedSession(t, session.Data{})

	for i := 0; i < 2; i++ {
		rr := get(env.handler, "/cart/add?productId=p1", addr, cookie)
		if rr.Code != http.StatusFound {
			t.Fatalf("cart add = %d, want 302", rr.Code)
		}
	}
	data, _ := env.sessions.Get(context.Background(), cookie.Value)
	if len(data.Cart) != 1 || data.Cart[0].ID != "p1" {
		t.Fatalf("cart after double add: %+v", data.Cart)
	}

	get(env.handler, "/cart/add?productId=p2", addr, cookie)
	data, _ = env.sessions.Get(context.Background(), cookie.Value)
	if len(data.Cart) != 2 {
		t.Fatalf("cart = %d lines, want 2", len(data.Cart))
	}

	get(env.handler, "/cart/remove?id=p1", addr, cookie)
	data, _ = env.sessions.Get(context.Background(), cookie.Value)
	if len(data.Cart) != 1 || data.Cart[0].ID != "p2" {
		t.Fatalf("cart after remove: %+v", data.Cart)
	}

	get(env.handler, "/cart/clear", addr, cookie)
	data, _ = env.sessions.Get(context.Background(), cookie.Value)
	if len(data.Cart) != 0 {
		t.Fatalf("cart after clear: %+v", data.Cart)
	}
}

func TestAdmin_RoleGate(t *testing.T) {
	env := newTestEnv(t)
	addr := "10.5.0.1:5000"

	rr := get(env.handler, "/admin", addr)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("anonymous /admin = %d, want 403", rr.Code)
	}

	client := env.seedSession(t, session.Data{User: &domain.SessionUser{Username: "ana", Role: "CLIENT"}})
	rr = get(env.handler, "/admin", addr, client)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("client /admin = %d, want 403", rr.Code)
	}

	admin := env.seedSession(t, session.Data{User: &domain.SessionUser{Username: "admin", Role: domain.RoleAdmin}})
	rr = get(env.handler, "/admin", addr, admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin /admin = %d, want 200", rr.Code)
	}
}

func TestAdmin_AddProduct(t *testing.T) {
	env := newTestEnv(t)
	addr := "10.5.0.2:5000"
	admin := env.seedSession(t, session.Data{User: &domain.SessionUser{Username: "admin", Role: domain.RoleAdmin}})

	form := url.Values{
		"nume":      {"Mega Boost"},
		"descriere": {"Boost complet"},
		"pret":      {"99.99"},
		"categorie": {"boost"},
	}
	rr := postForm(env.handler, "/admin/adauga-produs", addr, form, admin)
	if rr.Code != http.StatusOK {
		t.Fatalf("add product = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Produs adăugat cu succes") {
		t.Fatalf("expected success notice, got: %s", rr.Body.String())
	}

	// Same name again renders the duplicate banner.
	rr = postForm(env.handler, "/admin/adauga-produs", addr, form, admin)
	if !strings.Contains(rr.Body.String(), "există deja") {
		t.Fatalf("expected duplicate banner, got: %s", rr.Body.String())
	}

	// Invalid price fails validation before the catalog is touched.
	bad := url.Values{
		"nume":      {"X"},
		"descriere": {"d"},
		"pret":      {"nu-i-numar"},
		"categorie": {"boost"},
	}
	rr = postForm(env.handler, "/admin/adauga-produs", addr, bad, admin)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("invalid form = %d, want 400", rr.Code)
	}
}

func TestQuiz(t *testing.T) {
	env := newTestEnv(t)
	addr := "10.6.0.1:5000"

	rr := get(env.handler, "/chestionar", addr)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /chestionar = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "FPS?") {
		t.Fatalf("quiz body missing question")
	}

	rr = postForm(env.handler, "/rezultat-chestionar", addr, url.Values{
		"q1": {"a"},
		"q2": {"a"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("POST /rezultat-chestionar = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "1 din 2") {
		t.Fatalf("expected score 1/2 in body, got: %s", rr.Body.String())
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.seedSession(t, session.Data{User: &domain.SessionUser{Username: "ana"}})

	rr := get(env.handler, "/logout", "10.7.0.1:5000", cookie)
	if rr.Code != http.StatusFound {
		t.Fatalf("logout = %d, want 302", rr.Code)
	}
	if _, err := env.sessions.Get(context.Background(), cookie.Value); err == nil {
		t.Fatalf("expected session destroyed on logout")
	}
}

func TestLoginRouteRateLimit(t *testing.T) {
	quizPath := filepath.Join(t.TempDir(), "quiz.json")
	_ = os.WriteFile(quizPath, []byte(`[]`), 0o600)

	sessions := session.NewMemoryStore(time.Hour)
	guard := throttle.NewGuard(throttle.Config{MaxAttempts: 100, Window: time.Minute, BlockFor: time.Minute})
	handler := New(Opts{
		Auth: &service.AuthService{
			Credentials: &fixedCredentials{},
			Guard:       guard,
		},
		Quiz:             &service.QuizService{Path: quizPath},
		Sessions:         sessions,
		Guard:            guard,
		CookieCodec:      auth.NewCookieCodec(nil),
		SessionTTL:       time.Hour,
		LoginLimit:       2,
		LoginLimitWindow: time.Hour,
	})

	addr := "10.8.0.1:5000"
	for i := 0; i < 2; i++ {
		rr := postForm(handler, "/verificare-autentificare", addr, loginForm("x", "y", "z"))
		if rr.Code == http.StatusTooManyRequests {
			t.Fatalf("request %d unexpectedly limited", i+1)
		}
	}

	rr := postForm(handler, "/verificare-autentificare", addr, loginForm("x", "y", "z"))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("3rd request = %d, want 429", rr.Code)
	}
}

func TestProductsPage(t *testing.T) {
	env := newTestEnv(t)

	rr := get(env.handler, "/servicii", "10.9.0.1:5000")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /servicii = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Starter Boost") || !strings.Contains(body, "Elite Boost") {
		t.Fatalf("products page missing items: %s", body)
	}
}
