package web

import (
	"errors"
	"net/http"

	"boostshop/internal/auth"
	"boostshop/internal/domain"
	"boostshop/internal/session"
)

const (
	catalogUnavailableMsg = "Catalogul este indisponibil. Setează APP_DB_DSN și repornește serverul."

	msgForbiddenChars     = "⚠️ Caracter interzis în datele introduse."
	msgCaptchaWrong       = "❌ CAPTCHA incorect."
	msgBadCredentials     = "❌ Date de autentificare incorecte!"
	msgTooManyAttempts    = "⛔ Prea multe încercări eșuate. IP blocat temporar."
	msgLoginFailed        = "Autentificarea a eșuat. Încearcă din nou."
	accessForbiddenBody   = "⛔ Acces interzis"
	internalServerErrBody = "Eroare internă server."
)

// loadSession resolves the visitor's session from the signed cookie. Missing,
// tampered, or expired sessions all start fresh with a new ID.
func (a *app) loadSession(r *http.Request) (string, session.Data) {
	c, err := r.Cookie(auth.SessionCookieName)
	if err == nil && c.Value != "" {
		if id, ok := a.cookieCodec.DecodeSessionID(c.Value); ok {
			if data, err := a.sessions.Get(r.Context(), id); err == nil {
				return id, data
			}
		}
	}
	return session.NewID(), session.Data{}
}

func (a *app) saveSession(w http.ResponseWriter, r *http.Request, id string, data session.Data) {
	if err := a.sessions.Put(r.Context(), id, data); err != nil {
		a.logger.Error("web: session save failed", "err", err)
	}
	auth.SetSessionCookie(w, a.cookieCodec.EncodeSessionID(id), a.sessionTTL, a.cookieSecure)
}

func (a *app) flashAndRedirect(w http.ResponseWriter, r *http.Request, id string, data session.Data, msg, target string) {
	data.Flash = msg
	a.saveSession(w, r, id, data)
	http.Redirect(w, r, target, http.StatusFound)
}

func (a *app) handleHome(w http.ResponseWriter, r *http.Request) {
	id, data := a.loadSession(r)
	a.saveSession(w, r, id, data)

	render(w, a.templates.home, http.StatusOK, baseViewData{
		Title: "Acasă",
		User:  data.User,
		Cart:  data.Cart,
	})
}

// handleLoginGet issues a fresh captcha challenge on every render; the
// previous one is overwritten and can no longer be answered.
func (a *app) handleLoginGet(w http.ResponseWriter, r *http.Request) {
	id, data := a.loadSession(r)

	flash := data.Flash
	data.Flash = ""

	challenge := auth.NewChallenge()
	data.CaptchaAnswer = challenge.Answer
	a.saveSession(w, r, id, data)

	render(w, a.templates.login, http.StatusOK, loginViewData{
		Title:       "Autentificare",
		CaptchaText: challenge.Question,
		Error:       flash,
	})
}

func (a *app) handleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, internalServerErrBody, http.StatusBadRequest)
		return
	}

	id, data := a.loadSession(r)
	ip := clientIP(r)

	username := r.FormValue("utilizator")
	password := r.FormValue("parola")
	captcha := r.FormValue("captcha")

	user, err := a.authSvc.Login(r.Context(), ip, username, password, captcha, data.CaptchaAnswer)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrForbiddenCharacter):
			a.flashAndRedirect(w, r, id, data, msgForbiddenChars, "/autentificare")
		case errors.Is(err, domain.ErrCaptchaMismatch):
			a.flashAndRedirect(w, r, id, data, msgCaptchaWrong, "/autentificare")
		case errors.Is(err, domain.ErrBlocked):
			http.Error(w, blockedBody, http.StatusForbidden)
		case errors.Is(err, domain.ErrTooManyAttempts):
			a.flashAndRedirect(w, r, id, data, msgTooManyAttempts, "/autentificare")
		case errors.Is(err, domain.ErrInvalidCredentials):
			a.flashAndRedirect(w, r, id, data, msgBadCredentials, "/autentificare")
		default:
			a.logger.Error("web: login failed", "err", err)
			http.Error(w, internalServerErrBody, http.StatusInternalServerError)
		}
		return
	}

	data.User = &user
	data.CaptchaAnswer = ""
	a.saveSession(w, r, id, data)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(auth.SessionCookieName); err == nil && c.Value != "" {
		if id, ok := a.cookieCodec.DecodeSessionID(c.Value); ok {
			_ = a.sessions.Delete(r.Context(), id)
		}
	}
	auth.ClearSessionCookie(w, a.cookieSecure)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *app) handleProducts(w http.ResponseWriter, r *http.Request) {
	if a.catalogSvc == nil {
		http.Error(w, catalogUnavailableMsg, http.StatusServiceUnavailable)
		return
	}

	id, data := a.loadSession(r)
	a.saveSession(w, r, id, data)

	products, err := a.catalogSvc.List(r.Context())
	if err != nil {
		a.logger.Error("web: list products failed", "err", err)
		http.Error(w, internalServerErrBody, http.StatusInternalServerError)
		return
	}

	render(w, a.templates.products, http.StatusOK, productsViewData{
		Title:    "Detalii Servicii",
		User:     data.User,
		Cart:     data.Cart,
		Products: products,
	})
}

func (a *app) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	render(w, a.templates.portfolio, http.StatusOK, baseViewData{Title: "Portfolio"})
}

func (a *app) handleCart(w http.ResponseWriter, r *http.Request) {
	id, data := a.loadSession(r)
	a.saveSession(w, r, id, data)

	var total float64
	for _, p := range data.Cart {
		total += p.Price
	}

	render(w, a.templates.cart, http.StatusOK, cartViewData{
		Title: "Coșul Meu",
		User:  data.User,
		Cart:  data.Cart,
		Total: total,
	})
}

func (a *app) handleCartAdd(w http.ResponseWriter, r *http.Request) {
	if a.cartSvc == nil {
		http.Error(w, catalogUnavailableMsg, http.StatusServiceUnavailable)
		return
	}

	id, data := a.loadSession(r)

	productID := r.URL.Query().Get("productId")
	if err := a.cartSvc.Add(r.Context(), &data, productID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.logger.Error("web: cart add failed", "err", err)
			http.Error(w, internalServerErrBody, http.StatusInternalServerError)
			return
		}
		// Unknown product: fall through and show the cart unchanged.
	}

	a.saveSession(w, r, id, data)
	http.Redirect(w, r, "/cos", http.StatusFound)
}

func (a *app) handleCartRemove(w http.ResponseWriter, r *http.Request) {
	id, data := a.loadSession(r)
	a.cartSvc.Remove(&data, r.URL.Query().Get("id"))
	a.saveSession(w, r, id, data)
	http.Redirect(w, r, "/cos", http.StatusFound)
}

func (a *app) handleCartClear(w http.ResponseWriter, r *http.Request) {
	id, data := a.loadSession(r)
	a.cartSvc.Clear(&data)
	a.saveSession(w, r, id, data)
	http.Redirect(w, r, "/cos", http.StatusFound)
}

func (a *app) handleQuiz(w http.ResponseWriter, r *http.Request) {
	id, data := a.loadSession(r)
	a.saveSession(w, r, id, data)

	questions, err := a.quizSvc.Questions(r.Context())
	if err != nil {
		a.logger.Error("web: load quiz failed", "err", err)
		http.Error(w, internalServerErrBody, http.StatusInternalServerError)
		return
	}

	render(w, a.templates.quiz, http.StatusOK, quizViewData{
		Title:     "Chestionar Gaming",
		User:      data.User,
		Cart:      data.Cart,
		Questions: questions,
	})
}

func (a *app) handleQuizResult(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, internalServerErrBody, http.StatusBadRequest)
		return
	}

	answers := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		answers[key] = r.PostForm.Get(key)
	}

	result, err := a.quizSvc.Score(r.Context(), answers)
	if err != nil {
		a.logger.Error("web: score quiz failed", "err", err)
		http.Error(w, internalServerErrBody, http.StatusInternalServerError)
		return
	}

	render(w, a.templates.quizResult, http.StatusOK, quizResultViewData{
		Title: "Rezultatul Tău",
		Score: result.Score,
		Total: result.Total,
	})
}

func (a *app) handleCatalogReset(w http.ResponseWriter, r *http.Request) {
	if a.catalogSvc == nil {
		http.Error(w, catalogUnavailableMsg, http.StatusServiceUnavailable)
		return
	}

	if err := a.catalogSvc.Reset(r.Context()); err != nil {
		a.logger.Error("web: catalog reset failed", "err", err)
		http.Error(w, internalServerErrBody, http.StatusInternalServerError)
		return
	}
	a.logger.Info("catalog emptied")
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *app) handleCatalogSeed(w http.ResponseWriter, r *http.Request) {
	if a.catalogSvc == nil {
		http.Error(w, catalogUnavailableMsg, http.StatusServiceUnavailable)
		return
	}

	if _, err := a.catalogSvc.Seed(r.Context()); err != nil {
		a.logger.Error("web: catalog seed failed", "err", err)
		http.Error(w, internalServerErrBody, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("✅ Produse adăugate cu succes!"))
}

func (a *app) handleCatalogSeedPlans(w http.ResponseWriter, r *http.Request) {
	if a.catalogSvc == nil {
		http.Error(w, catalogUnavailableMsg, http.StatusServiceUnavailable)
		return
	}

	products, err := a.catalogSvc.SeedPlans(r.Context())
	if err != nil {
		a.logger.Error("web: seed plans failed", "err", err)
		http.Error(w, internalServerErrBody, http.StatusInternalServerError)
		return
	}

	render(w, a.templates.seeded, http.StatusOK, seededViewData{
		Title:    "Produse adăugate",
		Products: products,
	})
}
