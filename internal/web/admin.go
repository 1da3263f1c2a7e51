package web

import (
	"errors"
	"net/http"

	"boostshop/internal/domain"
)

// requireAdmin hard-denies anyone without the ADMIN role. No redirect to the
// login page: the fixed body mirrors the block gate's style.
func (a *app) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, data := a.loadSession(r)
		if data.User == nil || !data.User.IsAdmin() {
			http.Error(w, accessForbiddenBody, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (a *app) handleAdmin(w http.ResponseWriter, r *http.Request) {
	_, data := a.loadSession(r)

	render(w, a.templates.admin, http.StatusOK, adminViewData{
		Title: "Panou Administrator",
		User:  data.User,
		Cart:  data.Cart,
	})
}

func (a *app) handleAdminAddProduct(w http.ResponseWriter, r *http.Request) {
	if a.catalogSvc == nil {
		http.Error(w, catalogUnavailableMsg, http.StatusServiceUnavailable)
		return
	}

	_, data := a.loadSession(r)

	renderAdmin := func(status int, notice, errMsg string) {
		render(w, a.templates.admin, status, adminViewData{
			Title:  "Panou Administrator",
			User:   data.User,
			Cart:   data.Cart,
			Notice: notice,
			Error:  errMsg,
		})
	}

	if err := r.ParseForm(); err != nil {
		renderAdmin(http.StatusBadRequest, "", "Formular invalid.")
		return
	}

	form, err := parseProductForm(r)
	if err != nil {
		renderAdmin(http.StatusBadRequest, "", "❌ Date produs invalide: "+err.Error())
		return
	}

	_, err = a.catalogSvc.Add(r.Context(), form.Name, form.Description, form.Price, form.Category)
	if err != nil {
		if errors.Is(err, domain.ErrProductExists) {
			renderAdmin(http.StatusOK, "", "❌ Produsul \""+form.Name+"\" există deja în baza de date.")
			return
		}
		a.logger.Error("web: add product failed", "err", err)
		renderAdmin(http.StatusInternalServerError, "", "❌ Eroare la adăugare produs.")
		return
	}

	renderAdmin(http.StatusOK, "✅ Produs adăugat cu succes!", "")
}
