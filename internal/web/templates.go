package web

import (
	"fmt"
	"html/template"
	"net/http"

	"boostshop/internal/domain"
)

type templates struct {
	home       *template.Template
	login      *template.Template
	products   *template.Template
	portfolio  *template.Template
	cart       *template.Template
	quiz       *template.Template
	quizResult *template.Template
	admin      *template.Template
	seeded     *template.Template
}

type baseViewData struct {
	Title string
	User  *domain.SessionUser
	Cart  []domain.Product
}

type loginViewData struct {
	Title       string
	CaptchaText string
	Error       string
}

type productsViewData struct {
	Title    string
	User     *domain.SessionUser
	Cart     []domain.Product
	Products []domain.Product
}

type cartViewData struct {
	Title string
	User  *domain.SessionUser
	Cart  []domain.Product
	Total float64
}

type quizViewData struct {
	Title     string
	User      *domain.SessionUser
	Cart      []domain.Product
	Questions []domain.QuizQuestion
}

type quizResultViewData struct {
	Title string
	Score int
	Total int
}

type adminViewData struct {
	Title  string
	User   *domain.SessionUser
	Cart   []domain.Product
	Notice string
	Error  string
}

type seededViewData struct {
	Title    string
	Products []domain.Product
}

func parseTemplates() (*templates, error) {
	parse := func(page string) (*template.Template, error) {
		return template.New("layout").ParseFS(assets, "templates/layout.html", "templates/"+page)
	}

	t := &templates{}
	pages := []struct {
		dst  **template.Template
		file string
	}{
		{&t.home, "home.html"},
		{&t.login, "login.html"},
		{&t.products, "products.html"},
		{&t.portfolio, "portfolio.html"},
		{&t.cart, "cart.html"},
		{&t.quiz, "quiz.html"},
		{&t.quizResult, "quiz_result.html"},
		{&t.admin, "admin.html"},
		{&t.seeded, "seeded.html"},
	}
	for _, p := range pages {
		parsed, err := parse(p.file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p.file, err)
		}
		*p.dst = parsed
	}
	return t, nil
}

func render(w http.ResponseWriter, t *template.Template, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = t.ExecuteTemplate(w, "layout.html", data)
}
