package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type productForm struct {
	Name        string  `validate:"required,min=2,max=120"`
	Description string  `validate:"required,max=500"`
	Price       float64 `validate:"gte=0"`
	Category    string  `validate:"required,max=60"`
}

func parseProductForm(r *http.Request) (productForm, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("pret")), 64)
	if err != nil {
		price = -1 // fails the gte=0 rule below
	}

	form := productForm{
		Name:        strings.TrimSpace(r.FormValue("nume")),
		Description: strings.TrimSpace(r.FormValue("descriere")),
		Price:       price,
		Category:    strings.TrimSpace(r.FormValue("categorie")),
	}

	if err := validate.Struct(form); err != nil {
		return productForm{}, err
	}
	return form, nil
}
