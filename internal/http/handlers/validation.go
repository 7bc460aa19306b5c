package handlers

import (
	"net/mail"
	"strings"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

const minPasswordLength = 6

type registerForm struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// validateRegistration returns the first problem only; the form shows one message at a time.
func validateRegistration(f registerForm) *ValidationError {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return &ValidationError{Field: "nombre", Description: "El nombre es obligatorio"}
	case strings.TrimSpace(f.Email) == "":
		return &ValidationError{Field: "email", Description: "El email es obligatorio"}
	case !validEmail(f.Email):
		return &ValidationError{Field: "email", Description: "El email no es válido"}
	case strings.TrimSpace(f.Phone) == "":
		return &ValidationError{Field: "numeroTelefono", Description: "El teléfono es obligatorio"}
	case len(f.Password) < minPasswordLength:
		return &ValidationError{Field: "password", Description: "La contraseña debe tener al menos 6 caracteres"}
	case f.Password != f.ConfirmPassword:
		return &ValidationError{Field: "confirmPassword", Description: "Las contraseñas no coinciden"}
	}
	return nil
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(s))
	return err == nil && addr.Name == ""
}

type productForm struct {
	Name          string
	Brand         string
	Category      string
	Description   string
	Price         string
	PreviousPrice string
	Stock         string
	ImageURL      string
}

func (f productForm) product() (models.Product, []ValidationError) {
	errs := []ValidationError{}
	p := models.Product{
		Name:        strings.TrimSpace(f.Name),
		Brand:       strings.TrimSpace(f.Brand),
		Category:    strings.TrimSpace(f.Category),
		Description: strings.TrimSpace(f.Description),
		ImageURL:    strings.TrimSpace(f.ImageURL),
	}

	if p.Name == "" {
		errs = append(errs, ValidationError{Field: "nombre", Description: "El nombre es obligatorio"})
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	switch {
	case err != nil:
		errs = append(errs, ValidationError{Field: "precio", Description: "El precio no es válido"})
	case price.IsNegative():
		errs = append(errs, ValidationError{Field: "precio", Description: "El precio no puede ser negativo"})
	default:
		p.Price = price
	}

	if s := strings.TrimSpace(f.PreviousPrice); s != "" {
		prev, err := decimal.NewFromString(s)
		if err != nil || prev.IsNegative() {
			errs = append(errs, ValidationError{Field: "precioAnterior", Description: "El precio anterior no es válido"})
		} else {
			p.PreviousPrice = &prev
		}
	}

	stock, ok := atoi(f.Stock)
	if !ok || stock < 0 {
		errs = append(errs, ValidationError{Field: "stock", Description: "El stock no puede ser negativo"})
	} else {
		p.Stock = stock
	}
	return p, errs
}

func validateUser(u models.User) *ValidationError {
	switch {
	case strings.TrimSpace(u.Name) == "":
		return &ValidationError{Field: "nombre", Description: "El nombre es obligatorio"}
	case !validEmail(u.Email):
		return &ValidationError{Field: "email", Description: "El email no es válido"}
	case u.Role != models.RoleUser && u.Role != models.RoleAdmin:
		return &ValidationError{Field: "role", Description: "Rol inválido"}
	case u.Password != "" && len(u.Password) < minPasswordLength:
		return &ValidationError{Field: "password", Description: "La contraseña debe tener al menos 6 caracteres"}
	}
	return nil
}

func joinErrors(errs []ValidationError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Description
	}
	return strings.Join(msgs, ". ")
}
