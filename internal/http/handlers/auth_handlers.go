package handlers

import (
	"net/http"
	"strings"

	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

type loginPage struct {
	viewBase
	Email string
}

func (s *Server) LoginForm(w http.ResponseWriter, r *http.Request) {
	if s.sessions.IsAuthenticated(r) {
		seeOther(w, r, "/")
		return
	}
	s.render(w, http.StatusOK, "login.html", loginPage{viewBase: s.base(r, "Iniciar sesión")})
}

// Login stores the identity returned by the auth backend and sends admins to the
// back-office, everyone else home.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	data := loginPage{viewBase: s.base(r, "Iniciar sesión"), Email: email}
	if email == "" || strings.TrimSpace(password) == "" {
		data.Error = "Por favor completa todos los campos"
		s.render(w, http.StatusBadRequest, "login.html", data)
		return
	}

	id, err := s.auth.Login(r.Context(), email, password)
	if err != nil {
		s.log.WithError(err).Info("login failed")
		data.Error = gateway.UserMessage(err)
		s.render(w, http.StatusUnauthorized, "login.html", data)
		return
	}

	if err := s.sessions.Save(w, r, id); err != nil {
		s.log.WithError(err).Error("failed to save session")
		data.Error = "Error inesperado. Intenta de nuevo."
		s.render(w, http.StatusInternalServerError, "login.html", data)
		return
	}

	if id.IsAdmin() {
		seeOther(w, r, "/admin")
		return
	}
	seeOther(w, r, "/")
}

type registerPage struct {
	viewBase
	Form registerForm
}

func (s *Server) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if s.sessions.IsAuthenticated(r) {
		seeOther(w, r, "/")
		return
	}
	s.render(w, http.StatusOK, "register.html", registerPage{viewBase: s.base(r, "Crear cuenta")})
}

// Register always creates a USER account and signs it in.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	form := registerForm{
		Name:            strings.TrimSpace(r.FormValue("nombre")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Phone:           strings.TrimSpace(r.FormValue("numeroTelefono")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
	}
	data := registerPage{viewBase: s.base(r, "Crear cuenta"), Form: form}
	data.Form.Password, data.Form.ConfirmPassword = "", ""

	if verr := validateRegistration(form); verr != nil {
		data.Error = verr.Description
		s.render(w, http.StatusBadRequest, "register.html", data)
		return
	}

	id, err := s.auth.Register(r.Context(), models.User{
		Name:     form.Name,
		Email:    form.Email,
		Phone:    form.Phone,
		Password: form.Password,
		Role:     models.RoleUser,
	})
	if err != nil {
		s.log.WithError(err).Info("registration failed")
		if gateway.KindOf(err) == gateway.KindValidation {
			data.Error = gateway.UserMessage(err)
		} else {
			data.Error = "Error al registrar usuario. Intenta de nuevo."
		}
		s.render(w, http.StatusBadRequest, "register.html", data)
		return
	}

	if id.ID == 0 || id.Email == "" {
		seeOther(w, r, "/login")
		return
	}
	if err := s.sessions.Save(w, r, id); err != nil {
		s.log.WithError(err).Error("failed to save session")
		seeOther(w, r, "/login")
		return
	}
	seeOther(w, r, "/")
}

func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Clear(w, r); err != nil {
		s.log.WithError(err).Warn("failed to clear session")
	}
	seeOther(w, r, "/")
}
