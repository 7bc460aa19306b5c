package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/capri-storefront/internal/gateway"
	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

type usersPage struct {
	viewBase
	Users   []models.User
	Page    int
	HasNext bool
	SelfID  int64
}

// AdminUsers lists accounts one backend page at a time; ?page= is 1-based.
func (s *Server) AdminUsers(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	data := usersPage{viewBase: s.adminBase(r, "Usuarios"), Page: page}
	if data.User != nil {
		data.SelfID = data.User.ID
	}

	users, err := s.auth.ListUsers(r.Context(), page-1, s.opts.AdminPageSize)
	if err != nil {
		s.log.WithError(err).Warn("failed to list users")
		data.Error = gateway.UserMessage(err)
	}
	data.Users = users
	data.HasNext = len(users) == s.opts.AdminPageSize
	s.render(w, http.StatusOK, "admin_users.html", data)
}

type userFormPage struct {
	viewBase
	Form  models.User
	Roles []models.Role
}

var roles = []models.Role{models.RoleUser, models.RoleAdmin}

func (s *Server) AdminEditUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	u, err := s.auth.GetUser(r.Context(), id)
	if err != nil {
		if gateway.KindOf(err) == gateway.KindNotFound {
			s.renderError(w, r, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		s.renderError(w, r, http.StatusBadGateway, gateway.UserMessage(err))
		return
	}
	u.Password = ""
	s.render(w, http.StatusOK, "admin_user_form.html", userFormPage{viewBase: s.base(r, "Editar usuario"), Form: u, Roles: roles})
}

// AdminUpdateUser saves the form. A blank password keeps the current one.
func (s *Server) AdminUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	u := models.User{
		ID:       id,
		Name:     strings.TrimSpace(r.FormValue("nombre")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Phone:    strings.TrimSpace(r.FormValue("numeroTelefono")),
		Password: r.FormValue("password"),
		Role:     models.Role(r.FormValue("role")),
	}

	data := userFormPage{viewBase: s.base(r, "Editar usuario"), Form: u, Roles: roles}
	data.Form.Password = ""
	if verr := validateUser(u); verr != nil {
		data.Error = verr.Description
		s.render(w, http.StatusBadRequest, "admin_user_form.html", data)
		return
	}

	if _, err := s.auth.UpdateUser(r.Context(), u); err != nil {
		s.log.WithError(err).WithField("user_id", id).Warn("failed to update user")
		data.Error = gateway.UserMessage(err)
		s.render(w, http.StatusBadRequest, "admin_user_form.html", data)
		return
	}
	seeOther(w, r, "/admin/users?ok=actualizado")
}

func (s *Server) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		s.renderError(w, r, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if self, ok := s.currentUser(r); ok && self.ID == id {
		s.renderError(w, r, http.StatusBadRequest, "No puedes eliminar tu propia cuenta")
		return
	}

	if err := s.auth.DeleteUser(r.Context(), id); err != nil {
		s.log.WithError(err).WithField("user_id", id).Warn("failed to delete user")
		s.renderError(w, r, apiStatus(err), gateway.UserMessage(err))
		return
	}
	seeOther(w, r, "/admin/users?ok=eliminado&page="+strconv.Itoa(queryInt(r, "page", 1)))
}
