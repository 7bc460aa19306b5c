package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/capri-storefront/internal/models"
)

const usersPath = "/api/perfumeria/usuario"

// rejectionMarkers flag a 200 login response that is really a refusal.
var rejectionMarkers = []string{"no encontrado", "incorrecta", "invalida", "inválida"}

// AuthGateway talks to the user/auth backend.
type AuthGateway struct {
	c client
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	models.Identity
	Message string `json:"mensaje"`
}

// Login exchanges credentials for the identity stored in the session.
func (g *AuthGateway) Login(ctx context.Context, email, password string) (models.Identity, error) {
	const op = "auth.login"

	var resp loginResponse
	err := g.c.do(ctx, op, http.MethodPost, usersPath+"/login", nil, loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		if KindOf(err) == KindNotFound {
			return models.Identity{}, &Error{Kind: KindUnauthorized, Op: op, Status: http.StatusNotFound}
		}
		return models.Identity{}, err
	}

	msg := strings.ToLower(resp.Message)
	for _, marker := range rejectionMarkers {
		if strings.Contains(msg, marker) {
			return models.Identity{}, &Error{Kind: KindUnauthorized, Op: op, Message: resp.Message}
		}
	}
	if resp.ID == 0 || resp.Email == "" {
		return models.Identity{}, &Error{Kind: KindUnauthorized, Op: op, Message: "incomplete identity"}
	}
	if resp.Role == "" {
		resp.Identity.Role = models.RoleUser
	}
	return resp.Identity, nil
}

// Register creates an account. An email already in use is a validation error.
func (g *AuthGateway) Register(ctx context.Context, u models.User) (models.Identity, error) {
	const op = "auth.register"

	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.ID = 0

	var id models.Identity
	if err := g.c.do(ctx, op, http.MethodPost, usersPath+"/save", nil, u, &id); err != nil {
		var gwErr *Error
		if errors.As(err, &gwErr) && gwErr.Status == http.StatusConflict {
			return models.Identity{}, &Error{Kind: KindValidation, Op: op, Status: http.StatusConflict, Message: "Este email ya está registrado"}
		}
		return models.Identity{}, err
	}
	return id, nil
}

func (g *AuthGateway) ListUsers(ctx context.Context, page, size int) ([]models.User, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return fetchList[models.User](ctx, g.c, "auth.list_users", http.MethodGet, usersPath+"/usuarios", q, nil)
}

func (g *AuthGateway) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := g.c.do(ctx, "auth.get_user", http.MethodGet, usersPath+"/"+strconv.FormatInt(id, 10), nil, nil, &u)
	return u, err
}

// UpdateUser sends the full user; an empty Password leaves the stored one untouched.
func (g *AuthGateway) UpdateUser(ctx context.Context, u models.User) (models.User, error) {
	const op = "auth.update_user"
	if u.ID == 0 {
		return models.User{}, validationError(op, "user id is required")
	}

	var updated models.User
	if err := g.c.do(ctx, op, http.MethodPut, usersPath+"/update", nil, u, &updated); err != nil {
		return models.User{}, err
	}
	if updated.ID == 0 {
		updated = u
		updated.Password = ""
	}
	return updated, nil
}

func (g *AuthGateway) DeleteUser(ctx context.Context, id int64) error {
	return g.c.do(ctx, "auth.delete_user", http.MethodDelete, usersPath+"/delete/"+strconv.FormatInt(id, 10), nil, nil, nil)
}
