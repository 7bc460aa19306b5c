package models

// Role is the authorization level attached to an identity.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Identity is the authenticated user as returned by the auth backend.
type Identity struct {
	ID    int64  `json:"id_usuario"`
	Name  string `json:"nombre"`
	Email string `json:"email"`
	Phone string `json:"numeroTelefono,omitempty"`
	Role  Role   `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// User is the admin view of an account; Password is only ever sent, never received.
type User struct {
	ID       int64  `json:"id_usuario,omitempty"`
	Name     string `json:"nombre"`
	Email    string `json:"email"`
	Phone    string `json:"numeroTelefono"`
	Password string `json:"password,omitempty"`
	Role     Role   `json:"role"`
}
