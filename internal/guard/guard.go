package guard

import (
	"net/http"
)

// ViewClass says who may reach a view.
type ViewClass int

const (
	Public ViewClass = iota
	UserProtected
	AdminProtected
)

func (c ViewClass) String() string {
	switch c {
	case UserProtected:
		return "user"
	case AdminProtected:
		return "admin"
	default:
		return "public"
	}
}

// Outcome is what navigation to a view resolves to.
type Outcome int

const (
	Render Outcome = iota
	RedirectLogin
	RedirectHome
)

// Paths the guard redirects to.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decide is the whole authorization rule. It depends only on the two session facts.
func Decide(class ViewClass, authenticated, admin bool) Outcome {
	switch class {
	case UserProtected:
		if !authenticated {
			return RedirectLogin
		}
	case AdminProtected:
		if !authenticated {
			return RedirectLogin
		}
		if !admin {
			return RedirectHome
		}
	}
	return Render
}

// Session is the read side of the session store the guard consults.
type Session interface {
	IsAuthenticated(r *http.Request) bool
	IsAdmin(r *http.Request) bool
}

// Require gates page routes: blocked navigations get a 303 to the login or home page.
func Require(class ViewClass, s Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch Decide(class, s.IsAuthenticated(r), s.IsAdmin(r)) {
			case RedirectLogin:
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			case RedirectHome:
				http.Redirect(w, r, HomePath, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// RequireAPI gates JSON routes, answering 401 or 403 instead of redirecting.
func RequireAPI(class ViewClass, s Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch Decide(class, s.IsAuthenticated(r), s.IsAdmin(r)) {
			case RedirectLogin:
				http.Error(w, "authentication required", http.StatusUnauthorized)
			case RedirectHome:
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
