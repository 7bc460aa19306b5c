package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultCookieName matches the key the storefront has always used for the identity.
const DefaultCookieName = "user"

// cookieMaxAge keeps the slot across browser restarts; the identity itself never expires.
const cookieMaxAge = 400 * 24 * time.Hour

const identityClaim = "user"

var ErrMissingSecret = errors.New("session secret is required for signed cookies")

// CookieOptions configures the browser cookie that carries either the signed identity or a session id.
type CookieOptions struct {
	Name   string
	Secure bool
}

func (o CookieOptions) name() string {
	if o.Name == "" {
		return DefaultCookieName
	}
	return o.Name
}

func (o CookieOptions) set(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     o.name(),
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (o CookieOptions) expire(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     o.name(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   o.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (o CookieOptions) read(r *http.Request) (string, bool) {
	c, err := r.Cookie(o.name())
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// CookieSlot keeps the serialized identity client-side, inside an HS256-signed token.
// The token carries no exp claim. A forged or malformed token reads as an empty slot.
type CookieSlot struct {
	cookie CookieOptions
	secret []byte
}

func NewCookieSlot(cookie CookieOptions, secret string) (*CookieSlot, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &CookieSlot{cookie: cookie, secret: []byte(secret)}, nil
}

func (s *CookieSlot) Write(w http.ResponseWriter, _ *http.Request, data []byte) error {
	claims := jwt.MapClaims{
		identityClaim: string(data),
		"iat":         time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return err
	}
	s.cookie.set(w, signed)
	return nil
}

func (s *CookieSlot) Read(r *http.Request) ([]byte, bool) {
	raw, ok := s.cookie.read(r)
	if !ok {
		return nil, false
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	payload, ok := claims[identityClaim].(string)
	if !ok {
		return nil, false
	}
	return []byte(payload), true
}

func (s *CookieSlot) Delete(w http.ResponseWriter, _ *http.Request) error {
	s.cookie.expire(w)
	return nil
}
