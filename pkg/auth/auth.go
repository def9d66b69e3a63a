// Package auth implements cookie-based sessions: a signed JWT carried in
// an HttpOnly cookie, resolved to a user once per request by middleware.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Tristal25/watchlist/cmd/config"
	"github.com/Tristal25/watchlist/pkg/models"
	"github.com/Tristal25/watchlist/pkg/store"
)

// userKey is the gin context key under which Identify stores the
// authenticated *models.User.
const userKey = "auth.user"

// Claims are the session token claims. UserID identifies the account;
// Username is carried for ownership checks without a second lookup.
type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager signs, parses, and applies session tokens.
type Manager struct {
	secret     []byte
	cookieName string
	ttl        time.Duration
	users      *store.UserStore
}

// NewManager creates a Manager from session settings and the user store it
// resolves token claims against.
func NewManager(cfg config.SessionConfig, users *store.UserStore) *Manager {
	return &Manager{
		secret:     []byte(cfg.Secret),
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL(),
		users:      users,
	}
}

// SignToken mints a session token for user.
func (m *Manager) SignToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.secret)
}

// ParseToken validates tokenStr and returns its claims.
func (m *Manager) ParseToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Login marks user as the session identity by setting the session cookie.
func (m *Manager) Login(c *gin.Context, user *models.User) error {
	token, err := m.SignToken(user)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, int(m.ttl.Seconds()), "/", "", false, true)
	return nil
}

// Logout clears the session cookie. Calling it when already anonymous is
// a no-op.
func (m *Manager) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", false, true)
}

// Identify resolves the session cookie to a user once per request and
// stores it in the gin context. Missing, forged, or expired tokens, and
// tokens for deleted accounts, all resolve to anonymous.
func (m *Manager) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(m.cookieName)
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}
		claims, err := m.ParseToken(tokenStr)
		if err != nil {
			c.Next()
			return
		}
		user, err := m.users.ByID(claims.UserID)
		if err != nil {
			c.Next()
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// RequireLogin redirects anonymous requests to /login before the handler
// runs, so no protected transition can mutate state unauthenticated.
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity resolved by Identify, if any.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}
