package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/article-review-portal/internal/config"
	"github.com/article-review-portal/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const userKey = "session_user"

// Guard ties the token manager, the revocation store and the session cookie
// together.
type Guard struct {
	manager    *Manager
	store      RevocationStore
	cookieName string
	secure     bool
	log        zerolog.Logger
}

// NewGuard creates a Guard from the session configuration.
func NewGuard(cfg *config.SessionConfig, store RevocationStore, log zerolog.Logger) *Guard {
	return &Guard{
		manager:    NewManager(cfg.Secret, cfg.TTL),
		store:      store,
		cookieName: cfg.CookieName,
		secure:     cfg.SecureCookie,
		log:        log.With().Str("component", "session").Logger(),
	}
}

// Login issues a session for user and sets the cookie.
func (g *Guard) Login(w http.ResponseWriter, user models.User) error {
	token, claims, err := g.manager.Issue(user)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  claims.ExpiresAt.Time,
		MaxAge:   int(g.manager.TTL().Seconds()),
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
	g.log.Info().Str("role", string(user.Role)).Str("email", user.Email).Msg("Session started")
	return nil
}

// Authenticate returns the claims of a valid, unrevoked session of role.
func (g *Guard) Authenticate(r *http.Request, role models.Role) (*Claims, error) {
	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrInvalidToken
	}
	claims, err := g.manager.Parse(cookie.Value)
	if err != nil {
		return nil, err
	}
	if claims.Role != role {
		return nil, ErrWrongRole
	}
	revoked, err := g.store.IsRevoked(r.Context(), claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Logout revokes the current session, if any, and clears the cookie. The
// cookie is cleared even when revocation fails.
func (g *Guard) Logout(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer g.clear(w)

	cookie, err := r.Cookie(g.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := g.manager.Parse(cookie.Value)
	if err != nil {
		return nil
	}
	if err := g.store.MarkRevoked(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	g.log.Info().Str("role", string(claims.Role)).Str("email", claims.Email).Msg("Session revoked")
	return nil
}

func (g *Guard) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Require redirects to loginPath unless the request carries a valid session
// of role. The session user is stored on the gin context.
func (g *Guard) Require(role models.Role, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := g.Authenticate(c.Request, role)
		if err != nil {
			if !errors.Is(err, ErrInvalidToken) {
				g.log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Session rejected")
			}
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.Set(userKey, claims.User())
		c.Next()
	}
}

// CurrentUser returns the session user set by Require.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return models.User{}, false
	}
	u, ok := v.(models.User)
	return u, ok
}
