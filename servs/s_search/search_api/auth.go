package search_api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rskv-p/searchlab/servs/s_search/search_cfg"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
)

type jwtClaims struct {
	Username string `json:"sub"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

type contextKey string

const jwtContextKey = contextKey("jwt_claims")

// Auth issues and checks HS256 bearer tokens.
type Auth struct {
	enabled bool
	key     []byte
	ttl     time.Duration
	journal *search_serv.Journal
}

// NewAuth builds the authenticator. Users are looked up in the journal database.
func NewAuth(cfg search_cfg.AuthConfig, j *search_serv.Journal) *Auth {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Auth{enabled: cfg.Enabled, key: []byte(cfg.Secret), ttl: ttl, journal: j}
}

// -------- /auth/login --------
func (a *Auth) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.journal == nil {
			writeError(w, http.StatusServiceUnavailable, errors.New("no user database"))
			return
		}
		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := search_serv.FindUserByUsername(a.journal.DB(), req.Username)
		if err != nil || !user.CheckPassword(req.Password) {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}

		tokenStr, err := a.Token(user.Username, user.Role)
		if err != nil {
			writeError(w, http.StatusInternalServerError, errors.New("token error"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"token": tokenStr})
	}
}

// Token signs a token for username.
func (a *Auth) Token(username, role string) (string, error) {
	claims := jwtClaims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.key)
}

// -------- Middleware: JWT Token Validation --------

// Middleware rejects requests without a valid token. It passes everything
// through when auth is disabled.
func (a *Auth) Middleware(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.enabled {
				next.ServeHTTP(w, r)
				return
			}
			tokenStr := extractToken(r)
			if tokenStr == "" {
				writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
				return
			}

			claims := &jwtClaims{}
			_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
				return a.key, nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
			if err != nil {
				writeError(w, http.StatusUnauthorized, errors.New("invalid or expired token"))
				return
			}

			if requiredRole != "" && claims.Role != requiredRole {
				writeError(w, http.StatusForbidden, errors.New("forbidden"))
				return
			}

			ctx := context.WithValue(r.Context(), jwtContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken reads a Bearer header, or the token query parameter used by
// browser websockets.
func extractToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

// UserFromContext returns the claims stored by Middleware.
func UserFromContext(ctx context.Context) (username, role string, ok bool) {
	claims, ok := ctx.Value(jwtContextKey).(*jwtClaims)
	if !ok {
		return "", "", false
	}
	return claims.Username, claims.Role, true
}
