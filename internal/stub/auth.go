package stub

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type jwtClaims struct {
	UserID    int    `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// signToken mints an HS256 token of the given type and lifetime.
func (h *Handler) signToken(userID int, tokenType string, ttl time.Duration) (string, error) {
	claims := &jwtClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func (h *Handler) parseToken(raw string) (*jwtClaims, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// requireAuth validates the bearer token and rejects with 401 JSON when
// it is absent, malformed, or expired.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		claims, err := h.parseToken(raw)
		if err != nil || claims.TokenType != "access" {
			writeError(w, r, "invalid or expired token", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// login handles POST /auth/login/.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email != h.store.user.Email || req.Password != h.password {
		writeError(w, r, "invalid email or password", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	access, err := h.signToken(h.store.user.ID, "access", h.accessTTL)
	if err != nil {
		writeError(w, r, "token generation failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	refresh, err := h.signToken(h.store.user.ID, "refresh", h.refreshTTL)
	if err != nil {
		writeError(w, r, "token generation failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"access":  access,
		"refresh": refresh,
		"user":    h.store.user,
	})
}

// refresh handles POST /auth/refresh/ — exchanges a refresh token for a
// new access token.
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	h.refreshCalls.Add(1)
	if h.failRefresh.Load() {
		writeError(w, r, "refresh disabled", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	var req struct {
		Refresh string `json:"refresh"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	claims, err := h.parseToken(req.Refresh)
	if err != nil || claims.TokenType != "refresh" {
		writeError(w, r, "invalid refresh token", "UNAUTHORIZED", http.StatusUnauthorized)
		return
	}

	access, err := h.signToken(claims.UserID, "access", h.accessTTL)
	if err != nil {
		writeError(w, r, "token generation failed", "INTERNAL_ERROR", http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"access": access})
}

// me handles GET /auth/me/.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.store.user)
}

// logout handles POST /auth/logout/.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
