package filters

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"vapi.io/vapi/lib/logger"
)

// WithJWTAuth rejects requests that do not carry a Bearer token signed with the given HMAC secret
//
// Authentication is disabled if the secret is empty.
func WithJWTAuth(handler http.Handler, secret []byte) http.Handler {
	if len(secret) == 0 {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		tokenString, found := strings.CutPrefix(auth, "Bearer ")
		if !found {
			w.Header().Set("WWW-Authenticate", "Bearer")
			http.Error(w, "401: missing bearer token", http.StatusUnauthorized)
			return
		}
		_, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", token.Header["alg"])
			}
			return secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil {
			logger.Warnf("rejecting request to %s with invalid token: %s", r.URL.Path, err)
			http.Error(w, "401: invalid bearer token", http.StatusUnauthorized)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
