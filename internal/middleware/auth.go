package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/certprep/backend/internal/auth"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and stores the user id in
// the request context under "user_id".
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeUnauthorized(w, "Authorization header required")
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return auth.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			writeUnauthorized(w, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeUnauthorized(w, "Invalid token claims")
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			writeUnauthorized(w, "Invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), "user_id", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
