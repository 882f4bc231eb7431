package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/estradax/learnway/internal/fault"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ctxKey string

const ctxUserID ctxKey = "user_id"

// CallerID extracts the authenticated user id placed into the request
// context by the JWT middleware.
func CallerID(r *http.Request) (int64, bool) {
	id, ok := r.Context().Value(ctxUserID).(int64)
	return id, ok
}

func LoggingMiddleware(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote", r.RemoteAddr),
			)
			next.ServeHTTP(w, r)
		})
	}
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func RecoveryMiddleware(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic in handler", zap.Any("err", rec), zap.String("path", r.URL.Path))
					writeError(w, fault.New(fault.Internal, "internal server error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// JWTAuthMiddleware validates the bearer token and resolves the caller's
// user id into the request context. The downstream handlers only ever see
// the resolved id.
func JWTAuthMiddleware(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, fault.New(fault.Unauthenticated, "missing Authorization header"))
				return
			}

			tokenString, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || tokenString == "" {
				writeError(w, fault.New(fault.Unauthenticated, "invalid Authorization header"))
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				writeError(w, fault.New(fault.Unauthenticated, "invalid or expired token"))
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				writeError(w, fault.New(fault.Unauthenticated, "invalid token claims"))
				return
			}

			uid, ok := claims["uid"].(float64)
			if !ok || uid <= 0 {
				writeError(w, fault.New(fault.Unauthenticated, "invalid token claims"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, int64(uid))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
