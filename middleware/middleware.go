package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"intern-tracker/logging"
	"intern-tracker/models"
	"intern-tracker/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slices"
)

type contextKey string

const (
	callerKey    contextKey = "caller"
	requestIDKey contextKey = "requestID"
)

// TokenValidator is implemented by utils.JWTManager.
type TokenValidator interface {
	ValidateToken(tokenStr string) (*utils.Claims, error)
}

// CallerFromContext returns the authenticated caller stored by JWTAuth.
func CallerFromContext(ctx context.Context) (models.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(models.Caller)
	return caller, ok
}

// WithCaller is used by JWTAuth and by handler tests.
func WithCaller(ctx context.Context, caller models.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// JWTAuth validates the bearer token and stores the caller in the request
// context. Tokens without a known role or a valid user id are rejected.
func JWTAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				http.Error(w, "Authorization header missing", http.StatusUnauthorized)
				return
			}

			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := validator.ValidateToken(tokenStr)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token for request to %s %s: %v", r.Method, r.URL.Path, err)
				msg := "Invalid token"
				if errors.Is(err, utils.ErrExpiredToken) {
					msg = "Token expired"
				}
				http.Error(w, msg, http.StatusUnauthorized)
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			role := models.Role(claims.Role)
			if err != nil || !role.Valid() {
				logging.Logger.Warnf("Event ID: JWT_AUTH_BAD_CLAIMS, Description: Token for %s carries unusable claims", claims.Email)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			caller := models.Caller{ID: userID, Email: claims.Email, Role: role}
			logging.Logger.Debugf("Event ID: JWT_AUTH_SUCCESS, Description: %s authenticated as %s for %s %s", caller.Email, caller.Role, r.Method, r.URL.Path)
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// RequireRole rejects callers whose role is not listed. It must run after
// JWTAuth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !slices.Contains(roles, caller.Role) {
				logging.Logger.Warnf("Event ID: ACCESS_DENIED, Description: %s with role %s denied %s %s", caller.ID.Hex(), caller.Role, r.Method, r.URL.Path)
				http.Error(w, "Access forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// EnableCORS answers preflight requests and decorates every response.
func EnableCORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger tags each request with an X-Request-ID and logs its outcome.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID)))

		logging.Logger.WithField("request_id", requestID).
			Infof("Event ID: HTTP_REQUEST, Description: %s %s -> %d in %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
