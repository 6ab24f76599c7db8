package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
)

// Middleware resolves HTTP Basic credentials against the users table.
type Middleware struct {
	store  store.Store
	logger *logger.Logger
}

// NewMiddleware creates the auth middleware.
func NewMiddleware(st store.Store, log *logger.Logger) *Middleware {
	return &Middleware{store: st, logger: log}
}

// Authenticate verifies the request's Basic credentials and injects the
// resolved identity into the request context. Password verification
// uses bcrypt against the stored hash.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			unauthorized(w)
			return
		}

		var user models.User
		err := m.store.ExecTx(r.Context(), func(tx store.Tx) error {
			var err error
			user, err = tx.GetUserByName(r.Context(), username)
			return err
		})
		if err != nil {
			if !errors.Is(err, models.ErrUserNotFound) {
				m.logger.Error("auth_lookup_failed", "Failed to look up user", "", err, map[string]any{
					"username": username,
				})
			}
			unauthorized(w)
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)) != nil {
			m.logger.Debug("auth_rejected", "Invalid credentials", "", map[string]any{
				"username": username,
			})
			unauthorized(w)
			return
		}

		ident := Identity{UserID: user.ID, Name: user.Name, Role: user.RoleID}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
	})
}

// RequireRole gates a route to the listed roles. Must run after
// Authenticate.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := FromContext(r.Context())
			if !ok {
				unauthorized(w)
				return
			}
			for _, role := range roles {
				if ident.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSONError(w, http.StatusForbidden, "access forbidden")
		})
	}
}

// HashPassword produces a bcrypt hash for storing a new credential.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="frog-cafe"`)
	writeJSONError(w, http.StatusUnauthorized, "authentication required")
}

func writeJSONError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
