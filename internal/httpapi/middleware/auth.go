package middleware

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// Credentials for HTTP basic auth. Hash is a bcrypt hash of the password.
type Credentials struct {
	User string
	Hash string
}

func (c Credentials) enabled() bool { return c.User != "" && c.Hash != "" }

func (c Credentials) check(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.User)) == 1
	// always run bcrypt so a wrong user costs the same as a wrong password
	passOK := bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(pass)) == nil
	return userOK && passOK
}

// BasicAuth requires the configured credentials on every request.
// If no credentials are configured, it allows all requests (handy for local dev).
func BasicAuth(realm string, creds Credentials) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !creds.enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if ok && creds.check(user, pass) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`", charset="UTF-8"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
		})
	}
}

// HashPassword returns the bcrypt hash to put in AUTH_PASSWORD_HASH.
func HashPassword(pass string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
