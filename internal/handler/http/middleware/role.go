package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/planillapro/payroll-backend-go/internal/handler/http/response"
	"github.com/planillapro/payroll-backend-go/internal/pkg/validator"
)

// RequireRole restricts a route to tokens carrying one of the given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			role, ok := claims["role"].(string)
			if !ok || !validator.IsInSlice(role, roles) {
				response.Forbidden(w, "Insufficient role for this operation")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
