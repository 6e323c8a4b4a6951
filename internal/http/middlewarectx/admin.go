package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/EdisonSantiago93/carbontracker-backend/internal/http/response"
)

// AdminOnlyMiddleware пропускает только запросы с ролью admin.
// Ставится после JWTMiddleware: без AuthContext в контексте запрос
// отклоняется как неаутентифицированный.
func AdminOnlyMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx, ok := AuthContextFrom(r.Context())
			if !ok || !authCtx.IsAuthenticated() {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}
			if !authCtx.IsAdmin() {
				log.Error("admin role required", slog.String("user_uid", authCtx.UserUID))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("admin role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
