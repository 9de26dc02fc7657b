// Package academymanager предоставляет маршруты для основного приложения.
package academymanager

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/academy-manager/internal/config"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/health"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/membership/membershipactive"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/membership/membershipcancel"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/membership/membershipchange"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/membership/membershipcreate"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/membership/membershiplist"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/plan/plancreate"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/plan/plandelete"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/plan/planlist"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/plan/planread"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/plan/plantoggle"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/plan/planupdate"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/schedule/schedulecreate"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/schedule/scheduledelete"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/schedule/schedulelist"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/student/studentcreate"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/student/studentdelete"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/student/studentlist"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/student/studentread"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/student/studentupdate"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/user/userdelete"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/user/userlist"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/user/userread"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/user/usertoggle"
	"github.com/magabrotheeeer/academy-manager/internal/http/handlers/user/userupdate"
	"github.com/magabrotheeeer/academy-manager/internal/http/middlewarectx"
	authservice "github.com/magabrotheeeer/academy-manager/internal/services/auth"
	membershipservice "github.com/magabrotheeeer/academy-manager/internal/services/membership"
	planservice "github.com/magabrotheeeer/academy-manager/internal/services/plan"
	scheduleservice "github.com/magabrotheeeer/academy-manager/internal/services/schedule"
	studentservice "github.com/magabrotheeeer/academy-manager/internal/services/student"
	userservice "github.com/magabrotheeeer/academy-manager/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config,
	authService *authservice.AuthService,
	planService *planservice.PlanService,
	membershipService *membershipservice.MembershipService,
	scheduleService *scheduleservice.ScheduleService,
	studentService *studentservice.StudentService,
	userService *userservice.UserService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Get("/health", health.New(logger).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimitRPS, cfg.RateLimitBurst))

			r.Get("/plans", planlist.New(logger, planService).ServeHTTP)
			r.Get("/plans/{id}", planread.New(logger, planService).ServeHTTP)

			r.Post("/memberships", membershipcreate.New(logger, membershipService).ServeHTTP)
			r.Get("/memberships", membershiplist.New(logger, membershipService).ServeHTTP)
			r.Get("/memberships/active", membershipactive.New(logger, membershipService).ServeHTTP)
			r.Patch("/memberships/{id}/plan", membershipchange.New(logger, membershipService).ServeHTTP)
			r.Delete("/memberships/{id}", membershipcancel.New(logger, membershipService).ServeHTTP)

			r.Post("/memberships/{id}/slots", schedulecreate.New(logger, scheduleService, membershipService).ServeHTTP)
			r.Get("/memberships/{id}/slots", schedulelist.New(logger, scheduleService, membershipService).ServeHTTP)
			r.Delete("/memberships/{id}/slots/{slotID}", scheduledelete.New(logger, scheduleService, membershipService).ServeHTTP)

			r.Get("/students", studentlist.New(logger, studentService).ServeHTTP)
			r.Get("/students/{id}", studentread.New(logger, studentService).ServeHTTP)

			// Административная группа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))

				r.Post("/students", studentcreate.New(logger, studentService).ServeHTTP)
				r.Put("/students/{id}", studentupdate.New(logger, studentService).ServeHTTP)
				r.Delete("/students/{id}", studentdelete.New(logger, studentService).ServeHTTP)

				r.Post("/plans", plancreate.New(logger, planService).ServeHTTP)
				r.Put("/plans/{id}", planupdate.New(logger, planService).ServeHTTP)
				r.Delete("/plans/{id}", plandelete.New(logger, planService).ServeHTTP)
				r.Patch("/plans/{id}/toggle", plantoggle.New(logger, planService).ServeHTTP)

				r.Get("/users", userlist.New(logger, userService).ServeHTTP)
				r.Get("/users/{uid}", userread.New(logger, userService).ServeHTTP)
				r.Put("/users/{uid}", userupdate.New(logger, userService).ServeHTTP)
				r.Patch("/users/{uid}/toggle", usertoggle.New(logger, userService).ServeHTTP)
				r.Delete("/users/{uid}", userdelete.New(logger, userService).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
