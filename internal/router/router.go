package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/edumate/sims-api/internal/config"
	"github.com/edumate/sims-api/internal/handler"
	"github.com/edumate/sims-api/internal/middleware"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/observability"
	"github.com/edumate/sims-api/internal/policy"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	UserHandler       *handler.UserHandler
	AcademicHandler   *handler.AcademicHandler
	LookupHandler     *handler.LookupHandler
	StudentHandler    *handler.StudentHandler
	AttendanceHandler *handler.AttendanceHandler
	LeaveHandler      *handler.LeaveHandler
	ExamHandler       *handler.ExamHandler
	ResultHandler     *handler.ResultHandler
	DashboardHandler  *handler.DashboardHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", cfg.LoginRateLimit, time.Minute))
		deps.AuthHandler.Register(auth)
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	protected := api.Group("", jwtMiddleware)

	if deps.UserHandler != nil {
		users := protected.Group("/users", middleware.RequirePermission(policy.ActionUserManage))
		deps.UserHandler.Register(users)

		profile := protected.Group("/profile")
		deps.UserHandler.RegisterProfile(profile)
	}

	if deps.AcademicHandler != nil {
		academics := protected.Group("/academics", middleware.RequirePermission(policy.ActionAcademicsManage))
		deps.AcademicHandler.Register(academics)
	}

	if deps.LookupHandler != nil {
		lookups := protected.Group("/lookups")
		deps.LookupHandler.Register(lookups)
	}

	if deps.StudentHandler != nil {
		students := protected.Group("/students", middleware.RequirePermission(policy.ActionStudentManage))
		deps.StudentHandler.Register(students)
	}

	if deps.AttendanceHandler != nil {
		attendance := protected.Group("/attendance", middleware.RequirePermission(policy.ActionAttendanceMark))
		deps.AttendanceHandler.Register(attendance)

		myAttendance := protected.Group("/me/attendance", middleware.RequireRole(models.RoleStudent))
		deps.AttendanceHandler.RegisterSelf(myAttendance)
	}

	if deps.LeaveHandler != nil {
		leaves := protected.Group("/leaves")
		deps.LeaveHandler.Register(leaves)

		adminLeaves := protected.Group("/admin/leaves", middleware.RequirePermission(policy.ActionLeaveDecide))
		deps.LeaveHandler.RegisterAdmin(adminLeaves)
	}

	if deps.ExamHandler != nil {
		exams := protected.Group("/exams")
		deps.ExamHandler.Register(exams)

		manageExams := protected.Group("/exams", middleware.RequirePermission(policy.ActionExamManage))
		deps.ExamHandler.RegisterManage(manageExams)
	}

	if deps.ResultHandler != nil {
		results := protected.Group("/results", middleware.RequirePermission(policy.ActionResultEnter))
		deps.ResultHandler.RegisterEntry(results)

		myResults := protected.Group("/me/results", middleware.RequireRole(models.RoleStudent))
		deps.ResultHandler.RegisterSelf(myResults)
	}

	if deps.DashboardHandler != nil {
		dashboard := protected.Group("/dashboard", middleware.RequirePermission(policy.ActionAttendanceMark))
		deps.DashboardHandler.Register(dashboard)

		adminDashboard := protected.Group("/admin/dashboard", middleware.RequirePermission(policy.ActionDashboardAdmin))
		deps.DashboardHandler.RegisterAdmin(adminDashboard)
	}
}
