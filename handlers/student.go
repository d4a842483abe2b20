package handlers

import (
	"github.com/gofiber/fiber/v2"

	"university-admin-system/middleware"
	"university-admin-system/services"
)

func SetupStudentRoutes(app *fiber.App, studentService *services.StudentService) {
	secured := app.Group("/student", middleware.RequireAuth())

	// Fixed paths before the :id wildcards.
	secured.Get("/active-with-career", studentService.FindActiveWithCareer)
	secured.Get("/report", studentService.Report)
	secured.Get("/search-advanced", studentService.SearchAdvanced)

	secured.Get("/", studentService.FindAll)
	secured.Get("/:id/enrollments/:cycleId", studentService.FindEnrollments)
	secured.Get("/:id", studentService.FindOne)
	secured.Patch("/:id", studentService.Update)
	secured.Delete("/:id", middleware.RequireRoles("ADMIN"), studentService.Remove)
}
