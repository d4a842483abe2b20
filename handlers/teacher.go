package handlers

import (
	"github.com/gofiber/fiber/v2"

	"university-admin-system/middleware"
	"university-admin-system/services"
)

func SetupTeacherRoutes(app *fiber.App, teacherService *services.TeacherService) {
	secured := app.Group("/teacher", middleware.RequireAuth())

	secured.Get("/busy", teacherService.FindBusy)
	secured.Get("/filter-advanced", teacherService.FilterAdvanced)

	secured.Get("/", teacherService.FindAll)
	secured.Get("/:id", teacherService.FindOne)
	secured.Patch("/:id", teacherService.Update)
	secured.Delete("/:id", middleware.RequireRoles("ADMIN"), teacherService.Remove)
}
