package handlers

import (
	"github.com/gofiber/fiber/v2"

	"university-admin-system/middleware"
	"university-admin-system/services"
)

func SetupStudentSubjectRoutes(app *fiber.App, studentSubjectService *services.StudentSubjectService) {
	secured := app.Group("/student-subject", middleware.RequireAuth(), middleware.RequireRoles("ADMIN"))

	secured.Post("/", studentSubjectService.Create)
	secured.Get("/", studentSubjectService.FindAll)
	secured.Get("/:id", studentSubjectService.FindOne)
	secured.Patch("/:id", studentSubjectService.Update)
	secured.Delete("/:id", studentSubjectService.Remove)
}
