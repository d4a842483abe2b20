package handlers

import (
	"github.com/gofiber/fiber/v2"

	"university-admin-system/middleware"
	"university-admin-system/services"
)

func SetupSubjectRoutes(app *fiber.App, subjectService *services.SubjectService) {
	secured := app.Group("/subject", middleware.RequireAuth())

	secured.Get("/by-career/:careerId", subjectService.FindByCareer)

	secured.Post("/", middleware.RequireRoles("ADMIN"), subjectService.Create)
	secured.Get("/", subjectService.FindAll)
	secured.Get("/:id", subjectService.FindOne)
	secured.Patch("/:id", middleware.RequireRoles("ADMIN"), subjectService.Update)
	secured.Delete("/:id", middleware.RequireRoles("ADMIN"), subjectService.Remove)
}
