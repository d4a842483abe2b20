package handlers

import (
	"github.com/gofiber/fiber/v2"

	"university-admin-system/middleware"
	"university-admin-system/services"
)

func SetupSpecialityRoutes(app *fiber.App, specialityService *services.SpecialityService) {
	secured := app.Group("/speciality", middleware.RequireAuth())

	secured.Post("/", middleware.RequireRoles("ADMIN"), specialityService.Create)
	secured.Get("/", specialityService.FindAll)
	secured.Get("/:id", specialityService.FindOne)
	secured.Patch("/:id", middleware.RequireRoles("ADMIN"), specialityService.Update)
	secured.Delete("/:id", middleware.RequireRoles("ADMIN"), specialityService.Remove)
}
