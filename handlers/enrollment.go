package handlers

import (
	"github.com/gofiber/fiber/v2"

	"university-admin-system/middleware"
	"university-admin-system/services"
)

func SetupEnrollmentRoutes(app *fiber.App, enrollmentService *services.EnrollmentService) {
	secured := app.Group("/enrollment", middleware.RequireAuth())
	secured.Post("/:studentId/:subjectId", enrollmentService.EnrollHandler)
}
