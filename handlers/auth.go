package handlers

import (
	"github.com/gofiber/fiber/v2"

	"university-admin-system/services"
)

func SetupAuthRoutes(app *fiber.App, authService *services.AuthService) {
	auth := app.Group("/auth")
	auth.Post("/register/student", authService.RegisterStudentHandler)
	auth.Post("/register/teacher", authService.RegisterTeacherHandler)
	auth.Post("/login", authService.LoginHandler)
	auth.Post("/refresh", authService.RefreshHandler)
}
